package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/obproject/obproject/pkg/model"
)

const cardTimeFormat = time.RFC3339

// buildCard renders the Markdown run card persisted next to the run record
func buildCard(descriptor model.RunDescriptor, notes []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s run %s\n\n", descriptor.Flow, descriptor.ID)
	fmt.Fprintf(&b, "- project: %s\n", descriptor.Project)
	fmt.Fprintf(&b, "- branch: %s\n", descriptor.Branch)
	fmt.Fprintf(&b, "- status: %s\n", descriptor.Status)
	fmt.Fprintf(&b, "- started: %s\n", descriptor.StartedAt.Format(cardTimeFormat))
	fmt.Fprintf(&b, "- finished: %s\n", descriptor.FinishedAt.Format(cardTimeFormat))
	if len(descriptor.Steps) > 0 {
		b.WriteString("\n## Steps\n\n")
		b.WriteString("| step | status | error |\n")
		b.WriteString("|------|--------|-------|\n")
		for _, step := range descriptor.Steps {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", step.Name, step.Status, step.Error)
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, note := range notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}
	return []byte(b.String())
}
