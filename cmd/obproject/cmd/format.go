package cmd

import (
	"text/template"

	"github.com/docker/go-units"
)

// descriptor rendering: each descriptor type has a default one-line
// template, overridden globally by the --format flag

var templateFuncs = template.FuncMap{
	"human": func(size int64) string {
		return units.HumanSize(float64(size))
	},
}

func mustTemplate(name, fallback string, flags flagsT) *template.Template {
	if flags.core.Template != "" {
		t, err := template.New(name).Funcs(templateFuncs).Parse(flags.core.Template)
		if err == nil {
			return t
		}
		wrapFatalln("invalid go template", err)
	}
	return template.Must(template.New(name).Funcs(templateFuncs).Parse(fallback))
}

func projectDescriptorTemplate(flags flagsT) *template.Template {
	const fallback = `{{.Name}} , {{.Description}} , {{.Contributor.Name}} , {{.Contributor.Email}} , {{.Timestamp}}`
	return mustTemplate("project", fallback, flags)
}

func assetDescriptorTemplate(flags flagsT) *template.Template {
	const fallback = `{{.Kind}}/{{.Name}} , {{.ID}} , {{human .Size}} , {{.Branch}} , {{.Timestamp}} , {{.Workflow.Pathspec}}`
	return mustTemplate("asset", fallback, flags)
}

func runDescriptorTemplate(flags flagsT) *template.Template {
	const fallback = `{{.Flow}} , {{.ID}} , {{.Status}} , {{.Branch}} , {{.StartedAt}} , {{.FinishedAt}}`
	return mustTemplate("run", fallback, flags)
}
