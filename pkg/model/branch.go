package model

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// BranchDescriptor records a branch namespace within a project. Branches
// are created lazily on first write.
type BranchDescriptor struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Project     string      `json:"project,omitempty" yaml:"project,omitempty"`
	Timestamp   time.Time   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Contributor Contributor `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	_           struct{}
}

// BranchDescriptors is a sortable slice of BranchDescriptor
type BranchDescriptors []BranchDescriptor

func (b BranchDescriptors) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}
func (b BranchDescriptors) Len() int {
	return len(b)
}
func (b BranchDescriptors) Less(i, j int) bool {
	return b[i].Name < b[j].Name
}

// Last branch descriptor in slice
func (b BranchDescriptors) Last() BranchDescriptor {
	return b[len(b)-1]
}

// UnmarshalBranch deserializes a branch descriptor
func UnmarshalBranch(b []byte) (*BranchDescriptor, error) {
	if b == nil {
		return nil, fmt.Errorf("received nil branch descriptor to unmarshal")
	}
	var d BranchDescriptor
	err := yaml.Unmarshal(b, &d)
	return &d, err
}

// MarshalBranch serializes a branch descriptor
func MarshalBranch(b *BranchDescriptor) ([]byte, error) {
	return yaml.Marshal(b)
}

// SanitizeBranchName maps a logical branch name to its storage form:
// lowercased, "@" spelled out as "_at_", any other character outside
// [a-z0-9_-] replaced by "_".
func SanitizeBranchName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == '@':
			b.WriteString("_at_")
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// IsProductionBranch tells whether a logical branch name denotes a
// production namespace ("prod" or any "prod.<variant>").
func IsProductionBranch(name string) bool {
	return name == "prod" || strings.HasPrefix(name, "prod.")
}

// ValidateBranch checks a storage branch name
func ValidateBranch(name string) error {
	if name == "" {
		return fmt.Errorf("empty field: branch name is empty")
	}
	for i, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' && c != '-' {
			return fmt.Errorf("invalid name: branch name:%s contains unsupported character %q, sanitize first",
				name, string([]rune(name)[i]))
		}
	}
	return nil
}
