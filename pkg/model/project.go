package model

import (
	"fmt"
	"time"
	"unicode"

	"gopkg.in/yaml.v2"
)

// ProjectDescriptor identifies a project owning assets, branches and runs.
type ProjectDescriptor struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Timestamp   time.Time   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Contributor Contributor `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	_           struct{}
}

// ProjectDescriptors is a sortable slice of ProjectDescriptor
type ProjectDescriptors []ProjectDescriptor

func (p ProjectDescriptors) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}
func (p ProjectDescriptors) Len() int {
	return len(p)
}
func (p ProjectDescriptors) Less(i, j int) bool {
	return p[i].Name < p[j].Name
}

// Last project descriptor in slice
func (p ProjectDescriptors) Last() ProjectDescriptor {
	return p[len(p)-1]
}

// UnmarshalProject deserializes a project descriptor
func UnmarshalProject(b []byte) (*ProjectDescriptor, error) {
	if b == nil {
		return nil, fmt.Errorf("received nil project descriptor to unmarshal")
	}
	var p ProjectDescriptor
	err := yaml.Unmarshal(b, &p)
	return &p, err
}

// MarshalProject serializes a project descriptor
func MarshalProject(p *ProjectDescriptor) ([]byte, error) {
	return yaml.Marshal(p)
}

// ValidateProject checks a project descriptor before it is persisted.
// Project names come from obproject.toml and may carry underscores.
func ValidateProject(project ProjectDescriptor) error {
	if project.Name == "" {
		return fmt.Errorf("empty field: project name is empty")
	}
	for i, c := range project.Name {
		if !unicode.IsDigit(c) && !unicode.IsLetter(c) && c != '_' && !unicode.Is(unicode.Hyphen, c) {
			return fmt.Errorf("invalid name: project name:%s contains unsupported character \"%s\"",
				project.Name,
				string([]rune(project.Name)[i]))
		}
	}
	return nil
}
