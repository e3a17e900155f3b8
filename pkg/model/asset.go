package model

import (
	"fmt"
	"time"
	"unicode"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v2"
)

// AssetDescriptor records one immutable version of a registered asset.
//
// The payload itself lives in the blob store under the Digest key. Each
// registration of the same (branch, kind, name) identity appends a new
// version; the head pointer names the latest one.
type AssetDescriptor struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Kind        Kind              `json:"kind" yaml:"kind"`
	Branch      string            `json:"branch" yaml:"branch"`
	Digest      string            `json:"digest" yaml:"digest"`
	Size        int64             `json:"size" yaml:"size"`
	ContentType string            `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Timestamp   time.Time         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Workflow    WorkflowRef       `json:"workflow,omitempty" yaml:"workflow,omitempty"`
	Contributor Contributor       `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	_           struct{}
}

// WorkflowRef identifies the flow execution that produced an asset version.
// All fields are empty for ad-hoc registrations from the CLI.
type WorkflowRef struct {
	Flow  string `json:"flow,omitempty" yaml:"flow,omitempty"`
	RunID string `json:"runId,omitempty" yaml:"runId,omitempty"`
	Step  string `json:"step,omitempty" yaml:"step,omitempty"`
	_     struct{}
}

// Pathspec renders a workflow reference as flow/runID/step
func (w WorkflowRef) Pathspec() string {
	if w.Flow == "" && w.RunID == "" && w.Step == "" {
		return ""
	}
	return fmt.Sprint(w.Flow, "/", w.RunID, "/", w.Step)
}

// Contributor who created the object
type Contributor struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	_     struct{}
}

func (c *Contributor) String() string {
	if c.Email == "" {
		return c.Name
	}
	if c.Name == "" {
		return c.Email
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}

// AssetDescriptors is a sortable slice of AssetDescriptor
type AssetDescriptors []AssetDescriptor

func (a AssetDescriptors) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}
func (a AssetDescriptors) Len() int {
	return len(a)
}
func (a AssetDescriptors) Less(i, j int) bool {
	if a[i].Kind != a[j].Kind {
		return a[i].Kind < a[j].Kind
	}
	return a[i].Name < a[j].Name
}

// Last asset descriptor in slice
func (a AssetDescriptors) Last() AssetDescriptor {
	return a[len(a)-1]
}

// NewVersionID mints the ksuid for a new asset version.
//
// ksuids sort lexicographically by creation time, so version listings
// come out in chronological order without extra bookkeeping.
func NewVersionID() string {
	id, err := ksuid.NewRandom()
	if err != nil {
		panic(fmt.Sprintf("cannot generate random ksuid: %v", err))
	}
	return id.String()
}

// UnmarshalAsset deserializes an asset version descriptor
func UnmarshalAsset(b []byte) (*AssetDescriptor, error) {
	if b == nil {
		return nil, fmt.Errorf("received nil asset descriptor to unmarshal")
	}
	var a AssetDescriptor
	err := yaml.Unmarshal(b, &a)
	return &a, err
}

// MarshalAsset serializes an asset version descriptor
func MarshalAsset(a *AssetDescriptor) ([]byte, error) {
	return yaml.Marshal(a)
}

// ValidateAssetName checks an asset name for use in metadata paths
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("empty field: asset name is empty")
	}
	for i, c := range name {
		if !unicode.IsDigit(c) && !unicode.IsLetter(c) && c != '_' && !unicode.Is(unicode.Hyphen, c) {
			return fmt.Errorf("invalid name: asset name:%s contains unsupported character \"%s\"",
				name,
				string([]rune(name)[i]))
		}
	}
	return nil
}

// ValidateAsset checks an asset version descriptor for completeness
func ValidateAsset(a AssetDescriptor) error {
	if err := ValidateAssetName(a.Name); err != nil {
		return err
	}
	if _, err := ParseKind(string(a.Kind)); err != nil {
		return err
	}
	if a.ID == "" {
		return fmt.Errorf("empty field: asset version id is empty")
	}
	if a.Digest == "" {
		return fmt.Errorf("empty field: asset digest is empty")
	}
	if _, err := ParseDigest(a.Digest); err != nil {
		return err
	}
	return nil
}
