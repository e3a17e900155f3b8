package model

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v2"
)

// RunStatus qualifies the outcome of a flow run or of one of its steps
type RunStatus string

const (
	// RunStatusRunning marks a run or step still in progress
	RunStatusRunning RunStatus = "running"

	// RunStatusSucceeded marks a completed run or step
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusFailed marks a failed run or step
	RunStatusFailed RunStatus = "failed"
)

// RunDescriptor records one execution of a flow.
type RunDescriptor struct {
	Flow        string       `json:"flow" yaml:"flow"` // Name of the flow. Each execution of the same flow results in a new ID.
	ID          string       `json:"id" yaml:"id"`
	Project     string       `json:"project" yaml:"project"`
	Branch      string       `json:"branch" yaml:"branch"` // Branch written to by this run
	Status      RunStatus    `json:"status" yaml:"status"`
	StartedAt   time.Time    `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	FinishedAt  time.Time    `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
	Steps       []StepRecord `json:"steps,omitempty" yaml:"steps,omitempty"`
	Contributor Contributor  `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	_           struct{}
}

// StepRecord tracks the outcome of a single flow step
type StepRecord struct {
	Name       string    `json:"name" yaml:"name"`
	Status     RunStatus `json:"status" yaml:"status"`
	StartedAt  time.Time `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	_          struct{}
}

// RunDescriptors is a sortable slice of RunDescriptor, most recent first
// when IDs are ksuids.
type RunDescriptors []RunDescriptor

func (r RunDescriptors) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}
func (r RunDescriptors) Len() int {
	return len(r)
}
func (r RunDescriptors) Less(i, j int) bool {
	if r[i].Flow != r[j].Flow {
		return r[i].Flow < r[j].Flow
	}
	return r[i].ID < r[j].ID
}

// NewRunID mints the ksuid identifying one flow execution
func NewRunID() string {
	id, err := ksuid.NewRandom()
	if err != nil {
		panic(fmt.Sprintf("cannot generate random ksuid: %v", err))
	}
	return id.String()
}

// UnmarshalRun deserializes a run descriptor
func UnmarshalRun(b []byte) (*RunDescriptor, error) {
	if b == nil {
		return nil, fmt.Errorf("received nil run descriptor to unmarshal")
	}
	var r RunDescriptor
	err := yaml.Unmarshal(b, &r)
	return &r, err
}

// MarshalRun serializes a run descriptor
func MarshalRun(r *RunDescriptor) ([]byte, error) {
	return yaml.Marshal(r)
}

// ValidateRun checks a run descriptor before it is persisted
func ValidateRun(run RunDescriptor) error {
	var cause string
	if run.Flow == "" {
		cause += "Flow is empty. "
	}
	if run.ID == "" {
		cause += "ID is empty. "
	}
	if run.Project == "" {
		cause += "Project is empty. "
	}
	if run.Status == "" {
		cause += "Status is empty."
	}
	if cause != "" {
		return fmt.Errorf("validation failed, cause = %s", cause)
	}
	if _, err := ksuid.Parse(run.ID); err != nil {
		return fmt.Errorf("expected run id %q to be a ksuid: %v", run.ID, err)
	}
	return nil
}

// GetRunTimeStamp yields the reference time for run records
func GetRunTimeStamp() time.Time {
	return time.Now().UTC()
}
