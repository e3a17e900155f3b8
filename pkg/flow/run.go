package flow

import (
	"fmt"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/project"
	"go.uber.org/zap"
)

// Run is the execution context shared by the steps of one flow run
type Run struct {
	id      string
	flow    *Flow
	project *project.Project
	l       *zap.Logger
	stash   map[string]interface{}
	notes   []string
	step    string
}

// ID yields the ksuid of this run
func (r *Run) ID() string {
	return r.id
}

// Flow yields the name of the running flow
func (r *Run) Flow() string {
	return r.flow.Name
}

// Ref identifies the current step of this run, e.g. to stamp registered
// assets
func (r *Run) Ref() model.WorkflowRef {
	return model.WorkflowRef{Flow: r.flow.Name, RunID: r.id, Step: r.step}
}

// Pathspec renders the current step reference as flow/run/step
func (r *Run) Pathspec() string {
	return r.Ref().Pathspec()
}

// Project yields the project handle bound to the current step: assets
// registered through it carry the run reference
func (r *Run) Project() *project.Project {
	return r.project.Bound(r.Ref())
}

// Logger yields a logger scoped to the current step
func (r *Run) Logger() *zap.Logger {
	return r.l.With(zap.String("step", r.step))
}

// Stash keeps a value for later steps of the same run
func (r *Run) Stash(key string, value interface{}) {
	r.stash[key] = value
}

// Lookup retrieves a value stashed by an earlier step
func (r *Run) Lookup(key string) (interface{}, bool) {
	v, ok := r.stash[key]
	return v, ok
}

// Note appends a line to the run card
func (r *Run) Note(format string, args ...interface{}) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}
