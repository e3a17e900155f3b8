// Package flow runs named steps in sequence and records each execution
// in the project run log.
//
// A flow is a straight line of steps sharing one Run. Steps exchange
// values through the run stash, register assets through the project
// handle bound to the run, and append notes to the run card. The runner
// persists a run record when the flow starts and again when it reaches
// a terminal status, together with a Markdown card.
package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/project"
	"go.uber.org/zap"
)

// terminalPersistTimeout bounds the writes of the terminal run record
// and card, issued on a context detached from the run context
const terminalPersistTimeout = 30 * time.Second

// StepFunc is the body of a single flow step
type StepFunc func(ctx context.Context, run *Run) error

// Step is a named unit of work within a flow
type Step struct {
	Name string
	Run  StepFunc
}

// Flow is an ordered list of steps executed under one run record
type Flow struct {
	Name  string
	Steps []Step
}

// Option is a functor to configure a flow execution
type Option func(*settings)

type settings struct {
	l     *zap.Logger
	clock func() time.Time
}

// Logger sets the logger for the run
func Logger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.l = l
		}
	}
}

// WithClock overrides the time source for run records
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func defaultSettings() settings {
	return settings{
		l:     zap.NewNop(),
		clock: model.GetRunTimeStamp,
	}
}

// Execute runs the flow steps in order, fail-fast, against a project
// handle. The returned descriptor reflects the terminal run status and
// is persisted in the run log together with a run card, best effort on
// failure paths.
func (f *Flow) Execute(ctx context.Context, p *project.Project, opts ...Option) (model.RunDescriptor, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}

	descriptor := model.RunDescriptor{
		Flow:        f.Name,
		ID:          model.NewRunID(),
		Project:     p.Name(),
		Branch:      p.Scope().WriteBranch,
		Status:      model.RunStatusRunning,
		StartedAt:   settings.clock(),
		Contributor: p.Contributor(),
	}
	l := settings.l.With(
		zap.String("flow", f.Name),
		zap.String("run_id", descriptor.ID),
	)

	reg := p.Registry()
	if err := reg.PutRun(ctx, descriptor); err != nil {
		return descriptor, err
	}
	l.Info("run started", zap.String("branch", descriptor.Branch))

	run := &Run{
		id:      descriptor.ID,
		flow:    f,
		project: p,
		l:       l,
		stash:   make(map[string]interface{}),
	}

	var flowErr error
	for _, step := range f.Steps {
		run.step = step.Name
		record := model.StepRecord{
			Name:      step.Name,
			Status:    model.RunStatusRunning,
			StartedAt: settings.clock(),
		}
		l.Info("step started", zap.String("step", step.Name))

		err := ctx.Err()
		if err == nil {
			err = step.Run(ctx, run)
		}
		record.FinishedAt = settings.clock()
		if err != nil {
			record.Status = model.RunStatusFailed
			record.Error = err.Error()
			descriptor.Steps = append(descriptor.Steps, record)
			flowErr = fmt.Errorf("step %q failed: %w", step.Name, err)
			l.Error("step failed", zap.String("step", step.Name), zap.Error(err))
			break
		}
		record.Status = model.RunStatusSucceeded
		descriptor.Steps = append(descriptor.Steps, record)
		l.Info("step finished", zap.String("step", step.Name))
	}

	descriptor.FinishedAt = settings.clock()
	if flowErr != nil {
		descriptor.Status = model.RunStatusFailed
	} else {
		descriptor.Status = model.RunStatusSucceeded
	}

	// the terminal record persists even when the run context was
	// cancelled, otherwise the run log keeps reporting it as running
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalPersistTimeout)
	defer cancel()

	if err := reg.PutRun(persistCtx, descriptor); err != nil {
		if flowErr == nil {
			flowErr = err
		} else {
			l.Error("cannot persist run record", zap.Error(err))
		}
	}
	if err := reg.PutRunCard(persistCtx, f.Name, descriptor.ID, buildCard(descriptor, run.notes)); err != nil {
		if flowErr == nil {
			flowErr = err
		} else {
			l.Error("cannot persist run card", zap.Error(err))
		}
	}

	l.Info("run finished", zap.String("status", string(descriptor.Status)))
	return descriptor, flowErr
}
