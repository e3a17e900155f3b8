package cmd

import (
	"time"

	"github.com/obproject/obproject/pkg/metrics"
)

type metricsFlags struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"` // pointer because we want to distinguish unset from false
	m       *M
}

func (m metricsFlags) IsEnabled() bool {
	return m.Enabled != nil && *m.Enabled
}

// M describes metrics for the cmd package
type M struct {
	Usage *metrics.UsageMetrics
}

func cliMetrics() *M {
	return &M{
		Usage: metrics.NewUsageMetrics("cli"),
	}
}

// cliUsage records a usage metric for one CLI command in a single go.
// This is intended to be used in some defer statement.
//
// Metrics are flushed as soon as the command is done.
func cliUsage(t0 time.Time, command string, err error) {
	if obprojectFlags.root.metrics.IsEnabled() {
		if obprojectFlags.root.metrics.m == nil {
			obprojectFlags.root.metrics.m = cliMetrics()
		}
		obprojectFlags.root.metrics.m.Usage.UsedAll(t0, command)(err)
		metrics.Flush()
	}
}
