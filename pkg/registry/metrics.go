package registry

import (
	"sync"

	"github.com/obproject/obproject/pkg/metrics"
)

// M describes metrics for the registry package
type M struct {
	// Usage collects counts, failures and timings for registry entry points
	Usage *metrics.UsageMetrics

	// IO collects volumetry for payload transfers
	IO *metrics.IOMetrics
}

var (
	registryMetrics *M
	onceMetrics     sync.Once
)

func getMetrics() *M {
	onceMetrics.Do(func() {
		registryMetrics = &M{
			Usage: metrics.NewUsageMetrics("registry"),
			IO:    metrics.NewIOMetrics("registry"),
		}
	})
	return registryMetrics
}
