// Package metrics collects usage and IO metrics for registry operations,
// using opencensus measures and views.
//
// Measures are declared per package location with NewUsageMetrics and
// NewIOMetrics. Views register on first use; an exporter may be plugged
// with Init(WithExporter(...)) before any measure is recorded.
package metrics

import (
	"context"
	"path"
	"sync"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// global settings for metrics
	mp       *settings
	initOnce sync.Once

	kindKey      = tag.MustNewKey("kind")
	methodKey    = tag.MustNewKey("method")
	operationKey = tag.MustNewKey("operation")
)

type settings struct {
	basePath  string
	contexter func() context.Context
	exporter  view.Exporter
	allViews  []*view.View
	exclusive sync.Mutex
	d         time.Duration
}

func defaultSettings() *settings {
	return &settings{
		contexter: context.Background,
		// default reporting period is left to the opencensus default (10s)
	}
}

func newSettings(opts ...Option) *settings {
	s := defaultSettings()
	for _, apply := range opts {
		apply(s)
	}
	if s.exporter != nil {
		view.RegisterExporter(s.exporter)
	}
	if s.d >= time.Second {
		view.SetReportingPeriod(s.d)
	}
	return s
}

// Init global settings for metrics collection, such as global tags and
// exporter setup.
//
// Init may be called multiple times: only the first time matters.
func Init(opts ...Option) {
	initOnce.Do(func() {
		mp = newSettings(opts...)
	})
}

func active() *settings {
	Init()
	return mp
}

func (s *settings) location(parts ...string) string {
	return path.Join(append([]string{s.basePath}, parts...)...)
}

func (s *settings) registerViews(views ...*view.View) {
	s.exclusive.Lock()
	defer s.exclusive.Unlock()
	// duplicate registrations of a same view are no-ops
	_ = view.Register(views...)
	s.allViews = append(s.allViews, views...)
}

// Flush collects all remaining data for registered views and exports them
func Flush() {
	s := active()
	s.exclusive.Lock()
	defer s.exclusive.Unlock()
	if s.exporter == nil {
		return
	}
	for _, v := range s.allViews {
		rows, err := view.RetrieveData(v.Name)
		if err != nil {
			continue // ignore errors when pushing metrics
		}
		s.exporter.ExportView(&view.Data{
			View:  v,
			Start: time.Now(),
			End:   time.Now(),
			Rows:  rows,
		})
	}
}

func usageViews(u *UsageMetrics) []*view.View {
	return []*view.View{
		{
			Name:        u.Count.Name(),
			Description: u.Count.Description(),
			Measure:     u.Count,
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{kindKey, methodKey},
		},
		{
			Name:        u.Failures.Name(),
			Description: u.Failures.Description(),
			Measure:     u.Failures,
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{kindKey, methodKey},
		},
		{
			Name:        u.Timing.Name(),
			Description: u.Timing.Description(),
			Measure:     u.Timing,
			Aggregation: defaultLatencyDistribution(),
			TagKeys:     []tag.Key{kindKey, methodKey},
		},
	}
}

func ioViews(n *IOMetrics) []*view.View {
	return []*view.View{
		{
			Name:        n.Count.Name(),
			Description: n.Count.Description(),
			Measure:     n.Count,
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{kindKey, operationKey},
		},
		{
			Name:        n.Failures.Name(),
			Description: n.Failures.Description(),
			Measure:     n.Failures,
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{kindKey, operationKey},
		},
		{
			Name:        n.Timing.Name(),
			Description: n.Timing.Description(),
			Measure:     n.Timing,
			Aggregation: defaultLatencyDistribution(),
			TagKeys:     []tag.Key{kindKey, operationKey},
		},
		{
			Name:        n.IOSize.Name(),
			Description: n.IOSize.Description(),
			Measure:     n.IOSize,
			Aggregation: view.Sum(),
			TagKeys:     []tag.Key{kindKey, operationKey},
		},
		{
			Name:        n.IOThroughput.Name(),
			Description: n.IOThroughput.Description(),
			Measure:     n.IOThroughput,
			Aggregation: view.LastValue(),
			TagKeys:     []tag.Key{kindKey, operationKey},
		},
	}
}

func defaultLatencyDistribution() *view.Aggregation {
	return view.Distribution(1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 60000)
}

// NewUsageMetrics builds and registers the usage measures for one location
func NewUsageMetrics(location string) *UsageMetrics {
	s := active()
	base := s.location(location)
	u := &UsageMetrics{
		Count:    stats.Int64(path.Join(base, "usageCount"), "number of calls", stats.UnitDimensionless),
		Failures: stats.Int64(path.Join(base, "usageFailures"), "number of failed calls", stats.UnitDimensionless),
		Timing:   stats.Float64(path.Join(base, "timing"), "duration of a call in milliseconds", stats.UnitMilliseconds),
	}
	s.registerViews(usageViews(u)...)
	return u
}

// NewIOMetrics builds and registers the IO measures for one location
func NewIOMetrics(location string) *IOMetrics {
	s := active()
	base := s.location(location)
	n := &IOMetrics{
		Count:        stats.Int64(path.Join(base, "ioCount"), "number of IO requests", stats.UnitDimensionless),
		Failures:     stats.Int64(path.Join(base, "ioFailures"), "number of failed IOs", stats.UnitDimensionless),
		Timing:       stats.Float64(path.Join(base, "ioTiming"), "response time in milliseconds", stats.UnitMilliseconds),
		IOSize:       stats.Int64(path.Join(base, "ioSize"), "IO size in bytes", stats.UnitBytes),
		IOThroughput: stats.Float64(path.Join(base, "throughput"), "throughput of an unitary operation in bytes per second", stats.UnitDimensionless),
	}
	s.registerViews(ioViews(n)...)
	return n
}
