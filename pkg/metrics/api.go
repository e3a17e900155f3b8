package metrics

import (
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

// Inc increments a counter-like metric
func Inc(counter *stats.Int64Measure, tags ...map[string]string) {
	s := active()
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), counter.M(1))
}

// Int64 sets a value to a measurement
func Int64(measure *stats.Int64Measure, value int64, tags ...map[string]string) {
	s := active()
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), measure.M(value))
}

// Float64 sets a value to a measurement
func Float64(measure *stats.Float64Measure, value float64, tags ...map[string]string) {
	s := active()
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), measure.M(value))
}

// Since feeds a millisecs timing measurement from some start time
func Since(start time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	Duration(start, time.Now(), measure, tags...)
}

// Duration feeds a millisecs timing measurement from some start to end timings
func Duration(start, end time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	s := active()
	ms := float64(end.Sub(start).Nanoseconds()) / 1e6
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), measure.M(ms))
}

// mergeTags adds some dynamically defined tags to a single measurement
func mergeTags(extras []map[string]string) []tag.Mutator {
	mutators := make([]tag.Mutator, 0, 10)
	for _, extra := range extras {
		for k, v := range extra {
			mutators = append(mutators, tag.Upsert(tag.MustNewKey(k), v))
		}
	}
	return mutators
}

// Enable equips any type with the capability to toggle metrics collection.
//
// Sample usage:
//
//	type myType struct{
//	  ...
//	  metrics.Enable
//	  m *myMetrics // m points to the package metrics collector
//	}
//
//	t := &myType{}
//	t.EnableMetrics(true)
type Enable struct {
	metricsEnabled bool
}

// MetricsEnabled tells whether metrics are enabled or not
func (e Enable) MetricsEnabled() bool {
	return e.metricsEnabled
}

// EnableMetrics toggles metrics collection
func (e *Enable) EnableMetrics(enabled bool) {
	e.metricsEnabled = enabled
}
