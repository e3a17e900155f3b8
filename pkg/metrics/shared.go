package metrics

import (
	"time"

	"go.opencensus.io/stats"
)

// UsageMetrics is a common set of metrics reporting about usage
type UsageMetrics struct {
	Count    *stats.Int64Measure
	Failures *stats.Int64Measure
	Timing   *stats.Float64Measure
}

func (u *UsageMetrics) tags(method string) map[string]string {
	return map[string]string{"kind": "usage", "method": method}
}

// Inc records the usage of some method, without timings or failure reporting
func (u *UsageMetrics) Inc(method string) {
	Inc(u.Count, u.tags(method))
}

// Used records usage of some instrumented entry point
func (u *UsageMetrics) Used(start time.Time, method string) {
	Since(start, u.Timing, u.tags(method))
	Inc(u.Count, u.tags(method))
}

// UsedAll records usage of some instrumented entry point with failures, in one go.
//
// Example:
//
//	func (m *myType) MyInstrumentedFunc() (err error) {
//	  defer func(start time.Time) {
//	    myUsageMetrics.UsedAll(start, "MyInstrumentedFunc")(err)
//	  }(time.Now())
//	  ...
//	}
func (u *UsageMetrics) UsedAll(start time.Time, method string) func(error) {
	return func(err error) {
		Since(start, u.Timing, u.tags(method))
		Inc(u.Count, u.tags(method))
		if err != nil {
			Inc(u.Failures, u.tags(method))
		}
	}
}

// Failed records a failure on some instrumented entry point
func (u *UsageMetrics) Failed(method string) {
	Inc(u.Failures, u.tags(method))
}

// IOMetrics is a common set of metrics reporting about IO activity
type IOMetrics struct {
	Count        *stats.Int64Measure
	Failures     *stats.Int64Measure
	Timing       *stats.Float64Measure
	IOSize       *stats.Int64Measure
	IOThroughput *stats.Float64Measure
}

func (n *IOMetrics) tags(operation string) map[string]string {
	return map[string]string{"kind": "io", "operation": operation}
}

// Size records the size of some IO operation. Zero sizes are not recorded.
func (n *IOMetrics) Size(size int64, operation string) {
	if size == 0 {
		return
	}
	Int64(n.IOSize, size, n.tags(operation))
}

// Failed records a failure on some IO operation
func (n *IOMetrics) Failed(operation string) {
	Inc(n.Failures, n.tags(operation))
}

// Throughput records the throughput of a successful, non-empty, IO
// operation, in bytes per second
func (n *IOMetrics) Throughput(start, end time.Time, size int64, operation string) {
	if size == 0 {
		return
	}
	elapsed := end.Sub(start)
	if elapsed == 0 {
		return
	}
	rate := float64(size) / (float64(elapsed) / 1e9)
	Float64(n.IOThroughput, rate, n.tags(operation))
}

// IORecord records all metrics for an IO operation in one go.
//
// Example with deferred error capture:
//
//	func (m *myType) MyInstrumentedFunc() {
//	  var (
//	    size int64
//	    err  error
//	  )
//	  defer func(start time.Time) {
//	    myIOMetrics.IORecord(start, "read")(size, err)
//	  }(time.Now())
//	  ...
//	}
func (n *IOMetrics) IORecord(start time.Time, operation string) func(int64, error) {
	return func(size int64, err error) {
		now := time.Now()
		Duration(start, now, n.Timing, n.tags(operation))
		Inc(n.Count, n.tags(operation))
		n.Size(size, operation)
		if err != nil {
			Inc(n.Failures, n.tags(operation))
			return
		}
		n.Throughput(start, now, size, operation)
	}
}
