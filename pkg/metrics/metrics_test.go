package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"
)

// a single exporter for the whole package: Init settings are process-wide
var sharedExporter = newTestExporter()

type testExporter struct {
	mu   sync.Mutex
	seen map[string]int
}

func newTestExporter() *testExporter {
	return &testExporter{seen: make(map[string]int)}
}

func (e *testExporter) ExportView(d *view.Data) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen[d.View.Name] += len(d.Rows)
}

func (e *testExporter) rows(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seen[name]
}

func initMetrics() {
	Init(
		WithExporter(sharedExporter),
		WithBasePath("test"),
		WithReportingPeriod(time.Minute),
	)
}

func TestUsageMetrics(t *testing.T) {
	initMetrics()

	usage := NewUsageMetrics("registry")
	require.NotNil(t, usage.Count)
	require.NotNil(t, usage.Failures)
	require.NotNil(t, usage.Timing)

	usage.Inc("RegisterData")
	usage.Used(time.Now(), "GetData")
	usage.UsedAll(time.Now(), "GetModel")(errors.New("zork"))
	usage.UsedAll(time.Now(), "GetData")(nil)
	usage.Failed("RegisterModel")

	Flush()
	assert.NotZero(t, sharedExporter.rows(usage.Count.Name()))
	assert.NotZero(t, sharedExporter.rows(usage.Failures.Name()))
	assert.NotZero(t, sharedExporter.rows(usage.Timing.Name()))
}

func TestIOMetrics(t *testing.T) {
	initMetrics()

	ioMetrics := NewIOMetrics("registry/blob")

	start := time.Now().Add(-10 * time.Millisecond)
	ioMetrics.IORecord(start, "write")(1024, nil)
	ioMetrics.IORecord(start, "read")(0, errors.New("zork"))
	ioMetrics.Size(512, "write")
	ioMetrics.Size(0, "write") // not recorded
	ioMetrics.Throughput(start, time.Now(), 2048, "write")
	ioMetrics.Failed("read")

	Flush()
	assert.NotZero(t, sharedExporter.rows(ioMetrics.Count.Name()))
	assert.NotZero(t, sharedExporter.rows(ioMetrics.Failures.Name()))
}
