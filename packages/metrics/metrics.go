// Package metrics collects latency statistics for repeated request runs.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector aggregates request outcomes and latencies.
type Collector struct {
	mu sync.Mutex

	total   atomic.Int64
	success atomic.Int64
	errors  atomic.Int64

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram

	start time.Time
}

// NewCollector creates a Collector.
func NewCollector() *Collector {
	return &Collector{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(1, 60_000_000, 3),
		start:     time.Now(),
	}
}

// Record records a single request outcome.
func (c *Collector) Record(duration time.Duration, err error) {
	c.total.Add(1)

	if err != nil {
		c.errors.Add(1)
	} else {
		c.success.Add(1)
	}

	latencyUs := duration.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > 60_000_000 {
		latencyUs = 60_000_000
	}

	c.mu.Lock()
	_ = c.histogram.RecordValue(latencyUs)
	c.mu.Unlock()
}

// Summary is the aggregate view of a run.
type Summary struct {
	Duration time.Duration
	Total    int64
	Success  int64
	Errors   int64
	RPS      float64

	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// Summary returns the aggregated statistics since the collector was created.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.start)
	total := c.total.Load()

	rps := float64(0)
	if elapsed.Seconds() > 0 {
		rps = float64(total) / elapsed.Seconds()
	}

	return Summary{
		Duration: elapsed,
		Total:    total,
		Success:  c.success.Load(),
		Errors:   c.errors.Load(),
		RPS:      rps,
		P50:      time.Duration(c.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:      time.Duration(c.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:      time.Duration(c.histogram.ValueAtQuantile(99)) * time.Microsecond,
		Min:      time.Duration(c.histogram.Min()) * time.Microsecond,
		Max:      time.Duration(c.histogram.Max()) * time.Microsecond,
		Mean:     time.Duration(c.histogram.Mean()) * time.Microsecond,
	}
}
