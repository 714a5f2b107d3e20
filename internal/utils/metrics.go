// internal/utils/metrics.go
package utils

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector tracks request counters and latency summaries in memory.
// Counters use atomics; the process-global collector is shared between the
// HTTP middleware and the services that record fallback events.
type MetricsCollector struct {
	counters   map[string]*counter
	histograms map[string]*histogram
	startedAt  time.Time

	mu sync.RWMutex
}

type counter struct {
	value int64
}

// histogram is a simple latency summary: count, sum, min, max.
type histogram struct {
	count int64
	sum   int64
	min   int64
	max   int64
	mu    sync.Mutex
}

var (
	globalMetrics *MetricsCollector
	metricsOnce   sync.Once
)

// GetMetricsCollector returns the global metrics collector.
func GetMetricsCollector() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = &MetricsCollector{
			counters:   make(map[string]*counter),
			histograms: make(map[string]*histogram),
			startedAt:  time.Now(),
		}
	})
	return globalMetrics
}

// IncrCounter adds one to the named counter.
func (m *MetricsCollector) IncrCounter(name string) {
	atomic.AddInt64(&m.counter(name).value, 1)
}

// ObserveDuration records a latency sample under the named histogram.
func (m *MetricsCollector) ObserveDuration(name string, d time.Duration) {
	h := m.histogram(name)
	v := d.Milliseconds()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 || v < h.min {
		h.min = v
	}
	if v > h.max {
		h.max = v
	}
	h.count++
	h.sum += v
}

// Snapshot returns a JSON-friendly view of every metric.
func (m *MetricsCollector) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for name, c := range m.counters {
		counters[name] = atomic.LoadInt64(&c.value)
	}

	latencies := make(map[string]map[string]int64, len(m.histograms))
	for name, h := range m.histograms {
		h.mu.Lock()
		entry := map[string]int64{
			"count":  h.count,
			"sum_ms": h.sum,
			"min_ms": h.min,
			"max_ms": h.max,
		}
		if h.count > 0 {
			entry["avg_ms"] = h.sum / h.count
		}
		h.mu.Unlock()
		latencies[name] = entry
	}

	return map[string]interface{}{
		"uptime_seconds": int64(time.Since(m.startedAt).Seconds()),
		"counters":       counters,
		"latencies":      latencies,
	}
}

func (m *MetricsCollector) counter(name string) *counter {
	m.mu.RLock()
	c, ok := m.counters[name]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.counters[name]; ok {
		return c
	}
	c = &counter{}
	m.counters[name] = c
	return c
}

func (m *MetricsCollector) histogram(name string) *histogram {
	m.mu.RLock()
	h, ok := m.histograms[name]
	m.mu.RUnlock()
	if ok {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok = m.histograms[name]; ok {
		return h
	}
	h = &histogram{}
	m.histograms[name] = h
	return h
}
