package umqtt

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryMetrics collects metrics into plain in-process values, sized for
// a single client connection. It backs tests and local inspection;
// production collectors implement Metrics against their own backend.
//
// Every instrument kind shares one storage shape: a guarded running
// value plus an observation count. Series are keyed by kind, metric name
// and a canonical rendering of the label set, so the same name with the
// same labels always lands on the same instrument.
type MemoryMetrics struct {
	mu     sync.Mutex
	series map[string]*memorySeries
}

// NewMemoryMetrics creates an empty in-memory metrics collector.
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{
		series: make(map[string]*memorySeries),
	}
}

// seriesKey renders a stable key. Label keys are sorted so the key does
// not depend on map iteration order.
func seriesKey(kind, name string, labels MetricLabels) string {
	if len(labels) == 0 {
		return kind + ":" + name
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte(',')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	return b.String()
}

func (m *MemoryMetrics) lookup(kind, name string, labels MetricLabels, create bool) *memorySeries {
	key := seriesKey(kind, name, labels)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.series[key]
	if !ok && create {
		s = &memorySeries{}
		m.series[key] = s
	}
	return s
}

// Counter returns the counter for name and labels, creating it on first
// use.
func (m *MemoryMetrics) Counter(name string, labels MetricLabels) Counter {
	return memoryCounter{m.lookup("counter", name, labels, true)}
}

// Gauge returns the gauge for name and labels, creating it on first use.
func (m *MemoryMetrics) Gauge(name string, labels MetricLabels) Gauge {
	return memoryGauge{m.lookup("gauge", name, labels, true)}
}

// Histogram returns the histogram for name and labels, creating it on
// first use.
func (m *MemoryMetrics) Histogram(name string, labels MetricLabels) Histogram {
	return memoryHistogram{m.lookup("histogram", name, labels, true)}
}

// GetCounter returns an existing counter, or nil when nothing has been
// recorded under that name and label set.
func (m *MemoryMetrics) GetCounter(name string, labels MetricLabels) Counter {
	if s := m.lookup("counter", name, labels, false); s != nil {
		return memoryCounter{s}
	}
	return nil
}

// GetGauge returns an existing gauge, or nil when absent.
func (m *MemoryMetrics) GetGauge(name string, labels MetricLabels) Gauge {
	if s := m.lookup("gauge", name, labels, false); s != nil {
		return memoryGauge{s}
	}
	return nil
}

// GetHistogram returns an existing histogram, or nil when absent.
func (m *MemoryMetrics) GetHistogram(name string, labels MetricLabels) Histogram {
	if s := m.lookup("histogram", name, labels, false); s != nil {
		return memoryHistogram{s}
	}
	return nil
}

// memorySeries is the storage behind every instrument kind. The count
// field only moves for histograms.
type memorySeries struct {
	mu    sync.Mutex
	value float64
	count uint64
}

func (s *memorySeries) add(delta float64) {
	s.mu.Lock()
	s.value += delta
	s.mu.Unlock()
}

func (s *memorySeries) set(value float64) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

func (s *memorySeries) observe(value float64) {
	s.mu.Lock()
	s.value += value
	s.count++
	s.mu.Unlock()
}

func (s *memorySeries) snapshot() (float64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.count
}

type memoryCounter struct {
	s *memorySeries
}

func (c memoryCounter) Inc() { c.s.add(1) }

func (c memoryCounter) Add(delta float64) { c.s.add(delta) }

func (c memoryCounter) Value() float64 {
	v, _ := c.s.snapshot()
	return v
}

type memoryGauge struct {
	s *memorySeries
}

func (g memoryGauge) Set(value float64) { g.s.set(value) }

func (g memoryGauge) Inc() { g.s.add(1) }

func (g memoryGauge) Dec() { g.s.add(-1) }

func (g memoryGauge) Add(delta float64) { g.s.add(delta) }

func (g memoryGauge) Sub(delta float64) { g.s.add(-delta) }

func (g memoryGauge) Value() float64 {
	v, _ := g.s.snapshot()
	return v
}

type memoryHistogram struct {
	s *memorySeries
}

func (h memoryHistogram) Observe(value float64) { h.s.observe(value) }

func (h memoryHistogram) ObserveDuration(d time.Duration) { h.s.observe(d.Seconds()) }

func (h memoryHistogram) Count() uint64 {
	_, c := h.s.snapshot()
	return c
}

func (h memoryHistogram) Sum() float64 {
	v, _ := h.s.snapshot()
	return v
}
