package umqtt

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMetricsCounter(t *testing.T) {
	m := NewMemoryMetrics()

	c := m.Counter("requests", nil)
	c.Inc()
	c.Add(2.5)
	assert.Equal(t, 3.5, c.Value())

	// Same name and labels return the same counter.
	again := m.Counter("requests", nil)
	again.Inc()
	assert.Equal(t, 4.5, c.Value())
}

func TestMemoryMetricsCounterLabels(t *testing.T) {
	m := NewMemoryMetrics()

	a := m.Counter("packets", MetricLabels{LabelPacketType: "PUBLISH"})
	b := m.Counter("packets", MetricLabels{LabelPacketType: "PUBACK"})

	a.Inc()
	a.Inc()
	b.Inc()

	assert.Equal(t, float64(2), a.Value())
	assert.Equal(t, float64(1), b.Value())
}

func TestMemoryMetricsGauge(t *testing.T) {
	m := NewMemoryMetrics()

	g := m.Gauge("inflight", nil)
	g.Set(10)
	g.Inc()
	g.Dec()
	g.Add(5)
	g.Sub(2)
	assert.Equal(t, float64(13), g.Value())
}

func TestMemoryMetricsHistogram(t *testing.T) {
	m := NewMemoryMetrics()

	h := m.Histogram("latency", nil)
	h.Observe(0.5)
	h.Observe(1.5)
	h.ObserveDuration(2 * time.Second)

	assert.Equal(t, uint64(3), h.Count())
	assert.InDelta(t, 4.0, h.Sum(), 0.001)
}

func TestMemoryMetricsGetters(t *testing.T) {
	m := NewMemoryMetrics()

	assert.Nil(t, m.GetCounter("missing", nil))
	assert.Nil(t, m.GetGauge("missing", nil))
	assert.Nil(t, m.GetHistogram("missing", nil))

	m.Counter("present", nil).Inc()
	require.NotNil(t, m.GetCounter("present", nil))
	assert.Equal(t, float64(1), m.GetCounter("present", nil).Value())
}

func TestMemoryMetricsConcurrent(t *testing.T) {
	m := NewMemoryMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Counter("concurrent", nil).Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(1000), m.GetCounter("concurrent", nil).Value())
}
