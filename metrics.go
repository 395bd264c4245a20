package umqtt

import (
	"time"
)

// MetricType represents the type of metric.
type MetricType int

const (
	// MetricTypeCounter is a monotonically increasing counter.
	MetricTypeCounter MetricType = 0
	// MetricTypeGauge is a value that can go up and down.
	MetricTypeGauge MetricType = 1
	// MetricTypeHistogram tracks distribution of values.
	MetricTypeHistogram MetricType = 2
)

// String returns the string representation of the metric type.
func (t MetricType) String() string {
	switch t {
	case MetricTypeCounter:
		return "counter"
	case MetricTypeGauge:
		return "gauge"
	case MetricTypeHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// MetricLabels represents key-value pairs for metric labels.
type MetricLabels map[string]string

// Metrics defines the interface for collecting metrics.
type Metrics interface {
	// Counter returns a counter metric.
	Counter(name string, labels MetricLabels) Counter

	// Gauge returns a gauge metric.
	Gauge(name string, labels MetricLabels) Gauge

	// Histogram returns a histogram metric.
	Histogram(name string, labels MetricLabels) Histogram
}

// Counter is a monotonically increasing counter.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()

	// Add adds the given value to the counter.
	Add(delta float64)

	// Value returns the current value.
	Value() float64
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	// Set sets the gauge to the given value.
	Set(value float64)

	// Inc increments the gauge by 1.
	Inc()

	// Dec decrements the gauge by 1.
	Dec()

	// Add adds the given value to the gauge.
	Add(delta float64)

	// Sub subtracts the given value from the gauge.
	Sub(delta float64)

	// Value returns the current value.
	Value() float64
}

// Histogram tracks the distribution of values.
type Histogram interface {
	// Observe records a value.
	Observe(value float64)

	// ObserveDuration records a duration in seconds.
	ObserveDuration(d time.Duration)

	// Count returns the number of observations.
	Count() uint64

	// Sum returns the sum of all observations.
	Sum() float64
}

// NoOpMetrics is a no-op implementation of Metrics.
type NoOpMetrics struct{}

// Counter returns a no-op counter.
func (n *NoOpMetrics) Counter(_ string, _ MetricLabels) Counter {
	return &noOpCounter{}
}

// Gauge returns a no-op gauge.
func (n *NoOpMetrics) Gauge(_ string, _ MetricLabels) Gauge {
	return &noOpGauge{}
}

// Histogram returns a no-op histogram.
func (n *NoOpMetrics) Histogram(_ string, _ MetricLabels) Histogram {
	return &noOpHistogram{}
}

type noOpCounter struct{}

func (n *noOpCounter) Inc()           {}
func (n *noOpCounter) Add(_ float64)  {}
func (n *noOpCounter) Value() float64 { return 0 }

type noOpGauge struct{}

func (n *noOpGauge) Set(_ float64)  {}
func (n *noOpGauge) Inc()           {}
func (n *noOpGauge) Dec()           {}
func (n *noOpGauge) Add(_ float64)  {}
func (n *noOpGauge) Sub(_ float64)  {}
func (n *noOpGauge) Value() float64 { return 0 }

type noOpHistogram struct{}

func (n *noOpHistogram) Observe(_ float64)               {}
func (n *noOpHistogram) ObserveDuration(_ time.Duration) {}
func (n *noOpHistogram) Count() uint64                   { return 0 }
func (n *noOpHistogram) Sum() float64                    { return 0 }

// Standard metric names for MQTT clients.
const (
	// MetricPacketsSent is the total number of packets sent, by type.
	MetricPacketsSent = "mqtt_packets_sent_total"

	// MetricPacketsReceived is the total number of packets received, by type.
	MetricPacketsReceived = "mqtt_packets_received_total"

	// MetricMessagesPublished is the total number of application messages published.
	MetricMessagesPublished = "mqtt_messages_published_total"

	// MetricMessagesDelivered is the total number of inbound messages handed to the handler.
	MetricMessagesDelivered = "mqtt_messages_delivered_total"

	// MetricInFlight is the current number of unacknowledged QoS 1 publishes.
	MetricInFlight = "mqtt_inflight_publishes"

	// MetricConnects is the total number of connection attempts.
	MetricConnects = "mqtt_connects_total"

	// MetricConnectLatency is the connect handshake latency in seconds.
	MetricConnectLatency = "mqtt_connect_latency_seconds"
)

// Standard metric label names.
const (
	// LabelPacketType is the packet type label.
	LabelPacketType = "packet_type"
)

// ClientMetrics provides typed helpers for common client metrics.
type ClientMetrics struct {
	metrics Metrics
}

// NewClientMetrics creates a new client metrics helper.
func NewClientMetrics(metrics Metrics) *ClientMetrics {
	if metrics == nil {
		metrics = &NoOpMetrics{}
	}
	return &ClientMetrics{metrics: metrics}
}

// PacketSent records a sent packet.
func (c *ClientMetrics) PacketSent(packetType PacketType) {
	labels := MetricLabels{LabelPacketType: packetType.String()}
	c.metrics.Counter(MetricPacketsSent, labels).Inc()
}

// PacketReceived records a received packet.
func (c *ClientMetrics) PacketReceived(packetType PacketType) {
	labels := MetricLabels{LabelPacketType: packetType.String()}
	c.metrics.Counter(MetricPacketsReceived, labels).Inc()
}

// MessagePublished records a published application message.
func (c *ClientMetrics) MessagePublished() {
	c.metrics.Counter(MetricMessagesPublished, nil).Inc()
}

// MessageDelivered records an inbound message handed to the handler.
func (c *ClientMetrics) MessageDelivered() {
	c.metrics.Counter(MetricMessagesDelivered, nil).Inc()
}

// InFlightSet sets the current in-flight publish count.
func (c *ClientMetrics) InFlightSet(n int) {
	c.metrics.Gauge(MetricInFlight, nil).Set(float64(n))
}

// ConnectAttempt records a connection attempt.
func (c *ClientMetrics) ConnectAttempt() {
	c.metrics.Counter(MetricConnects, nil).Inc()
}

// ConnectLatency records the connect handshake duration.
func (c *ClientMetrics) ConnectLatency(d time.Duration) {
	c.metrics.Histogram(MetricConnectLatency, nil).ObserveDuration(d)
}
