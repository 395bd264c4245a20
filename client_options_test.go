package umqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := defaultOptions()

	assert.Empty(t, opts.clientID)
	assert.True(t, opts.cleanSession)
	assert.Equal(t, uint16(60), opts.keepAlive)
	assert.Equal(t, uint32(MaxPacketSizeDefault), opts.maxPacketSize)
	assert.Equal(t, 10*time.Second, opts.connectTimeout)
	assert.IsType(t, &TCPDialer{}, opts.dialer)
	assert.IsType(t, &NoOpLogger{}, opts.logger)
	assert.IsType(t, &NoOpMetrics{}, opts.metrics)
	assert.NotNil(t, opts.handler)
}

func TestApplyOptions(t *testing.T) {
	handler := func(_ *Client, _ any, _ Message) error { return nil }
	logger := NewStdLogger(nil, LogLevelNone)
	metrics := NewMemoryMetrics()
	dialer := &TLSDialer{}

	opts := applyOptions(
		WithClientID("client-1"),
		WithCleanSession(false),
		WithKeepAlive(30),
		WithCredentials("user", "pass"),
		WithWill("status/client-1", []byte("offline"), true, QoS1),
		WithDialer(dialer),
		WithConnectTimeout(time.Second),
		WithIOTimeout(2*time.Second),
		WithMaxPacketSize(MaxPacketSizeMinimal),
		WithMessageHandler(handler),
		WithUserdata("opaque"),
		WithLogger(logger),
		WithMetrics(metrics),
	)

	assert.Equal(t, "client-1", opts.clientID)
	assert.False(t, opts.cleanSession)
	assert.Equal(t, uint16(30), opts.keepAlive)
	assert.Equal(t, "user", opts.username)
	assert.Equal(t, []byte("pass"), opts.password)
	assert.Equal(t, "status/client-1", opts.willTopic)
	assert.Equal(t, []byte("offline"), opts.willPayload)
	assert.True(t, opts.willRetain)
	assert.Equal(t, QoS1, opts.willQoS)
	assert.Same(t, dialer, opts.dialer.(*TLSDialer))
	assert.Equal(t, time.Second, opts.connectTimeout)
	assert.Equal(t, 2*time.Second, opts.ioTimeout)
	assert.Equal(t, uint32(MaxPacketSizeMinimal), opts.maxPacketSize)
	assert.Equal(t, "opaque", opts.userdata)
	assert.Same(t, logger, opts.logger.(*StdLogger))
	assert.Same(t, metrics, opts.metrics.(*MemoryMetrics))
	require.NotNil(t, opts.handler)
}

func TestWithMaxPacketSizeClampsToProtocol(t *testing.T) {
	opts := applyOptions(WithMaxPacketSize(MaxPacketSizeProtocol + 1000))
	assert.Equal(t, uint32(MaxPacketSizeProtocol), opts.maxPacketSize)
}

func TestNilOptionValuesKeepDefaults(t *testing.T) {
	opts := applyOptions(
		WithDialer(nil),
		WithLogger(nil),
		WithMetrics(nil),
		WithMessageHandler(nil),
	)

	assert.NotNil(t, opts.dialer)
	assert.NotNil(t, opts.logger)
	assert.NotNil(t, opts.metrics)
	assert.NotNil(t, opts.handler)
}
