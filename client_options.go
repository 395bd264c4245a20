package umqtt

import (
	"fmt"
	"time"
)

// Packet size limits for inbound packets.
const (
	// MaxPacketSizeProtocol is the largest packet the wire format can express.
	MaxPacketSizeProtocol = maxRemainingLen + 5

	// MaxPacketSizeDefault is the default inbound packet size limit (4MB).
	MaxPacketSizeDefault = 4 * 1024 * 1024

	// MaxPacketSizeMinimal suits constrained devices (16KB).
	MaxPacketSizeMinimal = 16 * 1024
)

// MessageHandler processes an inbound PUBLISH delivered to the client.
// Returning an error stops the read loop and propagates the error to the caller.
type MessageHandler func(client *Client, userdata any, msg Message) error

// clientOptions holds configuration for a Client.
type clientOptions struct {
	// Connection settings
	clientID     string
	username     string
	password     []byte
	keepAlive    uint16
	cleanSession bool

	// Will message
	willTopic   string
	willPayload []byte
	willRetain  bool
	willQoS     byte

	// Transport
	dialer Dialer

	// Timeouts
	connectTimeout time.Duration
	ioTimeout      time.Duration

	// Limits
	maxPacketSize uint32

	// Delivery
	handler  MessageHandler
	userdata any

	// Observability
	logger  Logger
	metrics Metrics
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() *clientOptions {
	return &clientOptions{
		keepAlive:      60,
		cleanSession:   true,
		dialer:         &TCPDialer{},
		connectTimeout: 10 * time.Second,
		ioTimeout:      5 * time.Second,
		maxPacketSize:  MaxPacketSizeDefault,
		handler:        defaultMessageHandler,
		logger:         NewNoOpLogger(),
		metrics:        &NoOpMetrics{},
	}
}

// defaultMessageHandler prints inbound messages to stdout.
func defaultMessageHandler(_ *Client, _ any, msg Message) error {
	fmt.Printf("%s: %s\n", msg.Topic, msg.Payload)
	return nil
}

// Option configures a Client.
type Option func(*clientOptions)

// applyOptions builds a clientOptions from defaults plus the given options.
func applyOptions(opts ...Option) *clientOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithClientID sets the client identifier.
// An empty client ID requires a clean session.
func WithClientID(id string) Option {
	return func(o *clientOptions) {
		o.clientID = id
	}
}

// WithCredentials sets the username and password for authentication.
func WithCredentials(username, password string) Option {
	return func(o *clientOptions) {
		o.username = username
		o.password = []byte(password)
	}
}

// WithKeepAlive sets the keep-alive interval in seconds.
// Zero disables the keep-alive mechanism.
func WithKeepAlive(seconds uint16) Option {
	return func(o *clientOptions) {
		o.keepAlive = seconds
	}
}

// WithCleanSession sets whether to request a clean session on connect.
func WithCleanSession(clean bool) Option {
	return func(o *clientOptions) {
		o.cleanSession = clean
	}
}

// WithWill sets the Will message published by the broker if the client
// disconnects unexpectedly.
func WithWill(topic string, payload []byte, retain bool, qos byte) Option {
	return func(o *clientOptions) {
		o.willTopic = topic
		o.willPayload = payload
		o.willRetain = retain
		o.willQoS = qos
	}
}

// WithDialer sets the transport dialer. The default is a plain TCP dialer.
func WithDialer(dialer Dialer) Option {
	return func(o *clientOptions) {
		if dialer != nil {
			o.dialer = dialer
		}
	}
}

// WithConnectTimeout sets the timeout for the connect handshake.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.connectTimeout = d
	}
}

// WithIOTimeout sets the timeout for individual reads and writes on the
// connection. Zero disables I/O deadlines.
func WithIOTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.ioTimeout = d
	}
}

// WithMaxPacketSize sets the maximum inbound packet size the client will
// accept. Values exceeding MaxPacketSizeProtocol are clamped.
func WithMaxPacketSize(size uint32) Option {
	return func(o *clientOptions) {
		if size > MaxPacketSizeProtocol {
			size = MaxPacketSizeProtocol
		}
		o.maxPacketSize = size
	}
}

// WithMessageHandler sets the handler invoked for inbound PUBLISH packets.
func WithMessageHandler(handler MessageHandler) Option {
	return func(o *clientOptions) {
		if handler != nil {
			o.handler = handler
		}
	}
}

// WithUserdata sets an opaque value passed to the message handler.
func WithUserdata(userdata any) Option {
	return func(o *clientOptions) {
		o.userdata = userdata
	}
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector. The default collects nothing.
func WithMetrics(metrics Metrics) Option {
	return func(o *clientOptions) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}
