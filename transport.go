package umqtt

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"net"
	"time"
)

// Conn represents a network connection carrying the MQTT byte stream.
type Conn interface {
	net.Conn
}

// Dialer establishes broker connections.
type Dialer interface {
	// Dial connects to the address with the given context.
	Dial(ctx context.Context, address string) (Conn, error)
}

// TCPDialer connects to MQTT brokers over TCP.
type TCPDialer struct {
	// Timeout is the maximum time to wait for a connection.
	// Zero means no timeout.
	Timeout time.Duration
}

// Dial connects to the address.
func (d *TCPDialer) Dial(ctx context.Context, address string) (Conn, error) {
	var dialer net.Dialer
	if d.Timeout > 0 {
		dialer.Timeout = d.Timeout
	}
	return dialer.DialContext(ctx, "tcp", address)
}

// TLSDialer connects to MQTT brokers over TLS.
type TLSDialer struct {
	// Config is the TLS configuration.
	Config *tls.Config

	// Timeout is the maximum time to wait for a connection.
	// Zero means no timeout.
	Timeout time.Duration
}

// Dial connects to the address.
func (d *TLSDialer) Dial(ctx context.Context, address string) (Conn, error) {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{
			Timeout: d.Timeout,
		},
		Config: d.Config,
	}
	return dialer.DialContext(ctx, "tcp", address)
}

// transport owns the single broker connection. It knows nothing about the
// protocol: it moves bytes, enforces the I/O deadline, and answers
// readiness polls.
type transport struct {
	conn      Conn
	br        *bufio.Reader
	ioTimeout time.Duration
}

func newTransport(conn Conn, ioTimeout time.Duration) *transport {
	return &transport{
		conn:      conn,
		br:        bufio.NewReader(conn),
		ioTimeout: ioTimeout,
	}
}

// Write sends the full buffer, applying the I/O deadline.
func (t *transport) Write(p []byte) (int, error) {
	if t.ioTimeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.ioTimeout)); err != nil {
			return 0, err
		}
	}
	return t.conn.Write(p)
}

// Read reads from the buffered stream, applying the I/O deadline.
func (t *transport) Read(p []byte) (int, error) {
	deadline := time.Time{}
	if t.ioTimeout > 0 {
		deadline = time.Now().Add(t.ioTimeout)
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	return t.br.Read(p)
}

// waitReadable reports whether at least one byte can be read without
// blocking beyond the timeout. A zero timeout checks buffered data and
// returns immediately.
func (t *transport) waitReadable(timeout time.Duration) (bool, error) {
	if t.br.Buffered() > 0 {
		return true, nil
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return false, err
	}

	_, err := t.br.Peek(1)
	if err == nil {
		return true, nil
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return false, nil
	}
	return false, err
}

func (t *transport) close() error {
	return t.conn.Close()
}

// withDefaultPort appends the default MQTT port when the address carries
// none.
func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, "1883")
}
