package umqtt

import (
	"bytes"
	"context"
	"time"
)

// Client is an MQTT 3.1.1 client.
//
// The client runs on a single logical thread of control: it takes no
// internal locks, and callers that share a Client across goroutines must
// serialize access themselves. Inbound traffic is consumed by calling
// LoopRead, which polls the connection and dispatches packets; nothing is
// delivered in the background.
type Client struct {
	options *clientOptions
	logger  Logger
	metrics *ClientMetrics

	session *session
	tr      *transport

	addr           string
	connected      bool
	closed         bool
	sessionPresent bool
}

// NewClient creates a new client. It does not connect; call Connect.
func NewClient(opts ...Option) *Client {
	options := applyOptions(opts...)
	return &Client{
		options: options,
		logger:  options.logger,
		metrics: NewClientMetrics(options.metrics),
		session: newSession(),
	}
}

// ClientID returns the configured client identifier.
func (c *Client) ClientID() string {
	return c.options.clientID
}

// Connected reports whether the last known connection state is up.
func (c *Client) Connected() bool {
	return c.connected
}

// SessionPresent reports the session-present flag from the last CONNACK.
func (c *Client) SessionPresent() bool {
	return c.sessionPresent
}

// PendingAcks returns a copy of the QoS 1 publishes still awaiting PUBACK,
// oldest first. The client never retries these on its own; resend them
// with Republish if needed.
func (c *Client) PendingAcks() []InFlightPublish {
	return c.session.pending()
}

// SetMessageHandler replaces the handler invoked for inbound PUBLISH
// packets.
func (c *Client) SetMessageHandler(handler MessageHandler) {
	if handler != nil {
		c.options.handler = handler
	}
}

// Connect dials the broker at addr and performs the connect handshake.
// The default MQTT port 1883 is appended when addr carries none. It
// returns the session-present flag from the CONNACK.
func (c *Client) Connect(ctx context.Context, addr string) (bool, error) {
	if c.closed {
		return false, ErrClientClosed
	}
	c.addr = withDefaultPort(addr)
	return c.Reconnect(ctx)
}

// Reconnect redials the last address and performs the connect handshake
// again. Any previous connection is closed first. In-flight QoS 1 state
// survives; resend it with Republish after reconnecting.
func (c *Client) Reconnect(ctx context.Context) (bool, error) {
	if c.closed {
		return false, ErrClientClosed
	}
	if c.addr == "" {
		return false, ErrNotConnected
	}

	if c.tr != nil {
		c.tr.close()
		c.tr = nil
		c.connected = false
	}

	c.metrics.ConnectAttempt()
	start := time.Now()

	dialCtx := ctx
	if c.options.connectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.options.connectTimeout)
		defer cancel()
	}

	conn, err := c.options.dialer.Dial(dialCtx, c.addr)
	if err != nil {
		return false, err
	}
	c.tr = newTransport(conn, c.ioTimeout())

	sessionPresent, err := c.handshake()
	if err != nil {
		c.tr.close()
		c.tr = nil
		return false, err
	}

	c.connected = true
	c.sessionPresent = sessionPresent
	c.metrics.ConnectLatency(time.Since(start))
	c.logger.Info("connected", LogFields{
		"addr":            c.addr,
		"session_present": sessionPresent,
	})

	return sessionPresent, nil
}

// ioTimeout derives the per-operation I/O deadline. The keep-alive
// interval bounds how long the broker may stay silent, so it doubles as
// the read/write timeout when set.
func (c *Client) ioTimeout() time.Duration {
	if c.options.keepAlive > 0 {
		return time.Duration(c.options.keepAlive) * time.Second
	}
	return c.options.ioTimeout
}

// handshake sends CONNECT and waits for the CONNACK.
func (c *Client) handshake() (bool, error) {
	connect := &ConnectPacket{
		ClientID:     c.options.clientID,
		CleanSession: c.options.cleanSession,
		KeepAlive:    c.options.keepAlive,
		Username:     c.options.username,
		Password:     c.options.password,
	}
	if c.options.willTopic != "" {
		connect.WillFlag = true
		connect.WillTopic = c.options.willTopic
		connect.WillMessage = c.options.willPayload
		connect.WillRetain = c.options.willRetain
		connect.WillQoS = c.options.willQoS
	}

	if _, err := WritePacket(c.tr, connect, 0); err != nil {
		return false, err
	}
	c.metrics.PacketSent(PacketCONNECT)

	pkt, _, err := ReadPacket(c.tr, c.options.maxPacketSize)
	if err != nil {
		return false, err
	}
	c.metrics.PacketReceived(pkt.Type())

	connack, ok := pkt.(*ConnackPacket)
	if !ok {
		return false, NewUnexpectedPacketError(pkt.Type())
	}

	if connack.ReturnCode != ConnectionAccepted {
		c.logger.Warn("connection refused", LogFields{
			LogFieldReturnCode: connack.ReturnCode.String(),
		})
		return false, NewConnackError(connack.ReturnCode)
	}

	return connack.SessionPresent, nil
}

// send validates and writes a packet. The frame is staged in memory
// first: a validation or encoding failure is returned to the caller with
// the connection intact, while a transport write failure marks the
// connection down.
func (c *Client) send(pkt Packet) error {
	if !c.connected {
		return ErrNotConnected
	}

	var buf bytes.Buffer
	if _, err := WritePacket(&buf, pkt, 0); err != nil {
		return err
	}
	if _, err := c.tr.Write(buf.Bytes()); err != nil {
		c.connected = false
		return err
	}
	c.metrics.PacketSent(pkt.Type())
	return nil
}

// Publish sends an application message. QoS 0 is fire and forget and
// returns packet ID 0. QoS 1 assigns a packet ID, records the publish as
// in-flight before returning, and returns the ID; the entry is removed
// when the matching PUBACK arrives via LoopRead. QoS 2 is not supported.
func (c *Client) Publish(topic string, payload []byte, qos byte, retain bool) (uint16, error) {
	if !c.connected {
		return 0, ErrNotConnected
	}
	if qos == QoS2 {
		return 0, ErrQoS2NotSupported
	}
	if qos > QoS2 {
		return 0, ErrInvalidQoS
	}
	if err := ValidateTopicName(topic); err != nil {
		return 0, err
	}

	pkt := &PublishPacket{
		Topic:   topic,
		Payload: payload,
		QoS:     qos,
		Retain:  retain,
	}
	if qos == QoS1 {
		pkt.PacketID = c.session.nextPacketID()
	}

	body, err := pkt.encodeBody()
	if err != nil {
		return 0, err
	}
	header := FixedHeader{
		PacketType:      PacketPUBLISH,
		Flags:           pkt.flags(),
		RemainingLength: uint32(len(body)),
	}

	if err := c.writeFrame(header, body); err != nil {
		return 0, err
	}
	c.metrics.MessagePublished()

	if qos == QoS1 {
		c.session.track(pkt.PacketID, pkt.flags(), body)
		c.metrics.InFlightSet(len(c.session.inflight))
		if len(c.session.inflight) > inFlightWarnThreshold {
			c.logger.Warn("in-flight publish backlog growing", LogFields{
				"inflight": len(c.session.inflight),
			})
		}
		return pkt.PacketID, nil
	}

	return 0, nil
}

// inFlightWarnThreshold is the in-flight set size above which the client
// starts warning. Entries are never dropped; acknowledgment or Republish
// is up to the caller.
const inFlightWarnThreshold = 1000

// writeFrame writes a fixed header followed by its body bytes as one
// transport write. A header that fails to encode leaves the wire and the
// connection state untouched.
func (c *Client) writeFrame(header FixedHeader, body []byte) error {
	if !c.connected {
		return ErrNotConnected
	}

	var buf bytes.Buffer
	buf.Grow(header.Size() + len(body))
	if _, err := header.Encode(&buf); err != nil {
		return err
	}
	buf.Write(body)

	if _, err := c.tr.Write(buf.Bytes()); err != nil {
		c.connected = false
		return err
	}
	c.metrics.PacketSent(header.PacketType)
	return nil
}

// Republish resends a pending QoS 1 publish with the DUP flag set. The
// entry stays in the in-flight set until its PUBACK arrives.
func (c *Client) Republish(pub InFlightPublish) error {
	header := FixedHeader{
		PacketType:      PacketPUBLISH,
		Flags:           pub.Flags | 0x08,
		RemainingLength: uint32(len(pub.Payload)),
	}
	return c.writeFrame(header, pub.Payload)
}

// Subscribe sends a SUBSCRIBE for a single topic filter and returns the
// packet ID. The SUBACK is consumed later by LoopRead; its return codes
// are logged, not surfaced.
func (c *Client) Subscribe(topicFilter string, qos byte) (uint16, error) {
	return c.SubscribeMultiple([]Subscription{{TopicFilter: topicFilter, QoS: qos}})
}

// SubscribeMultiple sends a single SUBSCRIBE carrying several topic
// filters.
func (c *Client) SubscribeMultiple(subs []Subscription) (uint16, error) {
	if !c.connected {
		return 0, ErrNotConnected
	}
	for _, sub := range subs {
		if err := ValidateTopicFilter(sub.TopicFilter); err != nil {
			return 0, err
		}
		if sub.QoS > QoS2 {
			return 0, ErrInvalidQoS
		}
	}

	pkt := &SubscribePacket{
		PacketID:      c.session.nextPacketID(),
		Subscriptions: subs,
	}
	if err := c.send(pkt); err != nil {
		return 0, err
	}
	return pkt.PacketID, nil
}

// Unsubscribe sends an UNSUBSCRIBE for the given topic filters and
// returns the packet ID.
func (c *Client) Unsubscribe(topicFilters ...string) (uint16, error) {
	if !c.connected {
		return 0, ErrNotConnected
	}
	for _, filter := range topicFilters {
		if err := ValidateTopicFilter(filter); err != nil {
			return 0, err
		}
	}

	pkt := &UnsubscribePacket{
		PacketID:     c.session.nextPacketID(),
		TopicFilters: topicFilters,
	}
	if err := c.send(pkt); err != nil {
		return 0, err
	}
	return pkt.PacketID, nil
}

// Ping sends a PINGREQ. The PINGRESP is observed by a later LoopRead,
// which reports it through its return value.
func (c *Client) Ping() error {
	return c.send(&PingreqPacket{})
}

// Close sends a best-effort DISCONNECT and closes the connection. The
// client cannot be reused afterwards.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.tr == nil {
		return nil
	}

	if c.connected {
		if _, err := WritePacket(c.tr, &DisconnectPacket{}, 0); err == nil {
			c.metrics.PacketSent(PacketDISCONNECT)
		}
		c.connected = false
	}

	err := c.tr.close()
	c.tr = nil
	return err
}

// pollTimeout is how long a LoopRead pass waits for the first inbound
// byte: half the keep-alive interval, so a caller alternating Ping and
// LoopRead observes PINGRESPs well inside the window.
func (c *Client) pollTimeout() time.Duration {
	if c.options.keepAlive > 0 {
		return time.Duration(c.options.keepAlive) * time.Second / 2
	}
	if c.options.ioTimeout > 0 {
		return c.options.ioTimeout
	}
	return 30 * time.Second
}

// LoopRead performs one inbound poll-and-dispatch pass. It waits up to
// half the keep-alive interval for traffic, then drains whatever else is
// immediately readable, dispatching each packet:
//
//   - PUBLISH: QoS 1 is acknowledged with a PUBACK before the message
//     handler runs; a handler error stops the pass and is returned.
//   - PUBACK: the matching in-flight entry is removed. An unmatched
//     packet ID is logged and skipped.
//   - PINGRESP: noted, and reported through the return value.
//   - DISCONNECT: the connection is marked down and the pass stops.
//   - Anything else decodable is logged and skipped.
//
// A transport or decode failure marks the connection down and ends the
// pass without an error; check Connected afterwards.
func (c *Client) LoopRead() (bool, error) {
	if !c.connected {
		return false, ErrNotConnected
	}

	pingSeen := false
	timeout := c.pollTimeout()

	for {
		ready, err := c.tr.waitReadable(timeout)
		if err != nil {
			c.connectionLost(err)
			return pingSeen, nil
		}
		if !ready {
			return pingSeen, nil
		}

		pkt, _, err := ReadPacket(c.tr, c.options.maxPacketSize)
		if err != nil {
			c.connectionLost(err)
			return pingSeen, nil
		}
		c.metrics.PacketReceived(pkt.Type())

		stop, err := c.dispatch(pkt, &pingSeen)
		if err != nil {
			return pingSeen, err
		}
		if stop || !c.connected {
			return pingSeen, nil
		}

		// Anything further must already be readable.
		timeout = 0
	}
}

// connectionLost marks the connection down after a read failure.
func (c *Client) connectionLost(err error) {
	c.logger.Warn("connection lost", LogFields{LogFieldError: err.Error()})
	c.connected = false
	if c.tr != nil {
		c.tr.close()
	}
}

// dispatch routes one inbound packet. It reports whether the read pass
// should stop.
func (c *Client) dispatch(pkt Packet, pingSeen *bool) (bool, error) {
	switch p := pkt.(type) {
	case *PublishPacket:
		return false, c.handlePublish(p)

	case *PubackPacket:
		if !c.session.ack(p.PacketID) {
			c.logger.Warn("puback without matching publish", LogFields{
				LogFieldPacketID: p.PacketID,
			})
			return false, nil
		}
		c.metrics.InFlightSet(len(c.session.inflight))
		c.logger.Debug("publish acknowledged", LogFields{
			LogFieldPacketID: p.PacketID,
		})
		return false, nil

	case *SubackPacket:
		c.logger.Info("subscription acknowledged", LogFields{
			LogFieldPacketID: p.PacketID,
			"return_codes":   p.ReturnCodes,
		})
		return false, nil

	case *UnsubackPacket:
		c.logger.Info("unsubscription acknowledged", LogFields{
			LogFieldPacketID: p.PacketID,
		})
		return false, nil

	case *PingrespPacket:
		*pingSeen = true
		c.logger.Debug("pingresp received", nil)
		return false, nil

	case *DisconnectPacket:
		c.logger.Info("server disconnect", nil)
		c.connected = false
		if c.tr != nil {
			c.tr.close()
		}
		return true, nil

	default:
		c.logger.Warn("unhandled packet", LogFields{
			LogFieldPacketType: pkt.Type().String(),
		})
		return false, nil
	}
}

// handlePublish acknowledges a QoS 1 publish and hands the message to the
// handler. The PUBACK goes out before the handler runs, so a slow or
// failing handler never stalls the acknowledgment.
func (c *Client) handlePublish(p *PublishPacket) error {
	if p.QoS == QoS1 {
		if err := c.send(&PubackPacket{PacketID: p.PacketID}); err != nil {
			return nil
		}
	}

	c.metrics.MessageDelivered()
	return c.options.handler(c, c.options.userdata, p.ToMessage())
}
