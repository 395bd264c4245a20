package umqtt

import "io"

// Packet is the interface that all MQTT control packets implement.
type Packet interface {
	// Type returns the packet type.
	Type() PacketType

	// Encode writes the packet to the writer.
	// Returns the number of bytes written.
	Encode(w io.Writer) (int, error)

	// Decode reads the packet from the reader.
	// The fixed header should already be decoded.
	// Returns the number of bytes read.
	Decode(r io.Reader, header FixedHeader) (int, error)

	// Validate validates the packet contents.
	Validate() error
}

// Message represents an MQTT application message as delivered to the
// message handler. It is an immutable value decoded from an inbound
// PUBLISH packet.
type Message struct {
	// Topic is the topic name the message was published to.
	Topic string

	// Payload is the application message payload, assumed UTF-8 text.
	Payload string

	// QoS is the Quality of Service level the message arrived with.
	QoS byte

	// Retain indicates this is a retained message.
	Retain bool
}
