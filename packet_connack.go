package umqtt

import (
	"bytes"
	"errors"
	"io"
)

// CONNACK packet errors.
var (
	ErrInvalidConnackFlags = errors.New("invalid CONNACK flags")
	ErrInvalidReturnCode   = errors.New("invalid CONNACK return code")
)

// ConnackReturnCode is the connection result code carried in a CONNACK packet.
type ConnackReturnCode byte

// CONNACK return codes as defined in the specification.
const (
	ConnectionAccepted          ConnackReturnCode = 0
	ConnRefusedProtocolVersion  ConnackReturnCode = 1
	ConnRefusedIdentifierReject ConnackReturnCode = 2
	ConnRefusedServerUnavail    ConnackReturnCode = 3
	ConnRefusedBadCredentials   ConnackReturnCode = 4
	ConnRefusedNotAuthorized    ConnackReturnCode = 5
)

// String returns the string representation of the return code.
func (c ConnackReturnCode) String() string {
	switch c {
	case ConnectionAccepted:
		return "connection accepted"
	case ConnRefusedProtocolVersion:
		return "connection refused: unacceptable protocol version"
	case ConnRefusedIdentifierReject:
		return "connection refused: identifier rejected"
	case ConnRefusedServerUnavail:
		return "connection refused: server unavailable"
	case ConnRefusedBadCredentials:
		return "connection refused: bad user name or password"
	case ConnRefusedNotAuthorized:
		return "connection refused: not authorized"
	default:
		return "connection refused: unknown return code"
	}
}

// Valid returns true if the return code is defined by the specification.
func (c ConnackReturnCode) Valid() bool {
	return c <= ConnRefusedNotAuthorized
}

// ConnackPacket represents an MQTT CONNACK packet.
type ConnackPacket struct {
	// SessionPresent indicates the server holds session state from a
	// previous connection.
	SessionPresent bool

	// ReturnCode is the connection result; zero means accepted.
	ReturnCode ConnackReturnCode
}

// Type returns the packet type.
func (p *ConnackPacket) Type() PacketType {
	return PacketCONNACK
}

// Encode writes the packet to the writer.
func (p *ConnackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	// Connect Acknowledge Flags
	var flags byte
	if p.SessionPresent {
		flags = 0x01
	}
	buf.WriteByte(flags)

	// Return Code
	buf.WriteByte(byte(p.ReturnCode))

	// Write fixed header
	header := FixedHeader{
		PacketType:      PacketCONNACK,
		Flags:           0x00,
		RemainingLength: uint32(buf.Len()),
	}

	total, err := header.Encode(w)
	if err != nil {
		return total, err
	}

	n, err := w.Write(buf.Bytes())
	return total + n, err
}

// Decode reads the packet from the reader.
func (p *ConnackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketCONNACK {
		return 0, ErrInvalidPacketType
	}

	var totalRead int

	// Connect Acknowledge Flags
	var flagsBuf [1]byte
	n, err := io.ReadFull(r, flagsBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}

	// Reserved bits must be 0
	if flagsBuf[0]&0xFE != 0 {
		return totalRead, ErrInvalidConnackFlags
	}

	p.SessionPresent = flagsBuf[0]&0x01 != 0

	// Return Code
	var codeBuf [1]byte
	n, err = io.ReadFull(r, codeBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	p.ReturnCode = ConnackReturnCode(codeBuf[0])
	if !p.ReturnCode.Valid() {
		return totalRead, ErrInvalidReturnCode
	}

	return totalRead, nil
}

// Validate validates the packet contents.
func (p *ConnackPacket) Validate() error {
	if !p.ReturnCode.Valid() {
		return ErrInvalidReturnCode
	}

	// Session present must be false when the connection is refused.
	if p.ReturnCode != ConnectionAccepted && p.SessionPresent {
		return ErrInvalidConnackFlags
	}

	return nil
}
