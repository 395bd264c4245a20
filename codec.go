package umqtt

import (
	"bytes"
	"errors"
	"io"
)

var (
	ErrPacketTooLarge    = errors.New("umqtt: packet exceeds maximum size")
	ErrUnknownPacketType = errors.New("umqtt: unknown packet type")
)

// packetForType returns an empty packet of the given type, or nil for a
// type this client does not decode.
func packetForType(t PacketType) Packet {
	switch t {
	case PacketCONNECT:
		return &ConnectPacket{}
	case PacketCONNACK:
		return &ConnackPacket{}
	case PacketPUBLISH:
		return &PublishPacket{}
	case PacketPUBACK:
		return &PubackPacket{}
	case PacketPUBREC:
		return &PubrecPacket{}
	case PacketPUBREL:
		return &PubrelPacket{}
	case PacketPUBCOMP:
		return &PubcompPacket{}
	case PacketSUBSCRIBE:
		return &SubscribePacket{}
	case PacketSUBACK:
		return &SubackPacket{}
	case PacketUNSUBSCRIBE:
		return &UnsubscribePacket{}
	case PacketUNSUBACK:
		return &UnsubackPacket{}
	case PacketPINGREQ:
		return &PingreqPacket{}
	case PacketPINGRESP:
		return &PingrespPacket{}
	case PacketDISCONNECT:
		return &DisconnectPacket{}
	default:
		return nil
	}
}

// ReadPacket reads one complete MQTT packet from r and decodes it. It
// returns the packet and the number of bytes consumed. A remaining length
// above maxSize (when maxSize is nonzero) is rejected with
// ErrPacketTooLarge before the body is read.
func ReadPacket(r io.Reader, maxSize uint32) (Packet, int, error) {
	var header FixedHeader
	n, err := header.Decode(r)
	if err != nil {
		return nil, n, err
	}

	if maxSize > 0 && header.RemainingLength > maxSize {
		return nil, n, ErrPacketTooLarge
	}

	body := make([]byte, header.RemainingLength)
	if header.RemainingLength > 0 {
		bn, err := io.ReadFull(r, body)
		n += bn
		if err != nil {
			return nil, n, err
		}
	}

	packet := packetForType(header.PacketType)
	if packet == nil {
		return nil, n, ErrUnknownPacketType
	}

	if _, err := packet.Decode(bytes.NewReader(body), header); err != nil {
		return nil, n, err
	}

	return packet, n, nil
}

// WritePacket validates and writes one complete MQTT packet to w. The
// frame is staged in memory first, so a validation or encoding failure
// (including ErrPacketTooLarge when maxSize is nonzero) leaves w
// untouched, and the wire sees either the whole frame or nothing.
func WritePacket(w io.Writer, packet Packet, maxSize uint32) (int, error) {
	if err := packet.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	n, err := packet.Encode(&buf)
	if err != nil {
		return 0, err
	}
	if maxSize > 0 && uint32(n) > maxSize {
		return 0, ErrPacketTooLarge
	}

	return w.Write(buf.Bytes())
}
