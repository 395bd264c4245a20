package umqtt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubackPacketWireFormat(t *testing.T) {
	pkt := &PubackPacket{PacketID: 1}

	var buf bytes.Buffer
	_, err := pkt.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x40, 0x02, 0x00, 0x01}, buf.Bytes())
}

func TestAckPacketRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		packet Packet
	}{
		{name: "puback", packet: &PubackPacket{PacketID: 1}},
		{name: "pubrec", packet: &PubrecPacket{PacketID: 2}},
		{name: "pubrel", packet: &PubrelPacket{PacketID: 3}},
		{name: "pubcomp", packet: &PubcompPacket{PacketID: 4}},
		{name: "unsuback", packet: &UnsubackPacket{PacketID: 65535}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			_, err := tt.packet.Encode(&buf)
			require.NoError(t, err)

			decoded, _, err := ReadPacket(&buf, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.packet, decoded)
		})
	}
}

func TestPubackPacketValidate(t *testing.T) {
	assert.ErrorIs(t, (&PubackPacket{}).Validate(), ErrInvalidPacketID)
	assert.NoError(t, (&PubackPacket{PacketID: 1}).Validate())
}

func TestUnsubackPacketValidate(t *testing.T) {
	assert.ErrorIs(t, (&UnsubackPacket{}).Validate(), ErrInvalidPacketID)
	assert.NoError(t, (&UnsubackPacket{PacketID: 1}).Validate())
}

func TestAckPacketDecodeWrongLength(t *testing.T) {
	// PUBACK with remaining length 3 is malformed.
	data := []byte{0x40, 0x03, 0x00, 0x01, 0x00}

	_, _, err := ReadPacket(bytes.NewReader(data), 0)
	assert.ErrorIs(t, err, ErrInvalidPacketID)
}

func TestPubrelPacketDecodeEnforcesFlags(t *testing.T) {
	// PUBREL must carry fixed header flags 0x02.
	data := []byte{0x60, 0x02, 0x00, 0x01}

	_, _, err := ReadPacket(bytes.NewReader(data), 0)
	assert.ErrorIs(t, err, ErrInvalidPacketFlags)

	data = []byte{0x62, 0x02, 0x00, 0x01}
	pkt, _, err := ReadPacket(bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, &PubrelPacket{PacketID: 1}, pkt)
}
