package umqtt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubackPacketRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		packet *SubackPacket
	}{
		{
			name:   "granted qos1",
			packet: &SubackPacket{PacketID: 2, ReturnCodes: []byte{0x01}},
		},
		{
			name:   "mixed grants with failure",
			packet: &SubackPacket{PacketID: 3, ReturnCodes: []byte{0x00, 0x02, SubackFailure}},
		},
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

func TestSubackPacketDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "no return codes",
			data:    []byte{0x90, 0x02, 0x00, 0x02},
			wantErr: ErrNoReturnCodes,
		},
		{
			name:    "undefined return code",
			data:    []byte{0x90, 0x03, 0x00, 0x02, 0x03},
			wantErr: ErrInvalidQoS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadPacket(bytes.NewReader(tt.data), 0)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubackPacketValidate(t *testing.T) {
	assert.ErrorIs(t, (&SubackPacket{ReturnCodes: []byte{0}}).Validate(), ErrInvalidPacketID)
	assert.ErrorIs(t, (&SubackPacket{PacketID: 1}).Validate(), ErrNoReturnCodes)
	assert.NoError(t, (&SubackPacket{PacketID: 1, ReturnCodes: []byte{0}}).Validate())
}
