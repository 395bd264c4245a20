package umqtt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectPacketWireFormat(t *testing.T) {
	var buf bytes.Buffer

	_, err := (&DisconnectPacket{}).Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xE0, 0x00}, buf.Bytes())
}

func TestDisconnectPacketRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	_, err := (&DisconnectPacket{}).Encode(&buf)
	require.NoError(t, err)

	decoded, _, err := ReadPacket(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, &DisconnectPacket{}, decoded)
}

func TestDisconnectPacketRejectsPayload(t *testing.T) {
	_, _, err := ReadPacket(bytes.NewReader([]byte{0xE0, 0x01, 0x00}), 0)
	assert.ErrorIs(t, err, ErrNonEmptyPayload)
}
