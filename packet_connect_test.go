package umqtt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPacketWireFormat(t *testing.T) {
	// Empty client ID, clean session, keep-alive 60 seconds.
	pkt := &ConnectPacket{
		CleanSession: true,
		KeepAlive:    60,
	}

	var buf bytes.Buffer
	n, err := pkt.Encode(&buf)
	require.NoError(t, err)

	want := []byte{
		0x10, 0x0C, // CONNECT, remaining length 12
		0x00, 0x04, 'M', 'Q', 'T', 'T', // protocol name
		0x04,       // protocol level
		0x02,       // connect flags: clean session
		0x00, 0x3C, // keep alive 60
		0x00, 0x00, // empty client ID
	}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, len(want), n)
}

func TestConnectPacketRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		packet *ConnectPacket
	}{
		{
			name: "minimal",
			packet: &ConnectPacket{
				ClientID:     "client-1",
				CleanSession: true,
				KeepAlive:    60,
			},
		},
		{
			name: "credentials",
			packet: &ConnectPacket{
				ClientID:     "client-1",
				CleanSession: true,
				KeepAlive:    30,
				Username:     "user",
				Password:     []byte("secret"),
			},
		},
		{
			name: "will message",
			packet: &ConnectPacket{
				ClientID:     "client-1",
				CleanSession: true,
				KeepAlive:    60,
				WillFlag:     true,
				WillTopic:    "status/client-1",
				WillMessage:  []byte("offline"),
				WillQoS:      QoS1,
				WillRetain:   true,
			},
		},
		{
			name: "persistent session",
			packet: &ConnectPacket{
				ClientID:  "client-1",
				KeepAlive: 0,
			},
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

func TestConnectPacketValidate(t *testing.T) {
	tests := []struct {
		name    string
		packet  *ConnectPacket
		wantErr error
	}{
		{
			name: "empty client ID with clean session",
			packet: &ConnectPacket{
				CleanSession: true,
			},
		},
		{
			name:    "empty client ID without clean session",
			packet:  &ConnectPacket{},
			wantErr: ErrClientIDRequired,
		},
		{
			name: "password without username",
			packet: &ConnectPacket{
				ClientID:     "c",
				CleanSession: true,
				Password:     []byte("secret"),
			},
			wantErr: ErrPasswordWithoutUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.packet.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConnectPacketDecodeRejectsBadProtocol(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]byte)
		wantErr error
	}{
		{
			name:    "wrong protocol name",
			mutate:  func(b []byte) { b[4] = 'X' },
			wantErr: ErrInvalidProtocolName,
		},
		{
			name:    "wrong protocol level",
			mutate:  func(b []byte) { b[8] = 5 },
			wantErr: ErrInvalidProtocolLevel,
		},
		{
			name:    "reserved flag bit set",
			mutate:  func(b []byte) { b[9] |= 0x01 },
			wantErr: ErrInvalidConnectFlags,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			pkt := &ConnectPacket{CleanSession: true, KeepAlive: 60}
			_, err := pkt.Encode(&buf)
			require.NoError(t, err)

			raw := buf.Bytes()
			tt.mutate(raw)

			_, _, err = ReadPacket(bytes.NewReader(raw), 0)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
