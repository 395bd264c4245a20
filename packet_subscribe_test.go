package umqtt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribePacketWireFormat(t *testing.T) {
	pkt := &SubscribePacket{
		PacketID: 2,
		Subscriptions: []Subscription{
			{TopicFilter: "a/b", QoS: QoS1},
		},
	}

	var buf bytes.Buffer
	_, err := pkt.Encode(&buf)
	require.NoError(t, err)

	want := []byte{
		0x82, 0x08, // SUBSCRIBE with mandated flags, remaining length 8
		0x00, 0x02, // packet ID
		0x00, 0x03, 'a', '/', 'b', // topic filter
		0x01, // requested QoS
	}
	assert.Equal(t, want, buf.Bytes())
}

func TestSubscribePacketRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		packet *SubscribePacket
	}{
		{
			name: "single filter",
			packet: &SubscribePacket{
				PacketID: 1,
				Subscriptions: []Subscription{
					{TopicFilter: "a/b", QoS: QoS0},
				},
			},
		},
		{
			name: "multiple filters",
			packet: &SubscribePacket{
				PacketID: 10,
				Subscriptions: []Subscription{
					{TopicFilter: "sensors/+/temp", QoS: QoS1},
					{TopicFilter: "alerts/#", QoS: QoS2},
					{TopicFilter: "status", QoS: QoS0},
				},
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

func TestSubscribePacketValidate(t *testing.T) {
	tests := []struct {
		name    string
		packet  *SubscribePacket
		wantErr error
	}{
		{
			name: "valid",
			packet: &SubscribePacket{
				PacketID:      1,
				Subscriptions: []Subscription{{TopicFilter: "a", QoS: QoS0}},
			},
		},
		{
			name: "zero packet ID",
			packet: &SubscribePacket{
				Subscriptions: []Subscription{{TopicFilter: "a"}},
			},
			wantErr: ErrInvalidPacketID,
		},
		{
			name:    "no filters",
			packet:  &SubscribePacket{PacketID: 1},
			wantErr: ErrNoTopicFilters,
		},
		{
			name: "qos out of range",
			packet: &SubscribePacket{
				PacketID:      1,
				Subscriptions: []Subscription{{TopicFilter: "a", QoS: 3}},
			},
			wantErr: ErrInvalidQoS,
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

func TestSubscribePacketDecodeEnforcesFlags(t *testing.T) {
	// SUBSCRIBE with flags 0x00 instead of the mandated 0x02.
	data := []byte{0x80, 0x08, 0x00, 0x02, 0x00, 0x03, 'a', '/', 'b', 0x01}

	_, _, err := ReadPacket(bytes.NewReader(data), 0)
	assert.ErrorIs(t, err, ErrInvalidPacketFlags)
}
