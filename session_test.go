package umqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPacketIDSequence(t *testing.T) {
	s := newSession()

	// The counter starts at 1, so the first issued ID is 2.
	assert.Equal(t, uint16(2), s.nextPacketID())
	assert.Equal(t, uint16(3), s.nextPacketID())
}

func TestSessionPacketIDWrapsSkippingZero(t *testing.T) {
	s := newSession()
	s.lastPacketID = 65534

	assert.Equal(t, uint16(65535), s.nextPacketID())
	assert.Equal(t, uint16(1), s.nextPacketID())
	assert.Equal(t, uint16(2), s.nextPacketID())
}

func TestSessionPacketIDLongRun(t *testing.T) {
	s := newSession()

	seen := uint16(1)
	for i := 0; i < 70000; i++ {
		id := s.nextPacketID()
		require.NotZero(t, id)

		want := seen + 1
		if want == 0 {
			want = 1
		}
		require.Equal(t, want, id)
		seen = id
	}
}

func TestSessionTrackAck(t *testing.T) {
	s := newSession()

	s.track(2, 0x02, []byte{0x00, 0x01, 'a'})
	s.track(3, 0x02, []byte{0x00, 0x01, 'b'})
	require.Len(t, s.inflight, 2)

	assert.True(t, s.ack(2))
	require.Len(t, s.inflight, 1)
	assert.Equal(t, uint16(3), s.inflight[0].PacketID)

	// Unknown ID leaves the set untouched.
	assert.False(t, s.ack(2))
	assert.Len(t, s.inflight, 1)

	assert.True(t, s.ack(3))
	assert.Empty(t, s.inflight)
}

func TestSessionPendingReturnsCopy(t *testing.T) {
	s := newSession()
	s.track(2, 0x02, []byte{'x'})

	pending := s.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, uint16(2), pending[0].PacketID)

	// Mutating the copy must not touch session state.
	pending[0].PacketID = 99
	assert.Equal(t, uint16(2), s.inflight[0].PacketID)
}

func TestSessionPendingOrder(t *testing.T) {
	s := newSession()
	s.track(5, 0, nil)
	s.track(6, 0, nil)
	s.track(7, 0, nil)

	pending := s.pending()
	require.Len(t, pending, 3)
	assert.Equal(t, uint16(5), pending[0].PacketID)
	assert.Equal(t, uint16(6), pending[1].PacketID)
	assert.Equal(t, uint16(7), pending[2].PacketID)
}
