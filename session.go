package umqtt

// InFlightPublish is a sent QoS 1 PUBLISH awaiting its PUBACK. Payload holds
// the encoded variable header and payload exactly as first sent, so a caller
// can resend it through Republish without rebuilding the packet.
type InFlightPublish struct {
	PacketID uint16
	Flags    byte
	Payload  []byte
}

// session holds the per-connection protocol state: the rolling packet
// identifier and the set of unacknowledged QoS 1 publishes. It is mutated
// only by the client's outbound operations and read loop, which run on a
// single logical thread of control.
type session struct {
	lastPacketID uint16
	inflight     []InFlightPublish
}

func newSession() *session {
	return &session{lastPacketID: 1}
}

// nextPacketID advances the packet identifier counter and returns the new
// value. The counter wraps from 65535 back to 1; zero is never issued.
func (s *session) nextPacketID() uint16 {
	s.lastPacketID = (s.lastPacketID + 1) & 0xFFFF
	if s.lastPacketID == 0 {
		s.lastPacketID = 1
	}
	return s.lastPacketID
}

// track records a QoS 1 publish awaiting acknowledgment.
func (s *session) track(id uint16, flags byte, payload []byte) {
	s.inflight = append(s.inflight, InFlightPublish{
		PacketID: id,
		Flags:    flags,
		Payload:  payload,
	})
}

// ack removes the in-flight entry matching the packet identifier.
// Returns false if no entry matches.
func (s *session) ack(id uint16) bool {
	for i, pub := range s.inflight {
		if pub.PacketID == id {
			s.inflight = append(s.inflight[:i], s.inflight[i+1:]...)
			return true
		}
	}
	return false
}

// pending returns a copy of the in-flight publishes, oldest first.
func (s *session) pending() []InFlightPublish {
	out := make([]InFlightPublish, len(s.inflight))
	copy(out, s.inflight)
	return out
}
