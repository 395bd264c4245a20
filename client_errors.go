package umqtt

import (
	"errors"
)

// Sentinel errors for client operations - check with errors.Is().
var (
	// ErrNotConnected is returned when an operation requires an active connection.
	ErrNotConnected = errors.New("not connected")

	// ErrClientClosed is returned when an operation is attempted on a closed client.
	ErrClientClosed = errors.New("client closed")

	// ErrQoS2NotSupported is returned when an outbound publish requests QoS 2.
	ErrQoS2NotSupported = errors.New("QoS 2 publishing is not supported")

	// ErrConnectionRefused is returned when the broker rejects the connection.
	ErrConnectionRefused = errors.New("connection refused")

	// ErrAuthFailed is returned when the broker rejects the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrProtocolError is returned when the broker violates the protocol.
	ErrProtocolError = errors.New("protocol error")
)

// ConnackError reports a broker rejection during the connect handshake.
// Extract with errors.As().
type ConnackError struct {
	err        error
	ReturnCode ConnackReturnCode
}

func (e *ConnackError) Error() string {
	return "connect failed: " + e.ReturnCode.String()
}

func (e *ConnackError) Unwrap() error { return e.err }

// NewConnackError creates a new ConnackError from a CONNACK return code.
func NewConnackError(code ConnackReturnCode) *ConnackError {
	baseErr := ErrConnectionRefused
	if code == ConnRefusedBadCredentials || code == ConnRefusedNotAuthorized {
		baseErr = ErrAuthFailed
	}
	return &ConnackError{
		err:        baseErr,
		ReturnCode: code,
	}
}

// UnexpectedPacketError reports a packet that is invalid at the point in
// the protocol where it arrived. Extract with errors.As().
type UnexpectedPacketError struct {
	err        error
	PacketType PacketType
}

func (e *UnexpectedPacketError) Error() string {
	return "unexpected packet: " + e.PacketType.String()
}

func (e *UnexpectedPacketError) Unwrap() error { return e.err }

// NewUnexpectedPacketError creates a new UnexpectedPacketError.
func NewUnexpectedPacketError(packetType PacketType) *UnexpectedPacketError {
	return &UnexpectedPacketError{
		err:        ErrProtocolError,
		PacketType: packetType,
	}
}
