package webrtc

import (
	"errors"
	"fmt"
)

// InvalidStateError indicates the object is in an invalid state.
type InvalidStateError struct{ Err error }

func (e *InvalidStateError) Error() string { return fmt.Sprintf("webrtc: InvalidStateError: %v", e.Err) }
func (e *InvalidStateError) Unwrap() error { return e.Err }

// Types of InvalidStateErrors
var (
	ErrConnectionClosed    = errors.New("connection closed")
	ErrNoRemoteDescription = errors.New("remote description is not set")
)

// UnknownError indicates the operation failed for an unknown transient reason
type UnknownError struct{ Err error }

func (e *UnknownError) Error() string { return fmt.Sprintf("webrtc: UnknownError: %v", e.Err) }
func (e *UnknownError) Unwrap() error { return e.Err }

// Types of UnknownErrors
var (
	ErrNoConfig = errors.New("no configuration provided")
)

// InvalidAccessError indicates the object does not support the operation or argument.
type InvalidAccessError struct{ Err error }

func (e *InvalidAccessError) Error() string {
	return fmt.Sprintf("webrtc: InvalidAccessError: %v", e.Err)
}
func (e *InvalidAccessError) Unwrap() error { return e.Err }

// Types of InvalidAccessErrors
var (
	ErrCertificateExpired = errors.New("certificate expired")
	ErrNoTurnCredentials  = errors.New("turn server credentials required")
	ErrTurnCredentials    = errors.New("invalid turn server credentials")
	ErrExistingTrack      = errors.New("track aready exists")
)

// NotSupportedError indicates the operation is not supported.
type NotSupportedError struct{ Err error }

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("webrtc: NotSupportedError: %v", e.Err)
}
func (e *NotSupportedError) Unwrap() error { return e.Err }

// Types of NotSupportedErrors
var (
	ErrPrivateKeyType = errors.New("private key type not supported")
)

// InvalidModificationError indicates the object can not be modified in this way.
type InvalidModificationError struct{ Err error }

func (e *InvalidModificationError) Error() string {
	return fmt.Sprintf("webrtc: InvalidModificationError: %v", e.Err)
}
func (e *InvalidModificationError) Unwrap() error { return e.Err }

// Types of InvalidModificationErrors
var (
	ErrModifyingPeerIdentity         = errors.New("peerIdentity cannot be modified")
	ErrModifyingCertificates         = errors.New("certificates cannot be modified")
	ErrModifyingBundlePolicy         = errors.New("bundle policy cannot be modified")
	ErrModifyingRTCPMuxPolicy        = errors.New("rtcp mux policy cannot be modified")
	ErrModifyingICECandidatePoolSize = errors.New("ice candidate pool size cannot be modified")
)

// SyntaxError indicates the string did not match the expected pattern.
type SyntaxError struct{ Err error }

func (e *SyntaxError) Error() string { return fmt.Sprintf("webrtc: SyntaxError: %v", e.Err) }
func (e *SyntaxError) Unwrap() error { return e.Err }

// TypeError indicates an issue with a supplied value
type TypeError struct{ Err error }

func (e *TypeError) Error() string { return fmt.Sprintf("webrtc: TypeError: %v", e.Err) }
func (e *TypeError) Unwrap() error { return e.Err }

// Types of TypeError
var (
	ErrInvalidValue                = errors.New("invalid value")
	ErrRetransmitsOrPacketLifeTime = errors.New("both MaxPacketLifeTime and MaxRetransmits were set")
	ErrStringSizeLimit             = errors.New("data channel label exceeds size limit")
)

// OperationError indicates an issue with execution
type OperationError struct{ Err error }

func (e *OperationError) Error() string { return fmt.Sprintf("webrtc: OperationError: %v", e.Err) }
func (e *OperationError) Unwrap() error { return e.Err }

// Types of OperationError
var (
	ErrMaxDataChannels  = errors.New("maximum number of datachannels reached")
	ErrMaxDataChannelID = errors.New("no available data channel id")
	ErrCodecNotFound     = errors.New("codec not found")
)

// ErrUnknownType indicates a Unknown info
var ErrUnknownType = errors.New("Unknown")

// ErrDataChannelNotOpen is returned when a data channel operation is
// attempted while the underlying channel is not in the open state.
var ErrDataChannelNotOpen = errors.New("data channel not open")

// ErrShortBuffer is returned by DataChannel reads when the caller's
// buffer is smaller than the next queued message.
var ErrShortBuffer = errors.New("buffer too short")

// Errors returned by RTPSender
var (
	errRTPSenderTrackNil         = errors.New("track is nil")
	errRTPSenderDTLSTransportNil = errors.New("DTLSTransport must not be nil")
	errRTPSenderSendAlreadyCalled = errors.New("Send has already been called")
)

// Errors returned by TrackLocalStaticRTP/TrackLocalStaticSample
var (
	ErrUnsupportedCodec = errors.New("unsupported codec type")
	ErrUnbindFailed     = errors.New("unbind failed, track not bound")
)

// errRTPTransceiverCodecUnsupported is returned by RTPTransceiver.SetCodecPreferences
// when the codec list contains a codec the MediaEngine has not negotiated support for.
var errRTPTransceiverCodecUnsupported = errors.New("codec is not supported by the MediaEngine")
