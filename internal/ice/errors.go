package ice

import (
	"errors"
	"fmt"
)

const unknownStr = "unknown"

var (
	// ErrUnknownType indicates an error with Unknown info.
	ErrUnknownType = errors.New("unknown")

	// ErrNoTurnCredencials indicates that a TURN server URL was provided
	// without required credentials.
	ErrNoTurnCredencials = errors.New("turn server credentials required")

	// ErrTurnCredencials indicates that provided TURN credentials are partial
	// or malformed.
	ErrTurnCredencials = errors.New("invalid turn server credentials")

	// ErrClosed indicates an operation was attempted on a closed Agent.
	ErrClosed = errors.New("ice: agent is closed")

	// ErrPort indicates PortMax is less than PortMin, or that port allocation
	// within [PortMin, PortMax] failed.
	ErrPort = errors.New("ice: port range is invalid or exhausted")

	// ErrHost indicates a STUN/TURN URL was missing its host component.
	ErrHost = errors.New("ice: url is missing host")

	// ErrSchemeType indicates a STUN/TURN URL used an unsupported scheme.
	ErrSchemeType = errors.New("ice: unsupported scheme type")

	// ErrSTUNQuery indicates a stun: or stuns: URL carried a query string,
	// which RFC 7064 does not permit.
	ErrSTUNQuery = errors.New("ice: queries are not supported for stun/stuns schemes")

	// ErrInvalidQuery indicates a turn:/turns: URL's query string could not
	// be parsed as a single transport parameter.
	ErrInvalidQuery = errors.New("ice: invalid query")

	// ErrProtoType indicates an unsupported transport= value on a TURN URL.
	ErrProtoType = errors.New("ice: unsupported transport protocol type")

	// ErrNoCandidatePairs indicates getBestPair was called before any
	// candidate pair had been validated or selected.
	ErrNoCandidatePairs = errors.New("ice: no valid candidate pairs available")
)

// SyntaxError indicates malformed input, e.g. an unparsable URL.
type SyntaxError struct{ Err error }

func (e *SyntaxError) Error() string { return fmt.Sprintf("ice: SyntaxError: %v", e.Err) }
func (e *SyntaxError) Unwrap() error { return e.Err }

// UnknownError indicates a failure whose cause could not be classified,
// typically one surfaced verbatim from a lower-level package (net, url).
type UnknownError struct{ Err error }

func (e *UnknownError) Error() string { return fmt.Sprintf("ice: UnknownError: %v", e.Err) }
func (e *UnknownError) Unwrap() error { return e.Err }

// NotSupportedError indicates a recognized but unsupported value, e.g. a
// transport protocol this agent cannot use.
type NotSupportedError struct{ Err error }

func (e *NotSupportedError) Error() string { return fmt.Sprintf("ice: NotSupportedError: %v", e.Err) }
func (e *NotSupportedError) Unwrap() error { return e.Err }

// InvalidAccessError indicates a caller-supplied argument does not satisfy
// the operation's preconditions, e.g. a TURN server given without credentials.
type InvalidAccessError struct{ Err error }

func (e *InvalidAccessError) Error() string {
	return fmt.Sprintf("ice: InvalidAccessError: %v", e.Err)
}
func (e *InvalidAccessError) Unwrap() error { return e.Err }
