package sctp

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// errorCauseCode is a cause code that appears in either an ERROR or ABORT chunk.
type errorCauseCode uint16

// errorCause is implemented by every error-cause TLV an ERROR or ABORT
// chunk can carry.
type errorCause interface {
	unmarshal([]byte) error
	marshal() ([]byte, error)
	length() uint16

	code() errorCauseCode
}

// buildErrorCause delegates building an error cause from raw bytes to the
// correct structure.
func buildErrorCause(raw []byte) (errorCause, error) {
	var e errorCause

	c := errorCauseCode(binary.BigEndian.Uint16(raw[0:]))
	switch c {
	case invalidMandatoryParameter:
		e = &errorCauseInvalidMandatoryParameter{}
	case unrecognizedChunkType:
		e = &errorCauseUnrecognizedChunkType{}
	default:
		return nil, errors.Errorf("buildErrorCause does not handle %s", c.String())
	}

	if err := e.unmarshal(raw); err != nil {
		return nil, err
	}
	return e, nil
}

// Error cause codes, per https://tools.ietf.org/html/rfc4960#section-3.3.10
const (
	invalidStreamIdentifier                errorCauseCode = 1
	missingMandatoryParameter              errorCauseCode = 2
	staleCookieError                       errorCauseCode = 3
	outOfResource                          errorCauseCode = 4
	unresolvableAddress                    errorCauseCode = 5
	unrecognizedChunkType                  errorCauseCode = 6
	invalidMandatoryParameter              errorCauseCode = 7
	unrecognizedParameters                 errorCauseCode = 8
	noUserData                             errorCauseCode = 9
	cookieReceivedWhileShuttingDown        errorCauseCode = 10
	restartOfAnAssociationWithNewAddresses errorCauseCode = 11
	userInitiatedAbort                     errorCauseCode = 12
	protocolViolation                      errorCauseCode = 13
)

func (e errorCauseCode) String() string {
	switch e {
	case invalidStreamIdentifier:
		return "Invalid Stream Identifier"
	case missingMandatoryParameter:
		return "Missing Mandatory Parameter"
	case staleCookieError:
		return "Stale Cookie Error"
	case outOfResource:
		return "Out Of Resource"
	case unresolvableAddress:
		return "Unresolvable Address"
	case unrecognizedChunkType:
		return "Unrecognized Chunk Type"
	case invalidMandatoryParameter:
		return "Invalid Mandatory Parameter"
	case unrecognizedParameters:
		return "Unrecognized Parameters"
	case noUserData:
		return "No User Data"
	case cookieReceivedWhileShuttingDown:
		return "Cookie Received While Shutting Down"
	case restartOfAnAssociationWithNewAddresses:
		return "Restart Of An Association With New Addresses"
	case userInitiatedAbort:
		return "User Initiated Abort"
	case protocolViolation:
		return "Protocol Violation"
	default:
		return fmt.Sprintf("Unknown CauseCode: %d", uint16(e))
	}
}
