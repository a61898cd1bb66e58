package sctp

import "encoding/binary"

// errorCauseHeader is the 4-byte header shared by all error causes.
type errorCauseHeader struct {
	errCode errorCauseCode
	len     uint16
	raw     []byte
}

func (e *errorCauseHeader) marshal() ([]byte, error) {
	raw := make([]byte, 4+len(e.raw))
	binary.BigEndian.PutUint16(raw[0:], uint16(e.errCode))
	binary.BigEndian.PutUint16(raw[2:], uint16(4+len(e.raw)))
	copy(raw[4:], e.raw)
	return raw, nil
}

func (e *errorCauseHeader) unmarshal(raw []byte) error {
	e.errCode = errorCauseCode(binary.BigEndian.Uint16(raw[0:]))
	e.len = binary.BigEndian.Uint16(raw[2:])
	if int(e.len) > 4 && int(e.len) <= len(raw) {
		e.raw = raw[4:e.len]
	}
	return nil
}

func (e *errorCauseHeader) length() uint16 {
	return e.len
}

func (e *errorCauseHeader) code() errorCauseCode {
	return e.errCode
}
