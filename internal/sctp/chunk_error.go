package sctp

import "github.com/pkg/errors"

// chunkError reports one or more error causes without ending the
// association, unlike chunkAbort.
// https://tools.ietf.org/html/rfc4960#section-3.3.10
type chunkError struct {
	chunkHeader
	errorCauses []errorCause
}

func (e *chunkError) unmarshal(raw []byte) error {
	if err := e.chunkHeader.unmarshal(raw); err != nil {
		return err
	}
	if e.typ != ctError {
		return errors.Errorf("ChunkType is not of type ERROR, actually is %s", e.typ.String())
	}

	offset := 0
	for len(e.raw)-offset >= 4 {
		c, err := buildErrorCause(e.raw[offset:])
		if err != nil {
			return errors.Wrap(err, "failed to build Error chunk")
		}
		offset += int(c.length())
		e.errorCauses = append(e.errorCauses, c)
	}
	return nil
}

func (e *chunkError) marshal() ([]byte, error) {
	out := make([]byte, 0)
	for _, c := range e.errorCauses {
		raw, err := c.marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, raw...)
	}

	e.chunkHeader.typ = ctError
	e.chunkHeader.raw = out
	return e.chunkHeader.marshal()
}

func (e *chunkError) check() (abort bool, err error) {
	return false, nil
}
