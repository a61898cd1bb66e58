package sctp

import "github.com/pkg/errors"

// chunkAbort closes an association immediately, optionally carrying error
// causes describing why.
// https://tools.ietf.org/html/rfc4960#section-3.3.7
type chunkAbort struct {
	chunkHeader
	errorCauses []errorCause
}

func (a *chunkAbort) unmarshal(raw []byte) error {
	if err := a.chunkHeader.unmarshal(raw); err != nil {
		return err
	}

	if a.typ != ctAbort {
		return errors.Errorf("ChunkType is not of type ABORT, actually is %s", a.typ.String())
	}

	offset := 0
	for len(a.raw)-offset >= 4 {
		e, err := buildErrorCause(a.raw[offset:])
		if err != nil {
			return errors.Wrap(err, "failed to build Abort chunk")
		}

		offset += int(e.length())
		a.errorCauses = append(a.errorCauses, e)
	}
	return nil
}

func (a *chunkAbort) marshal() ([]byte, error) {
	out := make([]byte, 0)
	for _, e := range a.errorCauses {
		raw, err := e.marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, raw...)
	}

	a.chunkHeader.typ = ctAbort
	a.chunkHeader.raw = out
	return a.chunkHeader.marshal()
}

func (a *chunkAbort) check() (abort bool, err error) {
	return true, nil
}
