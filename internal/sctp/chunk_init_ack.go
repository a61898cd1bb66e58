package sctp

import "github.com/pkg/errors"

// chunkInitAck represents an SCTP chunk of type INIT ACK, the reply to an
// INIT carrying the responder's own parameters plus the State Cookie the
// initiator must echo back.
// https://tools.ietf.org/html/rfc4960#section-3.3.3
type chunkInitAck struct {
	chunkHeader
	initChunkCommon
}

func (i *chunkInitAck) unmarshal(raw []byte) error {
	if err := i.chunkHeader.unmarshal(raw); err != nil {
		return err
	}

	if i.typ != ctInitAck {
		return errors.Errorf("ChunkType is not of type INIT ACK, actually is %s", i.typ.String())
	}

	return i.initChunkCommon.unmarshal(i.raw)
}

func (i *chunkInitAck) marshal() ([]byte, error) {
	body, err := i.initChunkCommon.marshal()
	if err != nil {
		return nil, err
	}

	i.chunkHeader.typ = ctInitAck
	i.chunkHeader.flags = 0
	i.chunkHeader.raw = body
	return i.chunkHeader.marshal()
}

func (i *chunkInitAck) check() (abort bool, err error) {
	return false, nil
}

// stateCookieParam returns the State Cookie parameter carried in this
// INIT ACK, if present.
func (i *chunkInitAck) stateCookieParam() (*paramStateCookie, bool) {
	for _, p := range i.params {
		if sc, ok := p.(*paramStateCookie); ok {
			return sc, true
		}
	}
	return nil, false
}
