package sctp

import "github.com/pkg/errors"

// chunkInit represents an SCTP chunk of type INIT, sent by the endpoint
// that starts an association to propose its initiate tag, receive window
// and stream counts.
// https://tools.ietf.org/html/rfc4960#section-3.3.2
type chunkInit struct {
	chunkHeader
	initChunkCommon
}

func (i *chunkInit) unmarshal(raw []byte) error {
	if err := i.chunkHeader.unmarshal(raw); err != nil {
		return err
	}

	if i.typ != ctInit {
		return errors.Errorf("ChunkType is not of type INIT, actually is %s", i.typ.String())
	}

	// The Chunk Flags field in INIT is reserved, and all bits in it should
	// be set to 0 by the sender and ignored by the receiver.
	if i.flags != 0 {
		return errors.New("chunk type INIT flags must be all 0")
	}

	return i.initChunkCommon.unmarshal(i.raw)
}

func (i *chunkInit) marshal() ([]byte, error) {
	body, err := i.initChunkCommon.marshal()
	if err != nil {
		return nil, err
	}

	i.chunkHeader.typ = ctInit
	i.chunkHeader.flags = 0
	i.chunkHeader.raw = body
	return i.chunkHeader.marshal()
}

func (i *chunkInit) check() (abort bool, err error) {
	return false, nil
}
