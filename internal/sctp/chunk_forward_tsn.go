package sctp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// forwardTSNStreamSkip names the highest stream-sequence-number a sender
// is abandoning on one stream as part of a FORWARD TSN.
type forwardTSNStreamSkip struct {
	streamIdentifier   uint16
	streamSequenceNumber uint16
}

// chunkForwardTSN implements the partial reliability extension
// (RFC 3758): it advances the cumulative TSN ack point past data the
// sender has abandoned, so the receiver doesn't wait forever for a gap
// that will never be filled.
// https://tools.ietf.org/html/rfc3758#section-3.2
type chunkForwardTSN struct {
	chunkHeader
	newCumulativeTSN uint32
	streams          []forwardTSNStreamSkip
}

const forwardTSNChunkMinLength = 4

func (f *chunkForwardTSN) unmarshal(raw []byte) error {
	if err := f.chunkHeader.unmarshal(raw); err != nil {
		return err
	}
	if f.typ != ctForwardTSN {
		return errors.Errorf("ChunkType is not of type FORWARD TSN, actually is %s", f.typ.String())
	}
	if len(f.raw) < forwardTSNChunkMinLength {
		return errors.New("FORWARD TSN chunk too short")
	}

	f.newCumulativeTSN = binary.BigEndian.Uint32(f.raw[0:])
	for offset := forwardTSNChunkMinLength; offset+4 <= len(f.raw); offset += 4 {
		f.streams = append(f.streams, forwardTSNStreamSkip{
			streamIdentifier:     binary.BigEndian.Uint16(f.raw[offset:]),
			streamSequenceNumber: binary.BigEndian.Uint16(f.raw[offset+2:]),
		})
	}

	return nil
}

func (f *chunkForwardTSN) marshal() ([]byte, error) {
	raw := make([]byte, forwardTSNChunkMinLength+4*len(f.streams))
	binary.BigEndian.PutUint32(raw[0:], f.newCumulativeTSN)
	offset := forwardTSNChunkMinLength
	for _, s := range f.streams {
		binary.BigEndian.PutUint16(raw[offset:], s.streamIdentifier)
		binary.BigEndian.PutUint16(raw[offset+2:], s.streamSequenceNumber)
		offset += 4
	}

	f.chunkHeader.typ = ctForwardTSN
	f.chunkHeader.raw = raw
	return f.chunkHeader.marshal()
}

func (f *chunkForwardTSN) check() (abort bool, err error) {
	return false, nil
}
