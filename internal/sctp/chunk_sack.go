package sctp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// chunkSelectiveAck reports the highest in-order TSN received
// (cumulativeTSNAck), the advertised receiver window, and any
// gap-ack-blocks for data received out of order.
// https://tools.ietf.org/html/rfc4960#section-3.3.4
type chunkSelectiveAck struct {
	chunkHeader
	cumulativeTSNAck               uint32
	advertisedReceiverWindowCredit uint32
	gapAckBlocks                   []gapAckBlock
	duplicateTSN                   []uint32
}

const sackChunkMinLength = 12

func (s *chunkSelectiveAck) unmarshal(raw []byte) error {
	if err := s.chunkHeader.unmarshal(raw); err != nil {
		return err
	}

	if s.typ != ctSack {
		return errors.Errorf("ChunkType is not of type SACK, actually is %s", s.typ.String())
	}
	if len(s.raw) < sackChunkMinLength {
		return errors.Errorf("SACK chunk too short: %d", len(s.raw))
	}

	s.cumulativeTSNAck = binary.BigEndian.Uint32(s.raw[0:])
	s.advertisedReceiverWindowCredit = binary.BigEndian.Uint32(s.raw[4:])
	numGapAckBlocks := binary.BigEndian.Uint16(s.raw[8:])
	numDupTSN := binary.BigEndian.Uint16(s.raw[10:])

	offset := sackChunkMinLength
	for i := uint16(0); i < numGapAckBlocks; i++ {
		if offset+4 > len(s.raw) {
			return errors.New("SACK chunk truncated in gap-ack-blocks")
		}
		s.gapAckBlocks = append(s.gapAckBlocks, gapAckBlock{
			start: binary.BigEndian.Uint16(s.raw[offset:]),
			end:   binary.BigEndian.Uint16(s.raw[offset+2:]),
		})
		offset += 4
	}

	for i := uint16(0); i < numDupTSN; i++ {
		if offset+4 > len(s.raw) {
			return errors.New("SACK chunk truncated in duplicate TSNs")
		}
		s.duplicateTSN = append(s.duplicateTSN, binary.BigEndian.Uint32(s.raw[offset:]))
		offset += 4
	}

	return nil
}

func (s *chunkSelectiveAck) marshal() ([]byte, error) {
	raw := make([]byte, sackChunkMinLength+4*len(s.gapAckBlocks)+4*len(s.duplicateTSN))
	binary.BigEndian.PutUint32(raw[0:], s.cumulativeTSNAck)
	binary.BigEndian.PutUint32(raw[4:], s.advertisedReceiverWindowCredit)
	binary.BigEndian.PutUint16(raw[8:], uint16(len(s.gapAckBlocks))) // nolint:gosec
	binary.BigEndian.PutUint16(raw[10:], uint16(len(s.duplicateTSN))) // nolint:gosec

	offset := sackChunkMinLength
	for _, b := range s.gapAckBlocks {
		binary.BigEndian.PutUint16(raw[offset:], b.start)
		binary.BigEndian.PutUint16(raw[offset+2:], b.end)
		offset += 4
	}
	for _, d := range s.duplicateTSN {
		binary.BigEndian.PutUint32(raw[offset:], d)
		offset += 4
	}

	s.chunkHeader.typ = ctSack
	s.chunkHeader.raw = raw
	return s.chunkHeader.marshal()
}

func (s *chunkSelectiveAck) check() (abort bool, err error) {
	return false, nil
}
