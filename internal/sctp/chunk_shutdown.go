package sctp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// chunkShutdown begins a graceful shutdown, advertising the cumulative
// TSN the sender has received so the peer can retire its send queue.
// https://tools.ietf.org/html/rfc4960#section-3.3.8
type chunkShutdown struct {
	chunkHeader
	cumulativeTSNAck uint32
}

func (s *chunkShutdown) unmarshal(raw []byte) error {
	if err := s.chunkHeader.unmarshal(raw); err != nil {
		return err
	}
	if s.typ != ctShutdown {
		return errors.Errorf("ChunkType is not of type SHUTDOWN, actually is %s", s.typ.String())
	}
	if len(s.raw) < 4 {
		return errors.New("SHUTDOWN chunk too short")
	}
	s.cumulativeTSNAck = binary.BigEndian.Uint32(s.raw[0:])
	return nil
}

func (s *chunkShutdown) marshal() ([]byte, error) {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint32(raw[0:], s.cumulativeTSNAck)
	s.chunkHeader.typ = ctShutdown
	s.chunkHeader.raw = raw
	return s.chunkHeader.marshal()
}

func (s *chunkShutdown) check() (abort bool, err error) {
	return false, nil
}

// chunkShutdownAck acknowledges a SHUTDOWN or completes the receiving
// side of a simultaneous shutdown.
// https://tools.ietf.org/html/rfc4960#section-3.3.9
type chunkShutdownAck struct {
	chunkHeader
}

func (s *chunkShutdownAck) unmarshal(raw []byte) error {
	if err := s.chunkHeader.unmarshal(raw); err != nil {
		return err
	}
	if s.typ != ctShutdownAck {
		return errors.Errorf("ChunkType is not of type SHUTDOWN ACK, actually is %s", s.typ.String())
	}
	return nil
}

func (s *chunkShutdownAck) marshal() ([]byte, error) {
	s.chunkHeader.typ = ctShutdownAck
	s.chunkHeader.raw = nil
	return s.chunkHeader.marshal()
}

func (s *chunkShutdownAck) check() (abort bool, err error) {
	return false, nil
}

// chunkShutdownComplete ends the shutdown handshake; receiving it tears
// down the TCB immediately.
// https://tools.ietf.org/html/rfc4960#section-3.3.10
type chunkShutdownComplete struct {
	chunkHeader
}

func (s *chunkShutdownComplete) unmarshal(raw []byte) error {
	if err := s.chunkHeader.unmarshal(raw); err != nil {
		return err
	}
	if s.typ != ctShutdownComplete {
		return errors.Errorf("ChunkType is not of type SHUTDOWN COMPLETE, actually is %s", s.typ.String())
	}
	return nil
}

func (s *chunkShutdownComplete) marshal() ([]byte, error) {
	s.chunkHeader.typ = ctShutdownComplete
	s.chunkHeader.raw = nil
	return s.chunkHeader.marshal()
}

func (s *chunkShutdownComplete) check() (abort bool, err error) {
	return false, nil
}
