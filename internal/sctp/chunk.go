package sctp

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// chunkType is an enum for SCTP Chunk Type field
// This field identifies the type of information contained in the
// Chunk Value field.
// https://tools.ietf.org/html/rfc4960#section-3.2
type chunkType uint8

// List of known chunkType enums, plus the Forward-TSN/Reconfig
// extensions this association needs for partial reliability and
// stream reset.
const (
	ctPayloadData      chunkType = 0
	ctInit             chunkType = 1
	ctInitAck          chunkType = 2
	ctSack             chunkType = 3
	ctHeartbeat        chunkType = 4
	ctHeartbeatAck     chunkType = 5
	ctAbort            chunkType = 6
	ctShutdown         chunkType = 7
	ctShutdownAck      chunkType = 8
	ctError            chunkType = 9
	ctCookieEcho       chunkType = 10
	ctCookieAck        chunkType = 11
	ctCwr              chunkType = 13
	ctShutdownComplete chunkType = 14
	ctReconfig         chunkType = 130
	ctForwardTSN       chunkType = 192
)

func (c chunkType) String() string {
	switch c {
	case ctPayloadData:
		return "Payload data"
	case ctInit:
		return "Initiation"
	case ctInitAck:
		return "Initiation Acknowledgement"
	case ctSack:
		return "Selective Acknowledgement"
	case ctHeartbeat:
		return "Heartbeat"
	case ctHeartbeatAck:
		return "Heartbeat Acknowledgement"
	case ctAbort:
		return "Abort"
	case ctShutdown:
		return "Shutdown"
	case ctShutdownAck:
		return "Shutdown Acknowledgement"
	case ctError:
		return "Error"
	case ctCookieEcho:
		return "Cookie Echo"
	case ctCookieAck:
		return "Cookie Acknowledgement"
	case ctCwr:
		return "Congestion Window Reduced"
	case ctShutdownComplete:
		return "Shutdown Complete"
	case ctReconfig:
		return "Re-configuration"
	case ctForwardTSN:
		return "Forward TSN"
	default:
		return fmt.Sprintf("Unknown chunkType: %d", c)
	}
}

// chunkHeader represents the 4-byte header shared by every SCTP chunk.
// https://tools.ietf.org/html/rfc4960#section-3.2
type chunkHeader struct {
	typ   chunkType
	flags byte
	raw   []byte
}

const chunkHeaderSize = 4

func (c *chunkHeader) unmarshal(raw []byte) error {
	if len(raw) < chunkHeaderSize {
		return errors.Errorf("raw only %d bytes, %d is the minimum length for a SCTP chunk", len(raw), chunkHeaderSize)
	}

	c.typ = chunkType(raw[0])
	c.flags = raw[1]
	length := binary.BigEndian.Uint16(raw[2:])

	valueLength := int(length) - chunkHeaderSize
	if valueLength < 0 || chunkHeaderSize+valueLength > len(raw) {
		return errors.Errorf("not enough data left in SCTP chunk to satisfy requested length %d", valueLength)
	}

	c.raw = raw[chunkHeaderSize : chunkHeaderSize+valueLength]
	return nil
}

func (c *chunkHeader) marshal() ([]byte, error) {
	raw := make([]byte, chunkHeaderSize+len(c.raw))
	raw[0] = uint8(c.typ)
	raw[1] = c.flags
	binary.BigEndian.PutUint16(raw[2:], uint16(len(c.raw)+chunkHeaderSize))
	copy(raw[chunkHeaderSize:], c.raw)
	return raw, nil
}

func (c *chunkHeader) Type() chunkType {
	return c.typ
}

func (c *chunkHeader) valueLength() int {
	return len(c.raw)
}

// chunk is the interface every SCTP chunk type implements, mirroring the
// sans-I/O split used by the rest of the association: unmarshal/marshal
// only ever touch bytes already read off, or about to be written to, the
// wire.
type chunk interface {
	unmarshal(raw []byte) error
	marshal() ([]byte, error)
	check() (abort bool, err error)

	Type() chunkType
	valueLength() int
}
