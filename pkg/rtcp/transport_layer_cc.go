package rtcp

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Packet status chunk types carried in the two high bits of each
// packet-status chunk.
// https://tools.ietf.org/html/draft-holmer-rmcat-transport-wide-cc-extensions-01#section-3.1
const (
	typeRunLengthChunk    = 0
	typeStatusVectorChunk = 1

	packetStatusChunkLength = 2

	typeSymbolSizeOneBit = 0
	typeSymbolSizeTwoBit = 1
)

// Per-packet receive status symbols.
// https://tools.ietf.org/html/draft-holmer-rmcat-transport-wide-cc-extensions-01#section-3.1.1
const (
	typePacketNotReceived = iota
	typePacketReceivedSmallDelta
	typePacketReceivedLargeDelta
	typePacketReceivedWithoutDelta
)

const deltaScale = 250 // microseconds per recv-delta unit

// PacketStatusChunk is either a RunLengthChunk or a StatusVectorChunk,
// the two wire encodings of a transport-wide-cc packet status run.
type PacketStatusChunk interface {
	Marshal() ([]byte, error)
	Unmarshal(rawPacket []byte) error
}

// RunLengthChunk represents a run of RunLength consecutive packets that
// all share the same PacketStatusSymbol.
//
//	 0                   1
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|T| S |       Run Length        |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type RunLengthChunk struct {
	PacketStatusSymbol uint16
	RunLength          uint16
}

// Marshal encodes the RunLengthChunk in binary.
func (r RunLengthChunk) Marshal() ([]byte, error) {
	if r.RunLength > 0x1FFF {
		return nil, errDeltaExceedLimit
	}
	word := (r.PacketStatusSymbol & 0x3 << 13) | (r.RunLength & 0x1FFF)
	chunk := make([]byte, 2)
	binary.BigEndian.PutUint16(chunk, word)
	return chunk, nil
}

// Unmarshal decodes the RunLengthChunk from binary.
func (r *RunLengthChunk) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) != packetStatusChunkLength {
		return errPacketStatusChunkLength
	}
	word := binary.BigEndian.Uint16(rawPacket)
	r.PacketStatusSymbol = (word >> 13) & 0x3
	r.RunLength = word & 0x1FFF
	return nil
}

// StatusVectorChunk carries one status symbol per packet, either 14
// one-bit symbols or 7 two-bit symbols depending on SymbolSize.
//
//	 0                   1
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|T|S|       symbol list         |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type StatusVectorChunk struct {
	SymbolSize uint16
	SymbolList []uint16
}

// Marshal encodes the StatusVectorChunk in binary.
func (s StatusVectorChunk) Marshal() ([]byte, error) {
	var word uint16 = 1<<15 | s.SymbolSize<<14
	bitsPer := uint(1)
	if s.SymbolSize == typeSymbolSizeTwoBit {
		bitsPer = 2
	}

	shift := 14 - bitsPer
	for _, sym := range s.SymbolList {
		word |= (sym & ((1 << bitsPer) - 1)) << shift
		if shift < bitsPer {
			break
		}
		shift -= bitsPer
	}

	chunk := make([]byte, 2)
	binary.BigEndian.PutUint16(chunk, word)
	return chunk, nil
}

// Unmarshal decodes the StatusVectorChunk from binary.
func (s *StatusVectorChunk) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) != packetStatusChunkLength {
		return errPacketStatusChunkLength
	}
	word := binary.BigEndian.Uint16(rawPacket)
	s.SymbolSize = (word >> 14) & 0x1

	s.SymbolList = nil
	bitsPer := uint(1)
	count := 14
	if s.SymbolSize == typeSymbolSizeTwoBit {
		bitsPer = 2
		count = 7
	}
	for i := 0; i < count; i++ {
		shift := uint(14) - uint(i+1)*bitsPer
		s.SymbolList = append(s.SymbolList, (word>>shift)&((1<<bitsPer)-1))
	}
	return nil
}

// RecvDelta is the arrival-time delta of one packet relative to the
// previous one, represented in multiples of 250 microseconds. A small
// delta fits one byte (0 to 63.75ms); a large delta takes two signed
// bytes (-8192ms to 8191.75ms).
// https://tools.ietf.org/html/draft-holmer-rmcat-transport-wide-cc-extensions-01#section-3.1.5
type RecvDelta struct {
	Type  uint16
	Delta int64 // microseconds
}

// Marshal encodes the RecvDelta in binary.
func (r RecvDelta) Marshal() ([]byte, error) {
	delta := r.Delta / deltaScale

	switch {
	case r.Type == typePacketReceivedSmallDelta && delta >= 0 && delta <= math.MaxUint8:
		return []byte{byte(delta)}, nil
	case r.Type == typePacketReceivedLargeDelta && delta >= math.MinInt16 && delta <= math.MaxInt16:
		chunk := make([]byte, 2)
		binary.BigEndian.PutUint16(chunk, uint16(int16(delta)))
		return chunk, nil
	default:
		return nil, errDeltaExceedLimit
	}
}

// Unmarshal decodes the RecvDelta from binary.
func (r *RecvDelta) Unmarshal(rawPacket []byte) error {
	switch len(rawPacket) {
	case 1:
		r.Type = typePacketReceivedSmallDelta
		r.Delta = deltaScale * int64(rawPacket[0])
		return nil
	case 2:
		r.Type = typePacketReceivedLargeDelta
		r.Delta = deltaScale * int64(int16(binary.BigEndian.Uint16(rawPacket)))
		return nil
	default:
		return errDeltaExceedLimit
	}
}

const (
	baseSequenceNumberOffset = 8
	packetStatusCountOffset  = 10
	referenceTimeOffset      = 12
	fbPktCountOffset         = 15
	packetChunkOffset        = 16
)

// TransportLayerCC reports, for a run of transport-wide sequence
// numbers, whether each packet arrived and (when it did) the delta in
// arrival time from the prior packet. It drives transport-wide
// congestion control estimation on the sender side.
// https://tools.ietf.org/html/draft-holmer-rmcat-transport-wide-cc-extensions-01
type TransportLayerCC struct {
	// SenderSSRC is the SSRC of the packet sender.
	SenderSSRC uint32
	// MediaSSRC is the SSRC of the media source these statuses describe.
	MediaSSRC uint32
	// BaseSequenceNumber is the transport-wide sequence number of the
	// first packet this report covers.
	BaseSequenceNumber uint16
	// PacketStatusCount is the number of packets, starting at
	// BaseSequenceNumber, this report covers.
	PacketStatusCount uint16
	// ReferenceTime is a 24-bit signed multiple of 64ms, establishing
	// the time base that RecvDeltas are relative to.
	ReferenceTime uint32
	// FbPktCount increments with every TransportLayerCC the sender
	// emits, used to detect report loss.
	FbPktCount uint8
	// PacketChunks is the run-length/status-vector encoding of which
	// packets were received.
	PacketChunks []PacketStatusChunk
	// RecvDeltas holds one entry per received packet, in transport-wide
	// sequence order.
	RecvDeltas []*RecvDelta
}

func (t TransportLayerCC) len() int {
	n := headerLength + packetChunkOffset + len(t.PacketChunks)*2
	for _, d := range t.RecvDeltas {
		if b, err := d.Marshal(); err == nil {
			n += len(b)
		}
	}
	return n + getPadding(n)
}

// Header returns the Header associated with this packet.
func (t TransportLayerCC) Header() Header {
	return Header{
		Version: rtpVersion,
		Padding: getPadding(t.len()) != 0,
		Count:   uint8(FormatTCC),
		Type:    TypeTransportSpecificFeedback,
		Length:  uint16((t.len() / 4) - 1),
	}
}

// Marshal encodes the TransportLayerCC in binary.
func (t TransportLayerCC) Marshal() ([]byte, error) {
	payload := make([]byte, t.len()-headerLength)
	binary.BigEndian.PutUint32(payload, t.SenderSSRC)
	binary.BigEndian.PutUint32(payload[ssrcLength:], t.MediaSSRC)
	binary.BigEndian.PutUint16(payload[baseSequenceNumberOffset:], t.BaseSequenceNumber)
	binary.BigEndian.PutUint16(payload[packetStatusCountOffset:], t.PacketStatusCount)
	payload[referenceTimeOffset] = byte(t.ReferenceTime >> 16)
	payload[referenceTimeOffset+1] = byte(t.ReferenceTime >> 8)
	payload[referenceTimeOffset+2] = byte(t.ReferenceTime)
	payload[fbPktCountOffset] = t.FbPktCount

	off := packetChunkOffset
	for _, chunk := range t.PacketChunks {
		b, err := chunk.Marshal()
		if err != nil {
			return nil, err
		}
		copy(payload[off:], b)
		off += len(b)
	}
	for _, delta := range t.RecvDeltas {
		b, err := delta.Marshal()
		if err != nil {
			return nil, err
		}
		copy(payload[off:], b)
		off += len(b)
	}

	if padded := getPadding(len(payload)); padded != 0 {
		payload = setNBytesPadding(payload, padded)
	}

	hData, err := t.Header().Marshal()
	if err != nil {
		return nil, err
	}
	return append(hData, payload...), nil
}

// Unmarshal decodes the TransportLayerCC from binary.
func (t *TransportLayerCC) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (headerLength + packetChunkOffset) {
		return errPacketTooShort
	}

	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	total := headerLength + int(h.Length)*4
	if total < headerLength+packetChunkOffset || len(rawPacket) < total {
		return errPacketTooShort
	}
	if h.Type != TypeTransportSpecificFeedback || PacketType(h.Count) != FormatTCC {
		return errWrongType
	}

	t.SenderSSRC = binary.BigEndian.Uint32(rawPacket[headerLength:])
	t.MediaSSRC = binary.BigEndian.Uint32(rawPacket[headerLength+ssrcLength:])
	t.BaseSequenceNumber = binary.BigEndian.Uint16(rawPacket[headerLength+baseSequenceNumberOffset:])
	t.PacketStatusCount = binary.BigEndian.Uint16(rawPacket[headerLength+packetStatusCountOffset:])
	rt := rawPacket[headerLength+referenceTimeOffset:]
	t.ReferenceTime = uint32(rt[0])<<16 | uint32(rt[1])<<8 | uint32(rt[2])
	t.FbPktCount = rawPacket[headerLength+fbPktCountOffset]

	t.PacketChunks = nil
	t.RecvDeltas = nil

	pos := headerLength + packetChunkOffset
	remaining := int(t.PacketStatusCount)
	for remaining > 0 {
		if pos+packetStatusChunkLength > total {
			return errPacketTooShort
		}
		raw := rawPacket[pos : pos+packetStatusChunkLength]
		chunkType := (raw[0] >> 7) & 0x1

		switch chunkType {
		case typeRunLengthChunk:
			chunk := &RunLengthChunk{}
			if err := chunk.Unmarshal(raw); err != nil {
				return err
			}
			t.PacketChunks = append(t.PacketChunks, chunk)
			n := int(chunk.RunLength)
			if n > remaining {
				n = remaining
			}
			if chunk.PacketStatusSymbol == typePacketReceivedSmallDelta ||
				chunk.PacketStatusSymbol == typePacketReceivedLargeDelta {
				for i := 0; i < n; i++ {
					t.RecvDeltas = append(t.RecvDeltas, &RecvDelta{Type: chunk.PacketStatusSymbol})
				}
			}
			remaining -= n
		case typeStatusVectorChunk:
			chunk := &StatusVectorChunk{}
			if err := chunk.Unmarshal(raw); err != nil {
				return err
			}
			t.PacketChunks = append(t.PacketChunks, chunk)
			for _, sym := range chunk.SymbolList {
				if remaining == 0 {
					break
				}
				if sym == typePacketReceivedSmallDelta || sym == typePacketReceivedLargeDelta {
					t.RecvDeltas = append(t.RecvDeltas, &RecvDelta{Type: sym})
				}
				remaining--
			}
		}
		pos += packetStatusChunkLength
	}

	for _, delta := range t.RecvDeltas {
		n := 1
		if delta.Type == typePacketReceivedLargeDelta {
			n = 2
		}
		if pos+n > total {
			return errPacketTooShort
		}
		if err := delta.Unmarshal(rawPacket[pos : pos+n]); err != nil {
			return err
		}
		pos += n
	}

	return nil
}

func (t TransportLayerCC) String() string {
	return fmt.Sprintf("TransportLayerCC %x %x base=%d count=%d chunks=%d deltas=%d",
		t.SenderSSRC, t.MediaSSRC, t.BaseSequenceNumber, t.PacketStatusCount,
		len(t.PacketChunks), len(t.RecvDeltas))
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (t TransportLayerCC) DestinationSSRC() []uint32 {
	return []uint32{t.MediaSSRC}
}
