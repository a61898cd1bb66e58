package rtcp

import (
	"encoding/binary"
	"fmt"
)

// PacketBitmap shouldn't be used like a normal integral, so its type is
// masked here. Access it with PacketList().
type PacketBitmap uint16

// NackPair is a wire-representation of a collection of lost RTP packets:
// an explicit packet-id plus a bitmask of further losses that follow it.
type NackPair struct {
	// PacketID is the sequence number of the first lost packet.
	PacketID uint16
	// LostPackets is a bitmask where bit i (0-indexed) marks
	// PacketID+i+1 as also lost.
	LostPackets PacketBitmap
}

// PacketList returns the sequence numbers of every packet nacked by this
// pair: PacketID itself, followed by PacketID+i+1 for every set bit i of
// LostPackets in ascending order.
func (n *NackPair) PacketList() []uint16 {
	out := make([]uint16, 1, 17)
	out[0] = n.PacketID
	b := n.LostPackets
	for i := uint16(0); b != 0; i++ {
		if (b & (1 << i)) != 0 {
			b &^= 1 << i
			out = append(out, n.PacketID+i+1)
		}
	}
	return out
}

// The TransportLayerNack packet informs the encoder about the loss of a
// transport packet.
// IETF RFC 4585, Section 6.2.1 https://tools.ietf.org/html/rfc4585#section-6.2.1
type TransportLayerNack struct {
	// SenderSSRC is the SSRC of the packet sender.
	SenderSSRC uint32
	// MediaSSRC is the SSRC of the media source the loss occurred on.
	MediaSSRC uint32
	// Nacks is the list of lost-packet runs carried by this packet.
	Nacks []NackPair
}

const (
	tlnLength  = 2
	nackOffset = 8
)

// NackPairsFromSequenceNumbers packs a sorted (modulo 2^16) run of lost
// sequence numbers into the minimal set of NackPairs, starting a new pair
// whenever the next loss falls outside the 17-wide window addressable by
// the current pair's bitmask.
func NackPairsFromSequenceNumbers(seqNums []uint16) []NackPair {
	if len(seqNums) == 0 {
		return nil
	}

	pairs := make([]NackPair, 0)
	pair := NackPair{PacketID: seqNums[0]}
	for _, seq := range seqNums[1:] {
		d := seq - pair.PacketID
		if d == 0 {
			continue
		}
		if d > 16 {
			pairs = append(pairs, pair)
			pair = NackPair{PacketID: seq}
			continue
		}
		pair.LostPackets |= 1 << (d - 1)
	}
	pairs = append(pairs, pair)

	return pairs
}

// Marshal encodes the TransportLayerNack in binary.
func (p TransportLayerNack) Marshal() ([]byte, error) {
	if len(p.Nacks)+tlnLength > 255 {
		return nil, errTooManyReports
	}

	body := make([]byte, nackOffset+(len(p.Nacks)*4))
	binary.BigEndian.PutUint32(body, p.SenderSSRC)
	binary.BigEndian.PutUint32(body[ssrcLength:], p.MediaSSRC)
	for i, nack := range p.Nacks {
		binary.BigEndian.PutUint16(body[nackOffset+(4*i):], nack.PacketID)
		binary.BigEndian.PutUint16(body[nackOffset+(4*i)+2:], uint16(nack.LostPackets))
	}

	hData, err := p.Header().Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, body...), nil
}

// Unmarshal decodes the TransportLayerNack from binary.
func (p *TransportLayerNack) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (headerLength + ssrcLength) {
		return errPacketTooShort
	}

	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if len(rawPacket) < (headerLength + int(4*h.Length)) {
		return errPacketTooShort
	}
	if h.Type != TypeTransportSpecificFeedback || PacketType(h.Count) != FormatTLN {
		return errWrongType
	}

	p.SenderSSRC = binary.BigEndian.Uint32(rawPacket[headerLength:])
	p.MediaSSRC = binary.BigEndian.Uint32(rawPacket[headerLength+ssrcLength:])

	p.Nacks = nil
	for i := headerLength + nackOffset; i < (headerLength + int(h.Length)*4); i += 4 {
		p.Nacks = append(p.Nacks, NackPair{
			PacketID:    binary.BigEndian.Uint16(rawPacket[i:]),
			LostPackets: PacketBitmap(binary.BigEndian.Uint16(rawPacket[i+2:])),
		})
	}
	return nil
}

func (p TransportLayerNack) len() int {
	return headerLength + nackOffset + (len(p.Nacks) * 4)
}

// Header returns the Header associated with this packet.
func (p TransportLayerNack) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(FormatTLN),
		Type:    TypeTransportSpecificFeedback,
		Length:  uint16((p.len() / 4) - 1),
	}
}

func (p TransportLayerNack) String() string {
	out := fmt.Sprintf("TransportLayerNack from %x\n", p.SenderSSRC)
	out += fmt.Sprintf("\tMedia SSRC %x\n", p.MediaSSRC)
	for _, n := range p.Nacks {
		out += fmt.Sprintf("\t%d\t%b\n", n.PacketID, n.LostPackets)
	}
	return out
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p TransportLayerNack) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}
