package rtcp

import (
	"encoding/binary"
	"fmt"
)

// A FIREntry is a (ssrc, seqno) pair, as carried by FullIntraRequest.
type FIREntry struct {
	SSRC           uint32
	SequenceNumber uint8
}

// The FullIntraRequest packet is used to reliably request an intra frame
// in a video stream. See RFC 5104 Section 3.5.1. This is not for loss
// recovery, which should use PictureLossIndication instead.
type FullIntraRequest struct {
	// SenderSSRC is the SSRC of the packet sender.
	SenderSSRC uint32
	// MediaSSRC is the SSRC of the media source.
	MediaSSRC uint32
	// FIR is the list of (ssrc, sequence-number) entries this request
	// covers; normally a single entry per media source.
	FIR []FIREntry
}

const firOffset = 8

// Marshal encodes the FullIntraRequest in binary.
func (p FullIntraRequest) Marshal() ([]byte, error) {
	body := make([]byte, firOffset+len(p.FIR)*8)
	binary.BigEndian.PutUint32(body, p.SenderSSRC)
	binary.BigEndian.PutUint32(body[ssrcLength:], p.MediaSSRC)

	for i, entry := range p.FIR {
		off := firOffset + i*8
		binary.BigEndian.PutUint32(body[off:], entry.SSRC)
		body[off+4] = entry.SequenceNumber
		// bytes off+5..off+8 are reserved and left zero
	}

	hData, err := p.Header().Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, body...), nil
}

// Unmarshal decodes the FullIntraRequest from binary.
func (p *FullIntraRequest) Unmarshal(rawPacket []byte) error {
	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if len(rawPacket) < (headerLength + int(4*h.Length)) {
		return errPacketTooShort
	}
	if h.Type != TypePayloadSpecificFeedback || PacketType(h.Count) != FormatFIR {
		return errWrongType
	}

	p.SenderSSRC = binary.BigEndian.Uint32(rawPacket[headerLength:])
	p.MediaSSRC = binary.BigEndian.Uint32(rawPacket[headerLength+ssrcLength:])

	p.FIR = nil
	for i := headerLength + firOffset; i < (headerLength + int(h.Length)*4); i += 8 {
		p.FIR = append(p.FIR, FIREntry{
			SSRC:           binary.BigEndian.Uint32(rawPacket[i:]),
			SequenceNumber: rawPacket[i+4],
		})
	}
	return nil
}

func (p FullIntraRequest) len() int {
	return headerLength + firOffset + len(p.FIR)*8
}

// Header returns the Header associated with this packet.
func (p FullIntraRequest) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(FormatFIR),
		Type:    TypePayloadSpecificFeedback,
		Length:  uint16((p.len() / 4) - 1),
	}
}

func (p FullIntraRequest) String() string {
	out := fmt.Sprintf("FullIntraRequest %x %x", p.SenderSSRC, p.MediaSSRC)
	for _, e := range p.FIR {
		out += fmt.Sprintf(" (%x %d)", e.SSRC, e.SequenceNumber)
	}
	return out
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p FullIntraRequest) DestinationSSRC() []uint32 {
	out := make([]uint32, len(p.FIR))
	for i, e := range p.FIR {
		out[i] = e.SSRC
	}
	return out
}
