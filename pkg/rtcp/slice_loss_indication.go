package rtcp

import (
	"encoding/binary"
	"fmt"
)

// SLIEntry represents a single run of lost slices reported by a
// SliceLossIndication packet.
type SLIEntry struct {
	// First is the macroblock (GOB) address of the first lost slice.
	First uint16
	// Number is the number of lost slices, starting at First.
	Number uint16
	// Picture is the 6 least significant bits of the picture ID the
	// loss refers to.
	Picture uint8
}

// The SliceLossIndication packet informs the encoder about the loss of a
// number of slices within a picture.
type SliceLossIndication struct {
	// SenderSSRC is the SSRC of the packet sender.
	SenderSSRC uint32
	// MediaSSRC is the SSRC of the media source the loss occurred on.
	MediaSSRC uint32
	// SLI is the list of lost-slice entries carried by this packet.
	SLI []SLIEntry
}

const (
	sliLength = 2
	sliOffset = 8
)

// Marshal encodes the SliceLossIndication in binary.
func (p SliceLossIndication) Marshal() ([]byte, error) {
	if len(p.SLI)+sliLength > 255 {
		return nil, errTooManyReports
	}

	body := make([]byte, sliOffset+(len(p.SLI)*4))
	binary.BigEndian.PutUint32(body, p.SenderSSRC)
	binary.BigEndian.PutUint32(body[ssrcLength:], p.MediaSSRC)
	for i, entry := range p.SLI {
		word := ((uint32(entry.First) & 0x1FFF) << 19) |
			((uint32(entry.Number) & 0x1FFF) << 6) |
			(uint32(entry.Picture) & 0x3F)
		binary.BigEndian.PutUint32(body[sliOffset+(4*i):], word)
	}

	hData, err := p.Header().Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, body...), nil
}

// Unmarshal decodes the SliceLossIndication from binary.
func (p *SliceLossIndication) Unmarshal(rawPacket []byte) error {
	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if len(rawPacket) < (headerLength + int(4*h.Length)) {
		return errPacketTooShort
	}
	if h.Type != TypeTransportSpecificFeedback || PacketType(h.Count) != FormatSLI {
		return errWrongType
	}

	p.SenderSSRC = binary.BigEndian.Uint32(rawPacket[headerLength:])
	p.MediaSSRC = binary.BigEndian.Uint32(rawPacket[headerLength+ssrcLength:])

	p.SLI = nil
	for i := headerLength + sliOffset; i < (headerLength + int(h.Length)*4); i += 4 {
		word := binary.BigEndian.Uint32(rawPacket[i:])
		p.SLI = append(p.SLI, SLIEntry{
			First:   uint16((word >> 19) & 0x1FFF),
			Number:  uint16((word >> 6) & 0x1FFF),
			Picture: uint8(word & 0x3F),
		})
	}
	return nil
}

func (p SliceLossIndication) len() int {
	return headerLength + sliOffset + (len(p.SLI) * 4)
}

// Header returns the Header associated with this packet.
func (p SliceLossIndication) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(FormatSLI),
		Type:    TypeTransportSpecificFeedback,
		Length:  uint16((p.len() / 4) - 1),
	}
}

func (p SliceLossIndication) String() string {
	return fmt.Sprintf("SliceLossIndication %x %x %+v", p.SenderSSRC, p.MediaSSRC, p.SLI)
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p SliceLossIndication) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}
