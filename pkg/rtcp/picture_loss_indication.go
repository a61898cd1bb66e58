package rtcp

import "encoding/binary"

// The PictureLossIndication packet informs the encoder that an undefined
// amount of coded video data belonging to one or more pictures has been
// lost. It carries no Feedback Control Information.
type PictureLossIndication struct {
	// SenderSSRC is the SSRC of the packet sender.
	SenderSSRC uint32
	// MediaSSRC is the SSRC of the media source the loss occurred on.
	MediaSSRC uint32
}

const pliLength = 2

// Marshal encodes the PictureLossIndication in binary.
func (p PictureLossIndication) Marshal() ([]byte, error) {
	rawPacket := make([]byte, p.len())
	body := rawPacket[headerLength:]

	binary.BigEndian.PutUint32(body, p.SenderSSRC)
	binary.BigEndian.PutUint32(body[ssrcLength:], p.MediaSSRC)

	hData, err := p.Header().Marshal()
	if err != nil {
		return nil, err
	}
	copy(rawPacket, hData)

	return rawPacket, nil
}

// Unmarshal decodes the PictureLossIndication from binary.
func (p *PictureLossIndication) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (headerLength + (ssrcLength * 2)) {
		return errPacketTooShort
	}

	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if h.Version != rtpVersion {
		return errBadVersion
	}
	if h.Type != TypePayloadSpecificFeedback || PacketType(h.Count) != FormatPLI {
		return errWrongType
	}

	p.SenderSSRC = binary.BigEndian.Uint32(rawPacket[headerLength:])
	p.MediaSSRC = binary.BigEndian.Uint32(rawPacket[headerLength+ssrcLength:])
	return nil
}

// Header returns the Header associated with this packet.
func (p PictureLossIndication) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(FormatPLI),
		Type:    TypePayloadSpecificFeedback,
		Length:  pliLength,
	}
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p PictureLossIndication) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}

func (p PictureLossIndication) len() int {
	return headerLength + ssrcLength*2
}
