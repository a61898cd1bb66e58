package rtcp

import "encoding/binary"

// The Goodbye packet indicates that one or more sources are no longer
// active.
type Goodbye struct {
	// Sources lists the SSRC/CSRC identifiers that are no longer active.
	Sources []uint32
	// Reason is optional text indicating why the source is leaving, e.g.
	// "camera malfunction" or "RTP loop detected".
	Reason string
}

// Marshal encodes the Goodbye packet in binary.
func (g Goodbye) Marshal() ([]byte, error) {
	if len(g.Sources) > countMax {
		return nil, errTooManySources
	}

	body := make([]byte, len(g.Sources)*ssrcLength)
	for i, s := range g.Sources {
		binary.BigEndian.PutUint32(body[i*ssrcLength:], s)
	}

	if g.Reason != "" {
		reason := []byte(g.Reason)
		if len(reason) > sdesMaxOctetCount {
			return nil, errReasonTooLong
		}

		body = append(body, uint8(len(reason)))
		body = append(body, reason...)
	}

	padded := getPadding(len(body))
	h := Header{
		Padding: padded != 0,
		Count:   uint8(len(g.Sources)),
		Type:    TypeGoodbye,
		Length:  uint16((headerLength+len(body)+padded)/4 - 1),
	}
	hData, err := h.Marshal()
	if err != nil {
		return nil, err
	}

	rawPacket := append(hData, body...)
	if padded != 0 {
		rawPacket = setNBytesPadding(rawPacket, padded)
	}
	return rawPacket, nil
}

// Unmarshal decodes the Goodbye packet from binary.
func (g *Goodbye) Unmarshal(rawPacket []byte) error {
	var header Header
	if err := header.Unmarshal(rawPacket); err != nil {
		return err
	}
	if header.Type != TypeGoodbye {
		return errWrongType
	}
	if len(rawPacket)%4 != 0 {
		return errPacketTooShort
	}

	g.Sources = make([]uint32, header.Count)
	reasonOffset := headerLength + int(header.Count)*ssrcLength
	if reasonOffset > len(rawPacket) {
		return errPacketTooShort
	}

	for i := 0; i < int(header.Count); i++ {
		offset := headerLength + i*ssrcLength
		g.Sources[i] = binary.BigEndian.Uint32(rawPacket[offset:])
	}

	if reasonOffset < len(rawPacket) {
		reasonLen := int(rawPacket[reasonOffset])
		reasonEnd := reasonOffset + 1 + reasonLen
		if reasonEnd > len(rawPacket) {
			return errPacketTooShort
		}
		g.Reason = string(rawPacket[reasonOffset+1 : reasonEnd])
	}

	return nil
}

// Header returns the Header associated with this packet.
func (g Goodbye) Header() Header {
	reasonLen := 0
	if g.Reason != "" {
		reasonLen = 1 + len(g.Reason)
	}
	body := len(g.Sources)*ssrcLength + reasonLen
	return Header{
		Version: rtpVersion,
		Padding: getPadding(body) != 0,
		Count:   uint8(len(g.Sources)),
		Type:    TypeGoodbye,
		Length:  uint16((headerLength+body+getPadding(body))/4 - 1),
	}
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (g Goodbye) DestinationSSRC() []uint32 {
	return g.Sources
}
