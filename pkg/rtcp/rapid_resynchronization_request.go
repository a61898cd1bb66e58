package rtcp

import "encoding/binary"

// The RapidResynchronizationRequest packet requests the sender restart
// an RTP stream that has lost synchronization, e.g. after a receiver has
// been added mid-session.
// IETF RFC 4585, Section 6.3.5 https://tools.ietf.org/html/rfc4585#section-6.3.5
type RapidResynchronizationRequest struct {
	// SenderSSRC is the SSRC of the packet sender.
	SenderSSRC uint32
	// MediaSSRC is the SSRC of the media source.
	MediaSSRC uint32
}

const rrrLength = 2

// Marshal encodes the RapidResynchronizationRequest in binary.
func (p RapidResynchronizationRequest) Marshal() ([]byte, error) {
	body := make([]byte, ssrcLength*2)
	binary.BigEndian.PutUint32(body, p.SenderSSRC)
	binary.BigEndian.PutUint32(body[ssrcLength:], p.MediaSSRC)

	hData, err := p.Header().Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, body...), nil
}

// Unmarshal decodes the RapidResynchronizationRequest from binary.
func (p *RapidResynchronizationRequest) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (headerLength + (ssrcLength * 2)) {
		return errPacketTooShort
	}

	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if h.Type != TypeTransportSpecificFeedback || PacketType(h.Count) != FormatRRR {
		return errWrongType
	}

	p.SenderSSRC = binary.BigEndian.Uint32(rawPacket[headerLength:])
	p.MediaSSRC = binary.BigEndian.Uint32(rawPacket[headerLength+ssrcLength:])
	return nil
}

// Header returns the Header associated with this packet.
func (p RapidResynchronizationRequest) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(FormatRRR),
		Type:    TypeTransportSpecificFeedback,
		Length:  rrrLength,
	}
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p RapidResynchronizationRequest) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}
