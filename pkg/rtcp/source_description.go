package rtcp

import "encoding/binary"

// RTP SDES item types registered with IANA.
// See: https://www.iana.org/assignments/rtp-parameters/rtp-parameters.xhtml#rtp-parameters-5
const (
	SDESEnd      = iota // end of SDES list                RFC 3550, 6.5
	SDESCNAME           // canonical name                  RFC 3550, 6.5.1
	SDESName            // user name                       RFC 3550, 6.5.2
	SDESEmail           // user's electronic mail address  RFC 3550, 6.5.3
	SDESPhone           // user's phone number             RFC 3550, 6.5.4
	SDESLocation        // geographic user location        RFC 3550, 6.5.5
	SDESTool            // name of application or tool     RFC 3550, 6.5.6
	SDESNote            // notice about the source         RFC 3550, 6.5.7
	SDESPrivate         // private extensions              RFC 3550, 6.5.8 (not implemented)
)

const (
	sdesSourceLen        = 4
	sdesTypeLen          = 1
	sdesTypeOffset       = 0
	sdesOctetCountLen    = 1
	sdesOctetCountOffset = 1
	sdesMaxOctetCount    = (1 << 8) - 1
	sdesTextOffset       = 2
)

// A SourceDescription (SDES) packet describes the sources in an RTP
// session: one chunk per SSRC/CSRC, each a sequence of typed items
// terminated by a zero octet and padded to a 4-byte boundary.
type SourceDescription struct {
	Chunks []SourceDescriptionChunk
}

// Marshal encodes the SourceDescription in binary.
func (s SourceDescription) Marshal() ([]byte, error) {
	if len(s.Chunks) > countMax {
		return nil, errTooManyChunks
	}

	body := make([]byte, 0)
	for _, c := range s.Chunks {
		data, err := c.Marshal()
		if err != nil {
			return nil, err
		}
		body = append(body, data...)
	}

	hData, err := s.Header().Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, body...), nil
}

// Unmarshal decodes the SourceDescription from binary.
func (s *SourceDescription) Unmarshal(rawPacket []byte) error {
	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if h.Type != TypeSourceDescription {
		return errWrongType
	}

	s.Chunks = nil
	for i, chunksParsed := headerLength, 0; chunksParsed < int(h.Count); chunksParsed++ {
		if i >= len(rawPacket) {
			return errPacketTooShort
		}
		var chunk SourceDescriptionChunk
		if err := chunk.Unmarshal(rawPacket[i:]); err != nil {
			return err
		}
		s.Chunks = append(s.Chunks, chunk)
		i += chunk.len()
	}

	return nil
}

// Header returns the Header associated with this packet.
func (s SourceDescription) Header() Header {
	body := 0
	for _, c := range s.Chunks {
		body += c.len()
	}
	return Header{
		Version: rtpVersion,
		Count:   uint8(len(s.Chunks)),
		Type:    TypeSourceDescription,
		Length:  uint16((headerLength+body)/4 - 1),
	}
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (s SourceDescription) DestinationSSRC() []uint32 {
	out := make([]uint32, len(s.Chunks))
	for i, c := range s.Chunks {
		out[i] = c.Source
	}
	return out
}

// A SourceDescriptionChunk contains items describing a single RTP source.
type SourceDescriptionChunk struct {
	// Source is the SSRC/CSRC identifier this chunk describes.
	Source uint32
	Items  []SourceDescriptionItem
}

// Marshal encodes the SourceDescriptionChunk in binary.
func (s SourceDescriptionChunk) Marshal() ([]byte, error) {
	rawPacket := make([]byte, sdesSourceLen)
	binary.BigEndian.PutUint32(rawPacket, s.Source)

	for _, it := range s.Items {
		data, err := it.Marshal()
		if err != nil {
			return nil, err
		}
		rawPacket = append(rawPacket, data...)
	}

	// the item list is terminated by one or more null octets, padded to
	// the next 32-bit boundary
	rawPacket = append(rawPacket, SDESEnd)
	if size := len(rawPacket); size%4 != 0 {
		rawPacket = append(rawPacket, make([]byte, 4-size%4)...)
	}

	return rawPacket, nil
}

// Unmarshal decodes the SourceDescriptionChunk from binary.
func (s *SourceDescriptionChunk) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (sdesSourceLen + sdesTypeLen) {
		return errPacketTooShort
	}

	s.Source = binary.BigEndian.Uint32(rawPacket)
	s.Items = nil

	for i := sdesSourceLen; i < len(rawPacket); {
		if rawPacket[i] == SDESEnd {
			return nil
		}

		var it SourceDescriptionItem
		if err := it.Unmarshal(rawPacket[i:]); err != nil {
			return err
		}
		s.Items = append(s.Items, it)
		i += it.len()
	}

	return errPacketTooShort
}

func (s SourceDescriptionChunk) len() int {
	n := sdesSourceLen
	for _, it := range s.Items {
		n += it.len()
	}
	n += sdesTypeLen // terminating null octet

	if n%4 != 0 {
		n += 4 - (n % 4)
	}
	return n
}

// A SourceDescriptionItem is a single typed, length-prefixed field within
// a SourceDescriptionChunk.
type SourceDescriptionItem struct {
	// Type identifies this item, e.g. SDESCNAME. Zero (SDESEnd) is
	// reserved for the chunk terminator and is not a valid item type.
	Type uint8
	// Text is the item's value; its meaning depends on Type.
	Text string
}

func (s SourceDescriptionItem) len() int {
	return sdesTypeLen + sdesOctetCountLen + len([]byte(s.Text))
}

// Marshal encodes the SourceDescriptionItem in binary.
func (s SourceDescriptionItem) Marshal() ([]byte, error) {
	if s.Type == SDESEnd {
		return nil, errSDESMissingType
	}

	txtBytes := []byte(s.Text)
	if len(txtBytes) > sdesMaxOctetCount {
		return nil, errSDESTextTooLong
	}

	rawPacket := make([]byte, sdesTypeLen+sdesOctetCountLen)
	rawPacket[sdesTypeOffset] = s.Type
	rawPacket[sdesOctetCountOffset] = uint8(len(txtBytes))
	rawPacket = append(rawPacket, txtBytes...)

	return rawPacket, nil
}

// Unmarshal decodes the SourceDescriptionItem from binary.
func (s *SourceDescriptionItem) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (sdesTypeLen + sdesOctetCountLen) {
		return errPacketTooShort
	}

	s.Type = rawPacket[sdesTypeOffset]

	octetCount := int(rawPacket[sdesOctetCountOffset])
	if sdesTextOffset+octetCount > len(rawPacket) {
		return errPacketTooShort
	}

	s.Text = string(rawPacket[sdesTextOffset : sdesTextOffset+octetCount])
	return nil
}
