package rtcp

// Packet represents an RTCP packet, a protocol used for out-of-band
// statistics and control information for an RTP session.
type Packet interface {
	Header() Header
	// DestinationSSRC returns the SSRC values that this packet refers to.
	DestinationSSRC() []uint32

	Marshal() ([]byte, error)
	Unmarshal(rawPacket []byte) error
}

// Unmarshal is a factory that decodes a single polymorphic RTCP packet
// together with its header. The caller is responsible for splitting a
// compound RTCP datagram into its constituent packets (see Reader).
func Unmarshal(rawPacket []byte) (Packet, Header, error) {
	var h Header

	if err := h.Unmarshal(rawPacket); err != nil {
		return nil, h, err
	}

	if headerLength+int(h.Length)*4 > len(rawPacket) {
		return nil, h, errPacketTooShort
	}

	var p Packet
	switch h.Type {
	case TypeSenderReport:
		p = new(SenderReport)

	case TypeReceiverReport:
		p = new(ReceiverReport)

	case TypeSourceDescription:
		p = new(SourceDescription)

	case TypeGoodbye:
		p = new(Goodbye)

	case TypeTransportSpecificFeedback:
		switch PacketType(h.Count) {
		case FormatTLN:
			p = new(TransportLayerNack)
		case FormatRRR:
			p = new(RapidResynchronizationRequest)
		case FormatTCC:
			p = new(TransportLayerCC)
		default:
			p = new(RawPacket)
		}

	case TypePayloadSpecificFeedback:
		switch PacketType(h.Count) {
		case FormatPLI:
			p = new(PictureLossIndication)
		case FormatSLI:
			p = new(SliceLossIndication)
		case FormatFIR:
			p = new(FullIntraRequest)
		case FormatREMB:
			p = new(ReceiverEstimatedMaximumBitrate)
		default:
			p = new(RawPacket)
		}

	default:
		p = new(RawPacket)
	}

	err := p.Unmarshal(rawPacket)
	return p, h, err
}

// RawPacket represents an undecoded RTCP packet; it is returned by
// Unmarshal for packet types this package does not otherwise model, and
// round-trips its bytes unchanged.
type RawPacket []byte

// Header parses and returns the Header of this RawPacket.
func (r RawPacket) Header() Header {
	var h Header
	_ = h.Unmarshal(r)
	return h
}

// Marshal encodes the packet in binary.
func (r RawPacket) Marshal() ([]byte, error) {
	return append([]byte{}, r...), nil
}

// Unmarshal decodes the packet from binary.
func (r *RawPacket) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < headerLength {
		return errPacketTooShort
	}
	*r = append(RawPacket{}, rawPacket...)
	return nil
}

// DestinationSSRC returns an empty list, since a RawPacket's contents are
// unknown.
func (r RawPacket) DestinationSSRC() []uint32 {
	return nil
}
