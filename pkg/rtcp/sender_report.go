package rtcp

import "encoding/binary"

const (
	srHeaderLength    = 24
	ntpTimeOffset     = 4
	rtpTimeOffset     = 12
	packetCountOffset = 16
	octetCountOffset  = 20
)

// A SenderReport (SR) packet provides reception quality feedback for an
// RTP stream together with the sender's own transmission statistics.
type SenderReport struct {
	// SSRC is the synchronization source identifier for the originator.
	SSRC uint32
	// NTPTime is the wallclock time this report was sent, for use with
	// receiver reports' delay fields to measure round-trip propagation.
	NTPTime uint64
	// RTPTime corresponds to the same instant as NTPTime, in the RTP
	// media clock's units.
	RTPTime uint32
	// PacketCount is the total number of RTP data packets transmitted.
	PacketCount uint32
	// OctetCount is the total number of payload octets transmitted.
	OctetCount uint32
	// Reports carries zero or more reception reports for other sources
	// heard by this sender since the last report.
	Reports []ReceptionReport

	// ProfileExtensions carries an optional profile-specific extension.
	ProfileExtensions []byte
}

// Marshal encodes the SenderReport in binary.
func (r SenderReport) Marshal() ([]byte, error) {
	if len(r.Reports) > countMax {
		return nil, errTooManyReports
	}

	body := make([]byte, srHeaderLength)
	binary.BigEndian.PutUint32(body, r.SSRC)
	binary.BigEndian.PutUint64(body[ntpTimeOffset:], r.NTPTime)
	binary.BigEndian.PutUint32(body[rtpTimeOffset:], r.RTPTime)
	binary.BigEndian.PutUint32(body[packetCountOffset:], r.PacketCount)
	binary.BigEndian.PutUint32(body[octetCountOffset:], r.OctetCount)

	for _, rp := range r.Reports {
		data, err := rp.Marshal()
		if err != nil {
			return nil, err
		}
		body = append(body, data...)
	}
	body = append(body, r.ProfileExtensions...)

	hData, err := r.Header().Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, body...), nil
}

// Unmarshal decodes the SenderReport from binary.
func (r *SenderReport) Unmarshal(rawPacket []byte) error {
	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if h.Type != TypeSenderReport {
		return errWrongType
	}
	if len(rawPacket) < headerLength+srHeaderLength {
		return errPacketTooShort
	}

	body := rawPacket[headerLength:]
	r.SSRC = binary.BigEndian.Uint32(body)
	r.NTPTime = binary.BigEndian.Uint64(body[ntpTimeOffset:])
	r.RTPTime = binary.BigEndian.Uint32(body[rtpTimeOffset:])
	r.PacketCount = binary.BigEndian.Uint32(body[packetCountOffset:])
	r.OctetCount = binary.BigEndian.Uint32(body[octetCountOffset:])

	end := headerLength + int(h.Length)*4
	if end > len(rawPacket) {
		return errPacketTooShort
	}

	i := srHeaderLength
	for reportsParsed := 0; reportsParsed < int(h.Count); reportsParsed++ {
		var rr ReceptionReport
		if err := rr.Unmarshal(body[i:]); err != nil {
			return err
		}
		r.Reports = append(r.Reports, rr)
		i += receptionReportLength
	}
	if headerLength+i < end {
		r.ProfileExtensions = append([]byte{}, body[i:end-headerLength]...)
	}

	return nil
}

// Header returns the Header associated with this packet.
func (r *SenderReport) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(len(r.Reports)),
		Type:    TypeSenderReport,
		Length: uint16((headerLength+srHeaderLength+len(r.Reports)*receptionReportLength+
			len(r.ProfileExtensions))/4 - 1),
	}
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (r *SenderReport) DestinationSSRC() []uint32 {
	out := make([]uint32, len(r.Reports)+1)
	for i, rp := range r.Reports {
		out[i] = rp.SSRC
	}
	out[len(r.Reports)] = r.SSRC
	return out
}
