package rtcp

import "encoding/binary"

// A ReceiverReport (RR) packet provides reception quality feedback for an
// RTP stream from a participant that is not itself a sender.
type ReceiverReport struct {
	// SSRC is the synchronization source identifier of the sender of
	// this RR packet.
	SSRC uint32
	// Reports carries zero or more reception report blocks, one per
	// source heard by this receiver since the last report.
	Reports []ReceptionReport
	// ProfileExtensions carries an optional profile-specific extension.
	ProfileExtensions []byte
}

// Marshal encodes the ReceiverReport in binary.
func (r ReceiverReport) Marshal() ([]byte, error) {
	if len(r.Reports) > countMax {
		return nil, errTooManyReports
	}

	body := make([]byte, ssrcLength)
	binary.BigEndian.PutUint32(body, r.SSRC)

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

// Unmarshal decodes the ReceiverReport from binary.
func (r *ReceiverReport) Unmarshal(rawPacket []byte) error {
	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if h.Type != TypeReceiverReport {
		return errWrongType
	}
	if len(rawPacket) < headerLength+ssrcLength {
		return errPacketTooShort
	}

	body := rawPacket[headerLength:]
	r.SSRC = binary.BigEndian.Uint32(body)

	end := headerLength + int(h.Length)*4
	if end > len(rawPacket) {
		return errPacketTooShort
	}

	i := ssrcLength
	for reportsParsed := 0; reportsParsed < int(h.Count); reportsParsed++ {
		var rr ReceptionReport
		if err := rr.Unmarshal(body[i:]); err != nil {
			return err
		}
		r.Reports = append(r.Reports, rr)
		i += receptionReportLength
	}
	r.ProfileExtensions = append([]byte{}, body[i:end-headerLength]...)

	return nil
}

// Header returns the Header associated with this packet.
func (r *ReceiverReport) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(len(r.Reports)),
		Type:    TypeReceiverReport,
		Length: uint16((headerLength+ssrcLength+len(r.Reports)*receptionReportLength+
			len(r.ProfileExtensions))/4 - 1),
	}
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (r *ReceiverReport) DestinationSSRC() []uint32 {
	out := make([]uint32, len(r.Reports)+1)
	for i, rp := range r.Reports {
		out[i] = rp.SSRC
	}
	out[len(r.Reports)] = r.SSRC
	return out
}
