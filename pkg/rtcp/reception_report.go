package rtcp

import "encoding/binary"

const (
	receptionReportLength = 24
	fractionLostOffset    = 4
	totalLostOffset       = 5
	lastSeqOffset         = 8
	jitterOffset          = 12
	lastSROffset          = 16
	delayLastSROffset     = 20
	maxTotalLost          = (1 << 24) - 1
)

// A ReceptionReport block carries statistics on the reception of RTP
// packets from a single synchronization source, as carried inside a
// SenderReport or ReceiverReport.
type ReceptionReport struct {
	// SSRC of the source this report is about.
	SSRC uint32
	// FractionLost is the fraction of RTP data packets lost since the
	// previous report, expressed as a fixed-point number in [0, 256).
	FractionLost uint8
	// TotalLost is the total number of RTP packets lost since the start
	// of reception, a signed 24-bit value.
	TotalLost uint32
	// LastSequenceNumber is the highest sequence number received plus any
	// 16-bit cycle count observed.
	LastSequenceNumber uint32
	// Jitter is an estimate of the statistical variance of the RTP
	// packet interarrival time, in timestamp units.
	Jitter uint32
	// LastSenderReport is the middle 32 bits of the NTP timestamp of the
	// last sender report received from this source.
	LastSenderReport uint32
	// Delay is the delay, in units of 1/65536 seconds, between receiving
	// the last sender report and sending this report.
	Delay uint32
}

// Marshal encodes the ReceptionReport in binary.
func (r ReceptionReport) Marshal() ([]byte, error) {
	if r.TotalLost > maxTotalLost {
		return nil, errInvalidTotalLost
	}

	rawPacket := make([]byte, receptionReportLength)
	binary.BigEndian.PutUint32(rawPacket, r.SSRC)
	rawPacket[fractionLostOffset] = r.FractionLost

	tlBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(tlBytes, r.TotalLost)
	copy(rawPacket[totalLostOffset:], tlBytes[1:])

	binary.BigEndian.PutUint32(rawPacket[lastSeqOffset:], r.LastSequenceNumber)
	binary.BigEndian.PutUint32(rawPacket[jitterOffset:], r.Jitter)
	binary.BigEndian.PutUint32(rawPacket[lastSROffset:], r.LastSenderReport)
	binary.BigEndian.PutUint32(rawPacket[delayLastSROffset:], r.Delay)

	return rawPacket, nil
}

// Unmarshal decodes the ReceptionReport from binary.
func (r *ReceptionReport) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < receptionReportLength {
		return errPacketTooShort
	}

	r.SSRC = binary.BigEndian.Uint32(rawPacket)
	r.FractionLost = rawPacket[fractionLostOffset]

	tlBytes := append([]byte{0}, rawPacket[totalLostOffset:totalLostOffset+3]...)
	r.TotalLost = binary.BigEndian.Uint32(tlBytes)

	r.LastSequenceNumber = binary.BigEndian.Uint32(rawPacket[lastSeqOffset:])
	r.Jitter = binary.BigEndian.Uint32(rawPacket[jitterOffset:])
	r.LastSenderReport = binary.BigEndian.Uint32(rawPacket[lastSROffset:])
	r.Delay = binary.BigEndian.Uint32(rawPacket[delayLastSROffset:])

	return nil
}

func (r ReceptionReport) len() int {
	return receptionReportLength
}
