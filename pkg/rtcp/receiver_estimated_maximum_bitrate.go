package rtcp

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// uniqueIdentifier is the 4-byte marker that distinguishes a REMB
// packet from any other payload-specific feedback message.
var uniqueIdentifier = []byte{'R', 'E', 'M', 'B'} //nolint:gochecknoglobals

// The ReceiverEstimatedMaximumBitrate packet informs the sender of the
// receiver's estimate of the maximum bitrate that can currently be
// received, without requiring the sender to throttle down to the
// lowest observed loss-based rate.
// https://tools.ietf.org/html/draft-alvestrand-rmcat-remb-03
type ReceiverEstimatedMaximumBitrate struct {
	// SenderSSRC is the SSRC of the packet sender.
	SenderSSRC uint32

	// Bitrate is the estimated total available bitrate, in bits per
	// second, for all SSRCs listed below.
	Bitrate uint64

	// SSRCs is the list of SSRCs that this bitrate estimate applies to.
	SSRCs []uint32
}

const (
	rembOffset = 16
	// 0                   1                   2                   3
	// 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	// Unique identifier 'R' 'E' 'M' 'B' is at bytes 8-11, followed by
	// num-ssrc(8)|exp(6)|mantissa(18) at bytes 12-15, then the SSRC
	// feedback list.
)

// Marshal encodes the ReceiverEstimatedMaximumBitrate in binary.
func (p ReceiverEstimatedMaximumBitrate) Marshal() ([]byte, error) {
	body := make([]byte, rembOffset+len(p.SSRCs)*4)

	binary.BigEndian.PutUint32(body, p.SenderSSRC)
	// media ssrc is always 0
	binary.BigEndian.PutUint32(body[ssrcLength:], 0)
	copy(body[ssrcLength*2:], uniqueIdentifier)

	// Bitrate is encoded as a 6-bit exponent and an 18-bit mantissa:
	// bitrate = mantissa << exponent.
	var exp uint8
	mantissa := p.Bitrate
	if shift := 64 - uint(bits.LeadingZeros64(p.Bitrate)); shift > 18 {
		exp = uint8(shift - 18)
		mantissa = p.Bitrate >> exp
	}

	body[ssrcLength*2+4] = uint8(len(p.SSRCs))
	body[ssrcLength*2+5] = (exp << 2) | uint8(mantissa>>16)
	body[ssrcLength*2+6] = uint8(mantissa >> 8)
	body[ssrcLength*2+7] = uint8(mantissa)

	for i, ssrc := range p.SSRCs {
		binary.BigEndian.PutUint32(body[rembOffset+i*4:], ssrc)
	}

	hData, err := p.Header().Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, body...), nil
}

// Unmarshal decodes the ReceiverEstimatedMaximumBitrate from binary.
func (p *ReceiverEstimatedMaximumBitrate) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (headerLength + rembOffset) {
		return errPacketTooShort
	}

	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}
	if len(rawPacket) < (headerLength + int(4*h.Length)) {
		return errPacketTooShort
	}
	if h.Type != TypePayloadSpecificFeedback || PacketType(h.Count) != FormatREMB {
		return errWrongType
	}

	body := rawPacket[headerLength:]

	mediaSSRC := binary.BigEndian.Uint32(body[ssrcLength:])
	if mediaSSRC != 0 {
		return errMissingREMBid
	}
	if string(body[ssrcLength*2:ssrcLength*2+4]) != string(uniqueIdentifier) {
		return errMissingREMBid
	}

	p.SenderSSRC = binary.BigEndian.Uint32(body)

	numSSRC := int(body[ssrcLength*2+4])
	exp := body[ssrcLength*2+5] >> 2
	mantissa := uint64(body[ssrcLength*2+5]&0x3)<<16 |
		uint64(body[ssrcLength*2+6])<<8 |
		uint64(body[ssrcLength*2+7])

	if exp > 46 {
		p.Bitrate = ^uint64(0)
	} else {
		p.Bitrate = mantissa << exp
	}

	end := headerLength + int(h.Length)*4
	if headerLength+rembOffset+numSSRC*4 > end {
		return errPacketTooShort
	}

	p.SSRCs = nil
	for i := 0; i < numSSRC; i++ {
		off := headerLength + rembOffset + i*4
		p.SSRCs = append(p.SSRCs, binary.BigEndian.Uint32(rawPacket[off:]))
	}

	return nil
}

func (p ReceiverEstimatedMaximumBitrate) len() int {
	return headerLength + rembOffset + len(p.SSRCs)*4
}

// Header returns the Header associated with this packet.
func (p ReceiverEstimatedMaximumBitrate) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(FormatREMB),
		Type:    TypePayloadSpecificFeedback,
		Length:  uint16((p.len() / 4) - 1),
	}
}

func (p ReceiverEstimatedMaximumBitrate) String() string {
	return fmt.Sprintf("ReceiverEstimatedMaximumBitrate %x %d %v", p.SenderSSRC, p.Bitrate, p.SSRCs)
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p ReceiverEstimatedMaximumBitrate) DestinationSSRC() []uint32 {
	return p.SSRCs
}
