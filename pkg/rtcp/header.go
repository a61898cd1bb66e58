// Package rtcp implements encoding and decoding of the RTCP feedback
// formats consumed by the peer-connection core: sender/receiver reports,
// source descriptions, and the payload- and transport-specific feedback
// messages (NACK, PLI, SLI, FIR, REMB, TCC) that drive congestion and
// loss response.
package rtcp

import "encoding/binary"

// PacketType specifies the type of an RTCP packet.
type PacketType uint8

// RTCP packet types registered with IANA.
// See: https://www.iana.org/assignments/rtp-parameters/rtp-parameters.xhtml#rtp-parameters-4
const (
	TypeSenderReport              PacketType = 200 // RFC 3550, 6.4.1
	TypeReceiverReport            PacketType = 201 // RFC 3550, 6.4.2
	TypeSourceDescription         PacketType = 202 // RFC 3550, 6.5
	TypeGoodbye                   PacketType = 203 // RFC 3550, 6.6
	TypeApplicationDefined        PacketType = 204 // RFC 3550, 6.7
	TypeTransportSpecificFeedback PacketType = 205 // RFC 4585, 6.2
	TypePayloadSpecificFeedback   PacketType = 206 // RFC 4585, 6.3
)

// Feedback message types (FMT) carried in the header Count field for the
// two generic feedback packet types above.
const (
	// TypeTransportSpecificFeedback formats.
	FormatTLN PacketType = 1  // Transport-layer NACK, RFC 4585 6.2.1
	FormatRRR PacketType = 5  // Rapid Resynchronization Request, RFC 4585 6.3.5
	FormatTCC PacketType = 15 // Transport-wide Congestion Control, draft-holmer-rmcat-transport-wide-cc-extensions

	// TypePayloadSpecificFeedback formats.
	FormatPLI  PacketType = 1  // Picture Loss Indication, RFC 4585 6.3.1
	FormatSLI  PacketType = 2  // Slice Loss Indication, RFC 4585 6.3.2
	FormatFIR  PacketType = 4  // Full Intra Request, RFC 5104 4.3.1
	FormatREMB PacketType = 15 // Receiver Estimated Maximum Bitrate, draft-alvestrand-rmcat-remb
)

func (p PacketType) String() string {
	switch p {
	case TypeSenderReport:
		return "SR"
	case TypeReceiverReport:
		return "RR"
	case TypeSourceDescription:
		return "SDES"
	case TypeGoodbye:
		return "BYE"
	case TypeApplicationDefined:
		return "APP"
	case TypeTransportSpecificFeedback:
		return "TransportFeedback"
	case TypePayloadSpecificFeedback:
		return "PayloadFeedback"
	default:
		return "Unknown"
	}
}

const (
	rtpVersion   = 2
	headerLength = 4
	ssrcLength   = 4

	versionShift = 6
	versionMask  = 0x3
	paddingShift = 5
	paddingMask  = 0x1
	countShift   = 0
	countMask    = 0x1f
	countMax     = (1 << 5) - 1
)

// A Header is the common 4-octet header shared by every RTCP packet.
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|V=2|P|    RC   |       PT      |             length            |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type Header struct {
	// Version is the RTP/RTCP protocol version, always 2.
	Version uint8
	// Padding indicates the packet carries extra padding octets at the
	// end that are not part of the control information.
	Padding bool
	// Count is the number of reception reports, source chunks, or the
	// feedback message format (FMT), depending on Type.
	Count uint8
	// Type identifies the RTCP packet type.
	Type PacketType
	// Length is this packet's size in 32-bit words minus one, including
	// the header and any padding.
	Length uint16
}

// Marshal encodes the Header in binary.
func (h Header) Marshal() ([]byte, error) {
	if h.Version > 3 {
		return nil, errInvalidHeader
	}
	if h.Count > countMax {
		return nil, errInvalidHeader
	}

	rawPacket := make([]byte, headerLength)
	rawPacket[0] |= h.Version << versionShift
	if h.Padding {
		rawPacket[0] |= 1 << paddingShift
	}
	rawPacket[0] |= h.Count << countShift
	rawPacket[1] = uint8(h.Type)
	binary.BigEndian.PutUint16(rawPacket[2:], h.Length)

	return rawPacket, nil
}

// Unmarshal decodes the Header from binary.
func (h *Header) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < headerLength {
		return errPacketTooShort
	}

	h.Version = rawPacket[0] >> versionShift & versionMask
	h.Padding = (rawPacket[0] >> paddingShift & paddingMask) > 0
	h.Count = rawPacket[0] >> countShift & countMask
	h.Type = PacketType(rawPacket[1])
	h.Length = binary.BigEndian.Uint16(rawPacket[2:])

	return nil
}

// getPadding returns the padding required to make buf a multiple of 4 bytes.
func getPadding(length int) int {
	if length%4 == 0 {
		return 0
	}
	return 4 - (length % 4)
}

// setNBytesPadding resizes buf, appending zero padding and writing the pad
// count into the final byte. It mirrors the wire convention used by every
// packet type in this file: P=1 only when padding was actually appended.
func setNBytesPadding(buf []byte, padded int) []byte {
	buf = append(buf, make([]byte, padded)...)
	buf[len(buf)-1] = uint8(padded)
	return buf
}
