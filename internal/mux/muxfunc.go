package mux

// MatchFunc allows custom logic for mapping packets to an Endpoint
type MatchFunc func([]byte) bool

// MatchRange is a MatchFunc that accepts packets with the first byte in [lower..upper]
func MatchRange(lower, upper byte) MatchFunc {
	return func(buf []byte) bool {
		if len(buf) < 1 {
			return false
		}
		b := buf[0]
		return b >= lower && b <= upper
	}
}

// MatchFuncs as described in RFC7983
// https://tools.ietf.org/html/rfc7983
//              +----------------+
//              |        [0..3] -+--> forward to STUN
//              |                |
//              |      [16..19] -+--> forward to ZRTP
//              |                |
//  packet -->  |      [20..63] -+--> forward to DTLS
//              |                |
//              |      [64..79] -+--> forward to TURN Channel
//              |                |
//              |    [128..191] -+--> forward to RTP/RTCP
//              +----------------+

// MatchSTUN is a MatchFunc that accepts packets with the first byte in [0..3]
// as defied in RFC7983
var MatchSTUN = MatchRange(0, 3)

// MatchZRTP is a MatchFunc that accepts packets with the first byte in [16..19]
// as defied in RFC7983
var MatchZRTP = MatchRange(16, 19)

// MatchDTLS is a MatchFunc that accepts packets with the first byte in [20..63]
// as defied in RFC7983
var MatchDTLS = MatchRange(20, 63)

// MatchTURN is a MatchFunc that accepts packets with the first byte in [64..79]
// as defied in RFC7983
var MatchTURN = MatchRange(64, 79)

// MatchSRTP is a MatchFunc that accepts packets with the first byte in
// [128..191] whose second byte (RTCP packet type, if present) falls outside
// the RTCP range, as defined in RFC7983 and RFC5761 §4.
var MatchSRTP = matchSRTPOrSRTCP(false)

// MatchSRTCP is a MatchFunc that accepts packets with the first byte in
// [128..191] and a second byte identifying an RTCP packet type in [192..223].
var MatchSRTCP = matchSRTPOrSRTCP(true)

// MatchAll is a MatchFunc that accepts any non-empty packet, used by
// endpoints (e.g. the DataChannel SCTP endpoint) that do not need to share
// the socket with other classes.
var MatchAll MatchFunc = func(buf []byte) bool {
	return len(buf) > 0
}

func matchSRTPOrSRTCP(rtcp bool) MatchFunc {
	return func(buf []byte) bool {
		if len(buf) < 2 {
			return false
		}
		if buf[0] < 128 || buf[0] > 191 {
			return false
		}
		isRTCP := buf[1] >= 192 && buf[1] <= 223
		return isRTCP == rtcp
	}
}
