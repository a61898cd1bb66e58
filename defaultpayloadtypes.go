package webrtc

// PayloadTypes for the default codecs registered by RegisterDefaultCodecs.
const (
	DefaultPayloadTypeG722 = 9
	DefaultPayloadTypePCMU = 0
	DefaultPayloadTypePCMA = 8
	DefaultPayloadTypeOpus = 111
	DefaultPayloadTypeVP8  = 96
	DefaultPayloadTypeVP9  = 98
	DefaultPayloadTypeH264 = 100
)
