package webrtc

// Names for the default codecs supported by this package.
const (
	G722 = "G722"
	Opus = "opus"
	VP8  = "VP8"
	VP9  = "VP9"
	H264 = "H264"
)

// NewRTPG722Codec is a helper to create a G722 codec.
func NewRTPG722Codec(payloadType uint8, clockRate uint32) RTPCodecParameters {
	return RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{
			MimeType:  RTPCodecTypeAudio.String() + "/" + G722,
			ClockRate: clockRate,
		},
		PayloadType: PayloadType(payloadType),
	}
}

// NewRTPOpusCodec is a helper to create an Opus codec.
func NewRTPOpusCodec(payloadType uint8, clockRate uint32) RTPCodecParameters {
	return RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{
			MimeType:    RTPCodecTypeAudio.String() + "/" + Opus,
			ClockRate:   clockRate,
			Channels:    2,
			SDPFmtpLine: "minptime=10;useinbandfec=1",
		},
		PayloadType: PayloadType(payloadType),
	}
}

// NewRTPVP8Codec is a helper to create a VP8 codec.
func NewRTPVP8Codec(payloadType uint8, clockRate uint32) RTPCodecParameters {
	return RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{
			MimeType:  RTPCodecTypeVideo.String() + "/" + VP8,
			ClockRate: clockRate,
		},
		PayloadType: PayloadType(payloadType),
	}
}

// NewRTPVP9Codec is a helper to create a VP9 codec.
func NewRTPVP9Codec(payloadType uint8, clockRate uint32) RTPCodecParameters {
	return RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{
			MimeType:  RTPCodecTypeVideo.String() + "/" + VP9,
			ClockRate: clockRate,
		},
		PayloadType: PayloadType(payloadType),
	}
}

// NewRTPH264Codec is a helper to create an H264 codec.
func NewRTPH264Codec(payloadType uint8, clockRate uint32) RTPCodecParameters {
	return RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{
			MimeType:    RTPCodecTypeVideo.String() + "/" + H264,
			ClockRate:   clockRate,
			SDPFmtpLine: "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42001f",
		},
		PayloadType: PayloadType(payloadType),
	}
}
