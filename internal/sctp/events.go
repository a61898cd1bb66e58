package sctp

type ReceiveEvent struct {
	Buffer            []byte
	StreamID          uint16
	PayloadProtocolID PayloadProtocolIdentifier
}

type CommunicationUpEvent struct {
	outboundStreamCount uint16
}
