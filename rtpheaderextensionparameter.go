package webrtc

// RTPHeaderExtensionParameter enables an application to configure a single
// header extension for use within an RTPSender or RTPReceiver, once it has
// been negotiated with the remote peer.
//
// https://w3c.github.io/webrtc-pc/#rtcrtpheaderextensionparameters
type RTPHeaderExtensionParameter struct {
	URI string
	ID  int
}
