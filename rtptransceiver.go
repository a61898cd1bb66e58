// +build !js

package webrtc

import "fmt"

// RTPTransceiver represents a combination of an RTPSender and an RTPReceiver that share a common mid.
type RTPTransceiver struct {
	mid       string
	sender    *RTPSender
	receiver  *RTPReceiver
	direction RTPTransceiverDirection
	// currentDirection RTPTransceiverDirection
	// firedDirection   RTPTransceiverDirection
	// receptive bool
	stopped bool

	kind   RTPCodecType
	codecs []RTPCodecParameters // User provided codecs via SetCodecPreferences

	api *API
}

// Mid gets the Mid value sent in a media stream's "a=mid" attribute, if it has
// been negotiated yet.
func (t *RTPTransceiver) Mid() string {
	return t.mid
}

// Sender returns the RTPTransceiver's RTPSender, if it has one.
func (t *RTPTransceiver) Sender() *RTPSender {
	return t.sender
}

// Receiver returns the RTPTransceiver's RTPReceiver, if it has one.
func (t *RTPTransceiver) Receiver() *RTPReceiver {
	return t.receiver
}

// Direction returns the RTPTransceiver's current direction.
func (t *RTPTransceiver) Direction() RTPTransceiverDirection {
	return t.direction
}

func (t *RTPTransceiver) setSendingTrack(track TrackLocal) error {
	if track == nil {
		return fmt.Errorf("track must not be nil")
	}

	t.sender.track = track

	switch t.direction {
	case RTPTransceiverDirectionRecvonly:
		t.direction = RTPTransceiverDirectionSendrecv
	case RTPTransceiverDirectionInactive:
		t.direction = RTPTransceiverDirectionSendonly
	default:
		return fmt.Errorf("invalid state change in RTPTransceiver.setSending")
	}
	return nil
}

// Kind returns RTPTransceiver's kind
func (t *RTPTransceiver) Kind() RTPCodecType {
	return t.kind
}

// getCodecs returns the RTPCodecParameters the transceiver will use when
// negotiating, falling back to the MediaEngine's full list for this kind
// if SetCodecPreferences hasn't pinned an explicit subset.
func (t *RTPTransceiver) getCodecs() []RTPCodecParameters {
	if len(t.codecs) == 0 {
		return t.api.mediaEngine.getCodecsByKind(t.kind)
	}
	return t.codecs
}

// SetCodecPreferences sets the codec preference order of this transceiver.
// Each codec must have previously been registered with the MediaEngine for
// this transceiver's kind or this call will error. Passing a nil or empty
// list resets the transceiver to the MediaEngine's full supported list.
func (t *RTPTransceiver) SetCodecPreferences(codecs []RTPCodecParameters) error {
	if len(codecs) == 0 {
		t.codecs = nil
		return nil
	}

	supported := t.api.mediaEngine.getCodecsByKind(t.kind)

	filtered := make([]RTPCodecParameters, 0, len(codecs))
	for _, codec := range codecs {
		if _, err := codecParametersFuzzySearch(codec, supported); err != nil {
			return fmt.Errorf("%w: %s", errRTPTransceiverCodecUnsupported, codec.MimeType)
		}
		filtered = append(filtered, codec)
	}

	t.codecs = filtered
	return nil
}

// Stop irreversibly stops the RTPTransceiver
func (t *RTPTransceiver) Stop() error {
	if t.sender != nil {
		if err := t.sender.Stop(); err != nil {
			return err
		}
	}
	if t.receiver != nil {
		if err := t.receiver.Stop(); err != nil {
			return err
		}
	}
	return nil
}
