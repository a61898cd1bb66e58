package ice

// TransportPolicy controls which candidates an Agent is allowed to gather
// and use, as described in https://www.w3.org/TR/webrtc/#rtcicetransportpolicy-enum.
type TransportPolicy int

const (
	// TransportPolicyAll gathers and uses every candidate type.
	TransportPolicyAll TransportPolicy = iota + 1

	// TransportPolicyRelay restricts the agent to relay candidates only,
	// e.g. to force media through a TURN server.
	TransportPolicyRelay
)

const (
	transportPolicyAllStr   = "all"
	transportPolicyRelayStr = "relay"
)

// NewTransportPolicy takes a string and converts it to a TransportPolicy.
func NewTransportPolicy(raw string) TransportPolicy {
	switch raw {
	case transportPolicyAllStr:
		return TransportPolicyAll
	case transportPolicyRelayStr:
		return TransportPolicyRelay
	default:
		return TransportPolicy(Unknown)
	}
}

func (t TransportPolicy) String() string {
	switch t {
	case TransportPolicyAll:
		return transportPolicyAllStr
	case TransportPolicyRelay:
		return transportPolicyRelayStr
	default:
		return unknownStr
	}
}
