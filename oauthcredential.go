package webrtc

// OAuthCredential represents OAuth credential information which is used by
// the STUN/TURN client to connect to an ICE server as defined in
// https://tools.ietf.org/html/rfc7635. Note that the kid parameter is not
// located in OAuthCredential, but in the ICEServer's username member.
type OAuthCredential struct {
	MACKey      string `json:"macKey"`
	AccessToken string `json:"accessToken"`
}
