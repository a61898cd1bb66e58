package ice

// OAuthCredential represents OAuth credential information which is used by
// the STUN/TURN client to connect to an ICE server as defined in
// https://tools.ietf.org/html/rfc7635. Note that the kid parameter is not
// located in OAuthCredential, but in the Server's Username member.
type OAuthCredential struct {
	MACKey      string `json:"macKey"`
	AccessToken string `json:"accessToken"`
}

// Server describes a single STUN and TURN server that may be used to
// gather server reflexive and relay candidates.
type Server struct {
	URLs           []string
	Username       string
	Credential     interface{}
	CredentialType CredentialType
}

func (s Server) parseURL(i int) (*URL, error) {
	return ParseURL(s.URLs[i])
}

// Validate checks if the Server struct is valid.
func (s Server) Validate() error {
	_, err := s.urls()
	return err
}

func (s Server) urls() ([]*URL, error) {
	urls := make([]*URL, 0, len(s.URLs))

	for i := range s.URLs {
		url, err := s.parseURL(i)
		if err != nil {
			return nil, err
		}

		if url.Scheme == SchemeTypeTURN || url.Scheme == SchemeTypeTURNS {
			// https://www.w3.org/TR/webrtc/#set-the-configuration (step #11.3.2)
			if s.Username == "" || s.Credential == nil {
				return nil, &InvalidAccessError{Err: ErrNoTurnCredencials}
			}

			switch s.CredentialType {
			case CredentialTypePassword:
				// https://www.w3.org/TR/webrtc/#set-the-configuration (step #11.3.3)
				if _, ok := s.Credential.(string); !ok {
					return nil, &InvalidAccessError{Err: ErrTurnCredencials}
				}

			case CredentialTypeOauth:
				// https://www.w3.org/TR/webrtc/#set-the-configuration (step #11.3.4)
				if _, ok := s.Credential.(OAuthCredential); !ok {
					return nil, &InvalidAccessError{Err: ErrTurnCredencials}
				}

			default:
				return nil, &InvalidAccessError{Err: ErrTurnCredencials}
			}
		}

		urls = append(urls, url)
	}

	return urls, nil
}
