package ice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServer_validate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		testCases := []struct {
			server Server
		}{
			{Server{
				URLs:           []string{"turn:192.158.29.39?transport=udp"},
				Username:       "unittest",
				Credential:     "placeholder",
				CredentialType: CredentialTypePassword,
			}},
			{Server{
				URLs:     []string{"turn:192.158.29.39?transport=udp"},
				Username: "unittest",
				Credential: OAuthCredential{
					MACKey:      "WmtzanB3ZW9peFhtdm42NzUzNG0=",
					AccessToken: "AAwg3kPHWPfvk9bDFL936wYvkoctMADzQ5VhNDgeMR3+ZlZ35byg972fW8QjpEl7bx91YLBPFsIhsxloWcXPhA==",
				},
				CredentialType: CredentialTypeOauth,
			}},
			{Server{
				URLs: []string{"stun:192.158.29.39"},
			}},
		}

		for i, testCase := range testCases {
			assert.NoError(t, testCase.server.Validate(), "testCase: %d %v", i, testCase)
		}
	})
	t.Run("Failure", func(t *testing.T) {
		testCases := []struct {
			server      Server
			expectedErr error
		}{
			{Server{
				URLs: []string{"turn:192.158.29.39?transport=udp"},
			}, &InvalidAccessError{Err: ErrNoTurnCredencials}},
			{Server{
				URLs:           []string{"turn:192.158.29.39?transport=udp"},
				Username:       "unittest",
				Credential:     false,
				CredentialType: CredentialTypePassword,
			}, &InvalidAccessError{Err: ErrTurnCredencials}},
			{Server{
				URLs:           []string{"turn:192.158.29.39?transport=udp"},
				Username:       "unittest",
				Credential:     false,
				CredentialType: CredentialTypeOauth,
			}, &InvalidAccessError{Err: ErrTurnCredencials}},
			{Server{
				URLs:           []string{"turn:192.158.29.39?transport=udp"},
				Username:       "unittest",
				Credential:     false,
				CredentialType: CredentialType(Unknown),
			}, &InvalidAccessError{Err: ErrTurnCredencials}},
			{Server{
				URLs: []string{"stun:google.de?transport=udp"},
			}, &SyntaxError{Err: ErrSTUNQuery}},
		}

		for i, testCase := range testCases {
			err := testCase.server.Validate()
			assert.EqualError(t,
				err,
				testCase.expectedErr.Error(),
				"testCase: %d %v", i, testCase,
			)
		}
	})
}

func TestNewAgentConfig(t *testing.T) {
	cfg, err := NewAgentConfig(GatherOptions{
		ICEServers: []Server{{URLs: []string{"stun:stun.example.com:3478"}}},
	}, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, cfg.Urls, 1)
	assert.Equal(t, SchemeTypeSTUN, cfg.Urls[0].Scheme)

	cfg, err = NewAgentConfig(GatherOptions{
		ICEServers: []Server{
			{URLs: []string{"stun:stun.example.com:3478"}},
			{URLs: []string{"turn:turn.example.com:3478"}, Username: "u", Credential: "p", CredentialType: CredentialTypePassword},
		},
		ICEGatherPolicy: TransportPolicyRelay,
	}, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, cfg.Urls, 1)
	assert.Equal(t, SchemeTypeTURN, cfg.Urls[0].Scheme)
}
