package ice

// GatherOptions provides options relating to the gathering of ICE candidates.
type GatherOptions struct {
	ICEServers      []Server
	ICEGatherPolicy TransportPolicy
}

// NewAgentConfig resolves a GatherOptions' server list into the URLs an
// Agent gathers reflexive candidates from, applying the port range and
// gather policy requested.
func NewAgentConfig(opts GatherOptions, portMin, portMax uint16) (*AgentConfig, error) {
	var urls []*URL
	for _, server := range opts.ICEServers {
		serverURLs, err := server.urls()
		if err != nil {
			return nil, err
		}
		urls = append(urls, serverURLs...)
	}

	if opts.ICEGatherPolicy == TransportPolicyRelay {
		relayURLs := urls[:0]
		for _, u := range urls {
			if u.Scheme == SchemeTypeTURN || u.Scheme == SchemeTypeTURNS {
				relayURLs = append(relayURLs, u)
			}
		}
		urls = relayURLs
	}

	return &AgentConfig{
		Urls:    urls,
		PortMin: portMin,
		PortMax: portMax,
	}, nil
}
