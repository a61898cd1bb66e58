// Package ice implements enough of the Interactive Connectivity
// Establishment protocol (RFC 8445) to gather host and server reflexive
// candidates, run connectivity checks against a remote peer, and nominate
// and maintain a working candidate pair for the lifetime of a session.
package ice

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/pion/randutil"
	"github.com/pion/stun/v3"
)

const runeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomIceString(n int) string {
	s, err := randutil.GenerateCryptoRandomString(n, runeAlphabet)
	if err != nil {
		iceLog.Warnf("failed to generate random credential: %v", err)
	}
	return s
}

// newTieBreaker generates the random 64-bit value agents compare to resolve
// an ICE-CONTROLLING/ICE-CONTROLLED role conflict (RFC 8445 section 7.3.1.1).
func newTieBreaker() uint64 {
	gen := randutil.NewMathRandomGenerator()
	return uint64(gen.Uint32())<<32 | uint64(gen.Uint32())
}

const (
	// taskLoopInterval is the interval at which the agent performs checks
	taskLoopInterval = 2 * time.Second

	// defaultKeepaliveInterval is how often STUN binding indications are
	// sent on an idle selected pair to keep NAT bindings open.
	defaultKeepaliveInterval = 2 * time.Second

	// defaultDisconnectedTimeout is how long a selected pair may go quiet
	// before the agent reports ConnectionStateDisconnected. The agent
	// keeps pinging candidates while disconnected, hoping to recover.
	defaultDisconnectedTimeout = 5 * time.Second

	// defaultFailedTimeout is how long a selected pair may go quiet
	// before the agent gives up on it and reports ConnectionStateFailed.
	// Per RFC 8445 section 8.3 this typically requires an ICE restart.
	defaultFailedTimeout = 25 * time.Second
)

// Agent represents the ICE agent
type Agent struct {
	onConnectionStateChangeHdlr       func(ConnectionState)
	onSelectedCandidatePairChangeHdlr func(*Candidate, *Candidate)

	// Used to block double Dial/Accept
	opened bool

	// State owned by the taskLoop
	taskChan        chan task
	onConnected     chan struct{}
	onConnectedOnce sync.Once

	connectivityTicker *time.Ticker
	connectivityChan   <-chan time.Time

	tieBreaker      uint64
	connectionState ConnectionState
	gatheringState  GatheringState

	haveStarted   bool
	isControlling bool

	portmin uint16
	portmax uint16

	// How long the selected pair may go quiet before being reported
	// disconnected, then failed. 0 disables the respective check.
	disconnectedTimeout time.Duration
	failedTimeout       time.Duration

	// How often should we send keepalive packets?
	// 0 means never
	keepaliveInterval time.Duration

	localUfrag      string
	localPwd        string
	localCandidates map[NetworkType][]*Candidate

	remoteUfrag      string
	remotePwd        string
	remoteCandidates map[NetworkType][]*Candidate

	selectedPair *candidatePair
	validPairs   []*candidatePair

	// dataCh carries non-STUN payloads up to Conn.Read once a pair exists.
	dataCh chan []byte

	// State for closing
	done chan struct{}
	err  atomicError
}

// AgentConfig collects the arguments to ice.Agent construction into
// a single structure, for future-proofness of the interface
type AgentConfig struct {
	Urls []*URL

	// PortMin and PortMax are optional. Leave them 0 for the default UDP port allocation strategy.
	PortMin uint16
	PortMax uint16

	// DisconnectedTimeout defaults to 5 seconds when nil. 0 disables the
	// disconnected transition entirely.
	DisconnectedTimeout *time.Duration

	// FailedTimeout defaults to 25 seconds when nil. 0 disables the
	// failed transition entirely.
	FailedTimeout *time.Duration

	// KeepaliveInterval determines how often should we send ICE
	// keepalives (should be less then DisconnectedTimeout above)
	// when this is nil, it defaults to 2 seconds.
	// A keepalive interval of 0 means we never send keepalive packets
	KeepaliveInterval *time.Duration
}

// NewAgent creates a new Agent
func NewAgent(config *AgentConfig) (*Agent, error) {
	if config.PortMax < config.PortMin {
		return nil, ErrPort
	}

	a := &Agent{
		tieBreaker:       newTieBreaker(),
		gatheringState:   GatheringStateComplete, // TODO trickle-ice
		connectionState:  ConnectionStateNew,
		localCandidates:  make(map[NetworkType][]*Candidate),
		remoteCandidates: make(map[NetworkType][]*Candidate),

		localUfrag:  randomIceString(16),
		localPwd:    randomIceString(32),
		taskChan:    make(chan task),
		onConnected: make(chan struct{}),
		dataCh:      make(chan []byte, 128),
		done:        make(chan struct{}),
		portmin:     config.PortMin,
		portmax:     config.PortMax,
	}

	if config.DisconnectedTimeout == nil {
		a.disconnectedTimeout = defaultDisconnectedTimeout
	} else {
		a.disconnectedTimeout = *config.DisconnectedTimeout
	}

	if config.FailedTimeout == nil {
		a.failedTimeout = defaultFailedTimeout
	} else {
		a.failedTimeout = *config.FailedTimeout
	}

	if config.KeepaliveInterval == nil {
		a.keepaliveInterval = defaultKeepaliveInterval
	} else {
		a.keepaliveInterval = *config.KeepaliveInterval
	}

	// Initialize local candidates
	a.gatherCandidatesLocal()
	a.gatherCandidatesReflective(config.Urls)

	go a.taskLoop()
	return a, nil
}

func (a *Agent) ok() error {
	select {
	case <-a.done:
		return a.getErr()
	default:
	}
	return nil
}

func (a *Agent) getErr() error {
	err := a.err.Load()
	if err != nil {
		return err
	}
	return ErrClosed
}

// OnConnectionStateChange sets a handler that is fired when the connection state changes
func (a *Agent) OnConnectionStateChange(f func(ConnectionState)) error {
	return a.run(func(agent *Agent) {
		agent.onConnectionStateChangeHdlr = f
	})
}

// OnSelectedCandidatePairChange sets a handler that is fired when the final candidate
// pair is selected
func (a *Agent) OnSelectedCandidatePairChange(f func(*Candidate, *Candidate)) error {
	return a.run(func(agent *Agent) {
		agent.onSelectedCandidatePairChangeHdlr = f
	})
}

func (a *Agent) onSelectedCandidatePairChange(p *candidatePair) {
	if p != nil && a.onSelectedCandidatePairChangeHdlr != nil {
		a.onSelectedCandidatePairChangeHdlr(p.local, p.remote)
	}
}

func (a *Agent) listenUDP(network string, laddr *net.UDPAddr) (*net.UDPConn, error) {
	if (laddr.Port != 0) || ((a.portmin == 0) && (a.portmax == 0)) {
		return net.ListenUDP(network, laddr)
	}
	i := int(a.portmin)
	if i == 0 {
		i = 1
	}
	j := int(a.portmax)
	if j == 0 {
		j = 0xFFFF
	}
	for i <= j {
		c, e := net.ListenUDP(network, &net.UDPAddr{IP: laddr.IP, Port: i})
		if e == nil {
			return c, e
		}
		i++
	}
	return nil, ErrPort
}

func (a *Agent) gatherCandidatesLocal() {
	localIPs := localInterfaces()
	for _, ip := range localIPs {
		for _, network := range supportedNetworks {
			conn, err := a.listenUDP(network, &net.UDPAddr{IP: ip, Port: 0})
			if err != nil {
				iceLog.Warnf("could not listen %s %s", network, ip)
				continue
			}

			port := conn.LocalAddr().(*net.UDPAddr).Port
			c, err := NewCandidateHost(network, ip, port, ComponentRTP)
			if err != nil {
				iceLog.Warnf("failed to create host candidate: %s %s %d: %v", network, ip, port, err)
				continue
			}

			a.localCandidates[c.NetworkType] = append(a.localCandidates[c.NetworkType], c)
			c.start(a, conn)
		}
	}
}

func (a *Agent) gatherCandidatesReflective(urls []*URL) {
	for _, networkType := range supportedNetworkTypes {
		network := networkType.String()
		for _, url := range urls {
			switch url.Scheme {
			case SchemeTypeSTUN:
				conn, mappedIP, mappedPort, err := allocateUDP(a, network, url)
				if err != nil {
					iceLog.Warnf("could not allocate %s %s: %v", network, url, err)
					continue
				}

				laddr := conn.LocalAddr().(*net.UDPAddr)
				c, err := NewCandidateServerReflexive(network, mappedIP, mappedPort, ComponentRTP,
					laddr.IP.String(), laddr.Port)
				if err != nil {
					iceLog.Warnf("failed to create server reflexive candidate: %s %s %d: %v", network, mappedIP, mappedPort, err)
					continue
				}

				a.localCandidates[c.NetworkType] = append(a.localCandidates[c.NetworkType], c)
				c.start(a, conn)

			default:
				iceLog.Warnf("scheme %s is not implemented", url.Scheme)
				continue
			}
		}
	}
}

// allocateUDP opens a local socket and performs a single STUN Binding
// request/response exchange against url to learn our public mapping.
// The socket is handed to the new server-reflexive candidate via start().
func allocateUDP(a *Agent, network string, url *URL) (sock *net.UDPConn, mappedIP net.IP, mappedPort int, err error) {
	serverAddr, err := net.ResolveUDPAddr(network, fmt.Sprintf("%s:%d", url.Host, url.Port))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to resolve STUN server address: %w", err)
	}

	conn, err := net.ListenUDP(network, &net.UDPAddr{})
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to open socket for STUN allocation: %w", err)
	}

	msg, err := stun.Build(stun.TransactionID, stun.BindingRequest, stun.Fingerprint)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to build STUN binding request: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return nil, nil, 0, err
	}

	if _, err := conn.WriteTo(msg.Raw, serverAddr); err != nil {
		return nil, nil, 0, fmt.Errorf("failed to send STUN binding request: %w", err)
	}

	buf := make([]byte, receiveMTU)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read STUN binding response: %w", err)
	}

	resp := &stun.Message{Raw: append([]byte(nil), buf[:n]...)}
	if err := resp.Decode(); err != nil {
		return nil, nil, 0, fmt.Errorf("failed to decode STUN binding response: %w", err)
	}

	var xorAddr stun.XORMappedAddress
	if err := xorAddr.GetFrom(resp); err != nil {
		return nil, nil, 0, fmt.Errorf("STUN response did not contain XOR-MAPPED-ADDRESS: %w", err)
	}

	if err := conn.SetDeadline(time.Time{}); err != nil {
		return nil, nil, 0, err
	}

	return conn, xorAddr.IP, xorAddr.Port, nil
}

func (a *Agent) startConnectivityChecks(isControlling bool, remoteUfrag, remotePwd string) error {
	switch {
	case a.haveStarted:
		return errors.New("ice: agent already started")
	case remoteUfrag == "":
		return errors.New("ice: remoteUfrag is empty")
	case remotePwd == "":
		return errors.New("ice: remotePwd is empty")
	}
	iceLog.Debugf("started agent: isControlling? %t, remoteUfrag: %q", isControlling, remoteUfrag)

	return a.run(func(agent *Agent) {
		agent.haveStarted = true
		agent.isControlling = isControlling
		agent.remoteUfrag = remoteUfrag
		agent.remotePwd = remotePwd

		t := time.NewTicker(taskLoopInterval)
		agent.connectivityTicker = t
		agent.connectivityChan = t.C

		agent.updateConnectionState(ConnectionStateChecking)
	})
}

// Restart clears the agent's selected and valid pairs and assigns fresh
// local credentials, as required before restarting ICE (RFC 8445 section 9).
func (a *Agent) Restart() error {
	return a.run(func(agent *Agent) {
		agent.localUfrag = randomIceString(16)
		agent.localPwd = randomIceString(32)
		agent.remoteUfrag = ""
		agent.remotePwd = ""
		agent.selectedPair = nil
		agent.validPairs = nil
		agent.haveStarted = false
		agent.updateConnectionState(ConnectionStateNew)
	})
}

func (a *Agent) pingCandidate(local, remote *Candidate) {
	setters := []stun.Setter{
		stun.TransactionID,
		stun.BindingRequest,
		stun.NewUsername(a.remoteUfrag + ":" + a.localUfrag),
		priorityAttr(local.Priority()),
	}

	// The controlling agent MUST include the USE-CANDIDATE attribute in
	// order to nominate a candidate pair (RFC 8445 section 7.3.1). The
	// controlled agent MUST NOT include it in a Binding request.
	if a.isControlling {
		setters = append(setters, useCandidateAttr{}, iceControllingAttr(a.tieBreaker))
	} else {
		setters = append(setters, iceControlledAttr(a.tieBreaker))
	}

	setters = append(setters, stun.NewShortTermIntegrity(a.remotePwd), stun.Fingerprint)

	msg, err := stun.Build(setters...)
	if err != nil {
		iceLog.Debug(err.Error())
		return
	}

	iceLog.Tracef("ping STUN from %s to %s", local, remote)
	a.sendSTUN(msg, local, remote)
}

func (a *Agent) sendSTUN(msg *stun.Message, local, remote *Candidate) {
	if _, err := local.writeTo(remote, msg.Raw); err != nil {
		iceLog.Warnf("failed to send STUN message %s -> %s: %v", local, remote, err)
	}
}

func (a *Agent) updateConnectionState(newState ConnectionState) {
	if a.connectionState != newState {
		iceLog.Infof("setting new connection state: %s", newState)
		a.connectionState = newState
		if hdlr := a.onConnectionStateChangeHdlr; hdlr != nil {
			// Call handler async since we may be holding the agent lock
			// and the handler may also require it
			go hdlr(newState)
		}
	}
}

type candidatePairs []*candidatePair

func (cp candidatePairs) Len() int      { return len(cp) }
func (cp candidatePairs) Swap(i, j int) { cp[i], cp[j] = cp[j], cp[i] }

type byPairPriority struct{ candidatePairs }

// NB: Reverse sort so our candidates start at highest priority
func (bp byPairPriority) Less(i, j int) bool {
	return bp.candidatePairs[i].Priority() > bp.candidatePairs[j].Priority()
}

func (a *Agent) setValidPair(local, remote *Candidate, selected, controlling bool) {
	p := newCandidatePair(local, remote, controlling)
	iceLog.Tracef("found valid candidate pair: %s (selected? %t)", p, selected)

	if selected {
		if !a.selectedPair.Equal(p) {
			a.onSelectedCandidatePairChange(p)
		}
		a.selectedPair = p
		a.validPairs = nil
		a.updateConnectionState(ConnectionStateConnected)
	} else {
		// Keep track of pairs with successful bindings since any of them
		// can be used for communication until the final pair is selected
		// (RFC 8445 section 12).
		a.validPairs = append(a.validPairs, p)
		sort.Sort(byPairPriority{a.validPairs})
	}

	a.onConnectedOnce.Do(func() { close(a.onConnected) })
}

// A task is run serially on the agent's own goroutine via taskChan,
// giving every exported method exclusive access to agent state without a
// mutex.
type task func(*Agent)

func (a *Agent) run(t task) error {
	if err := a.ok(); err != nil {
		return err
	}

	select {
	case <-a.done:
		return a.getErr()
	case a.taskChan <- t:
	}
	return nil
}

func (a *Agent) taskLoop() {
	for {
		select {
		case <-a.connectivityChan:
			if a.connectionState == ConnectionStateFailed {
				// RFC 8445 section 8.3: a failed pair stays dead until
				// an ICE restart; don't keep hammering it with checks.
				continue
			}
			if a.validateSelectedPair() {
				iceLog.Trace("checking keepalive")
				a.checkKeepalive()
			} else {
				iceLog.Trace("pinging all candidates")
				a.pingAllCandidates()
			}

		case t := <-a.taskChan:
			t(a)

		case <-a.done:
			return
		}
	}
}

// validateSelectedPair checks if the selected pair is (still) valid,
// applying the disconnected/failed timeout split of RFC 8445 section 8.3.
// Note: called from the agent's task loop, which serialises access to agent state.
func (a *Agent) validateSelectedPair() bool {
	if a.selectedPair == nil {
		return false
	}

	quiet := time.Since(a.selectedPair.remote.LastReceived())

	if a.failedTimeout != 0 && quiet > a.failedTimeout {
		a.selectedPair = nil
		a.updateConnectionState(ConnectionStateFailed)
		return false
	}

	if a.disconnectedTimeout != 0 && quiet > a.disconnectedTimeout {
		a.updateConnectionState(ConnectionStateDisconnected)
		return false
	}

	if a.connectionState == ConnectionStateDisconnected {
		a.updateConnectionState(ConnectionStateConnected)
	}

	return true
}

// checkKeepalive sends STUN Binding Indications to the selected pair
// if no packet has been sent on that pair in the last keepaliveInterval
// Note: called from the agent's task loop, which serialises access to agent state.
func (a *Agent) checkKeepalive() {
	if a.selectedPair == nil {
		return
	}

	if a.keepaliveInterval != 0 && time.Since(a.selectedPair.local.LastSent()) > a.keepaliveInterval {
		a.pingCandidate(a.selectedPair.local, a.selectedPair.remote)
	}
}

// pingAllCandidates sends STUN Binding Requests to all candidates
// Note: called from the agent's task loop, which serialises access to agent state.
func (a *Agent) pingAllCandidates() {
	for networkType, localCandidates := range a.localCandidates {
		remoteCandidates, ok := a.remoteCandidates[networkType]
		if !ok {
			continue
		}
		for _, localCandidate := range localCandidates {
			for _, remoteCandidate := range remoteCandidates {
				a.pingCandidate(localCandidate, remoteCandidate)
			}
		}
	}
}

// AddRemoteCandidate adds a new remote candidate
func (a *Agent) AddRemoteCandidate(c *Candidate) error {
	return a.run(func(agent *Agent) {
		agent.addRemoteCandidate(c)
	})
}

// addRemoteCandidate assumes you are holding the lock (must be execute using a.run)
func (a *Agent) addRemoteCandidate(c *Candidate) {
	set := a.remoteCandidates[c.NetworkType]

	for _, candidate := range set {
		if candidate.Equal(c) {
			return
		}
	}

	a.remoteCandidates[c.NetworkType] = append(set, c)
}

// GetLocalCandidates returns the local candidates
func (a *Agent) GetLocalCandidates() ([]*Candidate, error) {
	res := make(chan []*Candidate)

	err := a.run(func(agent *Agent) {
		var candidates []*Candidate
		for _, set := range agent.localCandidates {
			candidates = append(candidates, set...)
		}
		res <- candidates
	})
	if err != nil {
		return nil, err
	}

	return <-res, nil
}

// GetLocalUserCredentials returns the local user credentials
func (a *Agent) GetLocalUserCredentials() (frag string, pwd string) {
	return a.localUfrag, a.localPwd
}

// Close cleans up the Agent
func (a *Agent) Close() error {
	done := make(chan struct{})
	err := a.run(func(agent *Agent) {
		defer close(done)
		agent.err.Store(ErrClosed)
		close(agent.done)

		for net, cs := range agent.localCandidates {
			for _, c := range cs {
				if err := c.close(); err != nil {
					iceLog.Warnf("failed to close candidate %s: %v", c, err)
				}
			}
			delete(agent.localCandidates, net)
		}
		for net, cs := range agent.remoteCandidates {
			for _, c := range cs {
				if err := c.close(); err != nil {
					iceLog.Warnf("failed to close candidate %s: %v", c, err)
				}
			}
			delete(agent.remoteCandidates, net)
		}
	})
	if err != nil {
		return err
	}

	<-done
	return nil
}

func (a *Agent) findRemoteCandidate(networkType NetworkType, addr net.Addr) *Candidate {
	var ip net.IP
	var port int

	switch addr := addr.(type) {
	case *net.UDPAddr:
		ip, port = addr.IP, addr.Port
	case *net.TCPAddr:
		ip, port = addr.IP, addr.Port
	default:
		iceLog.Warnf("unsupported address type %T", addr)
		return nil
	}

	for _, c := range a.remoteCandidates[networkType] {
		if c.IP.Equal(ip) && c.Port == port {
			return c
		}
	}
	return nil
}

func (a *Agent) sendBindingSuccess(m *stun.Message, local, remote *Candidate) {
	out, err := stun.Build(stun.NewType(stun.MethodBinding, stun.ClassSuccessResponse), transactionID(m.TransactionID),
		&stun.XORMappedAddress{IP: remote.IP, Port: remote.Port},
		stun.NewShortTermIntegrity(a.localPwd),
		stun.Fingerprint,
	)
	if err != nil {
		iceLog.Warnf("failed to build STUN success response %s -> %s: %v", local, remote, err)
		return
	}
	a.sendSTUN(out, local, remote)
}

// sendRoleConflict answers a Binding request with a 487 (Role Conflict)
// error response, per RFC 8445 section 7.3.1.1, without changing role.
func (a *Agent) sendRoleConflict(m *stun.Message, local, remote *Candidate) {
	out, err := stun.Build(stun.NewType(stun.MethodBinding, stun.ClassErrorResponse), transactionID(m.TransactionID),
		&stun.ErrorCodeAttribute{Code: codeRoleConflict},
		stun.Fingerprint,
	)
	if err != nil {
		iceLog.Warnf("failed to build STUN role-conflict response %s -> %s: %v", local, remote, err)
		return
	}
	a.sendSTUN(out, local, remote)
}

// checkRoleConflict implements RFC 8445 section 7.3.1.1: both agents
// believing themselves controlling, or both controlled, is a conflict.
// The agent with the larger tie-breaker ends up controlling: when that
// requires this agent to switch role it switches and continues processing;
// otherwise it replies 487 and keeps its role.
func (a *Agent) checkRoleConflict(m *stun.Message) (conflict bool) {
	var controlling iceControllingAttr
	if err := controlling.GetFrom(m); err == nil {
		if a.isControlling {
			if a.tieBreaker >= uint64(controlling) {
				return true
			}
			iceLog.Debug("role conflict: switching to controlled")
			a.isControlling = false
		}
		return false
	}

	var controlled iceControlledAttr
	if err := controlled.GetFrom(m); err == nil {
		if !a.isControlling {
			if a.tieBreaker < uint64(controlled) {
				return true
			}
			iceLog.Debug("role conflict: switching to controlling")
			a.isControlling = true
		}
	}
	return false
}

func (a *Agent) handleInboundControlled(m *stun.Message, localCandidate, remoteCandidate *Candidate) {
	successResponse := m.Type.Method == stun.MethodBinding && m.Type.Class == stun.ClassSuccessResponse
	usepair := useCandidateSet(m)
	iceLog.Tracef("got controlled message (success? %t, usepair? %t)", successResponse, usepair)
	a.setValidPair(localCandidate, remoteCandidate, usepair, false)

	if !successResponse {
		a.sendBindingSuccess(m, localCandidate, remoteCandidate)
	}
}

func (a *Agent) handleInboundControlling(m *stun.Message, localCandidate, remoteCandidate *Candidate) {
	successResponse := m.Type.Method == stun.MethodBinding && m.Type.Class == stun.ClassSuccessResponse
	a.setValidPair(localCandidate, remoteCandidate, successResponse, true)

	if !successResponse {
		a.sendBindingSuccess(m, localCandidate, remoteCandidate)

		// We received a ping from the controlled agent. We know the pair works so now we ping with use-candidate set:
		a.pingCandidate(localCandidate, remoteCandidate)
	}
}

// handleNewPeerReflexiveCandidate adds an unseen remote transport address
// to the remote candidate list as a peer-reflexive candidate.
func (a *Agent) handleNewPeerReflexiveCandidate(local *Candidate, remote net.Addr) error {
	var ip net.IP
	var port int

	switch addr := remote.(type) {
	case *net.UDPAddr:
		ip, port = addr.IP, addr.Port
	case *net.TCPAddr:
		ip, port = addr.IP, addr.Port
	default:
		return fmt.Errorf("unsupported address type %T", addr)
	}

	pflxCandidate, err := NewCandidatePeerReflexive(local.network, ip, port, local.Component, "", 0)
	if err != nil {
		return fmt.Errorf("failed to create peer-reflexive candidate %v: %w", remote, err)
	}

	a.addRemoteCandidate(pflxCandidate)
	return nil
}

// processSTUN decodes raw as a STUN message and runs it through the
// connectivity-check state machine. It is invoked from the candidate's
// own read loop, outside of any task, so it re-enters the agent via run().
func (a *Agent) processSTUN(raw []byte, local *Candidate, remote net.Addr) {
	m := &stun.Message{Raw: raw}
	if err := m.Decode(); err != nil {
		iceLog.Debugf("failed to decode STUN message from %s: %v", remote, err)
		return
	}

	if err := a.run(func(agent *Agent) {
		agent.handleInbound(m, local, remote)
	}); err != nil {
		iceLog.Debugf("dropped inbound STUN message: %v", err)
	}
}

// handleInbound processes STUN traffic from a remote candidate. The
// caller must invoke it via run() so it has exclusive access to agent state.
func (a *Agent) handleInbound(m *stun.Message, local *Candidate, remote net.Addr) {
	iceLog.Tracef("inbound STUN from %s to %s", remote, local)
	remoteCandidate := a.findRemoteCandidate(local.NetworkType, remote)
	if remoteCandidate == nil {
		iceLog.Debugf("detected a new peer-reflexive candidate: %s", remote)
		if err := a.handleNewPeerReflexiveCandidate(local, remote); err != nil {
			iceLog.Warn(err.Error())
		}
		return
	}

	remoteCandidate.seen(false)

	if m.Type.Class == stun.ClassIndication {
		return
	}

	if m.Type.Class == stun.ClassRequest && m.Type.Method == stun.MethodBinding {
		if a.checkRoleConflict(m) {
			a.sendRoleConflict(m, local, remoteCandidate)
			return
		}
	}

	if a.isControlling {
		a.handleInboundControlling(m, local, remoteCandidate)
	} else {
		a.handleInboundControlled(m, local, remoteCandidate)
	}
}

// noSTUNSeen processes non STUN traffic from a remote candidate
func (a *Agent) noSTUNSeen(local *Candidate, remote net.Addr) {
	if c := a.findRemoteCandidate(local.NetworkType, remote); c != nil {
		c.seen(false)
	}
}

// pushInbound delivers a non-STUN payload to whatever is reading the
// agent's Conn; it never blocks the candidate's read loop.
func (a *Agent) pushInbound(raw []byte) {
	select {
	case a.dataCh <- raw:
	default:
		iceLog.Warn("dropped inbound data: receiver not keeping up")
	}
}

func (a *Agent) getBestPair() (*candidatePair, error) {
	res := make(chan *candidatePair)

	err := a.run(func(agent *Agent) {
		if agent.selectedPair != nil {
			res <- agent.selectedPair
			return
		}
		for _, p := range agent.validPairs {
			res <- p
			return
		}
		res <- nil
	})
	if err != nil {
		return nil, err
	}

	out := <-res
	if out == nil {
		return nil, ErrNoCandidatePairs
	}
	return out, nil
}
