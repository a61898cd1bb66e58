package ice

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// CandidateRelatedAddress describes the relayed or base address a
// server-reflexive, peer-reflexive or relay candidate was derived from.
type CandidateRelatedAddress struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// Candidate represents a single ICE candidate: a transport address the
// agent is willing to use to communicate with a peer, together with the
// UDP socket backing it once gathering has started listening on it.
type Candidate struct {
	Type        CandidateType
	NetworkType NetworkType
	IP          net.IP
	Port        int
	Component   uint16

	// RelatedAddress is non-nil for server reflexive, peer reflexive and
	// relay candidates; it names the base address the candidate was
	// derived from.
	RelatedAddress *CandidateRelatedAddress

	network string

	conn  *net.UDPConn
	agent *Agent

	closeOnce sync.Once
	closeCh   chan struct{}

	lastSent     atomic.Value // time.Time
	lastReceived atomic.Value // time.Time
}

func newCandidate(network string, typ CandidateType, ip net.IP, port int, component uint16, relAddr string, relPort int) (*Candidate, error) {
	networkType, err := determineNetworkType(network, ip)
	if err != nil {
		return nil, err
	}

	c := &Candidate{
		Type:        typ,
		NetworkType: networkType,
		IP:          ip,
		Port:        port,
		Component:   component,
		network:     network,
		closeCh:     make(chan struct{}),
	}
	c.lastSent.Store(time.Time{})
	c.lastReceived.Store(time.Time{})

	if relAddr != "" {
		c.RelatedAddress = &CandidateRelatedAddress{Address: relAddr, Port: relPort}
	}

	return c, nil
}

// NewCandidateHost creates a new host candidate: a transport address
// obtained directly from a local network interface.
func NewCandidateHost(network string, ip net.IP, port int, component uint16) (*Candidate, error) {
	return newCandidate(network, CandidateTypeHost, ip, port, component, "", 0)
}

// NewCandidateServerReflexive creates a new server reflexive candidate: a
// transport address learned from a STUN server's mapped-address response.
func NewCandidateServerReflexive(network string, ip net.IP, port int, component uint16, relAddr string, relPort int) (*Candidate, error) {
	return newCandidate(network, CandidateTypeServerReflexive, ip, port, component, relAddr, relPort)
}

// NewCandidatePeerReflexive creates a new peer reflexive candidate: a
// transport address a remote agent observed this agent communicating from
// that neither side had advertised.
func NewCandidatePeerReflexive(network string, ip net.IP, port int, component uint16, relAddr string, relPort int) (*Candidate, error) {
	return newCandidate(network, CandidateTypePeerReflexive, ip, port, component, relAddr, relPort)
}

// NewCandidateRelay creates a new relay candidate: a transport address
// allocated on a TURN server on this agent's behalf.
func NewCandidateRelay(network string, ip net.IP, port int, component uint16, relAddr string, relPort int) (*Candidate, error) {
	return newCandidate(network, CandidateTypeRelay, ip, port, component, relAddr, relPort)
}

// Priority computes the RFC 8445 section 5.1.2 candidate priority:
// (2^24)*type preference + (2^8)*local preference + (2^0)*(256-component ID).
func (c *Candidate) Priority() uint32 {
	const localPreference = uint32(65535)
	return (1<<24)*uint32(c.Type.Preference()) +
		(1<<8)*localPreference +
		uint32(256-int(c.Component))
}

func (c *Candidate) addr() *net.UDPAddr {
	return &net.UDPAddr{IP: c.IP, Port: c.Port}
}

// start begins reading inbound packets from the candidate's socket,
// dispatching STUN traffic to the agent and surfacing everything else as
// ordinary data on the agent's Conn.
func (c *Candidate) start(a *Agent, conn *net.UDPConn) {
	c.agent = a
	c.conn = conn

	go func() {
		buf := make([]byte, receiveMTU)
		for {
			n, srcAddr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}

			raw := make([]byte, n)
			copy(raw, buf[:n])

			if isSTUN(raw) {
				a.processSTUN(raw, c, srcAddr)
				continue
			}

			a.noSTUNSeen(c, srcAddr)
			a.pushInbound(raw)
		}
	}()
}

func (c *Candidate) close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// seen records that a packet was sent to (outbound=true) or received from
// (outbound=false) this candidate just now; used to drive keepalive and
// disconnected/failed timeout decisions.
func (c *Candidate) seen(outbound bool) {
	if outbound {
		c.lastSent.Store(time.Now())
	} else {
		c.lastReceived.Store(time.Now())
	}
}

// LastReceived returns the last time a packet was received on this
// candidate, or the zero Time if none ever was.
func (c *Candidate) LastReceived() time.Time {
	t, _ := c.lastReceived.Load().(time.Time)
	return t
}

// LastSent returns the last time a packet was sent from this candidate.
func (c *Candidate) LastSent() time.Time {
	t, _ := c.lastSent.Load().(time.Time)
	return t
}

// writeTo sends b to remote using this candidate's socket.
func (c *Candidate) writeTo(remote *Candidate, b []byte) (int, error) {
	if c.conn == nil {
		return 0, fmt.Errorf("ice: candidate %s has no socket", c)
	}
	n, err := c.conn.WriteTo(b, remote.addr())
	if err == nil {
		c.seen(true)
	}
	return n, err
}

// Equal reports whether two candidates describe the same transport address.
func (c *Candidate) Equal(other *Candidate) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.NetworkType == other.NetworkType &&
		c.Type == other.Type &&
		c.IP.Equal(other.IP) &&
		c.Port == other.Port
}

func (c *Candidate) String() string {
	if c.RelatedAddress != nil {
		return fmt.Sprintf("%s %s:%d related %s:%d", c.Type, c.IP, c.Port, c.RelatedAddress.Address, c.RelatedAddress.Port)
	}
	return fmt.Sprintf("%s %s:%d", c.Type, c.IP, c.Port)
}
