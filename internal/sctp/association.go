package sctp

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// randUint32 returns a cryptographically random uint32, used for
// verification tags and initial TSNs per RFC 4960 §5.3.1.
func randUint32() uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:]) // nolint:gosec
	return binary.BigEndian.Uint32(b[:])
}

// unixNano is the association's clock source for partial-reliability
// abandonment timers; it is a seam so chunk.since comparisons stay
// monotonic without depending on wall-clock time.Now() at every call site.
var unixNano = func() int64 { return time.Now().UnixNano() }

// AssociationState enumerates the states of the SCTP association state
// machine. The zero value, closed, marks an association with no active
// handshake or connection: before Start/INIT and after shutdown or abort.
// https://tools.ietf.org/html/rfc4960#section-4
type AssociationState uint8

const (
	closed AssociationState = iota
	CookieWait
	CookieEchoed
	Established
	ShutdownPending
	ShutdownSent
	ShutdownReceived
	ShutdownAckSent
)

func (a AssociationState) String() string {
	switch a {
	case closed:
		return "Closed"
	case CookieWait:
		return "CookieWait"
	case CookieEchoed:
		return "CookieEchoed"
	case Established:
		return "Established"
	case ShutdownPending:
		return "ShutdownPending"
	case ShutdownSent:
		return "ShutdownSent"
	case ShutdownReceived:
		return "ShutdownReceived"
	case ShutdownAckSent:
		return "ShutdownAckSent"
	default:
		return "Unknown"
	}
}

// Association-wide tuning constants, RFC 4960 §15 and RFC 6298.
const (
	defaultMTU      uint16 = 1200
	initialRwnd     uint32 = 1024 * 1024
	rtoInitial             = 3 * time.Second
	rtoMin                 = 500 * time.Millisecond
	rtoMax                 = 60 * time.Second
	rtoAlpha               = 0.125
	rtoBeta                = 0.25
	maxInitRetrans         = 8
	delayedAckInterval     = 200 * time.Millisecond
	pathMaxRetrans         = 5
	fastRecoveryMissIndicators = 3
)

// outbound is the minimal transport seam an Association writes marshaled
// packets to. A net.Conn (or the DTLS transport's io.Writer) satisfies it.
type outbound interface {
	Write(p []byte) (int, error)
}

// Config carries the parameters needed to create a new Association.
type Config struct {
	NetConn              outbound
	MaxReceiveBufferSize uint32
	MaxMessageSize       uint32
}

// Association represents an SCTP association, the connection-oriented,
// multi-streamed transport this package implements per RFC 4960.
type Association struct {
	lock sync.RWMutex

	netConn outbound

	peerVerificationTag uint32
	myVerificationTag   uint32
	state               AssociationState

	myMaxNumInboundStreams  uint16
	myMaxNumOutboundStreams uint16
	myMaxMTU                uint16

	myNextTSN   uint32 // next TSN this association will assign to outbound data
	peerLastTSN uint32 // cumulative TSN ack point for data received from the peer

	// Congestion control, RFC 4960 §7.2.
	cwnd              uint32
	ssthresh          uint32
	partialBytesAcked uint32

	// Fast-recovery bookkeeping, RFC 4960 §7.2.4.
	inFastRecovery       bool
	fastRecoverExitPoint uint32

	// advancedPeerTSNAckPoint is the cumulative TSN point the partial
	// reliability extension (RFC 3758) has advanced past abandoned data;
	// it drives FORWARD TSN generation.
	advancedPeerTSNAckPoint uint32

	// RTT/RTO estimation, RFC 6298. Karn's algorithm: popInflight takes an
	// RTT sample only from a cumulatively acked chunk that was sent exactly
	// once, so retransmitted data never updates SRTT/RTTVAR.
	srtt    float64
	rttvar  float64
	rto     time.Duration
	rtoSet  bool

	streams map[uint16]*Stream

	payloadQueue payloadQueue   // inbound gap tracking, feeds SACK
	pendingQueue []*chunkPayloadData // outbound, not yet sent
	inflightQueue []*chunkPayloadData // sent, awaiting SACK

	willSendForwardTSN bool
	willRetransmitFast bool

	ackState          ackState
	ackTimer          *time.Timer
	t1Init            *time.Timer
	t1InitRetrans     int
	t1Cookie          *time.Timer
	t1CookieRetrans   int
	t3RTX             *time.Timer
	t3RTXRetrans      int
	t2Shutdown        *time.Timer

	myNextRSN uint32 // next Re-configuration Request Sequence Number

	closed bool
}

// ackState tracks whether a SACK is owed immediately, after the 200ms
// delayed-ack timer, or not at all.
// https://tools.ietf.org/html/rfc4960#section-6.2
type ackState int

const (
	ackStateIdle ackState = iota
	ackStateDelay
	ackStateImmediate
)

// NewAssociation creates an Association in the Closed state, ready to
// either send an INIT (active open) or receive one (passive open).
func NewAssociation(config Config) *Association {
	return &Association{
		netConn:                 config.NetConn,
		state:                   closed,
		myMaxNumInboundStreams:  math.MaxUint16,
		myMaxNumOutboundStreams: math.MaxUint16,
		myMaxMTU:                defaultMTU,
		cwnd:                    initialCwnd(defaultMTU),
		ssthresh:                initialRwnd,
		rto:                     rtoInitial,
		streams:                 map[uint16]*Stream{},
	}
}

// initialCwnd implements the RFC 4960 §7.2.1 initial congestion window:
// min(4*MTU, max(2*MTU, 4380)).
func initialCwnd(mtu uint16) uint32 {
	m := uint32(mtu)
	low := 2 * m
	if low < 4380 {
		low = 4380
	}
	high := 4 * m
	if low < high {
		return low
	}
	return high
}

func min(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// tsnGT reports whether a is after b in TSN sequence space, honoring
// wraparound per RFC 4960 §1.6.
func tsnGT(a, b uint32) bool {
	return (a-b)&0x80000000 == 0 && a != b
}

func tsnGTE(a, b uint32) bool {
	return a == b || tsnGT(a, b)
}

// Start drives the active side of the handshake by sending an INIT.
func (a *Association) Start() error {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.myVerificationTag = randUint32()
	a.myNextTSN = randUint32()

	init := &chunkInit{
		initChunkCommon: initChunkCommon{
			initiateTag:                    a.myVerificationTag,
			advertisedReceiverWindowCredit: initialRwnd,
			numOutboundStreams:             a.myMaxNumOutboundStreams,
			numInboundStreams:              a.myMaxNumInboundStreams,
			initialTSN:                     a.myNextTSN,
		},
	}

	a.state = CookieWait
	a.armT1Init()
	return a.sendChunks([]chunk{init})
}

// handleInbound is the entry point for a raw datagram read off the
// underlying transport.
func (a *Association) handleInbound(raw []byte) error {
	p := &packet{}
	if err := p.unmarshal(raw); err != nil {
		return errors.Wrap(err, "failed unmarshalling packet")
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.checkPacket(p); err != nil {
		return errors.Wrap(err, "failed validating packet")
	}

	for _, c := range p.chunks {
		if err := a.handleChunk(c); err != nil {
			return err
		}
	}

	return a.awake()
}

func (a *Association) checkPacket(p *packet) error {
	for _, c := range p.chunks {
		if _, ok := c.(*chunkInit); ok {
			// An INIT or INIT ACK chunk MUST NOT be bundled with any other
			// chunk. They MUST be the only chunk present in the packet.
			if len(p.chunks) != 1 {
				return errors.New("INIT chunk must not be bundled with any other chunk")
			}
			if p.verificationTag != 0 {
				return errors.New("INIT chunk expects a verification tag of 0 on the packet when out-of-the-blue")
			}
		}
	}
	return nil
}

func (a *Association) handleChunk(c chunk) error {
	if _, err := c.check(); err != nil {
		return errors.Wrap(err, "failed validating chunk")
	}

	switch ct := c.(type) {
	case *chunkInit:
		return a.handleInit(ct)
	case *chunkInitAck:
		return a.handleInitAck(ct)
	case *chunkCookieEcho:
		return a.handleCookieEcho(ct)
	case *chunkCookieAck:
		return a.handleCookieAck()
	case *chunkPayloadData:
		return a.handleData(ct)
	case *chunkSelectiveAck:
		return a.handleSack(ct)
	case *chunkHeartbeat:
		return a.handleHeartbeat(ct)
	case *chunkHeartbeatAck:
		return a.handleHeartbeatAck(ct)
	case *chunkAbort:
		return a.handleAbort(ct)
	case *chunkError:
		// An ERROR not paired with an association-ending cause is
		// informational; nothing to tear down.
		return nil
	case *chunkShutdown:
		return a.handleShutdown(ct)
	case *chunkShutdownAck:
		return a.handleShutdownAck()
	case *chunkShutdownComplete:
		a.closeImmediately()
		return nil
	case *chunkForwardTSN:
		return a.handleForwardTSN(ct)
	case *chunkReconfig:
		return a.handleReconfig(ct)
	}

	return nil
}

// handleInit implements the passive side of the four-way handshake:
// RFC 4960 §5.1.
func (a *Association) handleInit(i *chunkInit) error {
	if a.state != closed && a.state != CookieWait && a.state != CookieEchoed {
		// https://tools.ietf.org/html/rfc4960#section-5.2.2
		return nil
	}

	a.peerVerificationTag = i.initiateTag
	a.myMaxNumInboundStreams = min(i.numOutboundStreams, a.myMaxNumInboundStreams)
	a.myMaxNumOutboundStreams = min(i.numInboundStreams, a.myMaxNumOutboundStreams)
	a.peerLastTSN = i.initialTSN - 1
	if a.myVerificationTag == 0 {
		a.myVerificationTag = randUint32()
	}

	initAck := &chunkInitAck{
		initChunkCommon: initChunkCommon{
			initiateTag:                    a.myVerificationTag,
			advertisedReceiverWindowCredit: initialRwnd,
			numOutboundStreams:             a.myMaxNumOutboundStreams,
			numInboundStreams:              a.myMaxNumInboundStreams,
			initialTSN:                     a.myNextTSN,
			params:                         []param{newRandomStateCookie()},
		},
	}

	return a.sendChunks([]chunk{initAck})
}

// handleInitAck implements RFC 4960 §5.1 Part B: the active side receives
// the peer's parameters and echoes its State Cookie back.
func (a *Association) handleInitAck(i *chunkInitAck) error {
	if a.state != CookieWait {
		return nil
	}

	a.cancelT1Init()
	a.peerVerificationTag = i.initiateTag
	a.myMaxNumInboundStreams = min(i.numOutboundStreams, a.myMaxNumInboundStreams)
	a.myMaxNumOutboundStreams = min(i.numInboundStreams, a.myMaxNumOutboundStreams)
	a.peerLastTSN = i.initialTSN - 1
	a.ssthresh = i.advertisedReceiverWindowCredit
	a.cwnd = initialCwnd(a.myMaxMTU)

	cookie, ok := i.stateCookieParam()
	if !ok {
		return errors.New("INIT ACK is missing the State Cookie parameter")
	}

	a.state = CookieEchoed
	a.armT1Cookie()
	return a.sendChunks([]chunk{&chunkCookieEcho{cookie: cookie.cookie}})
}

func (a *Association) handleCookieEcho(c *chunkCookieEcho) error {
	a.state = Established
	return a.sendChunks([]chunk{&chunkCookieAck{}})
}

func (a *Association) handleCookieAck() error {
	if a.state != CookieEchoed {
		return nil
	}
	a.cancelT1Cookie()
	a.state = Established
	return nil
}

// handleData admits inbound DATA per RFC 4960 §6.2: TSN must be newer
// than the cumulative ack point. The receive window is not checked: every
// such chunk is queued.
func (a *Association) handleData(d *chunkPayloadData) error {
	if tsnGTE(a.peerLastTSN, d.tsn) {
		a.payloadQueue.dupTSN = append(a.payloadQueue.dupTSN, d.tsn)
		a.ackState = ackStateImmediate
		return nil
	}

	a.payloadQueue.push(d, a.peerLastTSN)

	// Greedily advance the cumulative TSN ack point over contiguous data.
	for {
		next, ok := a.payloadQueue.pop(a.peerLastTSN + 1)
		if !ok {
			break
		}
		a.peerLastTSN = next.tsn
		if s, ok := a.streams[next.streamIdentifier]; ok {
			s.handleData(next)
		}
	}

	if d.immediateSack || d.tsn != a.peerLastTSN {
		a.ackState = ackStateImmediate
	} else if a.ackState == ackStateIdle {
		a.ackState = ackStateDelay
		a.armDelayedAck()
	}

	return nil
}

// handleSack implements congestion control and fast-recovery per
// RFC 4960 §7.2 upon receiving a SACK.
func (a *Association) handleSack(s *chunkSelectiveAck) error {
	if tsnGT(a.peerLastTSN, s.cumulativeTSNAck) {
		// Old SACK, ignore.
		return nil
	}

	advanced := tsnGT(s.cumulativeTSNAck, a.peerLastTSN-1) && len(a.inflightQueue) > 0
	bytesAcked, htna := a.popInflight(s)

	if len(a.inflightQueue) == 0 {
		a.cancelT3RTX()
	} else if advanced {
		a.armT3RTX()
	}

	// Fast-recovery exit: once the cumulative ack point reaches the
	// point recorded when fast-recovery was entered.
	if a.inFastRecovery && tsnGTE(s.cumulativeTSNAck, a.fastRecoverExitPoint) {
		a.inFastRecovery = false
	}

	if bytesAcked > 0 && !a.inFastRecovery {
		if a.cwnd <= a.ssthresh {
			// Slow start: RFC 4960 §7.2.1.
			increase := minUint32(bytesAcked, a.cwnd)
			a.cwnd += increase
		} else {
			// Congestion avoidance: RFC 4960 §7.2.2.
			a.partialBytesAcked += bytesAcked
			if a.partialBytesAcked >= a.cwnd {
				a.partialBytesAcked -= a.cwnd
				a.cwnd += uint32(a.myMaxMTU)
			}
		}
	}

	a.maybeEnterFastRecovery(s, htna)

	a.sendPending()
	return nil
}

// popInflight removes chunks cumulatively and selectively acked by s from
// the inflight queue, returning the bytes newly acknowledged and the
// highest TSN newly acked (HTNA).
func (a *Association) popInflight(s *chunkSelectiveAck) (bytesAcked uint32, htna uint32) {
	htna = s.cumulativeTSNAck

	sampled := false
	remaining := a.inflightQueue[:0]
	for _, c := range a.inflightQueue {
		if tsnGTE(s.cumulativeTSNAck, c.tsn) {
			bytesAcked += uint32(len(c.userData))
			// Karn's algorithm: only data sent exactly once yields a sample.
			if c.nsent == 1 && !sampled {
				a.updateRTO(time.Duration(unixNano() - c.since))
				sampled = true
			}
			continue
		}

		acked := false
		for _, b := range s.gapAckBlocks {
			lo := s.cumulativeTSNAck + uint32(b.start)
			hi := s.cumulativeTSNAck + uint32(b.end)
			if c.tsn >= lo && c.tsn <= hi {
				acked = true
				if c.tsn > htna {
					htna = c.tsn
				}
				break
			}
		}

		if acked {
			if !c.acked {
				bytesAcked += uint32(len(c.userData))
				c.acked = true
			}
			remaining = append(remaining, c)
			continue
		}

		remaining = append(remaining, c)
	}
	a.inflightQueue = remaining

	return bytesAcked, htna
}

// maybeEnterFastRecovery implements the miss-indicator counting of
// RFC 4960 §7.2.4: a TSN left unacked while a higher TSN (HTNA) has been
// acked counts a "miss"; 3 misses triggers fast-recovery.
func (a *Association) maybeEnterFastRecovery(s *chunkSelectiveAck, htna uint32) {
	if a.inFastRecovery {
		return
	}

	missed := 0
	for _, c := range a.inflightQueue {
		if c.acked || !tsnGT(htna, c.tsn) {
			continue
		}
		c.nsent++ // miss-indicator reuses the retransmit-count field
		if c.nsent >= fastRecoveryMissIndicators {
			missed++
		}
	}

	if missed == 0 {
		return
	}

	a.ssthresh = maxUint32(a.cwnd/2, 4*uint32(a.myMaxMTU))
	a.cwnd = a.ssthresh
	a.partialBytesAcked = 0
	a.inFastRecovery = true
	a.fastRecoverExitPoint = htna

	for _, c := range a.inflightQueue {
		if !c.acked {
			c.retransmit = true
		}
	}
}

func (a *Association) handleHeartbeat(h *chunkHeartbeat) error {
	if len(h.params) != 1 {
		return errors.New("HEARTBEAT must carry exactly one param")
	}
	info, ok := h.params[0].(*paramHeartbeatInfo)
	if !ok {
		return errors.New("HEARTBEAT must carry a HeartbeatInfo param")
	}

	ack := &chunkHeartbeatAck{params: []param{&paramHeartbeatInfo{heartbeatInformation: info.heartbeatInformation}}}
	return a.sendChunks([]chunk{ack})
}

// handleHeartbeatAck only checks that the chunk carries Heartbeat
// Information; it does not take an RTT sample.
func (a *Association) handleHeartbeatAck(h *chunkHeartbeatAck) error {
	if _, ok := h.heartbeatInformation(); !ok {
		return nil
	}
	return nil
}

// updateRTO applies RFC 6298: SRTT/RTTVAR with alpha=1/8, beta=1/4, and
// RTO clamped to [rtoMin, rtoMax].
func (a *Association) updateRTO(rtt time.Duration) {
	r := rtt.Seconds()
	if !a.rtoSet {
		a.srtt = r
		a.rttvar = r / 2
		a.rtoSet = true
	} else {
		a.rttvar = (1-rtoBeta)*a.rttvar + rtoBeta*absFloat(a.srtt-r)
		a.srtt = (1-rtoAlpha)*a.srtt + rtoAlpha*r
	}

	rto := time.Duration((a.srtt + 4*a.rttvar) * float64(time.Second))
	if rto < rtoMin {
		rto = rtoMin
	}
	if rto > rtoMax {
		rto = rtoMax
	}
	a.rto = rto
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func (a *Association) handleAbort(_ *chunkAbort) error {
	a.closeImmediately()
	return errConnectionClosed
}

// handleShutdown begins the graceful two-way shutdown handshake,
// RFC 4960 §9.2.
func (a *Association) handleShutdown(s *chunkShutdown) error {
	a.state = ShutdownReceived
	a.armT2Shutdown()
	return a.sendChunks([]chunk{&chunkShutdownAck{}})
}

func (a *Association) handleShutdownAck() error {
	a.cancelT2Shutdown()
	a.state = closed
	return a.sendChunks([]chunk{&chunkShutdownComplete{}})
}

// handleForwardTSN implements the partial reliability extension
// (RFC 3758 §3.3): advance the cumulative TSN ack point to the
// sender-advertised point, releasing any stream waiting on the
// now-abandoned gap.
func (a *Association) handleForwardTSN(f *chunkForwardTSN) error {
	if !tsnGT(f.newCumulativeTSN, a.peerLastTSN) {
		return nil
	}

	a.peerLastTSN = f.newCumulativeTSN
	for {
		if _, ok := a.payloadQueue.pop(a.peerLastTSN + 1); !ok {
			break
		}
		a.peerLastTSN++
	}

	a.ackState = ackStateImmediate
	return nil
}

// handleReconfig implements the Outgoing SSN Reset Request half of
// RFC 6525: the peer wants to stop using some of its outgoing streams.
// We acknowledge with Success-Performed, removing those streams, once all
// data up to the request's senderLastTSN has been received; until then the
// response is In-Progress.
func (a *Association) handleReconfig(c *chunkReconfig) error {
	req, ok := c.paramA.(*paramOutgoingResetRequest)
	if !ok {
		return nil
	}

	resp := &paramReconfigResponse{
		reconfigResponseSequenceNumber: req.reconfigRequestSequenceNumber,
		result:                         reconfigResultSuccessPerformed,
	}
	if tsnGT(req.senderLastTSN, a.peerLastTSN) {
		resp.result = reconfigResultInProgress
		return a.sendChunks([]chunk{&chunkReconfig{paramA: resp}})
	}
	for _, sid := range req.streamIdentifiers {
		delete(a.streams, sid)
	}

	return a.sendChunks([]chunk{&chunkReconfig{paramA: resp}})
}

// abandonStream implements the partial reliability abandonment rule: a
// Rexmit-reliability stream drops a chunk once it has been sent limit
// times; a Timed-reliability stream drops it once its age exceeds limit.
// Abandoning data advances advancedPeerTSNAckPoint and is reported to the
// peer with a FORWARD TSN.
func (a *Association) abandonStream(streamIdentifier uint16, limit int, timed bool, nowUnixNano int64) error {
	var skips []forwardTSNStreamSkip
	advanced := a.advancedPeerTSNAckPoint

	remaining := a.pendingQueue[:0]
	for _, c := range a.pendingQueue {
		if c.streamIdentifier != streamIdentifier {
			remaining = append(remaining, c)
			continue
		}

		abandon := false
		if timed {
			abandon = nowUnixNano-c.since > int64(limit)
		} else {
			abandon = c.nsent >= limit
		}

		if abandon {
			if tsnGT(c.tsn, advanced) {
				advanced = c.tsn
			}
			skips = append(skips, forwardTSNStreamSkip{
				streamIdentifier:     c.streamIdentifier,
				streamSequenceNumber: c.streamSequenceNumber,
			})
			continue
		}
		remaining = append(remaining, c)
	}
	a.pendingQueue = remaining

	if len(skips) == 0 {
		return nil
	}

	a.advancedPeerTSNAckPoint = advanced
	return a.sendChunks([]chunk{&chunkForwardTSN{newCumulativeTSN: advanced, streams: skips}})
}

// OpenStream creates (or returns the existing) outgoing stream with the
// given identifier.
func (a *Association) OpenStream(streamIdentifier uint16, defaultPayloadType PayloadProtocolIdentifier) (*Stream, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if s, ok := a.streams[streamIdentifier]; ok {
		return s, nil
	}

	s := &Stream{
		association:        a,
		streamIdentifier:   streamIdentifier,
		defaultPayloadType: defaultPayloadType,
		reassemblyQueue:    &reassemblyQueue{},
		readNotifier:       make(chan struct{}),
		closeCh:            make(chan struct{}),
	}
	a.streams[streamIdentifier] = s
	return s, nil
}

// sendPayloadData accepts fragmented chunks from a Stream.Write and queues
// them for transmission under the congestion window.
func (a *Association) sendPayloadData(chunks []*chunkPayloadData) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	for _, c := range chunks {
		c.tsn = a.myNextTSN
		a.myNextTSN++
		a.pendingQueue = append(a.pendingQueue, c)
	}

	return a.sendPending()
}

// sendPending transmits as much of the pending queue as the congestion
// window currently allows.
func (a *Association) sendPending() error {
	var inflightBytes uint32
	for _, c := range a.inflightQueue {
		inflightBytes += uint32(len(c.userData))
	}

	var toSend []chunk
	for len(a.pendingQueue) > 0 {
		next := a.pendingQueue[0]
		if inflightBytes+uint32(len(next.userData)) > a.cwnd {
			break
		}

		a.pendingQueue = a.pendingQueue[1:]
		next.nsent++
		next.since = unixNano()
		inflightBytes += uint32(len(next.userData))
		a.inflightQueue = append(a.inflightQueue, next)
		toSend = append(toSend, next)
	}

	if len(toSend) == 0 {
		return nil
	}

	a.armT3RTX()
	return a.sendChunks(toSend)
}

func (a *Association) sendChunks(chunks []chunk) error {
	p := &packet{verificationTag: a.peerVerificationTag, chunks: chunks}
	raw, err := p.marshal()
	if err != nil {
		return errors.Wrap(err, "failed marshalling outbound packet")
	}
	if a.netConn == nil {
		return nil
	}
	_, err = a.netConn.Write(raw)
	return err
}

// awake flushes any SACK the receive path decided it owes.
func (a *Association) awake() error {
	if a.ackState != ackStateImmediate {
		return nil
	}
	a.ackState = ackStateIdle
	return a.sendSack()
}

func (a *Association) sendSack() error {
	sack := &chunkSelectiveAck{
		cumulativeTSNAck:               a.peerLastTSN,
		advertisedReceiverWindowCredit: initialRwnd,
		duplicateTSN:                   a.payloadQueue.popDuplicates(),
	}
	for _, b := range a.payloadQueue.getGapAckBlocks(a.peerLastTSN) {
		sack.gapAckBlocks = append(sack.gapAckBlocks, *b)
	}
	return a.sendChunks([]chunk{sack})
}

func (a *Association) armDelayedAck() {
	a.ackTimer = time.AfterFunc(delayedAckInterval, func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		if a.ackState == ackStateDelay {
			a.ackState = ackStateIdle
			_ = a.sendSack()
		}
	})
}

func (a *Association) armT1Init() {
	a.t1Init = time.AfterFunc(a.rto, a.onT1InitTimeout)
}

func (a *Association) cancelT1Init() {
	if a.t1Init != nil {
		a.t1Init.Stop()
	}
}

func (a *Association) onT1InitTimeout() {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.state != CookieWait || a.t1InitRetrans >= maxInitRetrans {
		return
	}
	a.t1InitRetrans++
	_ = a.sendChunks([]chunk{&chunkInit{initChunkCommon: initChunkCommon{
		initiateTag:                    a.myVerificationTag,
		advertisedReceiverWindowCredit: initialRwnd,
		numOutboundStreams:             a.myMaxNumOutboundStreams,
		numInboundStreams:              a.myMaxNumInboundStreams,
		initialTSN:                     a.myNextTSN,
	}}})
	a.armT1Init()
}

func (a *Association) armT1Cookie() {
	a.t1Cookie = time.AfterFunc(a.rto, a.onT1CookieTimeout)
}

func (a *Association) cancelT1Cookie() {
	if a.t1Cookie != nil {
		a.t1Cookie.Stop()
	}
}

func (a *Association) onT1CookieTimeout() {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.state != CookieEchoed || a.t1CookieRetrans >= maxInitRetrans {
		return
	}
	a.t1CookieRetrans++
	a.armT1Cookie()
}

// armT3RTX (re)starts the retransmission timer; it is only ever running
// while data is in flight.
func (a *Association) armT3RTX() {
	if a.t3RTX != nil {
		a.t3RTX.Stop()
	}
	a.t3RTX = time.AfterFunc(a.rto, a.onT3RTXTimeout)
}

func (a *Association) cancelT3RTX() {
	if a.t3RTX != nil {
		a.t3RTX.Stop()
		a.t3RTX = nil
	}
	a.t3RTXRetrans = 0
}

// onT3RTXTimeout implements the RFC 4960 §6.3.3 congestion response to a
// retransmission timeout: halve (floor 4*MTU) ssthresh, collapse cwnd to
// one MTU, and mark all in-flight data for retransmission.
func (a *Association) onT3RTXTimeout() {
	a.lock.Lock()
	defer a.lock.Unlock()

	if len(a.inflightQueue) == 0 {
		return
	}

	a.ssthresh = maxUint32(a.cwnd/2, 4*uint32(a.myMaxMTU))
	a.cwnd = uint32(a.myMaxMTU)
	a.partialBytesAcked = 0
	a.rto *= 2
	if a.rto > rtoMax {
		a.rto = rtoMax
	}

	for _, c := range a.inflightQueue {
		if !c.acked {
			c.retransmit = true
		}
	}
	a.requeueMarkedRetransmits()

	a.t3RTXRetrans++
	if a.t3RTXRetrans > pathMaxRetrans {
		a.closeImmediately()
		return
	}

	_ = a.sendPending()
}

func (a *Association) requeueMarkedRetransmits() {
	remaining := a.inflightQueue[:0]
	for _, c := range a.inflightQueue {
		if c.retransmit && !c.acked {
			c.retransmit = false
			a.pendingQueue = append([]*chunkPayloadData{c}, a.pendingQueue...)
			continue
		}
		remaining = append(remaining, c)
	}
	a.inflightQueue = remaining
}

func (a *Association) armT2Shutdown() {
	a.t2Shutdown = time.AfterFunc(a.rto, func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		if a.state == ShutdownReceived || a.state == ShutdownSent {
			_ = a.sendChunks([]chunk{&chunkShutdownAck{}})
			a.armT2Shutdown()
		}
	})
}

func (a *Association) cancelT2Shutdown() {
	if a.t2Shutdown != nil {
		a.t2Shutdown.Stop()
	}
}

// closeImmediately tears down the TCB without a graceful SHUTDOWN
// exchange, as required when an ABORT is received or sent.
func (a *Association) closeImmediately() {
	a.state = closed
	a.closed = true
	a.pendingQueue = nil
	a.inflightQueue = nil
	a.cancelT1Init()
	a.cancelT1Cookie()
	a.cancelT3RTX()
	a.cancelT2Shutdown()
	for _, s := range a.streams {
		close(s.closeCh)
	}
	a.streams = map[uint16]*Stream{}
}

// Close begins (or completes, if already idle) a graceful shutdown.
func (a *Association) Close() error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.closed {
		return nil
	}

	if len(a.pendingQueue) == 0 && len(a.inflightQueue) == 0 {
		a.state = ShutdownSent
		a.armT2Shutdown()
		return a.sendChunks([]chunk{&chunkShutdown{cumulativeTSNAck: a.peerLastTSN}})
	}

	a.state = ShutdownPending
	return nil
}

var errConnectionClosed = errors.New("sctp: connection closed")
