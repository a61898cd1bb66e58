package sctp

import (
	"testing"
	"time"
)

// memPipe links two associations with a buffered async channel in each
// direction, standing in for the DTLS transport; a goroutine per
// direction delivers packets outside of the sending association's own
// lock, exactly as real network delivery would.
type memPipe struct {
	out chan []byte
}

func newMemPipe() *memPipe { return &memPipe{out: make(chan []byte, 64)} }

func (m *memPipe) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	m.out <- buf
	return len(p), nil
}

func connectAssociations(t *testing.T) (a, b *Association) {
	t.Helper()

	a = NewAssociation(Config{})
	b = NewAssociation(Config{})

	aToB, bToA := newMemPipe(), newMemPipe()
	a.netConn = aToB
	b.netConn = bToA

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	pump := func(pipe *memPipe, dst *Association) {
		for {
			select {
			case raw := <-pipe.out:
				_ = dst.handleInbound(raw)
			case <-stop:
				return
			}
		}
	}
	go pump(aToB, b)
	go pump(bToA, a)

	if err := a.Start(); err != nil {
		t.Fatalf("failed to start association: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		a.lock.RLock()
		b.lock.RLock()
		done := a.state == Established && b.state == Established
		a.lock.RUnlock()
		b.lock.RUnlock()
		if done {
			return a, b
		}
		time.Sleep(time.Millisecond)
	}

	t.Fatalf("handshake did not complete: a=%s b=%s", a.state, b.state)
	return a, b
}

func TestAssociationHandshake(t *testing.T) {
	a, b := connectAssociations(t)

	a.lock.RLock()
	defer a.lock.RUnlock()
	b.lock.RLock()
	defer b.lock.RUnlock()

	if a.peerVerificationTag != b.myVerificationTag {
		t.Errorf("a's peer verification tag %d does not match b's own %d", a.peerVerificationTag, b.myVerificationTag)
	}
	if b.peerVerificationTag != a.myVerificationTag {
		t.Errorf("b's peer verification tag %d does not match a's own %d", b.peerVerificationTag, a.myVerificationTag)
	}
}

func TestAssociationStreamReadWrite(t *testing.T) {
	a, b := connectAssociations(t)

	sa, err := a.OpenStream(1, PayloadTypeWebRTCBinary)
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}
	sb, err := b.OpenStream(1, PayloadTypeWebRTCBinary)
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}

	payload := []byte("hello sctp")
	if _, err := sa.Write(payload); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	buf := make([]byte, 64)
	done := make(chan struct{})
	var n int
	var readErr error
	go func() {
		n, readErr = sb.Read(buf)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream read")
	}

	if readErr != nil {
		t.Fatalf("read failed: %v", readErr)
	}
	if string(buf[:n]) != string(payload) {
		t.Errorf("got %q, want %q", buf[:n], payload)
	}
}

func TestInitialCongestionWindow(t *testing.T) {
	if got := initialCwnd(1200); got != 4380 {
		t.Errorf("initialCwnd(1200) = %d, want 4380", got)
	}
	if got := initialCwnd(1500); got != 4380 {
		t.Errorf("initialCwnd(1500) = %d, want 4380", got)
	}
	// Below ~1095 MTU, 4*MTU falls under max(2*MTU,4380), exercising the min().
	if got := initialCwnd(100); got != 400 {
		t.Errorf("initialCwnd(100) = %d, want 400", got)
	}
}

func newUnconnectedAssociation() *Association {
	a := NewAssociation(Config{})
	a.myMaxMTU = defaultMTU
	return a
}

func TestSackSlowStartGrowsWindow(t *testing.T) {
	a := newUnconnectedAssociation()
	a.cwnd = initialCwnd(a.myMaxMTU)
	a.ssthresh = a.cwnd * 10 // stay in slow start

	c := &chunkPayloadData{tsn: 1, userData: make([]byte, 100)}
	a.inflightQueue = []*chunkPayloadData{c}

	before := a.cwnd
	if err := a.handleSack(&chunkSelectiveAck{cumulativeTSNAck: 1}); err != nil {
		t.Fatalf("handleSack failed: %v", err)
	}

	if a.cwnd <= before {
		t.Errorf("cwnd did not grow during slow start: before=%d after=%d", before, a.cwnd)
	}
	if len(a.inflightQueue) != 0 {
		t.Errorf("fully acked chunk should have left the inflight queue, got %d remaining", len(a.inflightQueue))
	}
}

// TestFastRecoveryEntryAndExit exercises the named miss-indicator
// bookkeeping: a TSN left unacked for fastRecoveryMissIndicators SACKs
// while a higher TSN is acked triggers fast-recovery, and the cumulative
// ack point reaching fastRecoverExitPoint ends it.
func TestFastRecoveryEntryAndExit(t *testing.T) {
	a := newUnconnectedAssociation()
	a.cwnd = initialCwnd(a.myMaxMTU)
	a.ssthresh = a.cwnd

	missed := &chunkPayloadData{tsn: 1, userData: make([]byte, 10)}
	ahead := &chunkPayloadData{tsn: 2, userData: make([]byte, 10)}
	a.inflightQueue = []*chunkPayloadData{missed, ahead}

	sack := &chunkSelectiveAck{cumulativeTSNAck: 0, gapAckBlocks: []gapAckBlock{{start: 2, end: 2}}}
	for i := 0; i < fastRecoveryMissIndicators; i++ {
		if err := a.handleSack(sack); err != nil {
			t.Fatalf("handleSack failed: %v", err)
		}
	}

	if !a.inFastRecovery {
		t.Fatal("expected fast-recovery to be entered after repeated miss indications")
	}
	if a.fastRecoverExitPoint != 2 {
		t.Errorf("fastRecoverExitPoint = %d, want 2 (the HTNA at entry)", a.fastRecoverExitPoint)
	}
	if !missed.retransmit {
		t.Error("the missed TSN should have been marked for fast retransmit")
	}

	if err := a.handleSack(&chunkSelectiveAck{cumulativeTSNAck: 2}); err != nil {
		t.Fatalf("handleSack failed: %v", err)
	}
	if a.inFastRecovery {
		t.Error("fast-recovery should have exited once the cumulative ack point reached fastRecoverExitPoint")
	}
}

func TestT3RTXTimeoutCongestionResponse(t *testing.T) {
	a := newUnconnectedAssociation()
	a.cwnd = 20000
	a.ssthresh = 50000
	a.rto = 10 * time.Millisecond
	a.inflightQueue = []*chunkPayloadData{{tsn: 1, userData: make([]byte, 10)}}

	a.onT3RTXTimeout()

	if a.cwnd != uint32(a.myMaxMTU) {
		t.Errorf("cwnd after T3-rtx = %d, want %d (one MTU)", a.cwnd, a.myMaxMTU)
	}
	if a.ssthresh != 10000 {
		t.Errorf("ssthresh after T3-rtx = %d, want 10000 (half of prior cwnd)", a.ssthresh)
	}
}

func TestAbandonStreamAdvancesForwardTSN(t *testing.T) {
	a := newUnconnectedAssociation()
	a.pendingQueue = []*chunkPayloadData{
		{tsn: 5, streamIdentifier: 3, streamSequenceNumber: 1, nsent: 6},
		{tsn: 6, streamIdentifier: 3, streamSequenceNumber: 2, nsent: 1},
	}

	if err := a.abandonStream(3, 5, false, 0); err != nil {
		t.Fatalf("abandonStream failed: %v", err)
	}

	if a.advancedPeerTSNAckPoint != 5 {
		t.Errorf("advancedPeerTSNAckPoint = %d, want 5", a.advancedPeerTSNAckPoint)
	}
	if len(a.pendingQueue) != 1 || a.pendingQueue[0].tsn != 6 {
		t.Errorf("expected only the under-limit chunk to remain pending, got %+v", a.pendingQueue)
	}
}

func TestUpdateRTOClampsToBounds(t *testing.T) {
	a := newUnconnectedAssociation()

	a.updateRTO(time.Microsecond)
	if a.rto < rtoMin {
		t.Errorf("rto %v below floor %v", a.rto, rtoMin)
	}

	a.updateRTO(time.Hour)
	if a.rto > rtoMax {
		t.Errorf("rto %v above ceiling %v", a.rto, rtoMax)
	}
}
