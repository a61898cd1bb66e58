package ice

import (
	"context"
	"testing"
	"time"

	"github.com/pion/transport/v3/test"
)

func TestStressDuplex(t *testing.T) {
	// Limit runtime in case of deadlocks
	lim := test.TimeOut(time.Second * 20)
	defer lim.Stop()

	// Check for leaking routines
	report := test.CheckRoutines(t)
	defer report()

	// Run the test
	stressDuplex(t)
}

// testTimeout polls c's connection state until it reaches
// ConnectionStateFailed, the point at which the agent has given up on the
// selected pair (RFC 8445 section 8.3). It fails if that happens before
// failedTimeout, or never happens at all.
func testTimeout(t *testing.T, c *Conn, failedTimeout time.Duration) {
	const pollrate = 100 * time.Millisecond
	statechan := make(chan ConnectionState)
	ticker := time.NewTicker(pollrate)

	for cnt := time.Duration(0); cnt <= failedTimeout+taskLoopInterval; cnt += pollrate {
		<-ticker.C
		err := c.agent.run(func(agent *Agent) {
			statechan <- agent.connectionState
		})

		if err != nil {
			//we should never get here.
			panic(err)
		}

		cs := <-statechan
		if cs == ConnectionStateFailed {
			if cnt < failedTimeout {
				t.Fatalf("Connection failed early. (after %d ms)", cnt/time.Millisecond)
			}
			return
		}
	}
	t.Fatalf("Connection failed to reach ConnectionStateFailed in time.")
}

func TestTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	ca, cb := pipe()
	err := cb.Close()

	if err != nil {
		//we should never get here.
		panic(err)
	}

	testTimeout(t, ca, defaultFailedTimeout)

	ca, cb = pipeWithTimeout(1*time.Second, 5*time.Second)
	err = cb.Close()

	if err != nil {
		//we should never get here.
		panic(err)
	}

	testTimeout(t, ca, 5*time.Second)
}

func TestReadClosed(t *testing.T) {
	ca, cb := pipe()

	err := ca.Close()
	if err != nil {
		//we should never get here.
		panic(err)
	}

	err = cb.Close()
	if err != nil {
		//we should never get here.
		panic(err)
	}

	empty := make([]byte, 10)
	_, err = ca.Read(empty)
	if err == nil {
		t.Fatalf("Reading from a closed channel should return an error")
	}

}

func stressDuplex(t *testing.T) {
	ca, cb := pipe()

	defer func() {
		err := ca.Close()
		if err != nil {
			t.Fatal(err)
		}
		err = cb.Close()
		if err != nil {
			t.Fatal(err)
		}
	}()

	opt := test.Options{
		MsgSize:  10,
		MsgCount: 1, // Order not reliable due to UDP & potentially multiple candidate pairs.
	}

	err := test.StressDuplex(ca, cb, opt)
	if err != nil {
		t.Fatal(err)
	}
}

func Benchmark(b *testing.B) {
	ca, cb := pipe()
	defer func() {
		err := ca.Close()
		check(err)
		err = cb.Close()
		check(err)
	}()

	b.ResetTimer()

	opt := test.Options{
		MsgSize:  128,
		MsgCount: b.N,
	}

	err := test.StressDuplex(ca, cb, opt)
	check(err)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func connect(aAgent, bAgent *Agent) (*Conn, *Conn) {
	// Manual signaling
	aUfrag, aPwd := aAgent.GetLocalUserCredentials()
	bUfrag, bPwd := bAgent.GetLocalUserCredentials()

	candidates, err := aAgent.GetLocalCandidates()
	check(err)
	for _, c := range candidates {
		check(bAgent.AddRemoteCandidate(copyCandidate(c)))
	}

	candidates, err = bAgent.GetLocalCandidates()
	check(err)
	for _, c := range candidates {
		check(aAgent.AddRemoteCandidate(copyCandidate(c)))
	}

	accepted := make(chan struct{})
	var aConn *Conn

	go func() {
		var acceptErr error
		aConn, acceptErr = aAgent.Accept(context.TODO(), bUfrag, bPwd)
		check(acceptErr)
		close(accepted)
	}()

	bConn, err := bAgent.Dial(context.TODO(), aUfrag, aPwd)
	check(err)

	// Ensure accepted
	<-accepted
	return aConn, bConn
}

func pipe() (*Conn, *Conn) {
	var urls []*URL

	aNotifier, aConnected := onConnected()
	bNotifier, bConnected := onConnected()

	aAgent, err := NewAgent(&AgentConfig{Urls: urls})
	if err != nil {
		panic(err)
	}
	err = aAgent.OnConnectionStateChange(aNotifier)
	if err != nil {
		panic(err)
	}

	bAgent, err := NewAgent(&AgentConfig{Urls: urls})
	if err != nil {
		panic(err)
	}
	err = bAgent.OnConnectionStateChange(bNotifier)
	if err != nil {
		panic(err)
	}

	aConn, bConn := connect(aAgent, bAgent)

	// Ensure pair selected
	// Note: this assumes ConnectionStateConnected is thrown after selecting the final pair
	<-aConnected
	<-bConnected

	return aConn, bConn
}

func pipeWithTimeout(disconnectedTimeout, failedTimeout time.Duration) (*Conn, *Conn) {
	var urls []*URL

	aNotifier, aConnected := onConnected()
	bNotifier, bConnected := onConnected()

	aAgent, err := NewAgent(&AgentConfig{Urls: urls, DisconnectedTimeout: &disconnectedTimeout, FailedTimeout: &failedTimeout})
	if err != nil {
		panic(err)
	}
	err = aAgent.OnConnectionStateChange(aNotifier)
	if err != nil {
		panic(err)
	}

	bAgent, err := NewAgent(&AgentConfig{Urls: urls, DisconnectedTimeout: &disconnectedTimeout, FailedTimeout: &failedTimeout})
	if err != nil {
		panic(err)
	}
	err = bAgent.OnConnectionStateChange(bNotifier)
	if err != nil {
		panic(err)
	}

	aConn, bConn := connect(aAgent, bAgent)

	// Ensure pair selected
	// Note: this assumes ConnectionStateConnected is thrown after selecting the final pair
	<-aConnected
	<-bConnected

	return aConn, bConn
}

func copyCandidate(orig *Candidate) *Candidate {
	c := &Candidate{
		Type:        orig.Type,
		NetworkType: orig.NetworkType,
		IP:          orig.IP,
		Port:        orig.Port,
	}

	if orig.RelatedAddress != nil {
		c.RelatedAddress = &CandidateRelatedAddress{
			Address: orig.RelatedAddress.Address,
			Port:    orig.RelatedAddress.Port,
		}
	}

	return c
}

func onConnected() (func(ConnectionState), chan struct{}) {
	done := make(chan struct{})
	return func(state ConnectionState) {
		if state == ConnectionStateConnected {
			close(done)
		}
	}, done
}
