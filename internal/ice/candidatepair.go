package ice

import "fmt"

// candidatePair is a combination of a local and remote candidate that the
// agent has validated, or nominated as its final choice.
type candidatePair struct {
	local, remote *Candidate
	controlling   bool
}

func newCandidatePair(local, remote *Candidate, controlling bool) *candidatePair {
	return &candidatePair{local: local, remote: remote, controlling: controlling}
}

// Priority computes the RFC 8445 section 6.1.2.3 candidate pair priority.
// G is the controlling agent's candidate priority, D the controlled
// agent's; the formula rewards pairs both sides rate highly while still
// producing a total order.
func (p *candidatePair) Priority() uint64 {
	var g, d uint64
	if p.controlling {
		g, d = uint64(p.local.Priority()), uint64(p.remote.Priority())
	} else {
		d, g = uint64(p.local.Priority()), uint64(p.remote.Priority())
	}

	min, max := g, d
	if g > d {
		min, max = d, g
	}

	priority := (uint64(1)<<32)*min + 2*max
	if g > d {
		priority++
	}
	return priority
}

// Write sends b to the remote candidate using the local candidate's socket.
func (p *candidatePair) Write(b []byte) (int, error) {
	return p.local.writeTo(p.remote, b)
}

// Equal reports whether two pairs (possibly nil) name the same local and
// remote candidates.
func (p *candidatePair) Equal(other *candidatePair) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.local.Equal(other.local) && p.remote.Equal(other.remote)
}

func (p *candidatePair) String() string {
	return fmt.Sprintf("(%s, %s)", p.local, p.remote)
}
