package ice

import (
	"encoding/binary"
	"fmt"

	"github.com/pion/stun/v3"
)

// STUN attributes used by ICE connectivity checks (RFC 8445 section 7.1.1)
// that pion/stun/v3 does not itself define, since they belong to ICE and
// not to bare STUN.
const (
	attrPriority       stun.AttrType = 0x0024
	attrUseCandidate   stun.AttrType = 0x0025
	attrICEControlled  stun.AttrType = 0x8029
	attrICEControlling stun.AttrType = 0x802a
)

const receiveMTU = 8192

// priorityAttr carries a candidate's RFC 8445 priority on a Binding request.
type priorityAttr uint32

func (p priorityAttr) AddTo(m *stun.Message) error {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, uint32(p))
	m.Add(attrPriority, v)
	return nil
}

func (p *priorityAttr) GetFrom(m *stun.Message) error {
	v, err := m.Get(attrPriority)
	if err != nil {
		return err
	}
	if len(v) < 4 {
		return fmt.Errorf("ice: PRIORITY attribute too short: %d bytes", len(v))
	}
	*p = priorityAttr(binary.BigEndian.Uint32(v))
	return nil
}

// useCandidateAttr is the zero-length USE-CANDIDATE flag a controlling
// agent sets on the Binding request it uses to nominate a pair.
type useCandidateAttr struct{}

func (useCandidateAttr) AddTo(m *stun.Message) error {
	m.Add(attrUseCandidate, nil)
	return nil
}

func useCandidateSet(m *stun.Message) bool {
	return m.Contains(attrUseCandidate)
}

// iceControllingAttr/iceControlledAttr carry the sending agent's tie
// breaker, used to resolve simultaneous controlling-agent nominations
// (RFC 8445 section 7.3.1.1).
type iceControllingAttr uint64

func (c iceControllingAttr) AddTo(m *stun.Message) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(c))
	m.Add(attrICEControlling, v)
	return nil
}

func (c *iceControllingAttr) GetFrom(m *stun.Message) error {
	v, err := m.Get(attrICEControlling)
	if err != nil {
		return err
	}
	if len(v) < 8 {
		return fmt.Errorf("ice: ICE-CONTROLLING attribute too short: %d bytes", len(v))
	}
	*c = iceControllingAttr(binary.BigEndian.Uint64(v))
	return nil
}

type iceControlledAttr uint64

func (c iceControlledAttr) AddTo(m *stun.Message) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(c))
	m.Add(attrICEControlled, v)
	return nil
}

func (c *iceControlledAttr) GetFrom(m *stun.Message) error {
	v, err := m.Get(attrICEControlled)
	if err != nil {
		return err
	}
	if len(v) < 8 {
		return fmt.Errorf("ice: ICE-CONTROLLED attribute too short: %d bytes", len(v))
	}
	*c = iceControlledAttr(binary.BigEndian.Uint64(v))
	return nil
}

// transactionID is a Setter that echoes a specific STUN transaction ID, for
// building a response that must match the request that prompted it.
type transactionID [stun.TransactionIDSize]byte

func (t transactionID) AddTo(m *stun.Message) error {
	m.TransactionID = t
	m.WriteTransactionID()
	return nil
}

// codeRoleConflict is RFC 8445's ICE-specific STUN error code 487, signaled
// when both agents in a session believe they hold the same controlling role.
const codeRoleConflict stun.ErrorCode = 487

// isSTUN reports whether buf looks like a STUN/TURN message: a 20-byte
// header whose top two bits are zero and whose magic cookie matches.
func isSTUN(buf []byte) bool {
	if len(buf) < 20 {
		return false
	}
	if buf[0]&0xc0 != 0 {
		return false
	}
	return binary.BigEndian.Uint32(buf[4:8]) == stun.MagicCookie
}
