package sctp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// chunkHeartbeat probes the reachability of the peer; the Heartbeat
// Information TLV is opaque to the peer and must be echoed back verbatim
// in the matching chunkHeartbeatAck.
// https://tools.ietf.org/html/rfc4960#section-3.3.5
type chunkHeartbeat struct {
	chunkHeader
	params []param
}

func (h *chunkHeartbeat) unmarshal(raw []byte) error {
	if err := h.chunkHeader.unmarshal(raw); err != nil {
		return err
	} else if h.typ != ctHeartbeat {
		return errors.Errorf("ChunkType is not of type HEARTBEAT, actually is %s", h.typ.String())
	}

	if len(h.raw) < 4 {
		return errors.Errorf("heartbeat is not long enough to contain Heartbeat Info %d", len(h.raw))
	}

	pType := paramType(binary.BigEndian.Uint16(h.raw))
	if pType != heartbeatInfo {
		return errors.Errorf("heartbeat should only have HEARTBEAT param, instead have %s", pType.String())
	}

	p, err := buildParam(pType, h.raw)
	if err != nil {
		return errors.Wrap(err, "failed unmarshalling param in Heartbeat chunk")
	}
	h.params = append(h.params, p)

	return nil
}

func (h *chunkHeartbeat) marshal() ([]byte, error) {
	if len(h.params) != 1 {
		return nil, errors.Errorf("heartbeat must have one param")
	}
	if _, ok := h.params[0].(*paramHeartbeatInfo); !ok {
		return nil, errors.Errorf("heartbeat must carry a HeartbeatInfo param")
	}

	pp, err := h.params[0].marshal()
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal parameter for Heartbeat")
	}

	h.chunkHeader.typ = ctHeartbeat
	h.chunkHeader.raw = pp
	return h.chunkHeader.marshal()
}

func (h *chunkHeartbeat) check() (abort bool, err error) {
	return false, nil
}
