package sctp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// chunkHeartbeatAck echoes the Heartbeat Information TLV from the
// triggering chunkHeartbeat. The association takes no RTT sample from it.
// https://tools.ietf.org/html/rfc4960#section-3.3.6
type chunkHeartbeatAck struct {
	chunkHeader
	params []param
}

func (h *chunkHeartbeatAck) unmarshal(raw []byte) error {
	if err := h.chunkHeader.unmarshal(raw); err != nil {
		return err
	} else if h.typ != ctHeartbeatAck {
		return errors.Errorf("ChunkType is not of type HEARTBEAT ACK, actually is %s", h.typ.String())
	}

	if len(h.raw) < 4 {
		return errors.Errorf("heartbeat ack is not long enough to contain Heartbeat Info %d", len(h.raw))
	}

	pType := paramType(binary.BigEndian.Uint16(h.raw))
	p, err := buildParam(pType, h.raw)
	if err != nil {
		return errors.Wrap(err, "failed unmarshalling param in HeartbeatAck chunk")
	}
	h.params = append(h.params, p)

	return nil
}

func (h *chunkHeartbeatAck) marshal() ([]byte, error) {
	if len(h.params) != 1 {
		return nil, errors.Errorf("heartbeat ack must have one param")
	}
	if _, ok := h.params[0].(*paramHeartbeatInfo); !ok {
		return nil, errors.Errorf("heartbeat ack must carry a HeartbeatInfo param")
	}

	pp, err := h.params[0].marshal()
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal parameter for HeartbeatAck")
	}

	h.chunkHeader.typ = ctHeartbeatAck
	h.chunkHeader.raw = pp
	return h.chunkHeader.marshal()
}

func (h *chunkHeartbeatAck) check() (abort bool, err error) {
	return false, nil
}

// heartbeatInformation extracts the opaque Heartbeat Information TLV
// payload this chunk is carrying.
func (h *chunkHeartbeatAck) heartbeatInformation() ([]byte, bool) {
	if len(h.params) != 1 {
		return nil, false
	}
	info, ok := h.params[0].(*paramHeartbeatInfo)
	if !ok {
		return nil, false
	}
	return info.heartbeatInformation, true
}
