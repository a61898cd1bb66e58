package sctp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// initChunkCommon is the body shared by INIT and INIT ACK chunks.
// https://tools.ietf.org/html/rfc4960#section-3.3.1
type initChunkCommon struct {
	initiateTag                    uint32
	advertisedReceiverWindowCredit uint32
	numOutboundStreams             uint16
	numInboundStreams              uint16
	initialTSN                     uint32
	params                         []param
}

const (
	initChunkMinLength          = 16
	initOptionalVarHeaderLength = 4
)

func getParamPadding(length, multiple uint16) uint16 {
	return (multiple - (length % multiple)) % multiple
}

func (i *initChunkCommon) unmarshal(raw []byte) error {
	if len(raw) < initChunkMinLength {
		return errors.Errorf("chunk value isn't long enough for mandatory parameters exp: %d actual: %d", initChunkMinLength, len(raw))
	}

	i.initiateTag = binary.BigEndian.Uint32(raw[0:])
	i.advertisedReceiverWindowCredit = binary.BigEndian.Uint32(raw[4:])
	i.numOutboundStreams = binary.BigEndian.Uint16(raw[8:])
	i.numInboundStreams = binary.BigEndian.Uint16(raw[10:])
	i.initialTSN = binary.BigEndian.Uint32(raw[12:])

	offset := initChunkMinLength
	remaining := len(raw) - offset
	for remaining > initOptionalVarHeaderLength {
		pType := paramType(binary.BigEndian.Uint16(raw[offset:]))
		p, err := buildParam(pType, raw[offset:])
		if err != nil {
			return errors.Wrap(err, "failed unmarshalling param in INIT/INIT ACK chunk")
		}

		i.params = append(i.params, p)
		padded := p.length() + int(getParamPadding(uint16(p.length()), 4)) // nolint:gosec
		offset += padded
		remaining -= padded
	}

	return nil
}

func (i *initChunkCommon) marshal() ([]byte, error) {
	out := make([]byte, initChunkMinLength)
	binary.BigEndian.PutUint32(out[0:], i.initiateTag)
	binary.BigEndian.PutUint32(out[4:], i.advertisedReceiverWindowCredit)
	binary.BigEndian.PutUint16(out[8:], i.numOutboundStreams)
	binary.BigEndian.PutUint16(out[10:], i.numInboundStreams)
	binary.BigEndian.PutUint32(out[12:], i.initialTSN)

	for idx, p := range i.params {
		pp, err := p.marshal()
		if err != nil {
			return nil, errors.Wrap(err, "unable to marshal parameter for INIT/INIT ACK")
		}
		out = append(out, pp...)

		if idx != len(i.params)-1 {
			out = append(out, make([]byte, getParamPadding(uint16(len(pp)), 4))...) // nolint:gosec
		}
	}

	return out, nil
}
