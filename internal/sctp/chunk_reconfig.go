package sctp

import "github.com/pkg/errors"

// chunkReconfig carries the RE-CONFIG parameters used to reset one or
// more outgoing streams (RFC 6525). Re-configuration uses the same
// generic chunk body as INIT: one or two TLV parameters.
// https://tools.ietf.org/html/rfc6525#section-3.1
type chunkReconfig struct {
	chunkHeader
	paramA param
	paramB param
}

func (c *chunkReconfig) unmarshal(raw []byte) error {
	if err := c.chunkHeader.unmarshal(raw); err != nil {
		return err
	}
	if c.typ != ctReconfig {
		return errors.Errorf("ChunkType is not of type RECONFIG, actually is %s", c.typ.String())
	}

	offset := 0
	if offset+4 <= len(c.raw) {
		hdr := paramHeader{}
		if _, err := hdr.unmarshal(c.raw[offset:]); err != nil {
			return err
		}
		p, err := buildParam(hdr.typ, c.raw[offset:])
		if err != nil {
			return errors.Wrap(err, "failed unmarshalling param in RECONFIG chunk")
		}
		c.paramA = p
		offset += p.length() + int(getParamPadding(uint16(p.length()), 4)) // nolint:gosec
	}
	if offset+4 <= len(c.raw) {
		hdr := paramHeader{}
		if _, err := hdr.unmarshal(c.raw[offset:]); err != nil {
			return err
		}
		p, err := buildParam(hdr.typ, c.raw[offset:])
		if err != nil {
			return errors.Wrap(err, "failed unmarshalling second param in RECONFIG chunk")
		}
		c.paramB = p
	}

	return nil
}

func (c *chunkReconfig) marshal() ([]byte, error) {
	var raw []byte
	for _, p := range []param{c.paramA, c.paramB} {
		if p == nil {
			continue
		}
		pp, err := p.marshal()
		if err != nil {
			return nil, err
		}
		raw = append(raw, pp...)
		raw = append(raw, make([]byte, getParamPadding(uint16(len(pp)), 4))...) // nolint:gosec
	}

	c.chunkHeader.typ = ctReconfig
	c.chunkHeader.raw = raw
	return c.chunkHeader.marshal()
}

func (c *chunkReconfig) check() (abort bool, err error) {
	return false, nil
}
