package sctp

import "github.com/pkg/errors"

// chunkCookieAck acknowledges a chunkCookieEcho; on receipt the
// association is Established.
// https://tools.ietf.org/html/rfc4960#section-3.3.12
type chunkCookieAck struct {
	chunkHeader
}

func (c *chunkCookieAck) unmarshal(raw []byte) error {
	if err := c.chunkHeader.unmarshal(raw); err != nil {
		return err
	}

	if c.typ != ctCookieAck {
		return errors.Errorf("ChunkType is not of type COOKIEACK, actually is %s", c.typ.String())
	}

	return nil
}

func (c *chunkCookieAck) marshal() ([]byte, error) {
	c.chunkHeader.typ = ctCookieAck
	c.chunkHeader.raw = nil
	return c.chunkHeader.marshal()
}

func (c *chunkCookieAck) check() (abort bool, err error) {
	return false, nil
}
