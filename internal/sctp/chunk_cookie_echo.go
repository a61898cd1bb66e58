package sctp

import "github.com/pkg/errors"

// chunkCookieEcho echoes back, verbatim, the State Cookie the peer handed
// out in its INIT ACK, completing the four-way handshake.
// https://tools.ietf.org/html/rfc4960#section-3.3.11
type chunkCookieEcho struct {
	chunkHeader
	cookie []byte
}

func (c *chunkCookieEcho) unmarshal(raw []byte) error {
	if err := c.chunkHeader.unmarshal(raw); err != nil {
		return err
	}

	if c.typ != ctCookieEcho {
		return errors.Errorf("ChunkType is not of type COOKIEECHO, actually is %s", c.typ.String())
	}
	c.cookie = c.raw

	return nil
}

func (c *chunkCookieEcho) marshal() ([]byte, error) {
	c.chunkHeader.typ = ctCookieEcho
	c.chunkHeader.raw = c.cookie
	return c.chunkHeader.marshal()
}

func (c *chunkCookieEcho) check() (abort bool, err error) {
	return false, nil
}
