package sctp

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

type paramStateCookie struct {
	paramHeader
	cookie []byte
}

func newRandomStateCookie() *paramStateCookie {
	randCookie := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(randCookie[i*8:], rand.Uint64()) // nolint:gosec
	}

	return &paramStateCookie{cookie: randCookie}
}

func (s *paramStateCookie) marshal() ([]byte, error) {
	s.typ = stateCookie
	s.raw = s.cookie
	return s.paramHeader.marshal()
}

func (s *paramStateCookie) unmarshal(raw []byte) (param, error) {
	if _, err := s.paramHeader.unmarshal(raw); err != nil {
		return nil, err
	}
	s.cookie = s.raw
	return s, nil
}

// String makes paramStateCookie printable
func (s *paramStateCookie) String() string {
	return fmt.Sprintf("%s: %x", s.paramHeader.String(), s.cookie)
}
