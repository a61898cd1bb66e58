package sctp

func chunkTypeIntersect(l, r []chunkType) (c []chunkType) {
	m := make(map[chunkType]bool)

	for _, ct := range l {
		m[ct] = true
	}

	for _, ct := range r {
		if _, ok := m[ct]; ok {
			c = append(c, ct)
		}
	}
	return
}

type paramSupportedExtensions struct {
	paramHeader
	chunkTypes []chunkType
}

func (s *paramSupportedExtensions) marshal() ([]byte, error) {
	s.typ = supportedExt
	s.raw = make([]byte, len(s.chunkTypes))
	for i, c := range s.chunkTypes {
		s.raw[i] = byte(c)
	}

	return s.paramHeader.marshal()
}

func (s *paramSupportedExtensions) unmarshal(raw []byte) (param, error) {
	if _, err := s.paramHeader.unmarshal(raw); err != nil {
		return nil, err
	}

	for _, t := range s.raw {
		s.chunkTypes = append(s.chunkTypes, chunkType(t))
	}

	return s, nil
}
