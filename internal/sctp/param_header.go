package sctp

import "encoding/binary"

type paramHeader struct {
	typ paramType
	len int
	raw []byte
}

const paramHeaderLength = 4

func (p *paramHeader) marshal() ([]byte, error) {
	paramLengthPlusHeader := paramHeaderLength + len(p.raw)

	rawParam := make([]byte, paramLengthPlusHeader)
	binary.BigEndian.PutUint16(rawParam[0:], uint16(p.typ))
	binary.BigEndian.PutUint16(rawParam[2:], uint16(paramLengthPlusHeader))
	copy(rawParam[paramHeaderLength:], p.raw)

	return rawParam, nil
}

func (p *paramHeader) unmarshal(raw []byte) (param, error) {
	lengthPlusHeader := binary.BigEndian.Uint16(raw[2:])

	p.typ = paramType(binary.BigEndian.Uint16(raw[0:]))
	p.raw = raw[paramHeaderLength:lengthPlusHeader]
	p.len = int(lengthPlusHeader)

	return p, nil
}

func (p *paramHeader) length() int {
	return p.len
}

func (p *paramHeader) String() string {
	return p.typ.String()
}
