package sctp

// errorCauseUnrecognizedChunkType reports that the peer sent a chunk type
// this endpoint does not understand and cannot safely skip.
type errorCauseUnrecognizedChunkType struct {
	errorCauseHeader
}

func (e *errorCauseUnrecognizedChunkType) marshal() ([]byte, error) {
	e.errCode = unrecognizedChunkType
	return e.errorCauseHeader.marshal()
}

func (e *errorCauseUnrecognizedChunkType) unmarshal(raw []byte) error {
	return e.errorCauseHeader.unmarshal(raw)
}
