package sctp

import "encoding/binary"

// reconfigResult enumerates the outcome codes a peer reports in a
// Re-configuration Response Parameter (RFC 6525 §4.3).
type reconfigResult uint32

const (
	reconfigResultSuccessNOP        reconfigResult = 0
	reconfigResultSuccessPerformed  reconfigResult = 1
	reconfigResultDenied            reconfigResult = 2
	reconfigResultErrorWrongSSN     reconfigResult = 3
	reconfigResultErrorRequestAlreadyInProgress reconfigResult = 4
	reconfigResultErrorBadSequenceNumber        reconfigResult = 5
	reconfigResultInProgress        reconfigResult = 6
)

// paramOutgoingResetRequest is the Outgoing SSN Reset Request Parameter
// carried inside a RE-CONFIG chunk: it asks the peer to reset delivery of
// the named outgoing streams once all data up to senderLastTSN has been
// acknowledged.
type paramOutgoingResetRequest struct {
	paramHeader
	reconfigRequestSequenceNumber uint32
	reconfigResponseSequenceNumber uint32
	senderLastTSN                 uint32
	streamIdentifiers              []uint16
}

func (r *paramOutgoingResetRequest) marshal() ([]byte, error) {
	r.typ = outSSNResetReq
	r.raw = make([]byte, 12+len(r.streamIdentifiers)*2)
	binary.BigEndian.PutUint32(r.raw[0:], r.reconfigRequestSequenceNumber)
	binary.BigEndian.PutUint32(r.raw[4:], r.reconfigResponseSequenceNumber)
	binary.BigEndian.PutUint32(r.raw[8:], r.senderLastTSN)
	for i, id := range r.streamIdentifiers {
		binary.BigEndian.PutUint16(r.raw[12+i*2:], id)
	}
	return r.paramHeader.marshal()
}

func (r *paramOutgoingResetRequest) unmarshal(raw []byte) (param, error) {
	if _, err := r.paramHeader.unmarshal(raw); err != nil {
		return nil, err
	}

	r.reconfigRequestSequenceNumber = binary.BigEndian.Uint32(r.raw[0:])
	r.reconfigResponseSequenceNumber = binary.BigEndian.Uint32(r.raw[4:])
	r.senderLastTSN = binary.BigEndian.Uint32(r.raw[8:])
	for i := 12; i+2 <= len(r.raw); i += 2 {
		r.streamIdentifiers = append(r.streamIdentifiers, binary.BigEndian.Uint16(r.raw[i:]))
	}
	return r, nil
}

// paramReconfigResponse is the Re-configuration Response Parameter a peer
// returns to acknowledge (or reject) an outgoing or incoming stream reset
// request.
type paramReconfigResponse struct {
	paramHeader
	reconfigResponseSequenceNumber uint32
	result                         reconfigResult
}

func (r *paramReconfigResponse) marshal() ([]byte, error) {
	r.typ = reconfigResp
	r.raw = make([]byte, 8)
	binary.BigEndian.PutUint32(r.raw[0:], r.reconfigResponseSequenceNumber)
	binary.BigEndian.PutUint32(r.raw[4:], uint32(r.result))
	return r.paramHeader.marshal()
}

func (r *paramReconfigResponse) unmarshal(raw []byte) (param, error) {
	if _, err := r.paramHeader.unmarshal(raw); err != nil {
		return nil, err
	}
	r.reconfigResponseSequenceNumber = binary.BigEndian.Uint32(r.raw[0:])
	r.result = reconfigResult(binary.BigEndian.Uint32(r.raw[4:]))
	return r, nil
}
