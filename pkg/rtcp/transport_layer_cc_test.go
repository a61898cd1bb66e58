package rtcp

import (
	"reflect"
	"testing"
)

func TestTransportLayerCCUnmarshal(t *testing.T) {
	for _, test := range []struct {
		Name      string
		Data      []byte
		Want      TransportLayerCC
		WantError error
	}{
		{
			Name: "valid",
			Data: []byte{
				// v=2, p=0, FMT=15, TransportFeedback, len=5
				0x8f, 0xcd, 0x00, 0x05,
				// sender=0x11223344
				0x11, 0x22, 0x33, 0x44,
				// media=0x55667788
				0x55, 0x66, 0x77, 0x88,
				// base sequence number=1
				0x00, 0x01,
				// packet status count=2
				0x00, 0x02,
				// reference time=0x010203, fb pkt count=7
				0x01, 0x02, 0x03, 0x07,
				// run length chunk: T=0, S=smallDelta, run=2
				0x20, 0x02,
				// recv delta (small): 123, 45
				0x7b, 0x2d,
			},
			Want: TransportLayerCC{
				SenderSSRC:         0x11223344,
				MediaSSRC:          0x55667788,
				BaseSequenceNumber: 1,
				PacketStatusCount:  2,
				ReferenceTime:      0x010203,
				FbPktCount:         7,
				PacketChunks: []PacketStatusChunk{
					&RunLengthChunk{PacketStatusSymbol: typePacketReceivedSmallDelta, RunLength: 2},
				},
				RecvDeltas: []*RecvDelta{
					{Type: typePacketReceivedSmallDelta, Delta: 250 * 123},
					{Type: typePacketReceivedSmallDelta, Delta: 250 * 45},
				},
			},
		},
		{
			Name: "wrong type",
			Data: []byte{
				// v=2, p=0, FMT=15, PSFB (wrong), len=5
				0x8f, 0xce, 0x00, 0x05,
				0x11, 0x22, 0x33, 0x44,
				0x55, 0x66, 0x77, 0x88,
				0x00, 0x01,
				0x00, 0x02,
				0x01, 0x02, 0x03, 0x07,
				0x20, 0x02,
				0x7b, 0x2d,
			},
			WantError: errWrongType,
		},
		{
			Name: "wrong fmt",
			Data: []byte{
				// v=2, p=0, FMT=1 (wrong), TransportFeedback, len=5
				0x81, 0xcd, 0x00, 0x05,
				0x11, 0x22, 0x33, 0x44,
				0x55, 0x66, 0x77, 0x88,
				0x00, 0x01,
				0x00, 0x02,
				0x01, 0x02, 0x03, 0x07,
				0x20, 0x02,
				0x7b, 0x2d,
			},
			WantError: errWrongType,
		},
		{
			Name: "packet too short",
			Data: []byte{
				// v=2, p=0, FMT=15, TransportFeedback, len=0
				0x8f, 0xcd, 0x00, 0x00,
			},
			WantError: errPacketTooShort,
		},
		{
			Name:      "nil",
			Data:      nil,
			WantError: errPacketTooShort,
		},
	} {
		var tcc TransportLayerCC
		err := tcc.Unmarshal(test.Data)
		if got, want := err, test.WantError; got != want {
			t.Fatalf("Unmarshal %q tcc: err = %v, want %v", test.Name, got, want)
		}
		if err != nil {
			continue
		}

		if got, want := tcc, test.Want; !reflect.DeepEqual(got, want) {
			t.Fatalf("Unmarshal %q tcc: got %#v, want %#v", test.Name, got, want)
		}
	}
}

func TestTransportLayerCCRoundTrip(t *testing.T) {
	for _, test := range []struct {
		Name string
		TCC  TransportLayerCC
	}{
		{
			Name: "run length chunk",
			TCC: TransportLayerCC{
				SenderSSRC:         1,
				MediaSSRC:          2,
				BaseSequenceNumber: 10,
				PacketStatusCount:  3,
				ReferenceTime:      100,
				FbPktCount:         5,
				PacketChunks: []PacketStatusChunk{
					&RunLengthChunk{PacketStatusSymbol: typePacketReceivedSmallDelta, RunLength: 3},
				},
				RecvDeltas: []*RecvDelta{
					{Type: typePacketReceivedSmallDelta, Delta: 250},
					{Type: typePacketReceivedSmallDelta, Delta: 500},
					{Type: typePacketReceivedSmallDelta, Delta: 750},
				},
			},
		},
		{
			Name: "status vector chunk",
			TCC: TransportLayerCC{
				SenderSSRC:         9,
				MediaSSRC:          8,
				BaseSequenceNumber: 20,
				PacketStatusCount:  14,
				ReferenceTime:      5,
				FbPktCount:         1,
				PacketChunks: []PacketStatusChunk{
					&StatusVectorChunk{
						SymbolSize: typeSymbolSizeOneBit,
						SymbolList: []uint16{
							typePacketReceivedSmallDelta, typePacketNotReceived, typePacketNotReceived, typePacketNotReceived,
							typePacketNotReceived, typePacketNotReceived, typePacketNotReceived, typePacketNotReceived,
							typePacketNotReceived, typePacketNotReceived, typePacketNotReceived, typePacketNotReceived,
							typePacketNotReceived, typePacketNotReceived,
						},
					},
				},
				RecvDeltas: []*RecvDelta{
					{Type: typePacketReceivedSmallDelta, Delta: 1000},
				},
			},
		},
	} {
		data, err := test.TCC.Marshal()
		if err != nil {
			t.Fatalf("Marshal %q: %v", test.Name, err)
		}

		var decoded TransportLayerCC
		if err := decoded.Unmarshal(data); err != nil {
			t.Fatalf("Unmarshal %q: %v", test.Name, err)
		}

		if got, want := decoded, test.TCC; !reflect.DeepEqual(got, want) {
			t.Fatalf("%q tcc round trip: got %#v, want %#v", test.Name, got, want)
		}
	}
}
