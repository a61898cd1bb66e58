package rtcp

import (
	"reflect"
	"testing"
)

func TestFullIntraRequestUnmarshal(t *testing.T) {
	for _, test := range []struct {
		Name      string
		Data      []byte
		Want      FullIntraRequest
		WantError error
	}{
		{
			Name: "valid",
			Data: []byte{
				// v=2, p=0, FMT=4, PSFB, len=4
				0x84, 0xce, 0x00, 0x04,
				// sender=0x11111111
				0x11, 0x11, 0x11, 0x11,
				// media=0x22222222
				0x22, 0x22, 0x22, 0x22,
				// ssrc=0x33333333, seqno=42, reserved
				0x33, 0x33, 0x33, 0x33, 0x2a, 0x00, 0x00, 0x00,
			},
			Want: FullIntraRequest{
				SenderSSRC: 0x11111111,
				MediaSSRC:  0x22222222,
				FIR: []FIREntry{
					{SSRC: 0x33333333, SequenceNumber: 42},
				},
			},
		},
		{
			Name: "wrong type",
			Data: []byte{
				// v=2, p=0, count=4, SR, len=4
				0x84, 0xc8, 0x00, 0x04,
				0x11, 0x11, 0x11, 0x11,
				0x22, 0x22, 0x22, 0x22,
				0x33, 0x33, 0x33, 0x33, 0x2a, 0x00, 0x00, 0x00,
			},
			WantError: errWrongType,
		},
		{
			Name: "wrong fmt",
			Data: []byte{
				// v=2, p=0, FMT=1, PSFB, len=4
				0x81, 0xce, 0x00, 0x04,
				0x11, 0x11, 0x11, 0x11,
				0x22, 0x22, 0x22, 0x22,
				0x33, 0x33, 0x33, 0x33, 0x2a, 0x00, 0x00, 0x00,
			},
			WantError: errWrongType,
		},
		{
			Name: "packet too short",
			Data: []byte{
				// v=2, p=0, FMT=4, PSFB, len=4 (but body truncated)
				0x84, 0xce, 0x00, 0x04,
				0x11, 0x11, 0x11, 0x11,
			},
			WantError: errPacketTooShort,
		},
		{
			Name:      "nil",
			Data:      nil,
			WantError: errPacketTooShort,
		},
	} {
		var fir FullIntraRequest
		err := fir.Unmarshal(test.Data)
		if got, want := err, test.WantError; got != want {
			t.Fatalf("Unmarshal %q fir: err = %v, want %v", test.Name, got, want)
		}
		if err != nil {
			continue
		}

		if got, want := fir, test.Want; !reflect.DeepEqual(got, want) {
			t.Fatalf("Unmarshal %q fir: got %#v, want %#v", test.Name, got, want)
		}
	}
}

func TestFullIntraRequestRoundTrip(t *testing.T) {
	for _, test := range []struct {
		Name string
		FIR  FullIntraRequest
	}{
		{
			Name: "valid",
			FIR: FullIntraRequest{
				SenderSSRC: 1,
				MediaSSRC:  2,
				FIR: []FIREntry{
					{SSRC: 3, SequenceNumber: 4},
					{SSRC: 5, SequenceNumber: 6},
				},
			},
		},
		{
			Name: "no entries",
			FIR: FullIntraRequest{
				SenderSSRC: 1,
				MediaSSRC:  2,
			},
		},
	} {
		data, err := test.FIR.Marshal()
		if err != nil {
			t.Fatalf("Marshal %q: %v", test.Name, err)
		}

		var decoded FullIntraRequest
		if err := decoded.Unmarshal(data); err != nil {
			t.Fatalf("Unmarshal %q: %v", test.Name, err)
		}

		if got, want := decoded, test.FIR; !reflect.DeepEqual(got, want) {
			t.Fatalf("%q fir round trip: got %#v, want %#v", test.Name, got, want)
		}
	}
}
