package leb128

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/vampirefrog/muxaudio/codec"
)

func TestRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 0x7f, 0x80, 0xff, 0x100, 0x3fff, 0x4000,
		12345678, math.MaxUint32, math.MaxUint64,
	}

	for _, v := range values {
		enc := AppendUint(nil, v)
		if len(enc) > MaxLen {
			t.Fatalf("encoding of %d is %d bytes", v, len(enc))
		}

		dec, n, err := DecodeUint(enc)
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if dec != v || n != len(enc) {
			t.Fatalf("round trip of %d: got %d, consumed %d of %d", v, dec, n, len(enc))
		}
	}
}

func TestKnownEncodings(t *testing.T) {
	cases := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}

	for _, c := range cases {
		got := AppendUint(nil, c.value)
		if !bytes.Equal(got, c.want) {
			t.Fatalf("encode %d: got %x, want %x", c.value, got, c.want)
		}
	}
}

func TestTruncated(t *testing.T) {
	enc := AppendUint(nil, math.MaxUint64)

	for i := 0; i < len(enc); i++ {
		_, _, err := DecodeUint(enc[:i])
		if !errors.Is(err, codec.ErrNeedMoreData) {
			t.Fatalf("prefix of %d bytes: expected need-more-data, got %v", i, err)
		}
	}
}

func TestOverflow(t *testing.T) {
	// ten continuation bytes can never be a valid 64-bit encoding
	over := bytes.Repeat([]byte{0x80}, 10)
	over = append(over, 0x01)

	_, _, err := DecodeUint(over)
	if !errors.Is(err, codec.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}
