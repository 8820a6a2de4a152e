// Package leb128 implements unsigned LEB128 varint encoding: values are
// emitted in 7-bit groups, low-order first, with the high bit of each byte
// set on every byte except the last.
package leb128

import "github.com/vampirefrog/muxaudio/codec"

// MaxLen is the maximum encoded length of a 64-bit value.
const MaxLen = 10

// AppendUint appends the unsigned LEB128 encoding of v to dst and returns
// the extended slice.
func AppendUint(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// DecodeUint decodes an unsigned LEB128 value from the start of p. It
// returns the value and the number of bytes consumed.
//
// When p ends before a terminating byte is found it returns
// codec.ErrNeedMoreData: the caller should append more input and retry.
// An encoding that would overflow 64 bits is a genuine format error.
func DecodeUint(p []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i, b := range p {
		if i == MaxLen-1 && b > 1 {
			// the 10th byte may only carry bit 63
			return 0, 0, codec.Errorf(codec.Format, "varint overflows 64 bits")
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, codec.ErrNeedMoreData
}
