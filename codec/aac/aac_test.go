package aac

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/vampirefrog/muxaudio/codec"
)

func sineWave(samples int, rate int) []byte {
	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		s := int16(12000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestRejectsBadStreamProperties(t *testing.T) {
	if _, err := NewEncoder(codec.EncoderConfig{SampleRate: 44000, Channels: 1, Streams: 2}); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected rejection of 44000 Hz, got %v", err)
	}
	if _, err := NewEncoder(codec.EncoderConfig{SampleRate: 44100, Channels: 6, Streams: 2}); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected rejection of 6 channels, got %v", err)
	}
}

func TestDecoderUnavailable(t *testing.T) {
	if _, err := NewDecoder(codec.DecoderConfig{Streams: 2}); !errors.Is(err, codec.ErrCodecUnavailable) {
		t.Fatalf("expected codec-unavailable, got %v", err)
	}
}

// In passthrough mode the output is a raw ADTS stream; the first encoded
// frame must start with the ADTS sync word.
func TestPassthroughADTS(t *testing.T) {
	enc, err := NewEncoder(codec.EncoderConfig{SampleRate: 44100, Channels: 1, Streams: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	audio := sineWave(44100/2, 44100)
	n, err := enc.Encode(audio, codec.StreamAudio)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(audio) {
		t.Fatalf("consumed %d of %d bytes", n, len(audio))
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, 65536)
	rn, err := enc.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if rn < 7 {
		t.Fatalf("only %d bytes of output", rn)
	}
	if out[0] != 0xff || out[1]&0xf0 != 0xf0 {
		t.Fatalf("output does not start with an ADTS sync word: %x %x", out[0], out[1])
	}
}

func TestOddByteUnconsumed(t *testing.T) {
	enc, err := NewEncoder(codec.EncoderConfig{SampleRate: 48000, Channels: 1, Streams: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	n, err := enc.Encode([]byte{0x01, 0x02, 0x03}, codec.StreamAudio)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("consumed %d bytes, want 2", n)
	}
}
