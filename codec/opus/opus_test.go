package opus

import (
	"bytes"
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

func TestRejectsPassthrough(t *testing.T) {
	if _, err := NewEncoder(codec.EncoderConfig{SampleRate: 48000, Channels: 1, Streams: 1}); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for passthrough encoder, got %v", err)
	}
	if _, err := NewDecoder(codec.DecoderConfig{Streams: 1}); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for passthrough decoder, got %v", err)
	}
}

func TestRejectsBadStreamProperties(t *testing.T) {
	if _, err := NewEncoder(codec.EncoderConfig{SampleRate: 44100, Channels: 1, Streams: 2}); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected rejection of 44100 Hz, got %v", err)
	}
	if _, err := NewEncoder(codec.EncoderConfig{SampleRate: 48000, Channels: 3, Streams: 2}); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected rejection of 3 channels, got %v", err)
	}
}

// Two full 20 ms windows plus a partial one: two packets are produced by
// Encode and the partial window is flushed (zero-padded) only at Finalize.
func TestWindowing(t *testing.T) {
	const rate = 48000
	const window = rate / 50 // 960 samples

	enc, err := NewEncoder(codec.EncoderConfig{SampleRate: rate, Channels: 1, Streams: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	audio := sineWave(window*2+100, rate)
	n, err := enc.Encode(audio, codec.StreamAudio)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(audio) {
		t.Fatalf("consumed %d of %d bytes", n, len(audio))
	}

	dec, err := NewDecoder(codec.DecoderConfig{Streams: 2,
		Params: []codec.Param{{Name: "sample_rate", Value: rate}, {Name: "channels", Value: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	pipe := func() {
		t.Helper()
		buf := make([]byte, 8192)
		for {
			n, err := enc.Read(buf)
			if errors.Is(err, codec.ErrNeedMoreData) {
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if _, err := dec.Decode(buf[:n]); err != nil {
				t.Fatal(err)
			}
		}
	}

	decoded := func() int {
		t.Helper()
		total := 0
		out := make([]byte, 8192)
		for {
			n, stream, err := dec.Read(out)
			if errors.Is(err, codec.ErrNeedMoreData) {
				return total
			}
			if err != nil {
				t.Fatal(err)
			}
			if stream != codec.StreamAudio {
				t.Fatalf("unexpected %v payload", stream)
			}
			total += n
		}
	}

	pipe()
	if got := decoded(); got != window*2*2 {
		t.Fatalf("decoded %d bytes before finalize, want %d", got, window*2*2)
	}

	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}
	pipe()
	if got := decoded(); got != window*2 {
		t.Fatalf("decoded %d bytes from the padded window, want %d", got, window*2)
	}
}

func TestSideChannelLossless(t *testing.T) {
	const rate = 48000

	enc, err := NewEncoder(codec.EncoderConfig{SampleRate: rate, Channels: 1, Streams: 2,
		Params: []codec.Param{{Name: "bitrate", Value: 32}}})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	side := []byte("cue-point: 00:01:02.500")
	if _, err := enc.Encode(sineWave(rate/50, rate), codec.StreamAudio); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Encode(side, codec.StreamSideChannel); err != nil {
		t.Fatal(err)
	}

	dec, err := NewDecoder(codec.DecoderConfig{Streams: 2,
		Params: []codec.Param{{Name: "sample_rate", Value: rate}, {Name: "channels", Value: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	buf := make([]byte, 8192)
	for {
		n, err := enc.Read(buf)
		if errors.Is(err, codec.ErrNeedMoreData) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if _, err := dec.Decode(buf[:n]); err != nil {
			t.Fatal(err)
		}
	}

	var gotSide []byte
	out := make([]byte, 8192)
	for {
		n, stream, err := dec.Read(out)
		if errors.Is(err, codec.ErrNeedMoreData) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if stream == codec.StreamSideChannel {
			gotSide = append(gotSide, out[:n]...)
		}
	}
	if !bytes.Equal(gotSide, side) {
		t.Fatalf("side channel corrupted: %q", gotSide)
	}
}
