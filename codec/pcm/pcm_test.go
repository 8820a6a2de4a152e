package pcm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vampirefrog/muxaudio/codec"
)

// Encode 8 bytes of audio and 4 bytes of side channel in dual-stream mode;
// after decoding, the first read returns the audio bytes and the second the
// side channel bytes.
func TestDualStreamScenario(t *testing.T) {
	audio := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	side := []byte{0xde, 0xad, 0xbe, 0xef}

	enc, err := NewEncoder(codec.EncoderConfig{SampleRate: 48000, Channels: 1, Streams: 2})
	if err != nil {
		t.Fatal(err)
	}

	if n, err := enc.Encode(audio, codec.StreamAudio); err != nil || n != len(audio) {
		t.Fatalf("audio encode: %d, %v", n, err)
	}
	if n, err := enc.Encode(side, codec.StreamSideChannel); err != nil || n != len(side) {
		t.Fatalf("side encode: %d, %v", n, err)
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	mux := make([]byte, 256)
	n, err := enc.Read(mux)
	if err != nil {
		t.Fatal(err)
	}

	dec, err := NewDecoder(codec.DecoderConfig{Streams: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dec.Decode(mux[:n]); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, 256)
	n, stream, err := dec.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if stream != codec.StreamAudio || !bytes.Equal(out[:n], audio) {
		t.Fatalf("first read: %v %v", stream, out[:n])
	}

	n, stream, err = dec.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if stream != codec.StreamSideChannel || !bytes.Equal(out[:n], side) {
		t.Fatalf("second read: %v %v", stream, out[:n])
	}

	if _, _, err := dec.Read(out); !errors.Is(err, codec.ErrNeedMoreData) {
		t.Fatalf("expected drained decoder, got %v", err)
	}
}

// In passthrough mode PCM output must equal the input exactly, with no
// framing overhead.
func TestPassthroughTransparency(t *testing.T) {
	audio := bytes.Repeat([]byte{0x10, 0x20, 0x30}, 100)

	enc, err := NewEncoder(codec.EncoderConfig{SampleRate: 8000, Channels: 1, Streams: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Encode(audio, codec.StreamAudio); err != nil {
		t.Fatal(err)
	}

	mux := make([]byte, len(audio)+16)
	n, err := enc.Read(mux)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mux[:n], audio) {
		t.Fatal("passthrough output differs from input")
	}

	dec, err := NewDecoder(codec.DecoderConfig{Streams: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dec.Decode(mux[:n]); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, len(audio)+16)
	rn, stream, err := dec.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if stream != codec.StreamAudio {
		t.Fatalf("passthrough read reported %v", stream)
	}
	if !bytes.Equal(out[:rn], audio) {
		t.Fatal("passthrough round trip mismatch")
	}
}

// Feeding the multiplexed stream one byte at a time must reassemble the
// same frames.
func TestChunkedDecode(t *testing.T) {
	enc, _ := NewEncoder(codec.EncoderConfig{Streams: 2})
	enc.Encode(bytes.Repeat([]byte{0x42}, 300), codec.StreamAudio)
	enc.Encode([]byte("meta"), codec.StreamSideChannel)

	mux := make([]byte, 1024)
	n, err := enc.Read(mux)
	if err != nil {
		t.Fatal(err)
	}

	dec, _ := NewDecoder(codec.DecoderConfig{Streams: 2})
	for i := 0; i < n; i++ {
		if _, err := dec.Decode(mux[i : i+1]); err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
	}

	out := make([]byte, 1024)
	rn, stream, err := dec.Read(out)
	if err != nil || stream != codec.StreamAudio || rn != 300 {
		t.Fatalf("audio read: %d %v %v", rn, stream, err)
	}
	rn, stream, err = dec.Read(out)
	if err != nil || stream != codec.StreamSideChannel || string(out[:rn]) != "meta" {
		t.Fatalf("side read: %d %v %v", rn, stream, err)
	}
}
