package muxaudio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vampirefrog/muxaudio/codec"
)

func TestCodecTable(t *testing.T) {
	infos := Codecs()
	if len(infos) != int(numCodecs) {
		t.Fatalf("expected %d codecs, got %d", numCodecs, len(infos))
	}

	for _, info := range infos {
		c, err := CodecByName(info.Name)
		if err != nil {
			t.Fatalf("lookup %q: %v", info.Name, err)
		}
		if c != info.Type {
			t.Fatalf("%q resolved to %v, want %v", info.Name, c, info.Type)
		}
	}

	if _, err := CodecByName("theora"); err == nil {
		t.Fatal("expected error for unknown codec name")
	}
}

func TestAlwaysAvailableCodecs(t *testing.T) {
	for _, c := range []Codec{PCM, ALaw, MuLaw} {
		if !Available(c) {
			t.Fatalf("%v should always be available", c)
		}
	}
}

// Requesting construction with an unregistered codec reports
// CodecUnavailable, never a crash.
func TestUnavailableCodec(t *testing.T) {
	for _, c := range []Codec{Vorbis, FLAC, MP3, AAC} {
		if Available(c) {
			t.Skipf("%v registered in this build", c)
		}

		_, err := NewEncoder(c, 48000, 2, 2, nil)
		if !errors.Is(err, codec.ErrCodecUnavailable) {
			t.Fatalf("%v encoder: expected codec-unavailable, got %v", c, err)
		}

		_, err = NewDecoder(c, 2, nil)
		if !errors.Is(err, codec.ErrCodecUnavailable) {
			t.Fatalf("%v decoder: expected codec-unavailable, got %v", c, err)
		}

		if _, err := EncoderParams(c); !errors.Is(err, codec.ErrCodecUnavailable) {
			t.Fatalf("%v params: expected codec-unavailable, got %v", c, err)
		}
		if _, err := SupportedSampleRates(c); !errors.Is(err, codec.ErrCodecUnavailable) {
			t.Fatalf("%v rates: expected codec-unavailable, got %v", c, err)
		}
	}
}

func TestInvalidStreamCount(t *testing.T) {
	for _, streams := range []int{0, 3, -1} {
		if _, err := NewEncoder(PCM, 48000, 2, streams, nil); !errors.Is(err, codec.ErrInvalidArgument) {
			t.Fatalf("streams=%d: expected invalid-argument, got %v", streams, err)
		}
		if _, err := NewDecoder(PCM, streams, nil); !errors.Is(err, codec.ErrInvalidArgument) {
			t.Fatalf("streams=%d: expected invalid-argument, got %v", streams, err)
		}
	}
}

func TestEncodeAfterFinalize(t *testing.T) {
	enc, err := NewEncoder(PCM, 48000, 1, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Encode([]byte{1, 2}, codec.StreamAudio); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument after finalize, got %v", err)
	}
	if err := enc.Finalize(); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument on double finalize, got %v", err)
	}
}

func TestLastError(t *testing.T) {
	enc, err := NewEncoder(MuLaw, 8000, 1, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	if enc.LastError() != nil {
		t.Fatal("fresh encoder carries an error")
	}

	// a failing operation records its error
	enc.Finalize()
	if _, err := enc.Encode([]byte{1, 2}, codec.StreamAudio); err == nil {
		t.Fatal("expected error")
	}
	last := enc.LastError()
	if last == nil || last.Kind != codec.InvalidArgument {
		t.Fatalf("last error not recorded: %v", last)
	}

	// a successful operation does not clear the slot; the caller does
	if enc.LastError() == nil {
		t.Fatal("error cleared without ClearError")
	}
	enc.ClearError()
	if enc.LastError() != nil {
		t.Fatal("ClearError did not clear")
	}
}

// Full facade round trip over the registry with the mu-law codec.
func TestFacadeRoundTrip(t *testing.T) {
	enc, err := NewEncoder(MuLaw, 8000, 1, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	audio := make([]byte, 320)
	for i := range audio {
		audio[i] = byte(i)
	}
	side := []byte("marker")

	if _, err := enc.Encode(audio, codec.StreamAudio); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Encode(side, codec.StreamSideChannel); err != nil {
		t.Fatal(err)
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	dec, err := NewDecoder(MuLaw, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	buf := make([]byte, 4096)
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
	if err := dec.Finalize(); err != nil {
		t.Fatal(err)
	}

	n, stream, err := dec.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if stream != codec.StreamAudio || n != len(audio) {
		t.Fatalf("first read: %d bytes of %v", n, stream)
	}

	n, stream, err = dec.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if stream != codec.StreamSideChannel || !bytes.Equal(buf[:n], side) {
		t.Fatalf("second read: %q of %v", buf[:n], stream)
	}
}

func TestSampleRateQueries(t *testing.T) {
	rates, err := SupportedSampleRates(MuLaw)
	if err != nil {
		t.Fatal(err)
	}
	if !rates.IsRange {
		t.Fatal("expected a rate range for mu-law")
	}
	if !rates.Supports(8000) || rates.Supports(96000) {
		t.Fatal("rate range check broken")
	}

	pcmRates, err := SupportedSampleRates(PCM)
	if err != nil {
		t.Fatal(err)
	}
	if !pcmRates.Supports(44100) {
		t.Fatal("PCM should accept 44100 Hz")
	}
}
