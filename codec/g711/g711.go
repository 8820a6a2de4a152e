// Package g711 implements the G.711 A-law and mu-law codec adapters.
// Both compand 16-bit little-endian linear PCM down to one byte per sample
// (A-law for European telephony, mu-law for North American/Japanese). The
// companding runs in pure Go, so these adapters are always available and
// fully exercise the multiplexing state machine without any native codec
// library.
package g711

import (
	"encoding/binary"
	"errors"

	"github.com/vampirefrog/muxaudio/buffer"
	"github.com/vampirefrog/muxaudio/codec"
	"github.com/vampirefrog/muxaudio/frame"
)

// SampleRates is the range both G.711 variants accept. Telephony uses
// 8000 Hz but the companding itself is rate-agnostic.
var SampleRates = codec.SampleRates{Rates: []int{8000, 48000}, IsRange: true}

// Encoder compands 16-bit PCM to 8-bit G.711 samples and multiplexes them
// with side channel data. One frame is written per Encode call.
type Encoder struct {
	out     *buffer.Buffer
	streams int
	compand func(int16) byte
}

// NewALawEncoder returns a G.711 A-law encoder.
func NewALawEncoder(cfg codec.EncoderConfig) (codec.Encoder, error) {
	return &Encoder{
		out:     buffer.New(4096),
		streams: cfg.Streams,
		compand: EncodeALaw,
	}, nil
}

// NewMuLawEncoder returns a G.711 mu-law encoder.
func NewMuLawEncoder(cfg codec.EncoderConfig) (codec.Encoder, error) {
	return &Encoder{
		out:     buffer.New(4096),
		streams: cfg.Streams,
		compand: EncodeMuLaw,
	}, nil
}

// Encode compands audio input (16-bit little-endian PCM) to one byte per
// sample. A trailing odd byte is not consumed; the caller resubmits it with
// the next chunk. Side channel input passes through unchanged.
func (e *Encoder) Encode(p []byte, stream codec.StreamType) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if stream != codec.StreamAudio {
		frame.Write(e.out, p, stream, e.streams)
		return len(p), nil
	}

	samples := len(p) / 2
	if samples == 0 {
		return 0, nil
	}

	companded := make([]byte, samples)
	for i := 0; i < samples; i++ {
		companded[i] = e.compand(int16(binary.LittleEndian.Uint16(p[i*2:])))
	}

	frame.Write(e.out, companded, codec.StreamAudio, e.streams)
	return samples * 2, nil
}

// Read drains multiplexed output.
func (e *Encoder) Read(p []byte) (int, error) {
	return e.out.Read(p)
}

// Finalize is a no-op: the encoder holds no partial frame (an odd input
// byte is the caller's to resubmit).
func (e *Encoder) Finalize() error {
	return nil
}

// Close releases nothing; G.711 holds no native state.
func (e *Encoder) Close() error {
	return nil
}

// Decoder demultiplexes a G.711 stream, expanding audio frames back to
// 16-bit little-endian PCM and passing side channel frames through.
type Decoder struct {
	demux  *frame.Demuxer
	audio  *buffer.Buffer
	side   *buffer.Buffer
	expand func(byte) int16
}

// NewALawDecoder returns a G.711 A-law decoder.
func NewALawDecoder(cfg codec.DecoderConfig) (codec.Decoder, error) {
	return &Decoder{
		demux:  frame.NewDemuxer(cfg.Streams),
		audio:  buffer.New(4096),
		side:   buffer.New(1024),
		expand: DecodeALaw,
	}, nil
}

// NewMuLawDecoder returns a G.711 mu-law decoder.
func NewMuLawDecoder(cfg codec.DecoderConfig) (codec.Decoder, error) {
	return &Decoder{
		demux:  frame.NewDemuxer(cfg.Streams),
		audio:  buffer.New(4096),
		side:   buffer.New(1024),
		expand: DecodeMuLaw,
	}, nil
}

// Decode stages multiplexed bytes and expands every complete audio frame
// to PCM.
func (d *Decoder) Decode(p []byte) (int, error) {
	d.demux.Feed(p)
	for {
		payload, stream, err := d.demux.Next()
		if errors.Is(err, codec.ErrNeedMoreData) {
			return len(p), nil
		}
		if err != nil {
			return len(p), err
		}

		if stream != codec.StreamAudio {
			d.side.Write(payload)
			continue
		}

		pcm := make([]byte, len(payload)*2)
		for i, b := range payload {
			binary.LittleEndian.PutUint16(pcm[i*2:], uint16(d.expand(b)))
		}
		d.audio.Write(pcm)
	}
}

// Read drains decoded output, audio before side channel.
func (d *Decoder) Read(p []byte) (int, codec.StreamType, error) {
	if n, err := d.audio.Read(p); err == nil {
		return n, codec.StreamAudio, nil
	}
	if n, err := d.side.Read(p); err == nil {
		return n, codec.StreamSideChannel, nil
	}
	return 0, codec.StreamAudio, codec.ErrNeedMoreData
}

// Finalize is a no-op.
func (d *Decoder) Finalize() error {
	return nil
}

// Close releases nothing.
func (d *Decoder) Close() error {
	return nil
}
