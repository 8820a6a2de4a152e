// Package pcm implements the raw PCM codec adapter. PCM applies no
// transform to the audio samples; the adapter is a pure multiplexer and
// demultiplexer, which also makes it the simplest exercise of the framing
// protocol: in passthrough mode the output bytes equal the input bytes
// exactly.
package pcm

import (
	"errors"

	"github.com/vampirefrog/muxaudio/buffer"
	"github.com/vampirefrog/muxaudio/codec"
	"github.com/vampirefrog/muxaudio/frame"
)

// SampleRates is the range of sample rates the PCM adapter accepts.
var SampleRates = codec.SampleRates{Rates: []int{1000, 384000}, IsRange: true}

// Encoder multiplexes raw PCM audio with side channel data.
type Encoder struct {
	out     *buffer.Buffer
	streams int
}

// NewEncoder returns a PCM encoder.
func NewEncoder(cfg codec.EncoderConfig) (codec.Encoder, error) {
	return &Encoder{
		out:     buffer.New(4096),
		streams: cfg.Streams,
	}, nil
}

// Encode forwards the input verbatim through the frame codec.
func (e *Encoder) Encode(p []byte, stream codec.StreamType) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	frame.Write(e.out, p, stream, e.streams)
	return len(p), nil
}

// Read drains multiplexed output.
func (e *Encoder) Read(p []byte) (int, error) {
	return e.out.Read(p)
}

// Finalize is a no-op: PCM buffers nothing.
func (e *Encoder) Finalize() error {
	return nil
}

// Close releases nothing; PCM holds no native state.
func (e *Encoder) Close() error {
	return nil
}

// Decoder demultiplexes a PCM stream back into audio and side channel.
type Decoder struct {
	demux *frame.Demuxer
	audio *buffer.Buffer
	side  *buffer.Buffer
}

// NewDecoder returns a PCM decoder.
func NewDecoder(cfg codec.DecoderConfig) (codec.Decoder, error) {
	return &Decoder{
		demux: frame.NewDemuxer(cfg.Streams),
		audio: buffer.New(4096),
		side:  buffer.New(1024),
	}, nil
}

// Decode stages multiplexed bytes and demuxes every complete frame into
// the audio and side channel output buffers.
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
		if stream == codec.StreamAudio {
			d.audio.Write(payload)
		} else {
			d.side.Write(payload)
		}
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

// Finalize is a no-op: PCM buffers no partial frames of its own.
func (d *Decoder) Finalize() error {
	return nil
}

// Close releases nothing.
func (d *Decoder) Close() error {
	return nil
}
