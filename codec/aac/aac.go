// Package aac implements an encode-only AAC adapter over
// github.com/lizc2003/audio-fdkaac (libfdk-aac via cgo). Importing this
// package registers the adapter:
//
//	import _ "github.com/vampirefrog/muxaudio/codec/aac"
//
// The encoder produces ADTS output, which is self-delimiting, so both
// passthrough and dual-stream modes are supported. The binding exposes no
// decode entry points; constructing a decoder reports CodecUnavailable.
package aac

import (
	fdkaac "github.com/lizc2003/audio-fdkaac"

	"github.com/vampirefrog/muxaudio"
	"github.com/vampirefrog/muxaudio/buffer"
	"github.com/vampirefrog/muxaudio/codec"
	"github.com/vampirefrog/muxaudio/frame"
)

var sampleRates = codec.SampleRates{
	Rates: []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000, 64000, 88200, 96000},
}

var encoderParams = []codec.ParamDesc{
	{
		Name:        "bitrate",
		Description: "Target bitrate in kbps",
		Type:        codec.ParamInt,
		Min:         8, Max: 512,
		Default: 128,
	},
}

func init() {
	muxaudio.Register(muxaudio.AAC, &muxaudio.Adapter{
		NewEncoder:    NewEncoder,
		NewDecoder:    NewDecoder,
		EncoderParams: encoderParams,
		SampleRates:   sampleRates,
	})
}

// Encoder compresses 16-bit little-endian PCM to AAC in an ADTS transport
// stream. The native encoder windows the input internally, so arbitrary
// chunk sizes are accepted; only a trailing odd byte is left unconsumed.
type Encoder struct {
	enc     *fdkaac.AacEncoder
	out     *buffer.Buffer
	streams int
}

// NewEncoder returns an AAC encoder.
func NewEncoder(cfg codec.EncoderConfig) (codec.Encoder, error) {
	if !sampleRates.Supports(cfg.SampleRate) {
		return nil, codec.Errorf(codec.InvalidArgument,
			"AAC does not support %d Hz", cfg.SampleRate)
	}
	if cfg.Channels < 1 || cfg.Channels > 2 {
		return nil, codec.Errorf(codec.InvalidArgument,
			"AAC adapter supports mono or stereo audio")
	}

	bitrate := 128
	if p, ok := codec.FindParam(cfg.Params, "bitrate"); ok {
		if v, ok := p.IntValue(); ok {
			bitrate = v
		}
	}

	enc, err := fdkaac.CreateAacEncoder(&fdkaac.AacEncoderConfig{
		TransMux:    fdkaac.TtMp4Adts,
		SampleRate:  cfg.SampleRate,
		MaxChannels: cfg.Channels,
		Bitrate:     bitrate * 1000,
	})
	if err != nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to create AAC encoder", "fdk-aac", 0, err.Error())
	}

	return &Encoder{
		enc:     enc,
		out:     buffer.New(4096),
		streams: cfg.Streams,
	}, nil
}

// Encode compresses audio input; every call that produces output emits it as
// one frame. Side channel input passes through unchanged.
func (e *Encoder) Encode(p []byte, stream codec.StreamType) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if stream != codec.StreamAudio {
		frame.Write(e.out, p, stream, e.streams)
		return len(p), nil
	}

	in := p[:len(p)&^1]
	if len(in) == 0 {
		return 0, nil
	}

	adts := make([]byte, e.enc.EstimateOutBufBytes(len(in)))
	n, _, err := e.enc.Encode(in, adts)
	if err != nil {
		return 0, codec.WrapLibrary(codec.Encoding,
			"AAC encoding failed", "fdk-aac", 0, err.Error())
	}
	if n > 0 {
		frame.Write(e.out, adts[:n], codec.StreamAudio, e.streams)
	}
	return len(in), nil
}

// Read drains multiplexed output.
func (e *Encoder) Read(p []byte) (int, error) {
	return e.out.Read(p)
}

// Finalize flushes the native encoder's delay line.
func (e *Encoder) Finalize() error {
	adts := make([]byte, e.enc.EstimateOutBufBytes(4096))
	n, _, err := e.enc.Flush(adts)
	if err != nil {
		return codec.WrapLibrary(codec.Encoding,
			"AAC flush failed", "fdk-aac", 0, err.Error())
	}
	if n > 0 {
		frame.Write(e.out, adts[:n], codec.StreamAudio, e.streams)
	}
	return nil
}

// Close releases the native encoder state.
func (e *Encoder) Close() error {
	if e.enc != nil {
		e.enc.Close()
		e.enc = nil
	}
	return nil
}

// NewDecoder always fails: the binding wraps only the fdk-aac encoder.
func NewDecoder(cfg codec.DecoderConfig) (codec.Decoder, error) {
	return nil, codec.Errorf(codec.CodecUnavailable,
		"AAC decoding is not available in this build")
}
