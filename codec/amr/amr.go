// Package amr implements the AMR-NB (Adaptive Multi-Rate Narrowband) codec
// adapter over the opencore-amrnb library via cgo. Importing this package
// registers the adapter:
//
//	import _ "github.com/vampirefrog/muxaudio/codec/amr"
//
// AMR-NB is the GSM/3G voice codec: 8000 Hz mono, fixed 160-sample (20 ms)
// frames, eight bitrate modes from 4.75 to 12.2 kbps. The encoded bitstream
// is self-delimiting through its mode byte, so the adapter supports
// passthrough mode as well as the framed dual-stream mode.
package amr

/*
#cgo pkg-config: opencore-amrnb
#include <opencore-amrnb/interf_enc.h>
#include <opencore-amrnb/interf_dec.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/vampirefrog/muxaudio"
	"github.com/vampirefrog/muxaudio/buffer"
	"github.com/vampirefrog/muxaudio/codec"
	"github.com/vampirefrog/muxaudio/frame"
)

const (
	sampleRate   = 8000
	frameSamples = 160 // 20ms at 8kHz
	maxFrameSize = 32  // largest encoded frame (12.2 kbps)
)

var sampleRates = codec.SampleRates{Rates: []int{sampleRate}}

var encoderParams = []codec.ParamDesc{
	{
		Name:        "bitrate",
		Description: "Bitrate in kbps (4.75, 5.15, 5.9, 6.7, 7.4, 7.95, 10.2, 12.2)",
		Type:        codec.ParamFloat,
		Min:         4.75, Max: 12.2,
		Default: 12.2,
	},
	{
		Name:        "dtx",
		Description: "Enable discontinuous transmission (silence compression)",
		Type:        codec.ParamBool,
		Default:     false,
	},
}

func init() {
	muxaudio.Register(muxaudio.AMRNB, &muxaudio.Adapter{
		NewEncoder:    NewEncoder,
		NewDecoder:    NewDecoder,
		EncoderParams: encoderParams,
		SampleRates:   sampleRates,
	})
}

// bitrateToMode maps a kbps value to the nearest AMR-NB mode (0-7).
func bitrateToMode(bitrate float64) int {
	switch {
	case bitrate <= 4.75:
		return 0
	case bitrate <= 5.15:
		return 1
	case bitrate <= 5.9:
		return 2
	case bitrate <= 6.7:
		return 3
	case bitrate <= 7.4:
		return 4
	case bitrate <= 7.95:
		return 5
	case bitrate <= 10.2:
		return 6
	}
	return 7
}

// Encoder compresses 16-bit little-endian PCM in fixed 160-sample frames.
// A partial frame is retained across Encode calls and zero-padded at
// Finalize.
type Encoder struct {
	state   unsafe.Pointer
	mode    int
	out     *buffer.Buffer
	streams int
	window  [frameSamples]int16
	filled  int
}

// NewEncoder returns an AMR-NB encoder. AMR-NB accepts only 8000 Hz mono.
func NewEncoder(cfg codec.EncoderConfig) (codec.Encoder, error) {
	if cfg.SampleRate != sampleRate {
		return nil, codec.WrapLibrary(codec.InvalidArgument,
			"AMR-NB requires 8000 Hz sample rate", "opencore-amrnb", 0, "")
	}
	if cfg.Channels != 1 {
		return nil, codec.WrapLibrary(codec.InvalidArgument,
			"AMR-NB requires mono audio", "opencore-amrnb", 0, "")
	}

	mode := 7
	dtx := 0
	if p, ok := codec.FindParam(cfg.Params, "bitrate"); ok {
		if v, ok := p.FloatValue(); ok {
			mode = bitrateToMode(v)
		}
	}
	if p, ok := codec.FindParam(cfg.Params, "dtx"); ok {
		if v, ok := p.BoolValue(); ok && v {
			dtx = 1
		}
	}

	state := C.Encoder_Interface_init(C.int(dtx))
	if state == nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to initialize AMR encoder", "opencore-amrnb", 0, "")
	}

	return &Encoder{
		state:   state,
		mode:    mode,
		out:     buffer.New(4096),
		streams: cfg.Streams,
	}, nil
}

// Encode accumulates audio input into 160-sample frames and emits one
// encoded frame per full window. Side channel input passes through
// unchanged.
func (e *Encoder) Encode(p []byte, stream codec.StreamType) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if stream != codec.StreamAudio {
		frame.Write(e.out, p, stream, e.streams)
		return len(p), nil
	}

	samples := len(p) / 2
	consumed := 0
	for samples > 0 {
		take := frameSamples - e.filled
		if take > samples {
			take = samples
		}
		for i := 0; i < take; i++ {
			e.window[e.filled+i] = int16(uint16(p[consumed+i*2]) | uint16(p[consumed+i*2+1])<<8)
		}
		e.filled += take
		samples -= take
		consumed += take * 2

		if e.filled == frameSamples {
			if err := e.flushWindow(); err != nil {
				return consumed, err
			}
		}
	}
	return consumed, nil
}

func (e *Encoder) flushWindow() error {
	var buf [maxFrameSize]byte
	n := C.Encoder_Interface_Encode(e.state, C.enum_Mode(e.mode),
		(*C.short)(unsafe.Pointer(&e.window[0])),
		(*C.uchar)(unsafe.Pointer(&buf[0])), C.int(0))
	if n < 0 {
		return codec.WrapLibrary(codec.Encoding,
			"AMR encoding failed", "opencore-amrnb", int(n), "")
	}
	if n > 0 {
		frame.Write(e.out, buf[:n], codec.StreamAudio, e.streams)
	}
	e.filled = 0
	return nil
}

// Read drains multiplexed output.
func (e *Encoder) Read(p []byte) (int, error) {
	return e.out.Read(p)
}

// Finalize zero-pads and encodes a pending partial frame.
func (e *Encoder) Finalize() error {
	if e.filled == 0 {
		return nil
	}
	for i := e.filled; i < frameSamples; i++ {
		e.window[i] = 0
	}
	return e.flushWindow()
}

// Close releases the native encoder state.
func (e *Encoder) Close() error {
	if e.state != nil {
		C.Encoder_Interface_exit(e.state)
		e.state = nil
	}
	return nil
}

// Decoder decompresses AMR-NB frames back to 16-bit little-endian PCM. In
// passthrough mode it parses the self-delimiting bitstream through the
// checked mode-byte lookup; in dual-stream mode each demuxed audio frame is
// exactly one encoded AMR frame.
type Decoder struct {
	state   unsafe.Pointer
	demux   *frame.Demuxer
	audio   *buffer.Buffer
	side    *buffer.Buffer
	streams int
}

// NewDecoder returns an AMR-NB decoder.
func NewDecoder(cfg codec.DecoderConfig) (codec.Decoder, error) {
	state := C.Decoder_Interface_init()
	if state == nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to initialize AMR decoder", "opencore-amrnb", 0, "")
	}
	return &Decoder{
		state:   state,
		demux:   frame.NewDemuxer(cfg.Streams),
		audio:   buffer.New(4096),
		side:    buffer.New(1024),
		streams: cfg.Streams,
	}, nil
}

func (d *Decoder) decodeFrame(encoded []byte) {
	var pcm [frameSamples]int16
	C.Decoder_Interface_Decode(d.state,
		(*C.uchar)(unsafe.Pointer(&encoded[0])),
		(*C.short)(unsafe.Pointer(&pcm[0])), C.int(0))

	out := make([]byte, frameSamples*2)
	for i, s := range pcm {
		out[i*2] = byte(uint16(s))
		out[i*2+1] = byte(uint16(s) >> 8)
	}
	d.audio.Write(out)
}

// Decode stages input bytes and decompresses every complete frame.
func (d *Decoder) Decode(p []byte) (int, error) {
	if d.streams == 1 {
		d.demux.In.Write(p)
		for d.demux.In.Available() > 0 {
			avail := d.demux.In.Bytes()
			size, err := FrameSize(avail[0])
			if err != nil {
				return len(p), err
			}
			if len(avail) < size {
				break
			}
			d.decodeFrame(avail[:size])
			d.demux.In.Discard(size)
		}
		return len(p), nil
	}

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
		if len(payload) == 0 {
			continue
		}
		// the native decoder reads the full frame announced by the mode
		// byte, so a truncated payload must never reach it
		size, err := FrameSize(payload[0])
		if err != nil {
			return len(p), err
		}
		if len(payload) < size {
			return len(p), codec.Errorf(codec.Decoding,
				"truncated AMR frame: %d of %d bytes", len(payload), size)
		}
		d.decodeFrame(payload[:size])
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

// Finalize is a no-op: an incomplete trailing frame can only be completed
// by more input.
func (d *Decoder) Finalize() error {
	return nil
}

// Close releases the native decoder state.
func (d *Decoder) Close() error {
	if d.state != nil {
		C.Decoder_Interface_exit(d.state)
		d.state = nil
	}
	return nil
}
