// Package amrwb implements the AMR-WB (Adaptive Multi-Rate Wideband) codec
// adapter, encoding through vo-amrwbenc and decoding through
// opencore-amrwb via cgo. Importing this package registers the adapter:
//
//	import _ "github.com/vampirefrog/muxaudio/codec/amrwb"
//
// AMR-WB is the 3G wideband voice codec: 16000 Hz mono, fixed 320-sample
// (20 ms) frames, nine bitrate modes from 6.6 to 23.85 kbps. Like AMR-NB
// the bitstream is self-delimiting, so passthrough mode is supported.
package amrwb

/*
#cgo pkg-config: vo-amrwbenc opencore-amrwb
#include <vo-amrwbenc/enc_if.h>
#include <opencore-amrwb/dec_if.h>
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
	sampleRate   = 16000
	frameSamples = 320 // 20ms at 16kHz
	maxFrameSize = 61  // largest encoded frame (23.85 kbps)
)

var sampleRates = codec.SampleRates{Rates: []int{sampleRate}}

var encoderParams = []codec.ParamDesc{
	{
		Name:        "bitrate",
		Description: "Bitrate in kbps (6.6, 8.85, 12.65, 14.25, 15.85, 18.25, 19.85, 23.05, 23.85)",
		Type:        codec.ParamFloat,
		Min:         6.6, Max: 23.85,
		Default: 23.85,
	},
	{
		Name:        "dtx",
		Description: "Enable discontinuous transmission (silence compression)",
		Type:        codec.ParamBool,
		Default:     false,
	},
}

func init() {
	muxaudio.Register(muxaudio.AMRWB, &muxaudio.Adapter{
		NewEncoder:    NewEncoder,
		NewDecoder:    NewDecoder,
		EncoderParams: encoderParams,
		SampleRates:   sampleRates,
	})
}

// frameSizes gives the total encoded frame size in bytes, including the
// mode byte, for each AMR-WB frame type. Zero marks a reserved type.
var frameSizes = [16]int{
	18, // mode 0: 6.60 kbps
	24, // mode 1: 8.85 kbps
	33, // mode 2: 12.65 kbps
	37, // mode 3: 14.25 kbps
	41, // mode 4: 15.85 kbps
	47, // mode 5: 18.25 kbps
	51, // mode 6: 19.85 kbps
	59, // mode 7: 23.05 kbps
	61, // mode 8: 23.85 kbps
	6,  // mode 9: SID (comfort noise)
	0, 0, 0, 0, // modes 10-13: reserved
	1, // mode 14: speech lost
	1, // mode 15: NO_DATA
}

// FrameSize returns the size in bytes of the encoded frame announced by its
// leading mode byte, or a decoding error for a reserved frame type.
func FrameSize(modeByte byte) (int, error) {
	frameType := (modeByte >> 3) & 0x0f
	size := frameSizes[frameType]
	if size == 0 {
		return 0, codec.Errorf(codec.Decoding,
			"reserved AMR-WB frame type %d", frameType)
	}
	return size, nil
}

// bitrateToMode maps a kbps value to the nearest AMR-WB mode (0-8).
func bitrateToMode(bitrate float64) int {
	switch {
	case bitrate <= 6.6:
		return 0
	case bitrate <= 8.85:
		return 1
	case bitrate <= 12.65:
		return 2
	case bitrate <= 14.25:
		return 3
	case bitrate <= 15.85:
		return 4
	case bitrate <= 18.25:
		return 5
	case bitrate <= 19.85:
		return 6
	case bitrate <= 23.05:
		return 7
	}
	return 8
}

// Encoder compresses 16-bit little-endian PCM in fixed 320-sample frames.
type Encoder struct {
	state   unsafe.Pointer
	mode    int
	dtx     int
	out     *buffer.Buffer
	streams int
	window  [frameSamples]int16
	filled  int
}

// NewEncoder returns an AMR-WB encoder. AMR-WB accepts only 16000 Hz mono.
func NewEncoder(cfg codec.EncoderConfig) (codec.Encoder, error) {
	if cfg.SampleRate != sampleRate {
		return nil, codec.WrapLibrary(codec.InvalidArgument,
			"AMR-WB requires 16000 Hz sample rate", "vo-amrwbenc", 0, "")
	}
	if cfg.Channels != 1 {
		return nil, codec.WrapLibrary(codec.InvalidArgument,
			"AMR-WB requires mono audio", "vo-amrwbenc", 0, "")
	}

	mode := 8
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

	state := C.E_IF_init()
	if state == nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to initialize AMR-WB encoder", "vo-amrwbenc", 0, "")
	}

	return &Encoder{
		state:   state,
		mode:    mode,
		dtx:     dtx,
		out:     buffer.New(4096),
		streams: cfg.Streams,
	}, nil
}

// Encode accumulates audio input into 320-sample frames and emits one
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
	n := C.E_IF_encode(e.state, C.int(e.mode),
		(*C.short)(unsafe.Pointer(&e.window[0])),
		(*C.uchar)(unsafe.Pointer(&buf[0])), C.int(e.dtx))
	if n < 0 {
		return codec.WrapLibrary(codec.Encoding,
			"AMR-WB encoding failed", "vo-amrwbenc", int(n), "")
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
		C.E_IF_exit(e.state)
		e.state = nil
	}
	return nil
}

// Decoder decompresses AMR-WB frames back to 16-bit little-endian PCM.
type Decoder struct {
	state   unsafe.Pointer
	demux   *frame.Demuxer
	audio   *buffer.Buffer
	side    *buffer.Buffer
	streams int
}

// NewDecoder returns an AMR-WB decoder.
func NewDecoder(cfg codec.DecoderConfig) (codec.Decoder, error) {
	state := C.D_IF_init()
	if state == nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to initialize AMR-WB decoder", "opencore-amrwb", 0, "")
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
	C.D_IF_decode(d.state,
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
				"truncated AMR-WB frame: %d of %d bytes", len(payload), size)
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
		C.D_IF_exit(d.state)
		d.state = nil
	}
	return nil
}
