// Package opus implements the Opus codec adapter on top of
// gopkg.in/hraban/opus.v2 (libopus via cgo). Importing this package
// registers the adapter:
//
//	import _ "github.com/vampirefrog/muxaudio/codec/opus"
//
// Opus packets are not self-delimiting, so the adapter requires the framed
// dual-stream mode; passthrough construction is rejected.
package opus

import (
	"errors"

	opus "gopkg.in/hraban/opus.v2"

	"github.com/vampirefrog/muxaudio"
	"github.com/vampirefrog/muxaudio/buffer"
	"github.com/vampirefrog/muxaudio/codec"
	"github.com/vampirefrog/muxaudio/frame"
)

// Opus accepts a discrete set of sample rates.
var sampleRates = codec.SampleRates{
	Rates: []int{8000, 12000, 16000, 24000, 48000},
}

// maxPacket is large enough for any single Opus packet (the codec caps
// packets at 1275 bytes per frame, three frames per packet).
const maxPacket = 4000

var encoderParams = []codec.ParamDesc{
	{
		Name:        "bitrate",
		Description: "Target bitrate in kbps",
		Type:        codec.ParamInt,
		Min:         6, Max: 510,
		Default: 64,
	},
	{
		Name:        "complexity",
		Description: "Encoding complexity (0-10)",
		Type:        codec.ParamInt,
		Min:         0, Max: 10,
		Default: 10,
	},
	{
		Name:        "dtx",
		Description: "Enable discontinuous transmission (silence compression)",
		Type:        codec.ParamBool,
		Default:     false,
	},
}

var decoderParams = []codec.ParamDesc{
	{
		Name:        "sample_rate",
		Description: "Sample rate of the decoded audio in Hz",
		Type:        codec.ParamInt,
		Min:         8000, Max: 48000,
		Default: 48000,
	},
	{
		Name:        "channels",
		Description: "Number of audio channels",
		Type:        codec.ParamInt,
		Min:         1, Max: 2,
		Default: 1,
	},
}

func init() {
	muxaudio.Register(muxaudio.Opus, &muxaudio.Adapter{
		NewEncoder:    NewEncoder,
		NewDecoder:    NewDecoder,
		EncoderParams: encoderParams,
		DecoderParams: decoderParams,
		SampleRates:   sampleRates,
	})
}

// Encoder compresses 16-bit little-endian PCM with Opus in fixed 20 ms
// windows. A partial window is retained across Encode calls and zero-padded
// at Finalize.
type Encoder struct {
	enc     *opus.Encoder
	out     *buffer.Buffer
	streams int
	window  []int16
	filled  int
	packet  []byte
}

// NewEncoder returns an Opus encoder.
func NewEncoder(cfg codec.EncoderConfig) (codec.Encoder, error) {
	if cfg.Streams != 2 {
		return nil, codec.Errorf(codec.InvalidArgument,
			"opus packets are not self-delimiting; two-stream framing is required")
	}
	if !sampleRates.Supports(cfg.SampleRate) {
		return nil, codec.Errorf(codec.InvalidArgument,
			"opus does not support %d Hz", cfg.SampleRate)
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, codec.Errorf(codec.InvalidArgument,
			"opus requires mono or stereo audio")
	}

	bitrate := 64
	complexity := 10
	dtx := false
	if p, ok := codec.FindParam(cfg.Params, "bitrate"); ok {
		if v, ok := p.IntValue(); ok {
			bitrate = v
		}
	}
	if p, ok := codec.FindParam(cfg.Params, "complexity"); ok {
		if v, ok := p.IntValue(); ok {
			complexity = v
		}
	}
	if p, ok := codec.FindParam(cfg.Params, "dtx"); ok {
		if v, ok := p.BoolValue(); ok {
			dtx = v
		}
	}

	enc, err := opus.NewEncoder(cfg.SampleRate, cfg.Channels, opus.AppAudio)
	if err != nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to create Opus encoder", "libopus", 0, err.Error())
	}
	if err := enc.SetBitrate(bitrate * 1000); err != nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to set Opus bitrate", "libopus", 0, err.Error())
	}
	if err := enc.SetComplexity(complexity); err != nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to set Opus complexity", "libopus", 0, err.Error())
	}
	if err := enc.SetDTX(dtx); err != nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to set Opus DTX", "libopus", 0, err.Error())
	}

	// 20ms window
	frameSamples := cfg.SampleRate / 50 * cfg.Channels

	return &Encoder{
		enc:     enc,
		out:     buffer.New(4096),
		streams: cfg.Streams,
		window:  make([]int16, frameSamples),
		packet:  make([]byte, maxPacket),
	}, nil
}

// Encode accumulates audio input into 20 ms windows and emits one framed
// Opus packet per full window. A trailing odd byte is left unconsumed. Side
// channel input passes through unframed by the codec, framed by the muxer.
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
		take := len(e.window) - e.filled
		if take > samples {
			take = samples
		}
		for i := 0; i < take; i++ {
			e.window[e.filled+i] = int16(uint16(p[consumed+i*2]) | uint16(p[consumed+i*2+1])<<8)
		}
		e.filled += take
		samples -= take
		consumed += take * 2

		if e.filled == len(e.window) {
			if err := e.flushWindow(); err != nil {
				return consumed, err
			}
		}
	}
	return consumed, nil
}

func (e *Encoder) flushWindow() error {
	n, err := e.enc.Encode(e.window, e.packet)
	if err != nil {
		return codec.WrapLibrary(codec.Encoding,
			"opus encoding failed", "libopus", 0, err.Error())
	}
	if n > 0 {
		frame.Write(e.out, e.packet[:n], codec.StreamAudio, e.streams)
	}
	e.filled = 0
	return nil
}

// Read drains multiplexed output.
func (e *Encoder) Read(p []byte) (int, error) {
	return e.out.Read(p)
}

// Finalize zero-pads and encodes a pending partial window.
func (e *Encoder) Finalize() error {
	if e.filled == 0 {
		return nil
	}
	for i := e.filled; i < len(e.window); i++ {
		e.window[i] = 0
	}
	return e.flushWindow()
}

// Close releases the encoder. The hraban binding ties the native state to
// the Go value, so dropping the reference is sufficient.
func (e *Encoder) Close() error {
	e.enc = nil
	return nil
}

// Decoder decompresses framed Opus packets back to 16-bit little-endian
// PCM. The stream properties are supplied as the sample_rate and channels
// parameters since raw Opus packets do not carry them.
type Decoder struct {
	dec      *opus.Decoder
	demux    *frame.Demuxer
	audio    *buffer.Buffer
	side     *buffer.Buffer
	pcm      []int16
	channels int
}

// NewDecoder returns an Opus decoder.
func NewDecoder(cfg codec.DecoderConfig) (codec.Decoder, error) {
	if cfg.Streams != 2 {
		return nil, codec.Errorf(codec.InvalidArgument,
			"opus packets are not self-delimiting; two-stream framing is required")
	}

	sampleRate := 48000
	channels := 1
	if p, ok := codec.FindParam(cfg.Params, "sample_rate"); ok {
		if v, ok := p.IntValue(); ok {
			sampleRate = v
		}
	}
	if p, ok := codec.FindParam(cfg.Params, "channels"); ok {
		if v, ok := p.IntValue(); ok {
			channels = v
		}
	}

	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, codec.WrapLibrary(codec.Initialization,
			"failed to create Opus decoder", "libopus", 0, err.Error())
	}

	// an Opus packet carries at most 120ms of audio
	maxSamples := sampleRate * 120 / 1000 * channels

	return &Decoder{
		dec:      dec,
		demux:    frame.NewDemuxer(cfg.Streams),
		audio:    buffer.New(4096),
		side:     buffer.New(1024),
		pcm:      make([]int16, maxSamples),
		channels: channels,
	}, nil
}

// Decode stages multiplexed bytes and decompresses every complete audio
// frame. A corrupt audio packet is skipped and decoding continues with the
// next frame.
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

		n, err := d.dec.Decode(payload, d.pcm)
		if err != nil {
			// recoverable mid-stream: drop the packet
			continue
		}

		samples := n * d.channels
		pcm := make([]byte, samples*2)
		for i := 0; i < samples; i++ {
			pcm[i*2] = byte(uint16(d.pcm[i]))
			pcm[i*2+1] = byte(uint16(d.pcm[i]) >> 8)
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

// Finalize is a no-op: the decoder holds no partial state beyond an
// incomplete input frame, which only more input can complete.
func (d *Decoder) Finalize() error {
	return nil
}

// Close releases the decoder.
func (d *Decoder) Close() error {
	d.dec = nil
	return nil
}
