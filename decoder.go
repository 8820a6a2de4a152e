package muxaudio

import (
	"errors"

	"github.com/vampirefrog/muxaudio/codec"
)

// Decoder is the uniform facade over a codec adapter's decoder, mirroring
// Encoder: lifecycle tracking plus a last-error record.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	codecType Codec
	dec       codec.Decoder
	finalized bool
	closed    bool
	lastErr   *codec.Error
}

// NewDecoder constructs a decoder for the given codec. streams must match
// the mode the stream was encoded with: 1 for passthrough, 2 for the framed
// audio + side channel mode.
func NewDecoder(c Codec, streams int, params []codec.Param) (*Decoder, error) {
	if err := validStreams(streams); err != nil {
		return nil, err
	}
	a, err := lookup(c)
	if err != nil {
		return nil, err
	}
	dec, err := a.NewDecoder(codec.DecoderConfig{
		Streams: streams,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}
	return &Decoder{codecType: c, dec: dec}, nil
}

// Codec returns the codec this decoder was constructed for.
func (d *Decoder) Codec() Codec {
	return d.codecType
}

func (d *Decoder) record(err error) error {
	if err == nil {
		return nil
	}
	var cerr *codec.Error
	if errors.As(err, &cerr) {
		d.lastErr = cerr
	} else {
		d.lastErr = &codec.Error{Kind: codec.Generic, Message: err.Error()}
	}
	return err
}

// Decode submits multiplexed bytes and returns how many were consumed.
// Complete frames are demuxed into the internal audio and side channel
// buffers, drained independently with Read.
func (d *Decoder) Decode(p []byte) (int, error) {
	if d.closed {
		return 0, d.record(codec.Errorf(codec.InvalidArgument, "decoder is closed"))
	}
	if d.finalized {
		return 0, d.record(codec.Errorf(codec.InvalidArgument, "decode after finalize"))
	}
	n, err := d.dec.Decode(p)
	return n, d.record(err)
}

// Read drains decoded output into p and reports which stream the bytes
// belong to. When both streams have pending data, audio is surfaced first;
// callers rely on that order.
func (d *Decoder) Read(p []byte) (int, codec.StreamType, error) {
	if d.closed {
		return 0, codec.StreamAudio, d.record(codec.Errorf(codec.InvalidArgument, "decoder is closed"))
	}
	n, stream, err := d.dec.Read(p)
	return n, stream, d.record(err)
}

// Finalize flushes buffered data. Call it exactly once, after the last
// Decode.
func (d *Decoder) Finalize() error {
	if d.closed {
		return d.record(codec.Errorf(codec.InvalidArgument, "decoder is closed"))
	}
	if d.finalized {
		return d.record(codec.Errorf(codec.InvalidArgument, "decoder already finalized"))
	}
	d.finalized = true
	return d.record(d.dec.Finalize())
}

// Close releases the adapter and its native codec state.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.dec.Close()
}

// LastError returns the error recorded by the most recent failing
// operation, or nil.
func (d *Decoder) LastError() *codec.Error {
	return d.lastErr
}

// ClearError resets the last-error slot.
func (d *Decoder) ClearError() {
	d.lastErr = nil
}
