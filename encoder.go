package muxaudio

import (
	"errors"

	"github.com/vampirefrog/muxaudio/codec"
)

// Encoder is the uniform facade over a codec adapter's encoder. It owns the
// adapter instance, tracks its lifecycle (rejecting Encode after Finalize)
// and records the last error of every operation for later inspection.
//
// An Encoder is not safe for concurrent use. Two distinct instances are
// fully independent.
type Encoder struct {
	codecType Codec
	enc       codec.Encoder
	finalized bool
	closed    bool
	lastErr   *codec.Error
}

// NewEncoder constructs an encoder for the given codec. streams selects the
// multiplexing mode: 1 is passthrough, 2 interleaves audio and side
// channel. Unknown parameter names are silently ignored by the adapters.
func NewEncoder(c Codec, sampleRate, channels, streams int, params []codec.Param) (*Encoder, error) {
	if err := validStreams(streams); err != nil {
		return nil, err
	}
	a, err := lookup(c)
	if err != nil {
		return nil, err
	}
	enc, err := a.NewEncoder(codec.EncoderConfig{
		SampleRate: sampleRate,
		Channels:   channels,
		Streams:    streams,
		Params:     params,
	})
	if err != nil {
		return nil, err
	}
	return &Encoder{codecType: c, enc: enc}, nil
}

// Codec returns the codec this encoder was constructed for.
func (e *Encoder) Codec() Codec {
	return e.codecType
}

// record stores the operation's error in the last-error slot. A successful
// operation does not clear a previously recorded error; clearing is an
// explicit caller action (ClearError).
func (e *Encoder) record(err error) error {
	if err == nil {
		return nil
	}
	var cerr *codec.Error
	if errors.As(err, &cerr) {
		e.lastErr = cerr
	} else {
		e.lastErr = &codec.Error{Kind: codec.Generic, Message: err.Error()}
	}
	return err
}

// Encode submits input bytes for the given stream and returns how many were
// consumed. The unconsumed remainder must be resubmitted on the next call.
func (e *Encoder) Encode(p []byte, stream codec.StreamType) (int, error) {
	if e.closed {
		return 0, e.record(codec.Errorf(codec.InvalidArgument, "encoder is closed"))
	}
	if e.finalized {
		return 0, e.record(codec.Errorf(codec.InvalidArgument, "encode after finalize"))
	}
	n, err := e.enc.Encode(p, stream)
	return n, e.record(err)
}

// Read drains multiplexed output into p. codec.ErrNeedMoreData signals that
// nothing has been produced yet.
func (e *Encoder) Read(p []byte) (int, error) {
	if e.closed {
		return 0, e.record(codec.Errorf(codec.InvalidArgument, "encoder is closed"))
	}
	n, err := e.enc.Read(p)
	return n, e.record(err)
}

// Finalize flushes buffered partial frames and codec-internal lookahead.
// Call it exactly once, after the last Encode; the remaining output is then
// drained with Read.
func (e *Encoder) Finalize() error {
	if e.closed {
		return e.record(codec.Errorf(codec.InvalidArgument, "encoder is closed"))
	}
	if e.finalized {
		return e.record(codec.Errorf(codec.InvalidArgument, "encoder already finalized"))
	}
	e.finalized = true
	return e.record(e.enc.Finalize())
}

// Close releases the adapter and its native codec state. The encoder must
// not be used afterwards.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.enc.Close()
}

// LastError returns the error recorded by the most recent failing
// operation, or nil.
func (e *Encoder) LastError() *codec.Error {
	return e.lastErr
}

// ClearError resets the last-error slot.
func (e *Encoder) ClearError() {
	e.lastErr = nil
}
