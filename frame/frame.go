// Package frame implements the muxaudio multiplexing protocol. In
// dual-stream mode every payload is wrapped in a self-describing frame:
//
//	[LEB128((length << 1) | stream_bit)][payload bytes]
//
// where stream_bit 0 tags the audio stream and 1 the side channel. There is
// no stream header, checksum or trailer; the framing is entirely
// self-describing per frame.
//
// In passthrough mode (one stream) no framing is applied at all: writes
// append the payload verbatim and reads drain whatever is available,
// always reported as audio. Passthrough exists for adapters that only ever
// carry one logical stream and for codecs whose own bitstream is
// self-delimiting, where framing would waste bytes.
package frame

import (
	"errors"
	"fmt"

	"github.com/vampirefrog/muxaudio/buffer"
	"github.com/vampirefrog/muxaudio/codec"
	"github.com/vampirefrog/muxaudio/leb128"
)

const maxInt = int(^uint(0) >> 1)

// PayloadSizeError reports that the destination passed to Read is smaller
// than the decoded frame payload. The input buffer is left untouched, so
// the caller can grow its destination to Required bytes and retry without
// re-reading input. It matches codec.ErrInvalidArgument under errors.Is.
type PayloadSizeError struct {
	Required int
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("payload buffer too small: %d bytes required", e.Required)
}

// Is makes the error match codec.ErrInvalidArgument.
func (e *PayloadSizeError) Is(target error) bool {
	t, ok := target.(*codec.Error)
	return ok && t.Kind == codec.InvalidArgument && t.Message == ""
}

// Write appends one frame carrying payload for the given stream to out.
// With streams == 1 the payload is appended verbatim, ignoring the stream
// type.
func Write(out *buffer.Buffer, payload []byte, stream codec.StreamType, streams int) {
	if streams == 1 {
		out.Write(payload)
		return
	}
	var hdr [leb128.MaxLen]byte
	header := leb128.AppendUint(hdr[:0], uint64(len(payload))<<1|uint64(stream)&1)
	out.Write(header)
	out.Write(payload)
}

// Read extracts the next frame from in into payload, returning the payload
// length and the stream it belongs to.
//
// With streams == 1 it drains up to len(payload) of whatever is available
// and reports it as audio.
//
// In dual-stream mode, when the frame header or its declared payload is not
// yet fully buffered, Read returns codec.ErrNeedMoreData and consumes
// nothing — the header is re-parsed against the grown buffer on the next
// call, so the retry is always safe. When payload is too small for the
// frame it returns a *PayloadSizeError carrying the required size, again
// consuming nothing.
func Read(in *buffer.Buffer, payload []byte, streams int) (int, codec.StreamType, error) {
	if streams == 1 {
		avail := in.Bytes()
		if len(avail) == 0 {
			return 0, codec.StreamAudio, codec.ErrNeedMoreData
		}
		n := copy(payload, avail)
		in.Discard(n)
		return n, codec.StreamAudio, nil
	}

	avail := in.Bytes()
	v, hdrLen, err := leb128.DecodeUint(avail)
	if err != nil {
		return 0, codec.StreamAudio, err
	}

	stream := codec.StreamType(v & 1)
	declared := v >> 1

	// the completeness check must not wrap around in int arithmetic: a
	// crafted header can declare up to 2^63-1 payload bytes
	if declared > uint64(maxInt)-uint64(hdrLen) {
		return 0, stream, codec.Errorf(codec.Format,
			"frame header declares an unsatisfiable payload of %d bytes", declared)
	}
	size := int(declared)

	if len(avail) < hdrLen+size {
		return 0, stream, codec.ErrNeedMoreData
	}
	if len(payload) < size {
		return 0, stream, &PayloadSizeError{Required: size}
	}

	copy(payload, avail[hdrLen:hdrLen+size])
	in.Discard(hdrLen + size)
	return size, stream, nil
}

// Demuxer incrementally reassembles frames from arbitrarily chunked input.
// Feed bytes in, then call Next until it reports codec.ErrNeedMoreData.
type Demuxer struct {
	In      *buffer.Buffer
	Streams int
	scratch []byte
}

// NewDemuxer returns a Demuxer for the given stream-count mode.
func NewDemuxer(streams int) *Demuxer {
	return &Demuxer{
		In:      buffer.New(4096),
		Streams: streams,
		scratch: make([]byte, 8192),
	}
}

// Next returns the payload and stream of the next complete frame, growing
// its internal scratch buffer when a frame exceeds it. It returns
// codec.ErrNeedMoreData once the staged input holds no further complete
// frame. The returned slice is only valid until the next call.
func (d *Demuxer) Next() ([]byte, codec.StreamType, error) {
	n, stream, err := Read(d.In, d.scratch, d.Streams)
	var sizeErr *PayloadSizeError
	if errors.As(err, &sizeErr) {
		// frame larger than the scratch buffer; grow and retry
		d.scratch = make([]byte, sizeErr.Required)
		n, stream, err = Read(d.In, d.scratch, d.Streams)
	}
	if err != nil {
		return nil, stream, err
	}
	return d.scratch[:n], stream, nil
}

// Feed stages multiplexed input bytes for subsequent Next calls.
func (d *Demuxer) Feed(p []byte) {
	d.In.Write(p)
}
