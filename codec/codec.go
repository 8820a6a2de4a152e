// Package codec defines the contract every muxaudio codec adapter
// implements: the encoder and decoder operation sets, the stream types of
// the multiplexing layer, the error taxonomy and the parameter metadata.
package codec

// StreamType identifies which of the two logical streams a chunk of bytes
// belongs to.
type StreamType int

const (
	// StreamAudio is the primary (possibly compressed) audio stream.
	StreamAudio StreamType = 0
	// StreamSideChannel is the uncompressed side channel carrying
	// metadata synchronized with the audio.
	StreamSideChannel StreamType = 1
)

func (s StreamType) String() string {
	switch s {
	case StreamAudio:
		return "audio"
	case StreamSideChannel:
		return "side channel"
	}
	return "unknown"
}

// EncoderConfig carries the immutable stream configuration an encoder is
// constructed with. Streams selects the multiplexing mode: 1 is passthrough
// (no framing), 2 interleaves audio and side channel in framed mode.
type EncoderConfig struct {
	SampleRate int
	Channels   int
	Streams    int
	Params     []Param
}

// DecoderConfig carries the decoder construction parameters. Codecs which
// need to know the stream properties up front (e.g. Opus) take them as
// named Params.
type DecoderConfig struct {
	Streams int
	Params  []Param
}

// Encoder is the five-operation encoder contract. Implementations are not
// safe for concurrent use; an instance expects a single-owner, sequential
// feed-then-drain call pattern.
type Encoder interface {
	// Encode submits input bytes for the given stream. It returns how
	// many input bytes were consumed; the unconsumed remainder must be
	// resubmitted on the next call. Side channel input is never
	// compressed.
	Encode(p []byte, stream StreamType) (int, error)

	// Read drains multiplexed output into p. It returns ErrNeedMoreData
	// when nothing has been produced yet.
	Read(p []byte) (int, error)

	// Finalize flushes any buffered partial frame and codec-internal
	// lookahead. Call it exactly once, after the last Encode and before
	// the final Read calls.
	Finalize() error

	// Close releases the native codec state. The encoder must not be
	// used afterwards.
	Close() error
}

// Decoder is the five-operation decoder contract mirroring Encoder.
type Decoder interface {
	// Decode submits multiplexed bytes. Complete frames are demuxed into
	// the internal audio and side channel output buffers; incomplete
	// trailing bytes are retained until the next call.
	Decode(p []byte) (int, error)

	// Read drains decoded output into p and reports which stream the
	// bytes belong to. When both streams have pending data, audio is
	// always surfaced first.
	Read(p []byte) (int, StreamType, error)

	// Finalize flushes any buffered data. Call it exactly once, after
	// the last Decode and before the final Read calls.
	Finalize() error

	// Close releases the native codec state.
	Close() error
}
