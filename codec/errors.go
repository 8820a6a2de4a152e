package codec

import "fmt"

// Kind classifies an error into the muxaudio error taxonomy. Every error
// returned by an encoder, decoder or one of the framing helpers maps to
// exactly one Kind.
type Kind int

const (
	Generic Kind = iota + 1
	OutOfMemory
	InvalidArgument
	NeedMoreData
	CodecUnavailable
	EOF
	Encoding
	Decoding
	Format
	Initialization
)

// String returns the human-readable description of the error kind.
func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic error"
	case OutOfMemory:
		return "out of memory"
	case InvalidArgument:
		return "invalid argument"
	case NeedMoreData:
		return "need more data"
	case CodecUnavailable:
		return "codec not available"
	case EOF:
		return "end of file"
	case Encoding:
		return "encoding error"
	case Decoding:
		return "decoding error"
	case Format:
		return "format error"
	case Initialization:
		return "initialization error"
	}
	return "unknown error"
}

// Error is the error type used throughout muxaudio. Besides the taxonomy
// Kind and a message it can carry the name, code and message of a wrapped
// native codec library for diagnostics.
type Error struct {
	Kind        Kind
	Message     string
	Library     string // name of the wrapped native library, if any
	LibraryCode int
	LibraryMsg  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Library != "" {
		if e.LibraryMsg != "" {
			return fmt.Sprintf("%s: %s (%d: %s)", e.Library, msg, e.LibraryCode, e.LibraryMsg)
		}
		return fmt.Sprintf("%s: %s (%d)", e.Library, msg, e.LibraryCode)
	}
	return msg
}

// Is reports a match when the target is an *Error of the same Kind. This
// makes errors.Is(err, codec.ErrNeedMoreData) work for any error of that
// kind, regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinel errors, one per taxonomy kind. ErrNeedMoreData is not a failure:
// it is the steady-state retry signal meaning "supply more input" or
// "nothing to drain yet".
var (
	ErrGeneric          = &Error{Kind: Generic}
	ErrOutOfMemory      = &Error{Kind: OutOfMemory}
	ErrInvalidArgument  = &Error{Kind: InvalidArgument}
	ErrNeedMoreData     = &Error{Kind: NeedMoreData}
	ErrCodecUnavailable = &Error{Kind: CodecUnavailable}
	ErrEOF              = &Error{Kind: EOF}
	ErrEncoding         = &Error{Kind: Encoding}
	ErrDecoding         = &Error{Kind: Decoding}
	ErrFormat           = &Error{Kind: Format}
	ErrInitialization   = &Error{Kind: Initialization}
)

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapLibrary builds an *Error carrying the error information reported by a
// wrapped native codec library.
func WrapLibrary(kind Kind, message, library string, code int, libraryMsg string) *Error {
	return &Error{
		Kind:        kind,
		Message:     message,
		Library:     library,
		LibraryCode: code,
		LibraryMsg:  libraryMsg,
	}
}
