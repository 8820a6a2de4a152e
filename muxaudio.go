// Package muxaudio is a pluggable audio codec abstraction with a
// self-describing multiplexing layer: a uniform encoder/decoder interface
// over heterogeneous audio codecs, each able to interleave its audio stream
// with an independent side channel byte stream inside one byte-oriented
// container.
//
// The pure-Go codecs (PCM, G.711 A-law and mu-law) are always available.
// Codecs wrapping a native library register themselves through a blank
// import, in the manner of database/sql drivers:
//
//	import _ "github.com/vampirefrog/muxaudio/codec/opus"
//
// Requesting a codec that has not been registered reports
// codec.CodecUnavailable; there are no nil adapter entries to trip over.
// The Vorbis, FLAC and MP3 identifiers currently have no adapter package
// at all, so they always report codec.CodecUnavailable.
package muxaudio

import (
	"sort"
	"sync"

	"github.com/vampirefrog/muxaudio/codec"
	"github.com/vampirefrog/muxaudio/codec/g711"
	"github.com/vampirefrog/muxaudio/codec/pcm"
)

// Codec identifies one of the supported audio codecs.
type Codec int

const (
	PCM Codec = iota
	Opus
	Vorbis
	FLAC
	MP3
	AAC
	ALaw
	MuLaw
	AMRNB
	AMRWB
	numCodecs
)

// CodecInfo describes one codec identifier. The table is static; whether an
// adapter is actually registered for it is a separate question (see
// Available).
type CodecInfo struct {
	Type        Codec
	Name        string
	Description string
}

var codecInfos = [numCodecs]CodecInfo{
	{PCM, "pcm", "Raw PCM audio"},
	{Opus, "opus", "Opus audio codec"},
	{Vorbis, "vorbis", "Vorbis audio codec"},
	{FLAC, "flac", "FLAC lossless audio codec"},
	{MP3, "mp3", "MP3 audio codec"},
	{AAC, "aac", "AAC audio codec"},
	{ALaw, "alaw", "G.711 A-law codec"},
	{MuLaw, "mulaw", "G.711 mu-law codec"},
	{AMRNB, "amr", "AMR-NB (Adaptive Multi-Rate Narrowband) codec"},
	{AMRWB, "amr-wb", "AMR-WB (Adaptive Multi-Rate Wideband) codec"},
}

// String returns the codec's name, or "unknown" for an identifier outside
// the table.
func (c Codec) String() string {
	if c < 0 || c >= numCodecs {
		return "unknown"
	}
	return codecInfos[c].Name
}

// CodecByName looks up a codec identifier by its name.
func CodecByName(name string) (Codec, error) {
	for _, info := range codecInfos {
		if info.Name == name {
			return info.Type, nil
		}
	}
	return 0, codec.Errorf(codec.InvalidArgument, "unknown codec %q", name)
}

// Codecs returns the static codec information table, including codecs
// without a registered adapter.
func Codecs() []CodecInfo {
	infos := make([]CodecInfo, numCodecs)
	copy(infos, codecInfos[:])
	return infos
}

// Adapter bundles the constructors and static metadata a codec package
// registers.
type Adapter struct {
	NewEncoder    func(codec.EncoderConfig) (codec.Encoder, error)
	NewDecoder    func(codec.DecoderConfig) (codec.Decoder, error)
	EncoderParams []codec.ParamDesc
	DecoderParams []codec.ParamDesc
	SampleRates   codec.SampleRates
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Codec]*Adapter)
)

// Register makes an adapter available under the given codec identifier.
// It is intended to be called from the init function of a codec package
// and panics on a duplicate registration.
func Register(c Codec, a *Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[c]; dup {
		panic("muxaudio: Register called twice for codec " + c.String())
	}
	if a == nil {
		panic("muxaudio: Register adapter is nil")
	}
	registry[c] = a
}

func lookup(c Codec) (*Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := registry[c]
	if !ok {
		return nil, codec.Errorf(codec.CodecUnavailable,
			"codec %s is not available in this build", c)
	}
	return a, nil
}

// Available reports whether an adapter is registered for the codec.
func Available(c Codec) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[c]
	return ok
}

// AvailableCodecs returns the identifiers with a registered adapter, in
// table order.
func AvailableCodecs() []Codec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Codec, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EncoderParams returns the parameter descriptors of the codec's encoder.
func EncoderParams(c Codec) ([]codec.ParamDesc, error) {
	a, err := lookup(c)
	if err != nil {
		return nil, err
	}
	return a.EncoderParams, nil
}

// DecoderParams returns the parameter descriptors of the codec's decoder.
func DecoderParams(c Codec) ([]codec.ParamDesc, error) {
	a, err := lookup(c)
	if err != nil {
		return nil, err
	}
	return a.DecoderParams, nil
}

// SupportedSampleRates returns the codec's sample rate constraint: either a
// discrete list or an inclusive [min, max] range.
func SupportedSampleRates(c Codec) (codec.SampleRates, error) {
	a, err := lookup(c)
	if err != nil {
		return codec.SampleRates{}, err
	}
	return a.SampleRates, nil
}

func validStreams(streams int) error {
	if streams != 1 && streams != 2 {
		return codec.Errorf(codec.InvalidArgument,
			"stream count must be 1 (passthrough) or 2 (audio + side channel), got %d", streams)
	}
	return nil
}

// The pure-Go codecs are always compiled in.
func init() {
	Register(PCM, &Adapter{
		NewEncoder:  pcm.NewEncoder,
		NewDecoder:  pcm.NewDecoder,
		SampleRates: pcm.SampleRates,
	})
	Register(ALaw, &Adapter{
		NewEncoder:  g711.NewALawEncoder,
		NewDecoder:  g711.NewALawDecoder,
		SampleRates: g711.SampleRates,
	})
	Register(MuLaw, &Adapter{
		NewEncoder:  g711.NewMuLawEncoder,
		NewDecoder:  g711.NewMuLawDecoder,
		SampleRates: g711.SampleRates,
	})
}
