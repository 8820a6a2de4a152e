package codec

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := Errorf(NeedMoreData, "incomplete frame header")
	if !errors.Is(err, ErrNeedMoreData) {
		t.Fatal("message-carrying error must match its kind sentinel")
	}
	if errors.Is(err, ErrFormat) {
		t.Fatal("error matched a foreign kind")
	}

	wrapped := fmt.Errorf("decode: %w", err)
	if !errors.Is(wrapped, ErrNeedMoreData) {
		t.Fatal("kind match must survive wrapping")
	}
}

func TestLibraryError(t *testing.T) {
	err := WrapLibrary(Initialization, "failed to create encoder", "libopus", -7, "invalid argument")
	if !errors.Is(err, ErrInitialization) {
		t.Fatal("library error must match its kind sentinel")
	}

	msg := err.Error()
	for _, want := range []string{"libopus", "failed to create encoder", "-7", "invalid argument"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("%q missing from %q", want, msg)
		}
	}
}

func TestKindStrings(t *testing.T) {
	for k := Generic; k <= Initialization; k++ {
		if k.String() == "unknown error" {
			t.Fatalf("kind %d has no description", k)
		}
	}
	if Kind(0).String() != "unknown error" {
		t.Fatal("zero kind should be unknown")
	}
}

func TestParamCoercion(t *testing.T) {
	params := []Param{
		{Name: "bitrate", Value: 64},
		{Name: "scale", Value: 1.5},
		{Name: "dtx", Value: true},
		{Name: "profile", Value: "voip"},
	}

	p, ok := FindParam(params, "bitrate")
	if !ok {
		t.Fatal("bitrate not found")
	}
	if v, ok := p.IntValue(); !ok || v != 64 {
		t.Fatalf("IntValue: %d %v", v, ok)
	}
	if v, ok := p.FloatValue(); !ok || v != 64 {
		t.Fatalf("int should coerce to float: %f %v", v, ok)
	}

	p, _ = FindParam(params, "scale")
	if v, ok := p.FloatValue(); !ok || v != 1.5 {
		t.Fatalf("FloatValue: %f %v", v, ok)
	}
	if _, ok := p.BoolValue(); ok {
		t.Fatal("float must not coerce to bool")
	}

	p, _ = FindParam(params, "profile")
	if v, ok := p.StringValue(); !ok || v != "voip" {
		t.Fatalf("StringValue: %q %v", v, ok)
	}

	if _, ok := FindParam(params, "missing"); ok {
		t.Fatal("found a parameter that is not there")
	}
}

func TestSampleRates(t *testing.T) {
	rng := SampleRates{Rates: []int{8000, 48000}, IsRange: true}
	for _, rate := range []int{8000, 22050, 48000} {
		if !rng.Supports(rate) {
			t.Fatalf("range should accept %d", rate)
		}
	}
	for _, rate := range []int{7999, 48001} {
		if rng.Supports(rate) {
			t.Fatalf("range should reject %d", rate)
		}
	}

	discrete := SampleRates{Rates: []int{8000, 16000}}
	if !discrete.Supports(16000) || discrete.Supports(12000) {
		t.Fatal("discrete set check broken")
	}
}
