package codec

// ParamType enumerates the value types a codec parameter can take.
type ParamType int

const (
	ParamInt ParamType = iota
	ParamFloat
	ParamBool
	ParamString
)

// Param is a named codec parameter supplied at construction time. Adapters
// apply known parameters over their hard-coded defaults and silently ignore
// unrecognized names; this permissiveness is deliberate (forward-compatible
// parameter lists) but it also means typos are not reported.
type Param struct {
	Name  string
	Value interface{}
}

// IntValue returns the parameter as an int, coercing from the common
// numeric types.
func (p Param) IntValue() (int, bool) {
	switch v := p.Value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case float32:
		return int(v), true
	}
	return 0, false
}

// FloatValue returns the parameter as a float64, coercing from the common
// numeric types.
func (p Param) FloatValue() (float64, bool) {
	switch v := p.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// BoolValue returns the parameter as a bool.
func (p Param) BoolValue() (bool, bool) {
	v, ok := p.Value.(bool)
	return v, ok
}

// StringValue returns the parameter as a string.
func (p Param) StringValue() (string, bool) {
	v, ok := p.Value.(string)
	return v, ok
}

// FindParam looks up a parameter by name.
func FindParam(params []Param, name string) (Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ParamDesc describes one available codec parameter. The descriptors are
// advisory metadata for callers and UIs; adapters do not validate supplied
// values against them (out-of-range values are passed through to the native
// library, whose own validation applies).
type ParamDesc struct {
	Name        string
	Description string
	Type        ParamType
	Min         float64
	Max         float64
	Default     interface{}
}

// SampleRates describes the sample rates a codec supports: either a
// discrete list, or, when IsRange is set, an inclusive [min, max] range in
// Rates[0] and Rates[1].
type SampleRates struct {
	Rates   []int
	IsRange bool
}

// Supports reports whether the given rate satisfies the constraint.
func (s SampleRates) Supports(rate int) bool {
	if s.IsRange {
		if len(s.Rates) < 2 {
			return false
		}
		return rate >= s.Rates[0] && rate <= s.Rates[1]
	}
	for _, r := range s.Rates {
		if r == rate {
			return true
		}
	}
	return false
}
