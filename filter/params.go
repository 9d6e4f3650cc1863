// Package filter holds the Filter Parameter Set, the composer that turns it
// into a CSS-style filter string, and the raster pipeline that applies such
// a string to an image.
package filter

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrUnknownParam is returned for a key that is not one of the eight parameters.
	ErrUnknownParam = errors.New("filter: unknown parameter")
	// ErrInvalidValue is returned when a value is not a finite number.
	ErrInvalidValue = errors.New("filter: invalid value")
)

// Spec describes one adjustable parameter and the slider that drives it.
type Spec struct {
	Key      string // form field and function name
	Label    string
	Min      float64
	Max      float64
	Step     float64
	Decimals int    // precision implied by Step
	Unit     string // suffix written after the value in a clause
}

// Parameter keys in composition order.
const (
	Brightness = "brightness"
	Blur       = "blur"
	Contrast   = "contrast"
	Grayscale  = "grayscale"
	Invert     = "invert"
	Sepia      = "sepia"
	Saturate   = "saturate"
	HueRotate  = "hue-rotate"
)

var specs = [...]Spec{
	{Key: Brightness, Label: "Brightness", Min: 0, Max: 100, Step: 1, Unit: "%"},
	{Key: Blur, Label: "Blur", Min: 0, Max: 30, Step: 0.1, Decimals: 1, Unit: "px"},
	{Key: Contrast, Label: "Contrast", Min: 0, Max: 100, Step: 1, Unit: "%"},
	{Key: Grayscale, Label: "Grayscale", Min: 0, Max: 100, Step: 1, Unit: "%"},
	{Key: Invert, Label: "Invert", Min: 0, Max: 100, Step: 1, Unit: "%"},
	{Key: Sepia, Label: "Sepia", Min: 0, Max: 100, Step: 1, Unit: "%"},
	{Key: Saturate, Label: "Saturate", Min: 0, Max: 10, Step: 1},
	{Key: HueRotate, Label: "Hue Rotate", Min: 0, Max: 180, Step: 1, Unit: "deg"},
}

// Specs returns the parameter definitions in composition order.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs[:])
	return out
}

// SliderOrder returns the definitions in the order the editor panel lists
// them. It differs from composition order only in that blur comes first.
func SliderOrder() []Spec {
	out := make([]Spec, 0, len(specs))
	out = append(out, specs[indexOf(Blur)])
	for _, s := range specs {
		if s.Key != Blur {
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns the definition for key.
func Lookup(key string) (Spec, bool) {
	i := indexOf(key)
	if i < 0 {
		return Spec{}, false
	}
	return specs[i], true
}

func indexOf(key string) int {
	for i, s := range specs {
		if s.Key == key {
			return i
		}
	}
	return -1
}

// Clamp bounds v to the range and rounds it to the step's precision.
func (s Spec) Clamp(v float64) float64 {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	scale := math.Pow10(s.Decimals)
	step := s.Step * scale
	v = math.Round(v*scale/step) * step / scale
	if v == 0 {
		return 0 // drop negative zero
	}
	return v
}

// FmtNum formats a float with no trailing zeros.
func FmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Params is the Filter Parameter Set. The zero value has every parameter off.
type Params struct {
	values [len(specs)]float64
}

// Get returns the stored value for key, or 0 for an unknown key.
func (p Params) Get(key string) float64 {
	i := indexOf(key)
	if i < 0 {
		return 0
	}
	return p.values[i]
}

// Set stores v for key after clamping it to the declared range.
func (p *Params) Set(key string, v float64) error {
	i := indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidValue, key, v)
	}
	p.values[i] = specs[i].Clamp(v)
	return nil
}

// Reset turns every parameter off.
func (p *Params) Reset() {
	p.values = [len(specs)]float64{}
}

// IsZero reports whether every parameter is off.
func (p Params) IsZero() bool {
	return p.values == [len(specs)]float64{}
}

// Map returns the values keyed by parameter name.
func (p Params) Map() map[string]float64 {
	m := make(map[string]float64, len(specs))
	for i, s := range specs {
		m[s.Key] = p.values[i]
	}
	return m
}

// ParseParams reads parameter values from form fields. Missing fields are 0
// and unknown fields are ignored.
func ParseParams(form url.Values) (Params, error) {
	var p Params
	for _, s := range specs {
		raw := strings.TrimSpace(form.Get(s.Key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, s.Key, raw)
		}
		if err := p.Set(s.Key, v); err != nil {
			return Params{}, err
		}
	}
	return p, nil
}
