// Package keyparam extracts canonical key parameters (volume, area, height, ...)
// from arbitrarily named element properties.
//
// Authoring tools name the same quantity differently ("NetVolume",
// "Gross_Volume", "Объём", "Volumen"), so matching is done by substring over a
// normalized name against per-field pattern lists. The first match of a field
// whose value the field accepts wins; later matches are ignored.
package keyparam

import (
	"math"
	"strings"
	"unicode"

	"github.com/hupe1980/bimindex/model"
)

// Field names a key parameter slot.
type Field string

const (
	Volume        Field = "volume"
	Area          Field = "area"
	Height        Field = "height"
	Length        Field = "length"
	Width         Field = "width"
	Perimeter     Field = "perimeter"
	Weight        Field = "weight"
	ConcreteClass Field = "concreteClass"
)

// Fields lists all matchable fields in extraction order.
var Fields = []Field{Volume, Area, Height, Length, Width, Perimeter, Weight, ConcreteClass}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Accepts reports whether v may fill the field. Measures take positive
// finite numbers only; ConcreteClass takes non-blank strings only.
func (f Field) Accepts(v model.Value) bool {
	if f == ConcreteClass {
		s, ok := v.AsString()
		return ok && strings.TrimSpace(s) != ""
	}
	x, ok := v.AsFloat64()
	return ok && x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

// Get returns the value of the field in kp.
func (f Field) Get(kp *model.KeyParameters) string {
	switch f {
	case Volume:
		return kp.Volume
	case Area:
		return kp.Area
	case Height:
		return kp.Height
	case Length:
		return kp.Length
	case Width:
		return kp.Width
	case Perimeter:
		return kp.Perimeter
	case Weight:
		return kp.Weight
	case ConcreteClass:
		return kp.ConcreteClass
	}
	return ""
}

// Set stores v into the field of kp. Unknown fields are ignored.
func (f Field) Set(kp *model.KeyParameters, v string) {
	switch f {
	case Volume:
		kp.Volume = v
	case Area:
		kp.Area = v
	case Height:
		kp.Height = v
	case Length:
		kp.Length = v
	case Width:
		kp.Width = v
	case Perimeter:
		kp.Perimeter = v
	case Weight:
		kp.Weight = v
	case ConcreteClass:
		kp.ConcreteClass = v
	}
}

// Normalize lower-cases name and strips whitespace, underscores and hyphens.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Matches reports whether the normalized name contains any of the patterns.
// Patterns must already be normalized.
func Matches(name string, patterns []string) bool {
	return matchesNormalized(Normalize(name), patterns)
}

func matchesNormalized(normalized string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}
