package keyparam

import (
	"math"
	"strconv"

	"github.com/hupe1980/bimindex/model"
)

// Extractor fills key parameters from properties observed in order.
//
// The first matching value the field accepts wins. Floor is never touched; it
// comes from spatial containment.
type Extractor struct {
	table *Table
	kp    model.KeyParameters
	set   uint16
}

// NewExtractor creates an Extractor over table. A nil table selects Default().
func NewExtractor(table *Table) *Extractor {
	if table == nil {
		table = Default()
	}
	return &Extractor{table: table}
}

// Observe offers one property to every field that has not matched yet.
func (e *Extractor) Observe(name string, v model.Value) {
	if v.IsNull() || !v.IsScalar() {
		return
	}
	text := FormatValue(v)
	if text == "" {
		return
	}

	normalized := Normalize(name)
	for i, r := range e.table.rules {
		bit := uint16(1) << i
		if e.set&bit != 0 {
			continue
		}
		if r.Field.Accepts(v) && matchesNormalized(normalized, r.Patterns) {
			r.Field.Set(&e.kp, text)
			e.set |= bit
		}
	}
}

// ObserveSets offers every property of sets in order.
func (e *Extractor) ObserveSets(sets []model.PropertySet) {
	for _, s := range sets {
		for _, p := range s.Properties {
			e.Observe(p.Name, p.Value)
		}
	}
}

// Result returns the parameters collected so far.
func (e *Extractor) Result() model.KeyParameters {
	return e.kp
}

// Extract runs a fresh extractor over sets.
func (t *Table) Extract(sets []model.PropertySet) model.KeyParameters {
	e := NewExtractor(t)
	e.ObserveSets(sets)
	return e.Result()
}

// FormatValue renders a scalar as a key parameter string.
//
// Integers and integral floats render without decimals, other floats with three
// decimals. Null renders as "".
func FormatValue(v model.Value) string {
	v = v.Unwrapped()
	switch v.Kind {
	case model.KindInt:
		return strconv.FormatInt(v.I64, 10)
	case model.KindFloat:
		if math.IsNaN(v.F64) || math.IsInf(v.F64, 0) {
			return ""
		}
		if v.F64 == math.Trunc(v.F64) && math.Abs(v.F64) < 1e15 {
			return strconv.FormatFloat(v.F64, 'f', 0, 64)
		}
		return strconv.FormatFloat(v.F64, 'f', 3, 64)
	case model.KindString, model.KindBool:
		return v.Text()
	default:
		return ""
	}
}
