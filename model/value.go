package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindRef represents a single reference to another record.
	KindRef
	// KindRefList represents a list of references to other records.
	KindRefList
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindRef:
		return "ref"
	case KindRefList:
		return "reflist"
	default:
		return "invalid"
	}
}

// Value is a small typed value used for record fields and resolved properties.
//
// Scalars may carry the name of the schema type that wrapped them in the source
// model (e.g. "IfcLabel", "IfcVolumeMeasure"); the wrapper never changes how the
// scalar compares or formats.
type Value struct {
	Kind Kind                  `json:"k"`
	I64  int64                 `json:"i,omitempty"`
	F64  float64               `json:"f,omitempty"`
	s    unique.Handle[string] `json:"-"` // Private interned string
	B    bool                  `json:"b,omitempty"`
	R    ID                    `json:"r,omitempty"`
	Rs   []ID                  `json:"rs,omitempty"`
	Type string                `json:"t,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(&v),
	}
	if v.Kind == KindString {
		aux.S = v.s.Value()
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(v),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Kind == KindString {
		v.s = unique.Make(aux.S)
	}
	return nil
}

// IsNull reports whether v is null or invalid.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindInvalid
}

// IsScalar reports whether v holds a non-null scalar.
func (v Value) IsScalar() bool {
	switch v.Kind {
	case KindInt, KindFloat, KindString, KindBool:
		return true
	default:
		return false
	}
}

// IsNumber reports whether v holds an int or float.
func (v Value) IsNumber() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// Key returns a stable string representation for use in maps.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindRef:
		return "r:" + strconv.FormatUint(uint64(v.R), 10)
	case KindRefList:
		parts := make([]string, len(v.Rs))
		for i, r := range v.Rs {
			parts[i] = strconv.FormatUint(uint64(r), 10)
		}
		return "rs:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

// Text renders a scalar the way it appears in searchable "name=value" pairs.
// Null renders as the empty string.
func (v Value) Text() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'f', -1, 64)
	case KindString:
		return v.s.Value()
	case KindBool:
		return strconv.FormatBool(v.B)
	default:
		return ""
	}
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the numeric value as float64 if Kind is KindInt or KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.F64, true
	case KindInt:
		return float64(v.I64), true
	default:
		return 0, false
	}
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsRef returns the referenced ID if Kind is KindRef.
func (v Value) AsRef() (ID, bool) {
	if v.Kind != KindRef {
		return 0, false
	}
	return v.R, true
}

// AsRefs returns the referenced IDs if Kind is KindRefList.
func (v Value) AsRefs() ([]ID, bool) {
	if v.Kind != KindRefList {
		return nil, false
	}
	return v.Rs, true
}

// Unwrapped returns the scalar with its wrapper type name removed.
func (v Value) Unwrapped() Value {
	v.Type = ""
	return v
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Ref returns a single reference Value.
func Ref(id ID) Value { return Value{Kind: KindRef, R: id} }

// Refs returns a reference list Value.
func Refs(ids ...ID) Value { return Value{Kind: KindRefList, Rs: ids} }

// Typed wraps a scalar with the name of its schema type.
// Non-scalar values are returned unchanged.
func Typed(typeName string, v Value) Value {
	if !v.IsScalar() {
		return v
	}
	v.Type = typeName
	return v
}

// clone creates a deep copy of a Value, including reference lists.
func (v Value) clone() Value {
	if v.Kind != KindRefList || len(v.Rs) == 0 {
		return v
	}
	refs := make([]ID, len(v.Rs))
	copy(refs, v.Rs)
	v.Rs = refs
	return v
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	return v.clone()
}
