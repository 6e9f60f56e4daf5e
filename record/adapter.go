package record

import (
	"fmt"
	"math"

	"github.com/hupe1980/bimindex/model"
)

// FromAny converts a Go value into a typed field value.
//
// This exists as an adapter layer for parsers and test fixtures that build
// records from loosely typed data. model.ID and []model.ID become references.
func FromAny(v any) (model.Value, error) {
	switch x := v.(type) {
	case nil:
		return model.Null(), nil
	case model.Value:
		return x, nil
	case model.ID:
		return model.Ref(x), nil
	case []model.ID:
		refs := make([]model.ID, len(x))
		copy(refs, x)
		return model.Refs(refs...), nil
	case bool:
		return model.Bool(x), nil
	case string:
		return model.String(x), nil
	case float64:
		return model.Float(x), nil
	case float32:
		return model.Float(float64(x)), nil
	case int:
		return model.Int(int64(x)), nil
	case int8:
		return model.Int(int64(x)), nil
	case int16:
		return model.Int(int64(x)), nil
	case int32:
		return model.Int(int64(x)), nil
	case int64:
		return model.Int(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return model.Value{}, fmt.Errorf("record uint out of range: %d", x)
		}
		return model.Int(int64(x)), nil
	case uint8:
		return model.Int(int64(x)), nil
	case uint16:
		return model.Int(int64(x)), nil
	case uint32:
		return model.Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return model.Value{}, fmt.Errorf("record uint64 out of range: %d", x)
		}
		return model.Int(int64(x)), nil
	default:
		return model.Value{}, fmt.Errorf("unsupported record value type %T", v)
	}
}

// New builds a record from loosely typed fields.
func New(id model.ID, typeTag string, fields map[string]any) (*Record, error) {
	rec := &Record{
		ID:     id,
		Type:   typeTag,
		Fields: make(map[string]model.Value, len(fields)),
	}
	for k, v := range fields {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("record %s field %q: %w", id, k, err)
		}
		rec.Fields[k] = vv
	}
	return rec, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(id model.ID, typeTag string, fields map[string]any) *Record {
	rec, err := New(id, typeTag, fields)
	if err != nil {
		panic(err)
	}
	return rec
}
