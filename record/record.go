package record

import (
	"github.com/hupe1980/bimindex/model"
)

// Record is an entity read from a model store.
type Record struct {
	ID     model.ID
	Type   string
	Fields map[string]model.Value
}

// Field returns the raw value of the named field.
func (r *Record) Field(name string) (model.Value, bool) {
	if r == nil {
		return model.Value{}, false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Ref returns the single reference stored in the named field.
func (r *Record) Ref(name string) (model.ID, bool) {
	v, ok := r.Field(name)
	if !ok {
		return 0, false
	}
	return v.AsRef()
}

// Refs returns the reference list stored in the named field.
// A single reference is returned as a one-element list.
func (r *Record) Refs(name string) ([]model.ID, bool) {
	v, ok := r.Field(name)
	if !ok {
		return nil, false
	}
	switch v.Kind {
	case model.KindRefList:
		return v.Rs, true
	case model.KindRef:
		return []model.ID{v.R}, true
	default:
		return nil, false
	}
}

// Scalar returns the non-null scalar stored in the named field.
func (r *Record) Scalar(name string) (model.Value, bool) {
	v, ok := r.Field(name)
	if !ok || !v.IsScalar() {
		return model.Value{}, false
	}
	return v, true
}

// Text returns the named scalar field rendered as text, or "" when absent.
func (r *Record) Text(name string) string {
	v, ok := r.Scalar(name)
	if !ok {
		return ""
	}
	return v.Text()
}

// Clone creates a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	fields := make(map[string]model.Value, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v.Clone()
	}
	return &Record{
		ID:     r.ID,
		Type:   r.Type,
		Fields: fields,
	}
}
