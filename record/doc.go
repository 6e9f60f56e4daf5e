// Package record defines the entity record read from a model store.
//
// A Record has a type tag (e.g. "IfcWall") and named fields. A field value is a
// scalar, a typed wrapper around a scalar, a single reference, or a list of
// references (see model.Value). Accessors never fail: a missing or malformed
// field is reported as absent so callers can skip it.
//
// Example:
//
//	rec := record.MustNew(42, "IfcWall", map[string]any{
//	    "GlobalId": "2O2Fr$t4X7Zf8NOew3FLOH",
//	    "Name":     model.Typed("IfcLabel", model.String("Wall A")),
//	})
//	name := rec.Text("Name") // "Wall A"
package record
