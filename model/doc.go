// Package model defines core types used throughout bimindex.
//
// # Identity Types
//
//   - ID: Per-model element identifier (uint64), stable for the model's lifetime
//
// # Value Types
//
//   - Value: Small tagged union for record fields (scalar, typed wrapper, ref, ref list)
//   - Kind: Discriminator of a Value
//
// # Derived Types
//
//   - ElementInfo: Fully resolved element (property sets, materials, classifications)
//   - KeyParameters: Canonical subset of properties extracted by name heuristics
//   - PropertySet / Property: Named group of scalar properties or quantities
//   - IndexEntry: Flattened per-element projection used by filtering and search
//
// Values are constructed with the typed helpers:
//
//	v := model.Float(12.345)
//	label := model.Typed("IfcLabel", model.String("Level 1"))
//	ref := model.Ref(42)
package model
