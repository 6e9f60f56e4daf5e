// Package bimindex turns a flat, graph-shaped building-model record store into
// queryable per-element data.
//
// The engine operates on an already-opened entity store (see package store).
// It derives a relationship index in one pass, resolves elements into property
// sets, quantities, materials, classifications and key parameters, builds a
// flattened element index in cooperative batches, and answers aggregation and
// search questions over that index.
//
// # Quick Start
//
//	m := bimindex.Open(st, "model-1", bimindex.WithLogger(bimindex.NewJSONLogger(slog.LevelInfo)))
//	defer m.Close()
//
//	info, _ := m.Element(42)
//	fmt.Println(info.Name, info.KeyParameters.Volume, info.KeyParameters.Floor)
//
//	entries, _ := m.BuildIndex(ctx, ids, bimindex.WithProgress(func(done, total int) {
//	    fmt.Printf("%d/%d\n", done, total)
//	}))
//
//	rows := bimindex.Quantify(entries, quantify.DimensionFloor)
//	walls := bimindex.Search(entries, search.Criteria{Types: []string{"IfcWall"}})
//
// # Fast and Slow Paths
//
// Element resolution reads relationships through a relindex.Lookup. The
// pre-built relationship index answers in O(1); without one every question
// re-scans the relationship records. Both give identical answers, so the slow
// path is only a cost trade-off for one-off lookups.
//
// # Failure Model
//
// Missing and malformed records are absence, never errors: the worst a bad
// record can do is leave one optional value empty. Only store-level failures
// (for example a model that is no longer open) surface as errors, wrapped in
// *ErrStore.
//
// # Key Features
//
//   - One-pass relationship index with containment, materials and classifications
//   - Localized key parameter heuristics (English, German, Russian, YAML packs)
//   - Batched element indexing with progress, yield, cancellation and worker fan-out
//   - Grouping with conservation-exact totals and stable sorting
//   - Roaring bitmap facet index equivalent to the reference search predicate
//   - Spatial decomposition tree with per-storey element counts
package bimindex
