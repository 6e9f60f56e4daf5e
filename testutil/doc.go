// Package testutil provides testing utilities for bimindex.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic RNG and a fluent builder for in-memory models.
//
// # Model Fixtures
//
//	b := testutil.NewModel("m1")
//	storey := b.Storey("Level 1")
//	wall := b.Element("IfcWall", "Wall A")
//	b.Contain(storey, wall)
//	b.DefineProperties(b.QuantitySet("Qto_WallBaseQuantities",
//	    testutil.Volume("NetVolume", 12.345)), wall)
//
// # Random Models
//
//	rng := testutil.NewRNG(seed)
//	b, elements := testutil.RandomModel(rng, 200)
//
// Random models include dangling references and malformed relationship records
// so that skip-paths are exercised.
package testutil
