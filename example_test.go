package bimindex_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/bimindex"
	"github.com/hupe1980/bimindex/quantify"
	"github.com/hupe1980/bimindex/search"
	"github.com/hupe1980/bimindex/testutil"
)

// Example demonstrates indexing a small model and querying it.
func Example() {
	b := testutil.NewModel("demo")
	storey := b.Storey("Level 1")
	wall := b.Element("IfcWall", "Concrete Wall")
	slab := b.Element("IfcSlab", "Ground Slab")
	b.DefineProperties(b.QuantitySet("Qto_BaseQuantities", testutil.Volume("NetVolume", 12.345)), wall)
	b.DefineProperties(b.QuantitySet("Qto_BaseQuantities", testutil.Volume("NetVolume", 30)), slab)
	b.Contain(storey, wall, slab)

	m := bimindex.Open(b.Store(), b.ModelID())
	defer m.Close()

	ids, err := bimindex.ElementIDs(b.Store(), b.ModelID(), "IfcWall", "IfcSlab")
	if err != nil {
		log.Fatal(err)
	}

	entries, err := m.BuildIndex(context.Background(), ids)
	if err != nil {
		log.Fatal(err)
	}

	for _, row := range m.Quantify(quantify.DimensionFloor) {
		fmt.Printf("%s: %d elements, %.3f m3\n", row.GroupKey, row.Count, row.TotalVolume)
	}

	walls := bimindex.Search(entries, search.Criteria{Types: []string{"IfcWall"}})
	fmt.Println(walls[0].Name, walls[0].Volume)
	// Output:
	// Level 1: 2 elements, 42.345 m3
	// Concrete Wall 12.345
}

// ExampleGetElementProperties shows a single lookup without a relationship index.
func ExampleGetElementProperties() {
	b := testutil.NewModel("demo")
	wall := b.Element("IfcWall", "Basic Wall")
	b.DefineProperties(b.PropertySet("Pset_WallCommon", testutil.P("Concrete Class", "C30/37")), wall)
	b.AssociateMaterial(b.Material("Concrete"), wall)

	info, err := bimindex.GetElementProperties(b.Store(), b.ModelID(), wall, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(info.Name, info.Materials, info.KeyParameters.ConcreteClass)
	// Output: Basic Wall [Concrete] C30/37
}
