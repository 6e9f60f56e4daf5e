package testutil

import (
	"fmt"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/schema"
)

var (
	elementTypes  = []string{"IfcWall", "IfcSlab", "IfcColumn", "IfcBeam", "IfcDoor", "IfcWindow"}
	materialNames = []string{"Concrete C30/37", "Steel S235", "Glass", "Timber", ""}
	propNames     = []string{"NetVolume", "GrossVolume", "NetSideArea", "Height", "Width", "Length", "FireRating", "LoadBearing", "ConcreteClass", "IsExternal"}
)

// RandomModel generates a random but valid-ish model with n elements.
//
// The model includes shared property sets, duplicate quantity set names,
// multiple containment claims for some elements, dangling references and
// relationship records with malformed fields. It returns the builder and the
// element IDs in creation order (including one dangling ID).
func RandomModel(rng *RNG, n int) (*ModelBuilder, []model.ID) {
	b := NewModel(fmt.Sprintf("random-%d", rng.Seed()))

	storeys := []model.ID{b.Storey("L1"), b.Storey("L2"), b.Put(schema.BuildingStorey, map[string]any{schema.LongNameField: "Roof"})}

	materials := make([]model.ID, 0, len(materialNames))
	for _, name := range materialNames {
		materials = append(materials, b.Material(name))
	}
	materials = append(materials, b.LayerSet("Wall build-up", materials[0], materials[3]))

	classes := []model.ID{b.Classification("21.22", "Exterior walls"), b.Classification("", "Slabs"), b.Classification("X", "")}

	elements := make([]model.ID, 0, n+1)
	for i := 0; i < n; i++ {
		elements = append(elements, b.Element(Pick(rng, elementTypes), fmt.Sprintf("Element %d", i)))
	}
	// Dangling element reference: appears in relationships but never resolves.
	elements = append(elements, b.Missing())

	pick := func() []model.ID {
		k := 1 + rng.Intn(4)
		out := make([]model.ID, 0, k)
		for j := 0; j < k; j++ {
			out = append(out, Pick(rng, elements))
		}
		return out
	}

	for i := 0; i < n/2+1; i++ {
		k := 1 + rng.Intn(4)
		props := make([]Prop, 0, k)
		for j := 0; j < k; j++ {
			var v any
			switch rng.Intn(4) {
			case 0:
				v = rng.FloatRange(0, 50)
			case 1:
				v = rng.Intn(10)
			case 2:
				v = Pick(rng, []string{"C25/30", "REI60", "yes"})
			}
			props = append(props, P(Pick(rng, propNames), v))
		}
		b.DefineProperties(b.PropertySet(fmt.Sprintf("Pset_%d", rng.Intn(5)), props...), pick()...)
	}

	for i := 0; i < n/3+1; i++ {
		name := Pick(rng, []string{"Qto_BaseQuantities", "Pset_1", "Qto_Extra"})
		b.DefineProperties(b.QuantitySet(name,
			Volume("NetVolume", rng.FloatRange(0, 30)),
			Area("NetSideArea", rng.FloatRange(0, 80)),
			Length("Length", rng.FloatRange(0, 12)),
			Count("Count", rng.Intn(5)),
		), pick()...)
	}

	for i := 0; i < n/3+1; i++ {
		b.AssociateMaterial(Pick(rng, materials), pick()...)
		b.Classify(Pick(rng, classes), pick()...)
	}

	for _, e := range elements {
		if rng.Chance(0.8) {
			b.Contain(Pick(rng, storeys), e)
		}
		if rng.Chance(0.05) {
			// Second containment claim.
			b.Contain(Pick(rng, storeys), e)
		}
	}

	// Relationship pointing at a missing set and a malformed relationship.
	b.DefineProperties(b.Missing(), pick()...)
	b.Put(schema.RelAssociatesMaterial, map[string]any{
		schema.RelatingMaterialField: "not a reference",
		schema.RelatedObjectsField:   pick(),
	})
	b.Put(schema.RelContainedInSpatialStructure, map[string]any{
		schema.RelatingStructureField: storeys[0],
	})

	return b, elements
}
