package relindex

import (
	"errors"
	"testing"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
	"github.com/hupe1980/bimindex/schema"
	"github.com/hupe1980/bimindex/store"
	"github.com/hupe1980/bimindex/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	b := testutil.NewModel("m")
	storey := b.Storey("L1")
	wall := b.Element("IfcWall", "Wall")
	slab := b.Element("IfcSlab", "Slab")
	pset := b.PropertySet("Pset_WallCommon", testutil.P("FireRating", "REI60"))
	qset := b.QuantitySet("Qto_WallBaseQuantities", testutil.Volume("NetVolume", 1))
	concrete := b.Material("Concrete")
	cls := b.Classification("21.22", "Walls")

	b.DefineProperties(pset, wall, slab)
	b.DefineProperties(qset, wall)
	b.AssociateMaterial(concrete, wall)
	b.Classify(cls, slab)
	b.Contain(storey, wall, slab)

	ix, err := Build(b.Store(), b.ModelID())
	require.NoError(t, err)

	defs, _ := ix.PropertyDefinitions(wall)
	assert.Equal(t, []model.ID{pset, qset}, defs)
	defs, _ = ix.PropertyDefinitions(slab)
	assert.Equal(t, []model.ID{pset}, defs)

	mats, _ := ix.Materials(wall)
	assert.Equal(t, []model.ID{concrete}, mats)
	mats, _ = ix.Materials(slab)
	assert.Empty(t, mats)

	classes, _ := ix.Classifications(slab)
	assert.Equal(t, []model.ID{cls}, classes)

	s, ok, _ := ix.Structure(wall)
	require.True(t, ok)
	assert.Equal(t, storey, s)

	_, ok, _ = ix.Structure(storey)
	assert.False(t, ok)

	assert.Equal(t, 2, ix.ContainedCount(storey))
	assert.Equal(t, 2, ix.Len(KindProperties))
	assert.Equal(t, 2, ix.Len(KindContainment))
	assert.Equal(t, []model.ID{storey}, ix.Related(KindContainment, wall))
	assert.Nil(t, ix.Related(KindContainment, storey))
	assert.Equal(t, []model.ID{concrete}, ix.Related(KindMaterial, wall))

	stats := ix.Stats()
	assert.Equal(t, 5, stats.Records)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 3, stats.Associations[KindProperties])
	assert.Equal(t, 2, stats.Associations[KindContainment])
}

func TestBuildSkipsMissingAndMalformed(t *testing.T) {
	b := testutil.NewModel("m")
	wall := b.Element("IfcWall", "Wall")
	mat := b.Material("Steel")

	// Relating field is not a reference.
	b.Put(schema.RelAssociatesMaterial, map[string]any{
		schema.RelatingMaterialField: "Steel",
		schema.RelatedObjectsField:   []model.ID{wall},
	})
	// Related list missing.
	b.Put(schema.RelAssociatesMaterial, map[string]any{
		schema.RelatingMaterialField: mat,
	})
	// Empty related list.
	b.Put(schema.RelAssociatesMaterial, map[string]any{
		schema.RelatingMaterialField: mat,
		schema.RelatedObjectsField:   []model.ID{},
	})
	good := b.AssociateMaterial(mat, wall)
	_ = good

	ix, err := Build(b.Store(), b.ModelID())
	require.NoError(t, err)

	mats, _ := ix.Materials(wall)
	assert.Equal(t, []model.ID{mat}, mats)
	assert.Equal(t, 3, ix.Stats().Skipped)
}

func TestBuildContainmentLastWriteWins(t *testing.T) {
	b := testutil.NewModel("m")
	l1 := b.Storey("L1")
	l2 := b.Storey("L2")
	wall := b.Element("IfcWall", "Wall")

	b.Contain(l1, wall)
	b.Contain(l2, wall)

	ix, err := Build(b.Store(), b.ModelID())
	require.NoError(t, err)

	s, ok, _ := ix.Structure(wall)
	require.True(t, ok)
	assert.Equal(t, l2, s)
	assert.Equal(t, 0, ix.ContainedCount(l1))
	assert.Equal(t, 1, ix.ContainedCount(l2))
}

// flakyStore hides a record behind a store-level failure.
type flakyStore struct {
	store.Store
	failOn model.ID
}

func (f *flakyStore) Resolve(modelID string, id model.ID) (*record.Record, error) {
	if id == f.failOn {
		return nil, errors.New("corrupt page")
	}
	return f.Store.Resolve(modelID, id)
}

func TestBuildStoreFailure(t *testing.T) {
	t.Run("Model not open", func(t *testing.T) {
		_, err := Build(store.NewMemory(), "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrModelNotOpen)
	})

	t.Run("Resolve failure aborts", func(t *testing.T) {
		b := testutil.NewModel("m")
		wall := b.Element("IfcWall", "Wall")
		rel := b.AssociateMaterial(b.Material("Steel"), wall)

		_, err := Build(&flakyStore{Store: b.Store(), failOn: rel}, b.ModelID())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt page")
	})
}

func TestIndexCompleteness(t *testing.T) {
	rng := testutil.NewRNG(42)
	b, _ := testutil.RandomModel(rng, 150)
	st := b.Store()

	ix, err := Build(st, b.ModelID())
	require.NoError(t, err)

	for _, kind := range []Kind{KindProperties, KindMaterial, KindClassification} {
		rel := relations[kind]
		ids, err := st.IDsOfType(b.ModelID(), rel.typeTag)
		require.NoError(t, err)

		for _, id := range ids {
			rec, err := st.Resolve(b.ModelID(), id)
			require.NoError(t, err)
			relating, related, ok := decode(rec, rel)
			if !ok {
				continue
			}
			for _, e := range related {
				assert.Contains(t, ix.Related(kind, e), relating, "kind %s element %s", kind, e)
			}
		}
	}

	// Every contained element has some structure.
	ids, err := st.IDsOfType(b.ModelID(), schema.RelContainedInSpatialStructure)
	require.NoError(t, err)
	for _, id := range ids {
		rec, _ := st.Resolve(b.ModelID(), id)
		_, related, ok := decode(rec, relations[KindContainment])
		if !ok {
			continue
		}
		for _, e := range related {
			_, found, _ := ix.Structure(e)
			assert.True(t, found)
		}
	}
}

func TestScannerMatchesIndex(t *testing.T) {
	rng := testutil.NewRNG(7)
	b, elements := testutil.RandomModel(rng, 80)

	ix, err := Build(b.Store(), b.ModelID())
	require.NoError(t, err)
	sc := NewScanner(b.Store(), b.ModelID())

	for _, e := range elements {
		want, _ := ix.PropertyDefinitions(e)
		got, err := sc.PropertyDefinitions(e)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		want, _ = ix.Materials(e)
		got, err = sc.Materials(e)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		want, _ = ix.Classifications(e)
		got, err = sc.Classifications(e)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		ws, wok, _ := ix.Structure(e)
		gs, gok, err := sc.Structure(e)
		require.NoError(t, err)
		assert.Equal(t, wok, gok)
		assert.Equal(t, ws, gs)
	}
}

func TestScannerStoreFailure(t *testing.T) {
	sc := NewScanner(store.NewMemory(), "nope")

	_, err := sc.Materials(1)
	assert.ErrorIs(t, err, store.ErrModelNotOpen)

	_, _, err = sc.Structure(1)
	assert.ErrorIs(t, err, store.ErrModelNotOpen)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, schema.RelDefinesByProperties, KindProperties.String())
	assert.Equal(t, schema.RelContainedInSpatialStructure, KindContainment.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
