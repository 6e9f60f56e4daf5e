package testutil

import (
	"testing"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}

	a.Reset()
	c := NewRNG(4711)
	assert.Equal(t, c.Float64(), a.Float64())
}

func TestModelBuilder(t *testing.T) {
	b := NewModel("m")
	wall := b.Element("IfcWall", "Wall A")
	pset := b.PropertySet("Pset_WallCommon", P("FireRating", "REI60"), P("Unset", nil))
	rel := b.DefineProperties(pset, wall)

	rec, err := b.Store().Resolve("m", wall)
	require.NoError(t, err)
	assert.Equal(t, "Wall A", rec.Text(schema.NameField))
	assert.NotEmpty(t, rec.Text(schema.GlobalIDField))

	rec, err = b.Store().Resolve("m", rel)
	require.NoError(t, err)
	related, ok := rec.Refs(schema.RelatedObjectsField)
	require.True(t, ok)
	assert.Equal(t, []model.ID{wall}, related)

	missing := b.Missing()
	_, err = b.Store().Resolve("m", missing)
	assert.Error(t, err)
}

func TestRandomModelDeterministic(t *testing.T) {
	b1, e1 := RandomModel(NewRNG(7), 40)
	b2, e2 := RandomModel(NewRNG(7), 40)

	assert.Equal(t, e1, e2)
	assert.Equal(t, b1.Store().Len(b1.ModelID()), b2.Store().Len(b2.ModelID()))
	assert.Len(t, e1, 41)
}
