package keyparam

import (
	"strings"
	"testing"

	"github.com/hupe1980/bimindex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"NetVolume", "netvolume"},
		{"Net Volume", "netvolume"},
		{"Net_Side-Area", "netsidearea"},
		{"  Height\t", "height"},
		{"Класс бетона", "классбетона"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestMatches(t *testing.T) {
	vol := Default().Patterns(Volume)

	assert.True(t, Matches("NetVolume", vol))
	assert.True(t, Matches("Gross_Volume", vol))
	assert.True(t, Matches("Объём", vol))
	assert.True(t, Matches("Volumen (brutto)", vol))
	assert.False(t, Matches("NetSideArea", vol))
	assert.False(t, Matches("anything", nil))
	assert.False(t, Matches("anything", []string{""}))
}

func TestExtractFirstMatchWins(t *testing.T) {
	sets := []model.PropertySet{
		{Name: "Qto_WallBaseQuantities", Kind: model.SetQuantities, Properties: []model.Property{
			{Name: "NetVolume", Value: model.Float(12.345)},
			{Name: "GrossVolume", Value: model.Float(20.0)},
		}},
	}

	kp := Default().Extract(sets)
	assert.Equal(t, "12.345", kp.Volume)
}

func TestExtractSkipsNull(t *testing.T) {
	sets := []model.PropertySet{
		{Name: "Pset_A", Properties: []model.Property{
			{Name: "Height", Value: model.Null()},
			{Name: "Concrete Class", Value: model.Typed("IfcLabel", model.String(""))},
		}},
		{Name: "Pset_B", Properties: []model.Property{
			{Name: "OverallHeight", Value: model.Int(3)},
			{Name: "Класс бетона", Value: model.String("B25")},
			{Name: "ConcreteClass", Value: model.String("C30/37")},
		}},
	}

	kp := Default().Extract(sets)
	assert.Equal(t, "3", kp.Height)
	assert.Equal(t, "B25", kp.ConcreteClass)
	assert.Empty(t, kp.Volume)
	assert.Empty(t, kp.Floor)
}

func TestExtractSkipsNonNumericMeasures(t *testing.T) {
	sets := []model.PropertySet{
		{Name: "Pset_Volume", Properties: []model.Property{
			{Name: "VolumeUnit", Value: model.String("m3")},
			{Name: "IsVolumeIncluded", Value: model.Bool(true)},
			{Name: "GrossArea", Value: model.Float(0)},
			{Name: "NetArea", Value: model.Float(-2.5)},
		}},
		{Name: "Qto_WallBaseQuantities", Kind: model.SetQuantities, Properties: []model.Property{
			{Name: "NetVolume", Value: model.Float(12.345)},
			{Name: "NetSideArea", Value: model.Typed("IfcAreaMeasure", model.Float(8))},
		}},
	}

	kp := Default().Extract(sets)
	assert.Equal(t, "12.345", kp.Volume)
	assert.Equal(t, "8", kp.Area)
}

func TestExtractConcreteClassTextOnly(t *testing.T) {
	e := NewExtractor(nil)
	e.Observe("ConcreteClass", model.Int(30))
	e.Observe("Concrete Class", model.Bool(true))
	e.Observe("Concrete Class", model.String("   "))
	assert.Empty(t, e.Result().ConcreteClass)

	e.Observe("Betonklasse", model.String("C25/30"))
	assert.Equal(t, "C25/30", e.Result().ConcreteClass)
}

func TestFieldAccepts(t *testing.T) {
	tests := []struct {
		field Field
		in    model.Value
		want  bool
	}{
		{Height, model.Int(3), true},
		{Height, model.Typed("IfcLengthMeasure", model.Float(2.75)), true},
		{Height, model.Float(0), false},
		{Height, model.Int(-1), false},
		{Height, model.String("3"), false},
		{Weight, model.Bool(true), false},
		{ConcreteClass, model.String("B25"), true},
		{ConcreteClass, model.Typed("IfcLabel", model.String("C30/37")), true},
		{ConcreteClass, model.String(""), false},
		{ConcreteClass, model.Float(30), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.field)+"/"+tt.in.Text(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Accepts(tt.in))
		})
	}
}

func TestExtractAllFields(t *testing.T) {
	e := NewExtractor(nil)
	e.Observe("NetSideArea", model.Float(4.5))
	e.Observe("Length", model.Float(6))
	e.Observe("Width", model.Float(0.24))
	e.Observe("Perimeter", model.Float(12.48))
	e.Observe("NetWeight", model.Int(1200))
	e.Observe("NetVolume", model.Typed("IfcVolumeMeasure", model.Float(1.08)))

	kp := e.Result()
	assert.Equal(t, model.KeyParameters{
		Volume:    "1.080",
		Area:      "4.500",
		Length:    "6",
		Width:     "0.240",
		Perimeter: "12.480",
		Weight:    "1200",
	}, kp)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   model.Value
		want string
	}{
		{"Int", model.Int(42), "42"},
		{"IntegralFloat", model.Float(20.0), "20"},
		{"Float", model.Float(12.3456), "12.346"},
		{"Negative", model.Float(-0.5), "-0.500"},
		{"Wrapped", model.Typed("IfcLengthMeasure", model.Float(2.75)), "2.750"},
		{"String", model.String("C25/30"), "C25/30"},
		{"Bool", model.Bool(true), "true"},
		{"Null", model.Null(), ""},
		{"Ref", model.Ref(3), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestFieldAccessors(t *testing.T) {
	var kp model.KeyParameters
	for _, f := range Fields {
		assert.True(t, f.Valid())
		f.Set(&kp, string(f))
		assert.Equal(t, string(f), f.Get(&kp))
	}
	assert.False(t, Field("floor").Valid())
}

func TestExtend(t *testing.T) {
	table := Default()
	require.NoError(t, table.Extend(map[Field][]string{
		Volume: {"Volume Net", "netvolume"},
	}))

	pats := table.Patterns(Volume)
	assert.Contains(t, pats, "volumenet")
	assert.Equal(t, 1, countOf(pats, "netvolume"))

	err := table.Extend(map[Field][]string{"floor": {"storey"}})
	assert.ErrorIs(t, err, ErrUnknownField)
}

func countOf(items []string, s string) int {
	n := 0
	for _, it := range items {
		if it == s {
			n++
		}
	}
	return n
}

func TestLoadTable(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		doc := `
locale: fr
patterns:
  height: [hauteur]
  concreteClass: ["classe de béton"]
`
		table, err := LoadTable(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Contains(t, table.Locales(), "fr")
		assert.Contains(t, table.Patterns(ConcreteClass), "classedebéton")

		kp := table.Extract([]model.PropertySet{{Properties: []model.Property{
			{Name: "Hauteur", Value: model.Float(2.8)},
		}}})
		assert.Equal(t, "2.800", kp.Height)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"MissingLocale", "patterns:\n  height: [hauteur]\n"},
		{"UnknownField", "locale: fr\npatterns:\n  floor: [etage]\n"},
		{"EmptyList", "locale: fr\npatterns:\n  height: []\n"},
		{"EmptyPattern", "locale: fr\npatterns:\n  height: [\"\"]\n"},
		{"UnknownKey", "locale: fr\nextra: 1\npatterns:\n  height: [hauteur]\n"},
		{"NotYAML", "locale: [fr\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestRulesIsCopy(t *testing.T) {
	table := Default()
	rules := table.Rules()
	rules[0].Patterns[0] = "mutated"
	assert.NotEqual(t, "mutated", table.Patterns(Volume)[0])
	assert.Equal(t, Volume, rules[0].Field)
}
