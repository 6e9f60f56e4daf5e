package keyparam

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnknownField is returned when a pattern table names a field that does not exist.
var ErrUnknownField = errors.New("keyparam: unknown field")

// Rule binds a field to its normalized name patterns.
type Rule struct {
	Field    Field
	Patterns []string
}

// Table is an ordered set of rules, one per field.
//
// A Table is not safe for concurrent modification; share it read-only once built.
type Table struct {
	rules   []Rule
	locales []string
}

// Default returns the built-in table with English, German and Russian synonyms.
func Default() *Table {
	return &Table{
		rules: []Rule{
			{Volume, []string{"netvolume", "grossvolume", "volume", "volumen", "rauminhalt", "объем", "объём"}},
			{Area, []string{
				"netarea", "grossarea", "netsidearea", "grosssidearea", "crosssectionarea",
				"outersurfacearea", "totalsurfacearea", "netsurfacearea", "area",
				"fläche", "flaeche", "площадь",
			}},
			{Height, []string{"height", "overallheight", "nominalheight", "höhe", "hoehe", "высота"}},
			{Length, []string{"length", "overalllength", "nominallength", "span", "länge", "laenge", "длина"}},
			{Width, []string{"width", "overallwidth", "nominalwidth", "breite", "ширина"}},
			{Perimeter, []string{"perimeter", "grossperimeter", "netperimeter", "umfang", "периметр"}},
			{Weight, []string{"weight", "grossweight", "netweight", "gewicht", "масса", "вес"}},
			{ConcreteClass, []string{
				"concretestrength", "concreteclass", "concretegrade", "classofconcrete", "strengthclass",
				"betonklasse", "betongüte", "festigkeitsklasse",
				"классбетона", "маркабетона",
			}},
		},
		locales: []string{"en", "de", "ru"},
	}
}

// Rules returns a copy of the rules in extraction order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = Rule{Field: r.Field, Patterns: slices.Clone(r.Patterns)}
	}
	return out
}

// Patterns returns the patterns of a field.
func (t *Table) Patterns(f Field) []string {
	for _, r := range t.rules {
		if r.Field == f {
			return slices.Clone(r.Patterns)
		}
	}
	return nil
}

// Locales returns the locales merged into the table.
func (t *Table) Locales() []string {
	return slices.Clone(t.locales)
}

// Extend appends patterns to existing fields. Patterns are normalized and
// duplicates are dropped. Field order is never changed.
func (t *Table) Extend(patterns map[Field][]string) error {
	for f := range patterns {
		if !f.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}

	for i := range t.rules {
		r := &t.rules[i]
		for _, p := range patterns[r.Field] {
			n := Normalize(p)
			if n == "" || slices.Contains(r.Patterns, n) {
				continue
			}
			r.Patterns = append(r.Patterns, n)
		}
	}
	return nil
}

// LocalePack is the YAML document merged by Load.
//
//	locale: fr
//	patterns:
//	  volume: [volume net, volume brut]
//	  height: [hauteur]
type LocalePack struct {
	Locale   string             `yaml:"locale" validate:"required"`
	Patterns map[Field][]string `yaml:"patterns" validate:"required,min=1,dive,keys,oneof=volume area height length width perimeter weight concreteClass,endkeys,min=1,dive,required"`
}

var packValidate = validator.New()

// Load decodes a locale pack from r, validates it and merges it into the table.
func (t *Table) Load(r io.Reader) error {
	var pack LocalePack

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pack); err != nil {
		return fmt.Errorf("keyparam: decode locale pack: %w", err)
	}

	if err := packValidate.Struct(&pack); err != nil {
		return fmt.Errorf("keyparam: invalid locale pack: %w", err)
	}

	if err := t.Extend(pack.Patterns); err != nil {
		return err
	}
	if !slices.Contains(t.locales, pack.Locale) {
		t.locales = append(t.locales, pack.Locale)
	}
	return nil
}

// LoadTable returns the default table extended with the locale pack read from r.
func LoadTable(r io.Reader) (*Table, error) {
	t := Default()
	if err := t.Load(r); err != nil {
		return nil, err
	}
	return t, nil
}
