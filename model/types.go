package model

import (
	"fmt"
)

// ID is a per-model element identifier.
// It is unique within one loaded model and never reused during that model's lifetime.
type ID uint64

// String returns a string representation of the ID.
func (id ID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// SetKind distinguishes property sets from quantity sets.
type SetKind uint8

const (
	// SetProperties is a property set (members carry a nominal value).
	SetProperties SetKind = iota
	// SetQuantities is a quantity set (members carry one kind-tagged quantity value).
	SetQuantities
)

// String returns the name of the set kind.
func (k SetKind) String() string {
	if k == SetQuantities {
		return "quantities"
	}
	return "properties"
}

// Property is a single named value. Value is a scalar or null.
type Property struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// PropertySet is a named group of properties.
type PropertySet struct {
	ID         ID         `json:"id"`
	Name       string     `json:"name"`
	Kind       SetKind    `json:"kind"`
	Properties []Property `json:"properties"`
}

// KeyParameters is the canonical subset of properties extracted by name heuristics.
// Empty strings mean the parameter was not found.
type KeyParameters struct {
	Volume        string `json:"volume,omitempty"`
	Area          string `json:"area,omitempty"`
	Height        string `json:"height,omitempty"`
	Length        string `json:"length,omitempty"`
	Width         string `json:"width,omitempty"`
	Perimeter     string `json:"perimeter,omitempty"`
	Weight        string `json:"weight,omitempty"`
	ConcreteClass string `json:"concreteClass,omitempty"`
	Floor         string `json:"floor,omitempty"`
}

// ElementInfo is a fully resolved element.
//
// It is built fresh per call and never cached by bimindex.
type ElementInfo struct {
	ID              ID            `json:"id"`
	GlobalID        string        `json:"globalId"`
	Type            string        `json:"type"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	KeyParameters   KeyParameters `json:"keyParameters"`
	PropertySets    []PropertySet `json:"propertySets"`
	Materials       []string      `json:"materials"`
	Classifications []string      `json:"classifications"`
}

// IndexEntry is the flattened per-element projection used for filtering,
// aggregation and search.
type IndexEntry struct {
	ID              ID       `json:"id"`
	Type            string   `json:"type"`
	Name            string   `json:"name"`
	Floor           string   `json:"floor"`
	Volume          float64  `json:"volume"`
	Area            float64  `json:"area"`
	Height          float64  `json:"height"`
	Length          float64  `json:"length"`
	Material        string   `json:"material"`
	SearchableProps []string `json:"searchableProps"`
}
