// Package search evaluates search criteria over index entries.
//
// Filter is the reference evaluator: a pure predicate applied to every entry.
// Index answers the same criteria from roaring bitmap posting lists for the
// type, floor and material facets and applies the remaining clauses only to
// the surviving candidates. Both return identical results.
package search

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/bimindex/model"
)

// ErrUnknownOperator is returned by Validate for an unsupported operator.
var ErrUnknownOperator = errors.New("search: unknown operator")

// Operator is a property filter comparison.
type Operator string

const (
	// OpEquals matches values equal to the filter value, ignoring case.
	OpEquals Operator = "equals"
	// OpContains matches values containing the filter value, ignoring case.
	OpContains Operator = "contains"
	// OpGreaterThan matches numeric values greater than the filter value.
	OpGreaterThan Operator = "gt"
	// OpLessThan matches numeric values less than the filter value.
	OpLessThan Operator = "lt"
)

// PropFilter matches entries with a searchable property whose name contains
// Property and whose value satisfies Operator against Value.
type PropFilter struct {
	Property string   `json:"property"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Criteria combines clauses with AND. Set clauses match any of their values.
// Empty clauses are ignored.
type Criteria struct {
	Types       []string     `json:"types,omitempty"`
	Floors      []string     `json:"floors,omitempty"`
	Materials   []string     `json:"materials,omitempty"`
	TextQuery   string       `json:"textQuery,omitempty"`
	PropFilters []PropFilter `json:"propFilters,omitempty"`
}

// Validate reports the first unsupported operator.
func (c *Criteria) Validate() error {
	for _, f := range c.PropFilters {
		switch f.Operator {
		case OpEquals, OpContains, OpGreaterThan, OpLessThan:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownOperator, f.Operator)
		}
	}
	return nil
}

// IsEmpty reports whether c matches every entry.
func (c *Criteria) IsEmpty() bool {
	return len(c.Types) == 0 && len(c.Floors) == 0 && len(c.Materials) == 0 &&
		strings.TrimSpace(c.TextQuery) == "" && len(c.PropFilters) == 0
}

// Filter returns the entries matching c, in input order.
func Filter(entries []model.IndexEntry, c Criteria) []model.IndexEntry {
	m := newMatcher(c)
	out := make([]model.IndexEntry, 0)
	for i := range entries {
		if m.sets(&entries[i]) && m.rest(&entries[i]) {
			out = append(out, entries[i])
		}
	}
	return out
}

// Matches reports whether e satisfies c.
func Matches(e *model.IndexEntry, c Criteria) bool {
	m := newMatcher(c)
	return m.sets(e) && m.rest(e)
}

// matcher is a Criteria with its case-folded strings precomputed.
type matcher struct {
	c       Criteria
	query   string
	filters []PropFilter
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{
		c:       c,
		query:   strings.ToLower(strings.TrimSpace(c.TextQuery)),
		filters: make([]PropFilter, len(c.PropFilters)),
	}
	for i, f := range c.PropFilters {
		m.filters[i] = PropFilter{
			Property: strings.ToLower(f.Property),
			Operator: f.Operator,
			Value:    f.Value,
		}
	}
	return m
}

// sets evaluates the type, floor and material clauses.
func (m *matcher) sets(e *model.IndexEntry) bool {
	return in(m.c.Types, e.Type) && in(m.c.Floors, e.Floor) && in(m.c.Materials, e.Material)
}

func in(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

// rest evaluates the text query and property filters.
func (m *matcher) rest(e *model.IndexEntry) bool {
	if m.query != "" && !m.text(e) {
		return false
	}
	for _, f := range m.filters {
		if !matchProp(e.SearchableProps, f) {
			return false
		}
	}
	return true
}

func (m *matcher) text(e *model.IndexEntry) bool {
	for _, s := range [...]string{e.Name, e.Type, e.Floor, e.Material} {
		if strings.Contains(strings.ToLower(s), m.query) {
			return true
		}
	}
	for _, p := range e.SearchableProps {
		if strings.Contains(strings.ToLower(p), m.query) {
			return true
		}
	}
	return false
}

// matchProp reports whether any "name=value" pair satisfies f.
// f.Property must be lower-cased.
func matchProp(props []string, f PropFilter) bool {
	for _, p := range props {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(name), f.Property) {
			continue
		}
		if compare(value, f.Operator, f.Value) {
			return true
		}
	}
	return false
}

func compare(value string, op Operator, want string) bool {
	switch op {
	case OpEquals:
		return strings.EqualFold(value, want)
	case OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(want))
	case OpGreaterThan, OpLessThan:
		a, ok := number(value)
		if !ok {
			return false
		}
		b, ok := number(want)
		if !ok {
			return false
		}
		if op == OpGreaterThan {
			return a > b
		}
		return a < b
	default:
		return false
	}
}

func number(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
