// Package quantify groups index entries by type, floor or material and sums
// their counts, volumes and areas.
package quantify

import (
	"cmp"
	"slices"

	"github.com/hupe1980/bimindex/model"
)

// Dimension is a grouping dimension.
type Dimension string

const (
	DimensionType     Dimension = "type"
	DimensionFloor    Dimension = "floor"
	DimensionMaterial Dimension = "material"
)

// Fallback labels for entries with an empty dimension value.
const (
	UnknownType = "Unknown"
	NoFloor     = "No Floor"
	NoMaterial  = "No Material"
)

// Row is one group of a quantification.
type Row struct {
	GroupKey    string     `json:"groupKey"`
	Count       int        `json:"count"`
	TotalVolume float64    `json:"totalVolume"`
	TotalArea   float64    `json:"totalArea"`
	MemberIDs   []model.ID `json:"memberIds"`
}

// Key returns the effective group key of e for dim.
func Key(e *model.IndexEntry, dim Dimension) string {
	switch dim {
	case DimensionFloor:
		if e.Floor == "" {
			return NoFloor
		}
		return e.Floor
	case DimensionMaterial:
		if e.Material == "" {
			return NoMaterial
		}
		return e.Material
	default:
		if e.Type == "" {
			return UnknownType
		}
		return e.Type
	}
}

// Group aggregates entries by dim. Rows appear in first-seen order.
func Group(entries []model.IndexEntry, dim Dimension) []Row {
	rows := make([]Row, 0)
	pos := make(map[string]int)

	for i := range entries {
		e := &entries[i]
		key := Key(e, dim)

		j, ok := pos[key]
		if !ok {
			j = len(rows)
			pos[key] = j
			rows = append(rows, Row{GroupKey: key})
		}

		r := &rows[j]
		r.Count++
		r.TotalVolume += e.Volume
		r.TotalArea += e.Area
		r.MemberIDs = append(r.MemberIDs, e.ID)
	}

	return rows
}

// Totals sums all rows. GroupKey is empty and MemberIDs is nil.
func Totals(rows []Row) Row {
	var t Row
	for _, r := range rows {
		t.Count += r.Count
		t.TotalVolume += r.TotalVolume
		t.TotalArea += r.TotalArea
	}
	return t
}

// SortField is a sortable row column.
type SortField string

const (
	SortByGroup  SortField = "group"
	SortByCount  SortField = "count"
	SortByVolume SortField = "volume"
	SortByArea   SortField = "area"
)

// SortState is the current sort column and direction.
// The zero value sorts by count, ascending.
type SortState struct {
	Field SortField `json:"field"`
	Desc  bool      `json:"desc"`
}

// DefaultSort sorts by count, descending.
var DefaultSort = SortState{Field: SortByCount, Desc: true}

// Toggle returns the state after selecting field: the same field flips the
// direction, a new field starts descending.
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field {
		return SortState{Field: field, Desc: !s.Desc}
	}
	return SortState{Field: field, Desc: true}
}

// Sort sorts rows in place. Ties are broken by group key, ascending.
func (s SortState) Sort(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := s.compare(a, b)
		if s.Desc {
			c = -c
		}
		if c != 0 || s.Field == SortByGroup {
			return c
		}
		return cmp.Compare(a.GroupKey, b.GroupKey)
	})
}

func (s SortState) compare(a, b Row) int {
	switch s.Field {
	case SortByGroup:
		return cmp.Compare(a.GroupKey, b.GroupKey)
	case SortByVolume:
		return cmp.Compare(a.TotalVolume, b.TotalVolume)
	case SortByArea:
		return cmp.Compare(a.TotalArea, b.TotalArea)
	default:
		return cmp.Compare(a.Count, b.Count)
	}
}

// Sorted returns a sorted copy of rows.
func (s SortState) Sorted(rows []Row) []Row {
	out := slices.Clone(rows)
	s.Sort(out)
	return out
}
