// Package spatial builds the spatial decomposition tree of a model
// (project, site, building, storey, space) with per-node element counts.
package spatial

import (
	"fmt"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/schema"
	"github.com/hupe1980/bimindex/store"
)

// Node is one spatial structure element.
type Node struct {
	ID       model.ID `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	LongName string   `json:"longName,omitempty"`
	ParentID model.ID `json:"parentId,omitempty"`

	// Elevation is set for storeys that declare one.
	Elevation *float64 `json:"elevation,omitempty"`

	// ElementCount is the number of elements contained directly in this node.
	ElementCount int `json:"elementCount"`
	// TotalCount includes the elements of all descendants.
	TotalCount int `json:"totalCount"`

	Children []*Node `json:"children"`
}

// Label returns the name, or the long name when the name is empty.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.LongName
}

// Walk visits n and its descendants depth-first. Returning false skips the
// children of the visited node.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// BuildTree returns one tree per project of the model.
//
// Children are discovered through aggregation relationships and limited to
// spatial structure types. Element counts come from idx; when idx is nil a
// relationship index is built first. Missing records are skipped.
func BuildTree(st store.Store, modelID string, idx *relindex.Index) ([]*Node, error) {
	if idx == nil {
		var err error
		if idx, err = relindex.Build(st, modelID); err != nil {
			return nil, err
		}
	}

	children, err := aggregates(st, modelID)
	if err != nil {
		return nil, err
	}

	projects, err := st.IDsOfType(modelID, schema.Project)
	if err != nil {
		return nil, fmt.Errorf("spatial: list %s: %w", schema.Project, err)
	}

	b := &treeBuilder{
		st:       st,
		modelID:  modelID,
		idx:      idx,
		children: children,
		visited:  make(map[model.ID]struct{}),
	}

	roots := make([]*Node, 0, len(projects))
	for _, pid := range projects {
		n, err := b.node(pid, 0)
		if err != nil {
			return nil, err
		}
		if n != nil {
			roots = append(roots, n)
		}
	}
	return roots, nil
}

// aggregates maps each relating object to its related objects in record order.
func aggregates(st store.Store, modelID string) (map[model.ID][]model.ID, error) {
	ids, err := st.IDsOfType(modelID, schema.RelAggregates)
	if err != nil {
		return nil, fmt.Errorf("spatial: list %s: %w", schema.RelAggregates, err)
	}

	out := make(map[model.ID][]model.ID)
	for _, id := range ids {
		rec, err := st.Resolve(modelID, id)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("spatial: resolve %s: %w", id, err)
		}
		parent, ok := rec.Ref(schema.RelatingObjectField)
		if !ok {
			continue
		}
		related, ok := rec.Refs(schema.RelatedObjectsField)
		if !ok {
			continue
		}
		out[parent] = append(out[parent], related...)
	}
	return out, nil
}

type treeBuilder struct {
	st       store.Store
	modelID  string
	idx      *relindex.Index
	children map[model.ID][]model.ID
	visited  map[model.ID]struct{}
}

func (b *treeBuilder) node(id, parent model.ID) (*Node, error) {
	if _, ok := b.visited[id]; ok {
		return nil, nil
	}
	b.visited[id] = struct{}{}

	rec, err := b.st.Resolve(b.modelID, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("spatial: resolve %s: %w", id, err)
	}
	if !schema.IsSpatial(rec.Type) {
		return nil, nil
	}

	n := newNode(rec, parent)
	n.ElementCount = b.idx.ContainedCount(id)
	n.TotalCount = n.ElementCount

	for _, cid := range b.children[id] {
		c, err := b.node(cid, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}
		n.Children = append(n.Children, c)
		n.TotalCount += c.TotalCount
	}
	return n, nil
}

func newNode(rec *record.Record, parent model.ID) *Node {
	n := &Node{
		ID:       rec.ID,
		Type:     rec.Type,
		Name:     rec.Text(schema.NameField),
		LongName: rec.Text(schema.LongNameField),
		ParentID: parent,
		Children: []*Node{},
	}
	if rec.Type == schema.BuildingStorey {
		if v, ok := rec.Scalar(schema.ElevationField); ok {
			if f, ok := v.AsFloat64(); ok {
				n.Elevation = &f
			}
		}
	}
	return n
}
