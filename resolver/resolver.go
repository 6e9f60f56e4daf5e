// Package resolver turns one element record into a fully resolved
// model.ElementInfo: property and quantity sets, materials, classifications,
// key parameters and floor.
//
// The resolver reads relationships through a relindex.Lookup. Passing the
// pre-built *relindex.Index is the fast path; passing nil falls back to a
// relindex.Scanner that re-scans the store for every question. Both paths
// produce identical results.
package resolver

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/bimindex/keyparam"
	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/schema"
	"github.com/hupe1980/bimindex/store"
)

// Resolver resolves elements of one model. It is safe for concurrent use.
type Resolver struct {
	st      store.Store
	modelID string
	table   *keyparam.Table
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTable sets the key parameter pattern table.
func WithTable(t *keyparam.Table) Option {
	return func(r *Resolver) {
		if t != nil {
			r.table = t
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver for the given model.
func New(st store.Store, modelID string, opts ...Option) *Resolver {
	r := &Resolver{
		st:      st,
		modelID: modelID,
		table:   keyparam.Default(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ModelID returns the model this resolver reads.
func (r *Resolver) ModelID() string {
	return r.modelID
}

// Resolve returns the resolved element, or nil when the base record does not
// exist. Missing or malformed related records leave the affected value out.
// Only store-level failures are returned as errors.
func (r *Resolver) Resolve(id model.ID, lookup relindex.Lookup) (*model.ElementInfo, error) {
	rec, ok, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.logger.Debug("element not found", "model", r.modelID, "id", id)
		return nil, nil
	}

	if lookup == nil {
		lookup = relindex.NewScanner(r.st, r.modelID)
	}

	info := &model.ElementInfo{
		ID:              id,
		GlobalID:        rec.Text(schema.GlobalIDField),
		Type:            rec.Type,
		Name:            rec.Text(schema.NameField),
		Description:     rec.Text(schema.DescriptionField),
		PropertySets:    []model.PropertySet{},
		Materials:       []string{},
		Classifications: []string{},
	}

	if err := r.resolveDefinitions(info, lookup); err != nil {
		return nil, err
	}
	if err := r.resolveMaterials(info, lookup); err != nil {
		return nil, err
	}
	if err := r.resolveClassifications(info, lookup); err != nil {
		return nil, err
	}

	info.KeyParameters = r.table.Extract(info.PropertySets)

	floor, err := r.floor(id, lookup)
	if err != nil {
		return nil, err
	}
	info.KeyParameters.Floor = floor

	return info, nil
}

// get resolves a record, folding store.ErrNotFound into ok=false.
func (r *Resolver) get(id model.ID) (*record.Record, bool, error) {
	rec, err := r.st.Resolve(r.modelID, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("resolver: resolve %s: %w", id, err)
	}
	if rec == nil {
		return nil, false, nil
	}
	return rec, true, nil
}

func (r *Resolver) resolveDefinitions(info *model.ElementInfo, lookup relindex.Lookup) error {
	defs, err := lookup.PropertyDefinitions(info.ID)
	if err != nil {
		return err
	}

	// Named sets only; unnamed quantity sets are never duplicates.
	seen := make(map[string]struct{}, len(defs))
	for _, defID := range defs {
		def, ok, err := r.get(defID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		name := def.Text(schema.NameField)

		if members, ok := def.Refs(schema.HasPropertiesField); ok {
			set, err := r.propertySet(def, name, members)
			if err != nil {
				return err
			}
			info.PropertySets = append(info.PropertySets, set)
			if name != "" {
				seen[name] = struct{}{}
			}
			continue
		}

		if members, ok := def.Refs(schema.QuantitiesField); ok {
			if _, dup := seen[name]; dup {
				continue
			}
			set, err := r.quantitySet(def, name, members)
			if err != nil {
				return err
			}
			info.PropertySets = append(info.PropertySets, set)
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	return nil
}

func (r *Resolver) propertySet(def *record.Record, name string, members []model.ID) (model.PropertySet, error) {
	set := model.PropertySet{ID: def.ID, Name: name, Kind: model.SetProperties, Properties: []model.Property{}}
	for _, m := range members {
		prop, ok, err := r.get(m)
		if err != nil {
			return set, err
		}
		if !ok {
			continue
		}
		pname := prop.Text(schema.NameField)
		if pname == "" {
			continue
		}
		v := model.Null()
		if s, ok := prop.Scalar(schema.NominalValueField); ok {
			v = s.Unwrapped()
		}
		set.Properties = append(set.Properties, model.Property{Name: pname, Value: v})
	}
	return set, nil
}

func (r *Resolver) quantitySet(def *record.Record, name string, members []model.ID) (model.PropertySet, error) {
	set := model.PropertySet{ID: def.ID, Name: name, Kind: model.SetQuantities, Properties: []model.Property{}}
	for _, m := range members {
		q, ok, err := r.get(m)
		if err != nil {
			return set, err
		}
		if !ok {
			continue
		}
		qname := q.Text(schema.NameField)
		if qname == "" {
			continue
		}
		v := model.Null()
		for _, field := range schema.QuantityValueFields {
			if s, ok := q.Scalar(field); ok {
				v = s.Unwrapped()
				break
			}
		}
		set.Properties = append(set.Properties, model.Property{Name: qname, Value: v})
	}
	return set, nil
}

func (r *Resolver) resolveClassifications(info *model.ElementInfo, lookup relindex.Lookup) error {
	ids, err := lookup.Classifications(info.ID)
	if err != nil {
		return err
	}
	for _, cid := range ids {
		c, ok, err := r.get(cid)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if label := classificationLabel(c); label != "" {
			info.Classifications = append(info.Classifications, label)
		}
	}
	return nil
}

// classificationLabel renders "{code}: {name}", or the bare name when there is no code.
func classificationLabel(c *record.Record) string {
	code := c.Text(schema.IdentificationField)
	if code == "" {
		code = c.Text(schema.ItemReferenceField)
	}
	name := c.Text(schema.NameField)

	switch {
	case code != "" && name != "":
		return code + ": " + name
	case code != "":
		return code
	default:
		return name
	}
}

// floor returns the name (or long name) of the structure containing id.
func (r *Resolver) floor(id model.ID, lookup relindex.Lookup) (string, error) {
	sid, ok, err := lookup.Structure(id)
	if err != nil || !ok {
		return "", err
	}
	s, ok, err := r.get(sid)
	if err != nil || !ok {
		return "", err
	}
	if name := s.Text(schema.NameField); name != "" {
		return name, nil
	}
	return s.Text(schema.LongNameField), nil
}
