package resolver

import (
	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/schema"
)

func (r *Resolver) resolveMaterials(info *model.ElementInfo, lookup relindex.Lookup) error {
	ids, err := lookup.Materials(info.ID)
	if err != nil {
		return err
	}
	for _, mid := range ids {
		names, err := r.materialNames(mid, make(map[model.ID]struct{}))
		if err != nil {
			return err
		}
		info.Materials = append(info.Materials, names...)
	}
	return nil
}

// materialNames expands a material definition into the names of the
// materials it is made of. Aggregates (layer set usages, layer sets, lists,
// constituent sets) are followed to their leaf materials in declaration order.
func (r *Resolver) materialNames(id model.ID, visited map[model.ID]struct{}) ([]string, error) {
	if _, ok := visited[id]; ok {
		return nil, nil
	}
	visited[id] = struct{}{}

	rec, ok, err := r.get(id)
	if err != nil || !ok {
		return nil, err
	}

	var children []model.ID
	switch rec.Type {
	case schema.MaterialLayerSetUsage:
		if ls, ok := rec.Ref(schema.ForLayerSetField); ok {
			children = []model.ID{ls}
		}
	case schema.MaterialLayerSet:
		children, _ = rec.Refs(schema.MaterialLayersField)
	case schema.MaterialList:
		children, _ = rec.Refs(schema.MaterialsField)
	case schema.MaterialConstituentSet:
		children, _ = rec.Refs(schema.MaterialConstituentsField)
	case schema.MaterialLayer, schema.MaterialConstituent:
		if m, ok := rec.Ref(schema.MaterialField); ok {
			children = []model.ID{m}
		}
	default:
		if name := rec.Text(schema.NameField); name != "" {
			return []string{name}, nil
		}
		return nil, nil
	}

	var names []string
	for _, c := range children {
		sub, err := r.materialNames(c, visited)
		if err != nil {
			return nil, err
		}
		names = append(names, sub...)
	}
	return names, nil
}
