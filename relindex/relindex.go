// Package relindex builds the relationship index of a loaded model.
//
// The index is a set of four identifier adjacency maps derived in one pass over
// the relationship records of a store:
//
//   - property definitions (IfcRelDefinesByProperties)
//   - materials (IfcRelAssociatesMaterial)
//   - classifications (IfcRelAssociatesClassification)
//   - spatial containment (IfcRelContainedInSpatialStructure)
//
// Consumers look elements up in O(1) instead of scanning every relationship
// record per element. The Scanner type answers the same questions without an
// index by re-scanning the store on every call; both implement Lookup and give
// identical answers.
package relindex

import (
	"fmt"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
	"github.com/hupe1980/bimindex/schema"
	"github.com/hupe1980/bimindex/store"
)

// Kind identifies one of the indexed relationship kinds.
type Kind uint8

const (
	// KindProperties attaches property and quantity sets.
	KindProperties Kind = iota
	// KindMaterial attaches materials.
	KindMaterial
	// KindClassification attaches classification references.
	KindClassification
	// KindContainment places elements in a spatial structure.
	KindContainment
)

// String returns the relationship type tag of the kind.
func (k Kind) String() string {
	if int(k) < len(relations) {
		return relations[k].typeTag
	}
	return "unknown"
}

// Kinds lists all indexed relationship kinds.
var Kinds = []Kind{KindProperties, KindMaterial, KindClassification, KindContainment}

type relation struct {
	typeTag       string
	relatingField string
	relatedField  string
}

var relations = [...]relation{
	KindProperties:     {schema.RelDefinesByProperties, schema.RelatingPropertyDefinitionField, schema.RelatedObjectsField},
	KindMaterial:       {schema.RelAssociatesMaterial, schema.RelatingMaterialField, schema.RelatedObjectsField},
	KindClassification: {schema.RelAssociatesClassification, schema.RelatingClassificationField, schema.RelatedObjectsField},
	KindContainment:    {schema.RelContainedInSpatialStructure, schema.RelatingStructureField, schema.RelatedElementsField},
}

// Lookup answers relationship questions for a single element.
//
// Implementations return store-level failures as errors; a missing or
// malformed relationship is simply absent from the answer.
type Lookup interface {
	// PropertyDefinitions returns the property/quantity set IDs attached to id.
	PropertyDefinitions(id model.ID) ([]model.ID, error)
	// Materials returns the material IDs associated with id.
	Materials(id model.ID) ([]model.ID, error)
	// Classifications returns the classification reference IDs associated with id.
	Classifications(id model.ID) ([]model.ID, error)
	// Structure returns the spatial structure containing id.
	Structure(id model.ID) (model.ID, bool, error)
}

// decode extracts the relating ID and related IDs of a relationship record.
func decode(rec *record.Record, rel relation) (model.ID, []model.ID, bool) {
	relating, ok := rec.Ref(rel.relatingField)
	if !ok {
		return 0, nil, false
	}
	related, ok := rec.Refs(rel.relatedField)
	if !ok || len(related) == 0 {
		return 0, nil, false
	}
	return relating, related, true
}

// scanStats counts what a scan of one relationship kind saw.
type scanStats struct {
	records int
	skipped int
}

// scan enumerates the decodable records of one relationship kind in store order.
// Missing and malformed records are skipped; store-level failures abort.
func scan(st store.Store, modelID string, kind Kind, fn func(relating model.ID, related []model.ID)) (scanStats, error) {
	var stats scanStats
	rel := relations[kind]

	ids, err := st.IDsOfType(modelID, rel.typeTag)
	if err != nil {
		return stats, fmt.Errorf("list %s: %w", rel.typeTag, err)
	}

	for _, id := range ids {
		stats.records++

		rec, err := st.Resolve(modelID, id)
		if err != nil {
			if store.IsNotFound(err) {
				stats.skipped++
				continue
			}
			return stats, fmt.Errorf("resolve %s %s: %w", rel.typeTag, id, err)
		}

		relating, related, ok := decode(rec, rel)
		if !ok {
			stats.skipped++
			continue
		}
		fn(relating, related)
	}

	return stats, nil
}
