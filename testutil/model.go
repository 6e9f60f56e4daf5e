package testutil

import (
	"fmt"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
	"github.com/hupe1980/bimindex/schema"
	"github.com/hupe1980/bimindex/store"
)

// ModelBuilder populates one model of an in-memory store.
// Identifiers are assigned sequentially starting at 1. Errors panic.
type ModelBuilder struct {
	st      *store.Memory
	modelID string
	next    model.ID
}

// NewModel opens a fresh model in a new in-memory store.
func NewModel(modelID string) *ModelBuilder {
	st := store.NewMemory()
	st.Open(modelID)
	return &ModelBuilder{st: st, modelID: modelID, next: 1}
}

// Store returns the underlying store.
func (b *ModelBuilder) Store() *store.Memory { return b.st }

// ModelID returns the model identifier.
func (b *ModelBuilder) ModelID() string { return b.modelID }

// NextID returns the identifier the next Put will assign.
func (b *ModelBuilder) NextID() model.ID { return b.next }

// Put stores a record with loosely typed fields and returns its ID.
func (b *ModelBuilder) Put(typeTag string, fields map[string]any) model.ID {
	id := b.next
	b.next++
	if err := b.st.Put(b.modelID, record.MustNew(id, typeTag, fields)); err != nil {
		panic(err)
	}
	return id
}

// Element stores a rooted element with a GlobalId and a label name.
func (b *ModelBuilder) Element(typeTag, name string) model.ID {
	fields := map[string]any{
		schema.GlobalIDField: fmt.Sprintf("GUID%018d", b.next),
	}
	if name != "" {
		fields[schema.NameField] = model.Typed("IfcLabel", model.String(name))
	}
	return b.Put(typeTag, fields)
}

// Storey stores a building storey.
func (b *ModelBuilder) Storey(name string) model.ID {
	return b.Element(schema.BuildingStorey, name)
}

// Prop is a property single value.
type Prop struct {
	Name  string
	Value any // nil leaves NominalValue unset
}

// P is shorthand for a Prop.
func P(name string, value any) Prop { return Prop{Name: name, Value: value} }

// PropertySet stores an IfcPropertySet with single-value members.
func (b *ModelBuilder) PropertySet(name string, props ...Prop) model.ID {
	members := make([]model.ID, 0, len(props))
	for _, p := range props {
		fields := map[string]any{schema.NameField: p.Name}
		if p.Value != nil {
			v, err := record.FromAny(p.Value)
			if err != nil {
				panic(err)
			}
			if v.IsScalar() && v.Type == "" {
				v = model.Typed(measureType(v), v)
			}
			fields[schema.NominalValueField] = v
		}
		members = append(members, b.Put(schema.PropertySingleValue, fields))
	}
	return b.Put(schema.PropertySet, map[string]any{
		schema.GlobalIDField:      fmt.Sprintf("GUID%018d", b.next),
		schema.NameField:          name,
		schema.HasPropertiesField: members,
	})
}

func measureType(v model.Value) string {
	switch v.Kind {
	case model.KindInt:
		return "IfcInteger"
	case model.KindFloat:
		return "IfcReal"
	case model.KindBool:
		return "IfcBoolean"
	default:
		return "IfcLabel"
	}
}

// Quantity is a kind-tagged quantity.
type Quantity struct {
	Name  string
	Type  string // e.g. schema.QuantityVolume
	Field string // e.g. "VolumeValue"
	Value any
}

// Volume returns a volume quantity.
func Volume(name string, v float64) Quantity {
	return Quantity{Name: name, Type: schema.QuantityVolume, Field: "VolumeValue", Value: v}
}

// Area returns an area quantity.
func Area(name string, v float64) Quantity {
	return Quantity{Name: name, Type: schema.QuantityArea, Field: "AreaValue", Value: v}
}

// Length returns a length quantity.
func Length(name string, v float64) Quantity {
	return Quantity{Name: name, Type: schema.QuantityLength, Field: "LengthValue", Value: v}
}

// Count returns a count quantity.
func Count(name string, v int) Quantity {
	return Quantity{Name: name, Type: schema.QuantityCount, Field: "CountValue", Value: v}
}

// QuantitySet stores an IfcElementQuantity.
func (b *ModelBuilder) QuantitySet(name string, qs ...Quantity) model.ID {
	members := make([]model.ID, 0, len(qs))
	for _, q := range qs {
		fields := map[string]any{schema.NameField: q.Name}
		if q.Value != nil {
			fields[q.Field] = q.Value
		}
		members = append(members, b.Put(q.Type, fields))
	}
	return b.Put(schema.ElementQuantity, map[string]any{
		schema.GlobalIDField:   fmt.Sprintf("GUID%018d", b.next),
		schema.NameField:       name,
		schema.QuantitiesField: members,
	})
}

// Material stores an IfcMaterial.
func (b *ModelBuilder) Material(name string) model.ID {
	return b.Put(schema.Material, map[string]any{schema.NameField: name})
}

// LayerSet stores an IfcMaterialLayerSet whose layers use the given materials.
func (b *ModelBuilder) LayerSet(name string, materials ...model.ID) model.ID {
	layers := make([]model.ID, 0, len(materials))
	for _, m := range materials {
		layers = append(layers, b.Put(schema.MaterialLayer, map[string]any{schema.MaterialField: m}))
	}
	return b.Put(schema.MaterialLayerSet, map[string]any{
		"LayerSetName":             name,
		schema.MaterialLayersField: layers,
	})
}

// Classification stores an IfcClassificationReference.
func (b *ModelBuilder) Classification(code, name string) model.ID {
	fields := map[string]any{}
	if code != "" {
		fields[schema.IdentificationField] = code
	}
	if name != "" {
		fields[schema.NameField] = name
	}
	return b.Put(schema.ClassificationReference, fields)
}

func (b *ModelBuilder) relate(typeTag, relatingField, relatedField string, relating model.ID, related []model.ID) model.ID {
	return b.Put(typeTag, map[string]any{
		schema.GlobalIDField: fmt.Sprintf("GUID%018d", b.next),
		relatingField:        relating,
		relatedField:         append([]model.ID(nil), related...),
	})
}

// DefineProperties attaches a property or quantity set to elements.
func (b *ModelBuilder) DefineProperties(set model.ID, elements ...model.ID) model.ID {
	return b.relate(schema.RelDefinesByProperties, schema.RelatingPropertyDefinitionField, schema.RelatedObjectsField, set, elements)
}

// AssociateMaterial attaches a material to elements.
func (b *ModelBuilder) AssociateMaterial(material model.ID, elements ...model.ID) model.ID {
	return b.relate(schema.RelAssociatesMaterial, schema.RelatingMaterialField, schema.RelatedObjectsField, material, elements)
}

// Classify attaches a classification reference to elements.
func (b *ModelBuilder) Classify(classification model.ID, elements ...model.ID) model.ID {
	return b.relate(schema.RelAssociatesClassification, schema.RelatingClassificationField, schema.RelatedObjectsField, classification, elements)
}

// Contain places elements in a spatial structure.
func (b *ModelBuilder) Contain(structure model.ID, elements ...model.ID) model.ID {
	return b.relate(schema.RelContainedInSpatialStructure, schema.RelatingStructureField, schema.RelatedElementsField, structure, elements)
}

// Aggregate decomposes parent into children (IfcRelAggregates).
func (b *ModelBuilder) Aggregate(parent model.ID, children ...model.ID) model.ID {
	return b.relate(schema.RelAggregates, schema.RelatingObjectField, schema.RelatedObjectsField, parent, children)
}

// Missing returns an identifier that is guaranteed not to resolve.
func (b *ModelBuilder) Missing() model.ID {
	id := b.next
	b.next++
	return id
}
