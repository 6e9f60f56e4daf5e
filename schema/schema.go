// Package schema names the IFC entity types and attributes that bimindex reads.
//
// Type tags and attribute names follow the IFC EXPRESS schema spelling
// (e.g. "IfcRelDefinesByProperties", "RelatingPropertyDefinition"). Stores are
// expected to expose records under these tags.
package schema

// Relationship entity types.
const (
	RelDefinesByProperties         = "IfcRelDefinesByProperties"
	RelAssociatesMaterial          = "IfcRelAssociatesMaterial"
	RelAssociatesClassification    = "IfcRelAssociatesClassification"
	RelContainedInSpatialStructure = "IfcRelContainedInSpatialStructure"
	RelAggregates                  = "IfcRelAggregates"
)

// Relationship and definition attributes.
const (
	RelatingPropertyDefinitionField = "RelatingPropertyDefinition"
	RelatingMaterialField           = "RelatingMaterial"
	RelatingClassificationField     = "RelatingClassification"
	RelatingStructureField          = "RelatingStructure"
	RelatingObjectField             = "RelatingObject"
	RelatedObjectsField             = "RelatedObjects"
	RelatedElementsField            = "RelatedElements"
	HasPropertiesField              = "HasProperties"
	QuantitiesField                 = "Quantities"
	NominalValueField               = "NominalValue"
	MaterialField                   = "Material"
	MaterialLayersField             = "MaterialLayers"
	MaterialsField                  = "Materials"
	MaterialConstituentsField       = "MaterialConstituents"
	ForLayerSetField                = "ForLayerSet"
	IdentificationField             = "Identification"
	ItemReferenceField              = "ItemReference"
	ElevationField                  = "Elevation"
)

// Common attributes of rooted entities.
const (
	GlobalIDField    = "GlobalId"
	NameField        = "Name"
	DescriptionField = "Description"
	LongNameField    = "LongName"
)

// Property and quantity entity types.
const (
	PropertySet         = "IfcPropertySet"
	PropertySingleValue = "IfcPropertySingleValue"
	ElementQuantity     = "IfcElementQuantity"
	QuantityLength      = "IfcQuantityLength"
	QuantityArea        = "IfcQuantityArea"
	QuantityVolume      = "IfcQuantityVolume"
	QuantityCount       = "IfcQuantityCount"
	QuantityWeight      = "IfcQuantityWeight"
	QuantityTime        = "IfcQuantityTime"
)

// QuantityValueFields lists the kind-tagged quantity value attributes in the
// order they are probed. Only the first populated one is used.
var QuantityValueFields = []string{
	"LengthValue",
	"AreaValue",
	"VolumeValue",
	"CountValue",
	"WeightValue",
	"TimeValue",
}

// Material entity types.
const (
	Material                = "IfcMaterial"
	MaterialLayer           = "IfcMaterialLayer"
	MaterialLayerSet        = "IfcMaterialLayerSet"
	MaterialLayerSetUsage   = "IfcMaterialLayerSetUsage"
	MaterialList            = "IfcMaterialList"
	MaterialConstituent     = "IfcMaterialConstituent"
	MaterialConstituentSet  = "IfcMaterialConstituentSet"
	ClassificationReference = "IfcClassificationReference"
)

// Spatial structure entity types.
const (
	Project        = "IfcProject"
	Site           = "IfcSite"
	Building       = "IfcBuilding"
	BuildingStorey = "IfcBuildingStorey"
	Space          = "IfcSpace"
)

// SpatialTypes lists the spatial structure types in hierarchy order.
var SpatialTypes = []string{Project, Site, Building, BuildingStorey, Space}

// IsSpatial reports whether typeTag names a spatial structure type.
func IsSpatial(typeTag string) bool {
	for _, t := range SpatialTypes {
		if t == typeTag {
			return true
		}
	}
	return false
}
