package pipeline

import (
	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/domain/molecule"
	"github.com/turtacn/drugflat/internal/domain/property"
	"github.com/turtacn/drugflat/internal/intelligence/toxicity"
)

var drugsSchema = drug.NewTableSchema(drug.TableDrugs,
	drug.RecordColumns,
	drug.PathwaySummaryColumns,
	drug.PropertyKinds,
	property.MeasurementColumns,
	toxicity.Columns,
	molecule.StructureColumns,
)

// DrugsSchema is the wide primary table: base record, pathway summary,
// pivoted property kinds, parsed measurements, toxicity features and
// structure descriptors.
func DrugsSchema() drug.TableSchema {
	return drugsSchema
}

// Schemas lists every output table in write order.
func Schemas() []drug.TableSchema {
	return append([]drug.TableSchema{DrugsSchema()}, drug.ChildSchemas()...)
}
