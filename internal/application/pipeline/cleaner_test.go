package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/pkg/types/common"
)

func record(id, name string) drug.Record {
	return drug.Record{
		Type:      common.Str("small molecule"),
		PrimaryID: common.StrOrNull(id),
		Name:      common.StrOrNull(name),
	}
}

func TestCleaner_Clean(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := NewCleaner(logging.NewLoggerFromCore(core), nil)

	ds := &drug.Dataset{
		Records: []drug.Record{
			record("DB1", "First"),
			{Name: common.Str("no identity")},
			record("DB1", "Second"),
			record("DB2", "Other"),
			{Created: common.Str("2005-06-13")},
		},
		Categories: []drug.CategoryLink{
			{DrugID: "DB1", Category: "Anticoagulants"},
			{DrugID: "DB1", Category: "   "},
			{DrugID: "DB2", Category: ""},
		},
		Pathways:     []drug.PathwayLink{{DrugID: "DB1"}},
		Properties:   []drug.PropertyObservation{{DrugID: "", Kind: "logP"}},
		Interactions: []drug.Interaction{{DrugID: "DB1", TargetID: "DB404"}},
	}

	out, report := c.Clean(ds)

	require.Len(t, out.Records, 3)
	assert.Equal(t, "First", out.Records[0].Name.Value)
	assert.Equal(t, "DB2", out.Records[1].ID())
	assert.Equal(t, "", out.Records[2].ID(), "created alone keeps the row")

	assert.Equal(t, CleanReport{BlankIdentity: 1, DuplicateIDs: 1, EmptyCategories: 2}, report)
	assert.Len(t, out.Categories, 1)
	assert.Equal(t, ds.Pathways, out.Pathways)
	assert.Equal(t, ds.Properties, out.Properties)
	assert.Equal(t, ds.Interactions, out.Interactions)

	require.Equal(t, 1, logs.FilterMessage("duplicate primary id dropped").Len())
	assert.Equal(t, "DB1", logs.All()[0].ContextMap()["id"])
}

func TestCleaner_CheckReferences(t *testing.T) {
	c := NewCleaner(nil, nil)
	ds := &drug.Dataset{
		Records:    []drug.Record{record("DB1", "A")},
		Categories: []drug.CategoryLink{{DrugID: "DB1", Category: "x"}, {DrugID: "DB9", Category: "y"}},
		Pathways:   []drug.PathwayLink{{DrugID: ""}},
		Properties: []drug.PropertyObservation{{DrugID: "DB1"}},
		Interactions: []drug.Interaction{
			{DrugID: "DB1", TargetID: "DB9"},
		},
	}

	report := c.CheckReferences(ds)

	assert.Equal(t, 1, report[drug.TableCategories])
	assert.Equal(t, 1, report[drug.TablePathways])
	assert.Equal(t, 0, report[drug.TableProperties])
	assert.Equal(t, 0, report[drug.TableInteractions], "target ids may be external")
	assert.Equal(t, 2, report.Total())
	assert.Len(t, ds.Categories, 2, "rows are not removed")
}
