package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/domain/property"
	"github.com/turtacn/drugflat/internal/intelligence/toxicity"
	"github.com/turtacn/drugflat/pkg/errors"
	"github.com/turtacn/drugflat/pkg/types/common"
)

func syntheticRows(n int) []EnrichedRecord {
	smiles := []string{"CCO", "c1ccccc1O", "CC(=O)Oc1ccccc1C(=O)O", ""}
	tox := []string{
		"The oral LD50 in rats is 1600 mg/kg.",
		"Not mutagenic in the Ames test. Hemorrhage was observed in dogs.",
		"",
	}
	rows := make([]EnrichedRecord, n)
	for i := range rows {
		r := record(fmt.Sprintf("DB%05d", i), fmt.Sprintf("Drug %d", i))
		r.Narrative[drug.Toxicity] = common.StrOrNull(tox[i%len(tox)])
		rows[i] = EnrichedRecord{
			Record: r,
			Properties: map[string]string{
				"SMILES":           smiles[i%len(smiles)],
				"Water Solubility": fmt.Sprintf("%d mg/L", i),
				"Melting Point":    fmt.Sprintf("%d-%d °C", i, i+2),
			},
		}
	}
	return rows
}

func TestEnricher_DerivedColumns(t *testing.T) {
	rows := syntheticRows(4)
	require.NoError(t, NewEnricher(1, nil, nil, nil).Enrich(context.Background(), rows))

	first := rows[0]
	assert.Equal(t, common.Float(0), first.Measurements.Get(property.KindWaterSolubility))
	assert.Equal(t, common.Float(1), first.Measurements.Get(property.KindMeltingPoint))
	assert.Equal(t, int64(59482618), first.Structure.Hash.Value)
	assert.Equal(t, []string{"rat"}, first.Toxicity.TestedAnimals)

	second := rows[1]
	assert.Equal(t, toxicity.GenotoxicityNonMutagenic, second.Toxicity.Genotoxicity)
	assert.Equal(t, 6, second.Structure.Aromatic)

	third := rows[2]
	assert.Equal(t, toxicity.EmptyBag(), third.Toxicity)

	last := rows[3]
	assert.False(t, last.Structure.Hash.Valid)
	assert.Zero(t, last.Structure.Length)
}

func TestEnricher_WorkerCountDoesNotChangeOutput(t *testing.T) {
	render := func(workers int) [][]string {
		rows := syntheticRows(97)
		require.NoError(t, NewEnricher(workers, nil, nil, nil).Enrich(context.Background(), rows))
		out := make([][]string, len(rows))
		for i := range rows {
			out[i] = rows[i].Cells()
		}
		return out
	}

	want := render(1)
	for _, workers := range []int{2, 4, 16, 200} {
		assert.Equal(t, want, render(workers), "workers=%d", workers)
	}
}

func TestEnricher_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewEnricher(2, nil, nil, nil).Enrich(ctx, syntheticRows(10))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCanceled))
}

func TestEnrichedRecord_CellsMatchSchema(t *testing.T) {
	rows := syntheticRows(1)
	require.NoError(t, NewEnricher(1, nil, nil, nil).Enrich(context.Background(), rows))
	assert.Len(t, rows[0].Cells(), len(DrugsSchema().Columns))

	var empty EnrichedRecord
	assert.Len(t, empty.Cells(), len(DrugsSchema().Columns))
}
