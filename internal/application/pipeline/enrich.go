package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/domain/molecule"
	"github.com/turtacn/drugflat/internal/domain/property"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/drugflat/internal/intelligence/toxicity"
	"github.com/turtacn/drugflat/pkg/errors"
	"github.com/turtacn/drugflat/pkg/types/common"
)

// KindSMILES is the property kind holding the structure string.
const KindSMILES = "SMILES"

// EnrichedRecord is one row of the drugs table: the cleaned record, its
// pivoted properties and pathway summary, and the derived columns.
type EnrichedRecord struct {
	drug.Record

	Properties   map[string]string
	Pathways     drug.PathwaySummary
	Measurements property.Measurements
	Toxicity     toxicity.Bag
	Structure    molecule.StructureFeatures
}

// complete reports whether every wide property column has a value.
func (e *EnrichedRecord) complete() bool {
	for _, k := range drug.PropertyKinds {
		if e.Properties[k] == "" {
			return false
		}
	}
	return true
}

// Cells renders the row in DrugsSchema order.
func (e *EnrichedRecord) Cells() []string {
	cells := make([]string, 0, len(DrugsSchema().Columns))
	cells = append(cells, e.Record.Cells()...)
	cells = append(cells, e.Pathways.Cells()...)
	for _, k := range drug.PropertyKinds {
		cells = append(cells, e.Properties[k])
	}
	cells = append(cells, e.Measurements.Cells()...)
	cells = append(cells, e.Toxicity.Cells()...)
	cells = append(cells, e.Structure.Cells()...)
	return cells
}

// EnrichedRows adapts merged rows to tabular.RowSource.
type EnrichedRows []EnrichedRecord

func (r EnrichedRows) Len() int             { return len(r) }
func (r EnrichedRows) Cells(i int) []string { return r[i].Cells() }

// ---------------------------------------------------------------------------
// Enricher
// ---------------------------------------------------------------------------

// Enricher fills the derived columns of merged rows. The three derivations
// read disjoint inputs and write disjoint fields, so rows are processed in
// contiguous chunks by up to Workers goroutines.
type Enricher struct {
	workers   int
	extractor *toxicity.Extractor
	logger    logging.Logger
	metrics   *prometheus.PipelineMetrics
}

// NewEnricher creates an Enricher. workers below 1 run sequentially.
func NewEnricher(workers int, extractor *toxicity.Extractor, logger logging.Logger, metrics *prometheus.PipelineMetrics) *Enricher {
	if workers < 1 {
		workers = 1
	}
	if extractor == nil {
		extractor = toxicity.NewExtractor(nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopPipelineMetrics()
	}
	return &Enricher{workers: workers, extractor: extractor, logger: logger, metrics: metrics}
}

// Enrich derives measurements, toxicity features and structure descriptors
// for every row in place.
func (en *Enricher) Enrich(ctx context.Context, rows []EnrichedRecord) error {
	if len(rows) == 0 {
		return nil
	}
	chunk := (len(rows) + en.workers - 1) / en.workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(en.workers)
	for start := 0; start < len(rows); start += chunk {
		part := rows[start:min(start+chunk, len(rows))]
		g.Go(func() error {
			for i := range part {
				if err := ctx.Err(); err != nil {
					return errors.Wrap(err, errors.ErrCodeCanceled, "enrichment canceled")
				}
				en.enrichOne(&part[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	en.logger.Info("derived columns computed",
		logging.Int("rows", len(rows)),
		logging.Int("workers", en.workers))
	return nil
}

func (en *Enricher) enrichOne(e *EnrichedRecord) {
	e.Measurements = property.Measure(e.Properties)
	for _, kind := range property.Kinds() {
		if _, ok := e.Properties[kind]; ok {
			prometheus.RecordParse(en.metrics, kind, e.Measurements.Get(kind).Valid)
		}
	}

	e.Toxicity = en.extractor.Extract(e.Narrative[drug.Toxicity].String())
	for _, signal := range e.Toxicity.Signals() {
		en.metrics.ToxicitySignals.WithLabelValues(signal).Inc()
	}

	e.Structure = molecule.EncodeStructure(common.StrOrNull(e.Properties[KindSMILES]))
}
