// Package pipeline composes the conversion stages: extract, clean, merge,
// derive, normalise interactions, write tables and optionally publish them.
package pipeline

import (
	"context"
	"time"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/infrastructure/drugbank"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/drugflat/internal/infrastructure/storage/minio"
	"github.com/turtacn/drugflat/internal/infrastructure/tabular"
	"github.com/turtacn/drugflat/internal/intelligence/interaction"
	"github.com/turtacn/drugflat/internal/intelligence/toxicity"
	"github.com/turtacn/drugflat/pkg/errors"
	"github.com/turtacn/drugflat/pkg/types/common"
)

// Stage names used in logs and metrics.
const (
	StageExtract  = "extract"
	StageClean    = "clean"
	StageMerge    = "merge"
	StageEnrich   = "enrich"
	StageInteract = "interactions"
	StageWrite    = "write"
	StagePublish  = "publish"
	StageTextfile = "metrics_textfile"
)

const defaultListSep = "|"

// Publisher uploads written files for one run.
type Publisher interface {
	Upload(ctx context.Context, run string, files []string) ([]minio.UploadResult, error)
}

// Options configures one run.
type Options struct {
	InputPath     string
	OutputDir     string
	ListSeparator string
	Namespace     string
	ProgressEvery int
	Workers       int
	WriteManifest bool

	// Timeout bounds the whole run; zero means no limit.
	Timeout         time.Duration
	// MetricsTextfile, when set, receives the collector's metrics after the run.
	MetricsTextfile string
}

// Deps are the collaborators of a Pipeline. Every field is optional.
type Deps struct {
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Publisher Publisher
	Extractor *toxicity.Extractor
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID      common.RunID
	Tables     []tabular.TableResult
	Manifest   string
	Clean      CleanReport
	References ReferenceReport
	Merge      MergeReport
	Templates  int
	Uploads    []minio.UploadResult
	Duration   time.Duration
}

// Pipeline runs one conversion.
type Pipeline struct {
	opts      Options
	logger    logging.Logger
	collector prometheus.MetricsCollector
	metrics   *prometheus.PipelineMetrics
	publisher Publisher
	extractor *toxicity.Extractor
}

// New creates a Pipeline.
func New(opts Options, deps Deps) *Pipeline {
	if opts.ListSeparator == "" {
		opts.ListSeparator = defaultListSep
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	metrics := prometheus.NewNopPipelineMetrics()
	if deps.Collector != nil {
		metrics = prometheus.NewPipelineMetrics(deps.Collector)
	}
	return &Pipeline{
		opts:      opts,
		logger:    logger.Named("pipeline"),
		collector: deps.Collector,
		metrics:   metrics,
		publisher: deps.Publisher,
		extractor: deps.Extractor,
	}
}

// Run executes every stage in order. Nothing is written when extraction or
// the row derivations fail.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	sum := &Summary{RunID: common.NewRunID()}
	log := p.logger.With(logging.String("run_id", sum.RunID.Short()))
	p.metrics.RunInfo.WithLabelValues(string(sum.RunID), drug.SchemaVersion).Set(1)
	log.Info("conversion started", logging.String("input", p.opts.InputPath), logging.String("output", p.opts.OutputDir))

	var ds *drug.Dataset
	err := p.stage(StageExtract, func() error {
		reader := drugbank.NewReader(drugbank.ReaderOptions{
			Namespace:     p.opts.Namespace,
			ListSeparator: p.opts.ListSeparator,
			ProgressEvery: p.opts.ProgressEvery,
		}, log.Named(StageExtract))
		timer := prometheus.NewTimer(p.metrics.ExtractDuration.WithLabelValues())
		var err error
		ds, err = reader.ReadFile(ctx, p.opts.InputPath)
		timer.ObserveDuration()
		if err != nil {
			return err
		}
		p.metrics.EntitiesExtracted.WithLabelValues().Add(float64(len(ds.Records)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	cleaner := NewCleaner(log.Named(StageClean), p.metrics)
	_ = p.stage(StageClean, func() error {
		ds, sum.Clean = cleaner.Clean(ds)
		sum.References = cleaner.CheckReferences(ds)
		return nil
	})

	var rows []EnrichedRecord
	_ = p.stage(StageMerge, func() error {
		rows, sum.Merge = NewMerger(p.opts.ListSeparator, log.Named(StageMerge), p.metrics).Merge(ds)
		return nil
	})

	err = p.stage(StageEnrich, func() error {
		return NewEnricher(p.opts.Workers, p.extractor, log.Named(StageEnrich), p.metrics).Enrich(ctx, rows)
	})
	if err != nil {
		return nil, err
	}

	var names []NameRow
	_ = p.stage(StageInteract, func() error {
		index := nameIndex(rows)
		names = nameRows(rows, index)
		var book *interaction.Codebook
		ds.Interactions, book = interaction.NewNormalizer(index).Normalize(ds.Interactions)
		sum.Templates = book.Len()
		p.metrics.TemplateCodes.WithLabelValues().Set(float64(book.Len()))
		log.Info("interaction templates assigned",
			logging.Int("interactions", len(ds.Interactions)),
			logging.Int("templates", book.Len()))
		return nil
	})

	err = p.stage(StageWrite, func() error {
		return p.writeTables(ctx, sum, log, rows, names, ds)
	})
	if err != nil {
		return sum, err
	}

	if p.publisher != nil {
		err = p.stage(StagePublish, func() error {
			files := make([]string, 0, len(sum.Tables)+1)
			for _, t := range sum.Tables {
				files = append(files, t.Path)
			}
			if sum.Manifest != "" {
				files = append(files, sum.Manifest)
			}
			uploads, err := p.publisher.Upload(ctx, sum.RunID.Short(), files)
			for _, u := range uploads {
				prometheus.RecordUpload(p.metrics, u.Size, nil)
			}
			if err != nil {
				prometheus.RecordUpload(p.metrics, 0, err)
			}
			sum.Uploads = uploads
			return err
		})
		if err != nil {
			return sum, err
		}
	}

	sum.Duration = time.Since(start)
	if p.collector != nil && p.opts.MetricsTextfile != "" {
		err = p.stage(StageTextfile, func() error {
			return p.collector.WriteTextfile(p.opts.MetricsTextfile)
		})
		if err != nil {
			return sum, err
		}
	}

	log.Info("conversion finished",
		logging.Int("drugs", len(rows)),
		logging.Int("tables", len(sum.Tables)),
		logging.Duration("duration", sum.Duration))
	return sum, nil
}

// stage times fn and records failures. Errors without an application code
// are wrapped as PIPE_001.
func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	prometheus.RecordStage(p.metrics, name, time.Since(start))
	if err == nil {
		return nil
	}
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		err = errors.Wrap(err, errors.ErrCodePipelineStageFailed, "stage failed").WithDetail(name)
		code = errors.ErrCodePipelineStageFailed
	}
	prometheus.RecordStageError(p.metrics, name, string(code))
	p.logger.Error("stage failed", logging.String("stage", name), logging.Err(err))
	return err
}

func (p *Pipeline) writeTables(ctx context.Context, sum *Summary, log logging.Logger, rows []EnrichedRecord, names []NameRow, ds *drug.Dataset) error {
	w, err := tabular.NewWriter(p.opts.OutputDir, log.Named(StageWrite))
	if err != nil {
		return err
	}

	tables := []struct {
		schema drug.TableSchema
		rows   tabular.RowSource
	}{
		{DrugsSchema(), EnrichedRows(rows)},
		{drug.NewTableSchema(drug.TableCategories, drug.CategoryColumns), tabular.Slice[drug.CategoryLink](ds.Categories)},
		{drug.NewTableSchema(drug.TablePathways, drug.PathwayColumns), tabular.Slice[drug.PathwayLink](ds.Pathways)},
		{drug.NewTableSchema(drug.TableProperties, drug.PropertyColumns), tabular.Slice[drug.PropertyObservation](ds.Properties)},
		{drug.NewTableSchema(drug.TableInteractions, drug.InteractionColumns), tabular.Slice[drug.Interaction](ds.Interactions)},
		{drug.NewTableSchema(drug.TableNames, drug.NameColumns), tabular.Slice[NameRow](names)},
	}

	manifest := tabular.NewManifest(nil)
	manifest.RunID = string(sum.RunID)
	manifest.GeneratedAt = time.Now().UTC()
	manifest.Source = p.opts.InputPath

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCodeCanceled, "write canceled")
		}
		res, err := w.Write(t.schema, t.rows)
		if err != nil {
			return err
		}
		prometheus.RecordTableWrite(p.metrics, res.Name, res.Rows, res.Duration)
		sum.Tables = append(sum.Tables, res)
		manifest.AddResult(res)
	}

	if p.opts.WriteManifest {
		path, err := w.WriteManifest(manifest)
		if err != nil {
			return err
		}
		sum.Manifest = path
	}
	return nil
}

// ---------------------------------------------------------------------------
// Names
// ---------------------------------------------------------------------------

// NameRow is one line of the id -> name lookup table.
type NameRow struct {
	ID   string
	Name string
}

// Cells renders the row in drug.NameColumns order.
func (n NameRow) Cells() []string { return []string{n.ID, n.Name} }

func nameIndex(rows []EnrichedRecord) map[string]string {
	records := make([]drug.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].Record
	}
	return drug.NameIndex(records)
}

// nameRows lists every indexed id once, in merged row order.
func nameRows(rows []EnrichedRecord, index map[string]string) []NameRow {
	out := make([]NameRow, 0, len(index))
	seen := make(map[string]struct{}, len(index))
	for i := range rows {
		id := rows[i].ID()
		if _, dup := seen[id]; dup {
			continue
		}
		if name, ok := index[id]; ok {
			out = append(out, NameRow{ID: id, Name: name})
			seen[id] = struct{}{}
		}
	}
	return out
}
