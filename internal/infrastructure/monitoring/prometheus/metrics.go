package prometheus

import (
	"time"
)

// PipelineMetrics holds the metrics recorded during one conversion run.
type PipelineMetrics struct {
	// Extraction
	EntitiesExtracted CounterVec
	ExtractDuration   HistogramVec

	// Tables
	RowsWritten        CounterVec
	RowsDropped        CounterVec
	OrphanRows         GaugeVec
	TableWriteDuration HistogramVec

	// Merge
	UnpivotedProperties CounterVec
	CompleteRows        GaugeVec

	// Derivations
	ParserResults   CounterVec
	ToxicitySignals CounterVec
	TemplateCodes   GaugeVec

	// Stages
	StageDuration HistogramVec
	StageErrors   CounterVec

	// Publishing
	ObjectsUploaded CounterVec
	BytesUploaded   CounterVec

	RunInfo GaugeVec
}

// Default buckets
var (
	DefaultStageDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 15, 60, 300, 900}
	DefaultWriteDurationBuckets = []float64{.001, .01, .05, .1, .5, 1, 5, 30}
)

// NewPipelineMetrics registers all pipeline metrics on collector.
func NewPipelineMetrics(collector MetricsCollector) *PipelineMetrics {
	m := &PipelineMetrics{}

	m.EntitiesExtracted = collector.RegisterCounter("entities_extracted_total", "Top-level drug entities decoded from the source document")
	m.ExtractDuration = collector.RegisterHistogram("extract_duration_seconds", "Source document extraction duration", DefaultStageDurationBuckets)

	m.RowsWritten = collector.RegisterCounter("rows_written_total", "Rows written per output table", "table")
	m.RowsDropped = collector.RegisterCounter("rows_dropped_total", "Rows removed by cleaning", "table", "reason")
	m.OrphanRows = collector.RegisterGauge("orphan_rows", "Child rows whose owning id is missing from the primary table", "table")
	m.TableWriteDuration = collector.RegisterHistogram("table_write_duration_seconds", "Per-table write duration", DefaultWriteDurationBuckets, "table")

	m.UnpivotedProperties = collector.RegisterCounter("unpivoted_properties_total", "Property observations whose kind has no wide column", "kind")
	m.CompleteRows = collector.RegisterGauge("complete_property_rows", "Merged rows with every property column present")

	m.ParserResults = collector.RegisterCounter("parser_results_total", "Numeric parser outcomes", "attribute", "outcome")
	m.ToxicitySignals = collector.RegisterCounter("toxicity_signals_total", "Drugs with a non-empty toxicity feature", "feature")
	m.TemplateCodes = collector.RegisterGauge("interaction_templates", "Distinct interaction templates")

	m.StageDuration = collector.RegisterHistogram("stage_duration_seconds", "Pipeline stage duration", DefaultStageDurationBuckets, "stage")
	m.StageErrors = collector.RegisterCounter("stage_errors_total", "Pipeline stage failures", "stage", "code")

	m.ObjectsUploaded = collector.RegisterCounter("objects_uploaded_total", "Output objects published to the object store", "status")
	m.BytesUploaded = collector.RegisterCounter("bytes_uploaded_total", "Bytes published to the object store")

	m.RunInfo = collector.RegisterGauge("run_info", "Run metadata (always 1)", "run_id", "schema_version")

	return m
}

// NewNopPipelineMetrics returns metrics that record nothing.
func NewNopPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		EntitiesExtracted:   noopCounterVec{},
		ExtractDuration:     noopHistogramVec{},
		RowsWritten:         noopCounterVec{},
		RowsDropped:         noopCounterVec{},
		OrphanRows:          noopGaugeVec{},
		TableWriteDuration:  noopHistogramVec{},
		UnpivotedProperties: noopCounterVec{},
		CompleteRows:        noopGaugeVec{},
		ParserResults:       noopCounterVec{},
		ToxicitySignals:     noopCounterVec{},
		TemplateCodes:       noopGaugeVec{},
		StageDuration:       noopHistogramVec{},
		StageErrors:         noopCounterVec{},
		ObjectsUploaded:     noopCounterVec{},
		BytesUploaded:       noopCounterVec{},
		RunInfo:             noopGaugeVec{},
	}
}

// Helpers

func RecordStage(metrics *PipelineMetrics, stage string, duration time.Duration) {
	metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordStageError(metrics *PipelineMetrics, stage, code string) {
	metrics.StageErrors.WithLabelValues(stage, code).Inc()
}

func RecordTableWrite(metrics *PipelineMetrics, table string, rows int, duration time.Duration) {
	metrics.RowsWritten.WithLabelValues(table).Add(float64(rows))
	metrics.TableWriteDuration.WithLabelValues(table).Observe(duration.Seconds())
}

func RecordDropped(metrics *PipelineMetrics, table, reason string, rows int) {
	if rows == 0 {
		return
	}
	metrics.RowsDropped.WithLabelValues(table, reason).Add(float64(rows))
}

func RecordParse(metrics *PipelineMetrics, attribute string, parsed bool) {
	outcome := "value"
	if !parsed {
		outcome = "null"
	}
	metrics.ParserResults.WithLabelValues(attribute, outcome).Inc()
}

func RecordUpload(metrics *PipelineMetrics, size int64, err error) {
	if err != nil {
		metrics.ObjectsUploaded.WithLabelValues("failure").Inc()
		return
	}
	metrics.ObjectsUploaded.WithLabelValues("success").Inc()
	metrics.BytesUploaded.WithLabelValues().Add(float64(size))
}
