package pipeline

import (
	"sort"
	"strings"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/prometheus"
)

// ---------------------------------------------------------------------------
// Pivot
// ---------------------------------------------------------------------------

// Pivot is the first-wins wide view of the property relation: id -> kind -> value.
type Pivot map[string]map[string]string

// PivotProperties reshapes observations into a Pivot. The first value seen for
// an (id, kind) pair wins. Observations with an empty id are skipped. Kinds
// without a wide column are still pivoted; the returned map counts them.
func PivotProperties(props []drug.PropertyObservation) (Pivot, map[string]int) {
	pivot := make(Pivot)
	unpivoted := make(map[string]int)
	for _, p := range props {
		if p.DrugID == "" {
			continue
		}
		if !drug.IsPivotedKind(p.Kind) {
			unpivoted[p.Kind]++
		}
		row, ok := pivot[p.DrugID]
		if !ok {
			row = make(map[string]string)
			pivot[p.DrugID] = row
		}
		if _, set := row[p.Kind]; !set {
			row[p.Kind] = p.Value
		}
	}
	return pivot, unpivoted
}

// ---------------------------------------------------------------------------
// Pathway summary
// ---------------------------------------------------------------------------

// SummarizePathways aggregates pathway rows per owning id. Enzyme cells are
// split on sep and on commas after removing spaces.
func SummarizePathways(pathways []drug.PathwayLink, sep string) map[string]drug.PathwaySummary {
	type acc struct {
		count      int
		categories map[string]struct{}
		enzymes    map[string]struct{}
	}
	byID := make(map[string]*acc)
	for _, p := range pathways {
		a, ok := byID[p.DrugID]
		if !ok {
			a = &acc{categories: map[string]struct{}{}, enzymes: map[string]struct{}{}}
			byID[p.DrugID] = a
		}
		a.count++
		if c := strings.TrimSpace(p.Category); c != "" {
			a.categories[c] = struct{}{}
		}
		cell := strings.ReplaceAll(p.Enzymes, " ", "")
		if sep != "" && sep != "," {
			cell = strings.ReplaceAll(cell, sep, ",")
		}
		for _, tok := range strings.Split(cell, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				a.enzymes[tok] = struct{}{}
			}
		}
	}

	out := make(map[string]drug.PathwaySummary, len(byID))
	for id, a := range byID {
		cats := make([]string, 0, len(a.categories))
		for c := range a.categories {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		out[id] = drug.PathwaySummary{
			Count:             a.count,
			Categories:        strings.Join(cats, ","),
			UniqueEnzymeCount: len(a.enzymes),
			HasPathwayInfo:    a.count > 0,
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Merger
// ---------------------------------------------------------------------------

// MergeReport summarises one merge.
type MergeReport struct {
	Rows          int
	MatchedRows   int
	CompleteRows  int
	UnpivotedKind map[string]int
}

// CompletePercent is the share of rows with every property column present.
func (r MergeReport) CompletePercent() float64 {
	if r.Rows == 0 {
		return 0
	}
	return float64(r.CompleteRows) * 100 / float64(r.Rows)
}

// Merger left-joins the property pivot and the pathway summary onto the
// cleaned primary relation.
type Merger struct {
	separator string
	logger    logging.Logger
	metrics   *prometheus.PipelineMetrics
}

// NewMerger creates a Merger. sep is the list separator used in enzyme cells.
func NewMerger(sep string, logger logging.Logger, metrics *prometheus.PipelineMetrics) *Merger {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopPipelineMetrics()
	}
	return &Merger{separator: sep, logger: logger, metrics: metrics}
}

// Merge returns exactly one EnrichedRecord per cleaned primary row, in input
// order. Rows without properties or pathways get empty property cells and a
// zero pathway summary.
func (m *Merger) Merge(ds *drug.Dataset) ([]EnrichedRecord, MergeReport) {
	pivot, unpivoted := PivotProperties(ds.Properties)
	summaries := SummarizePathways(ds.Pathways, m.separator)

	merged := make([]EnrichedRecord, len(ds.Records))
	report := MergeReport{UnpivotedKind: unpivoted}
	for i := range ds.Records {
		id := ds.Records[i].ID()
		e := EnrichedRecord{Record: ds.Records[i]}
		if props, ok := pivot[id]; ok && id != "" {
			e.Properties = props
			report.MatchedRows++
		}
		if id != "" {
			e.Pathways = summaries[id]
		}
		if e.complete() {
			report.CompleteRows++
		}
		merged[i] = e
	}
	report.Rows = len(merged)

	kinds := make([]string, 0, len(unpivoted))
	for k, n := range unpivoted {
		kinds = append(kinds, k)
		m.metrics.UnpivotedProperties.WithLabelValues(k).Add(float64(n))
	}
	sort.Strings(kinds)
	if len(kinds) > 0 {
		m.logger.Info("property kinds kept in long table only", logging.Strings("kinds", kinds))
	}

	m.metrics.CompleteRows.WithLabelValues().Set(float64(report.CompleteRows))
	m.logger.Info("properties merged",
		logging.Int("rows", report.Rows),
		logging.Int("with_properties", report.MatchedRows),
		logging.Int("complete", report.CompleteRows),
		logging.Float64("complete_pct", report.CompletePercent()))
	return merged, report
}
