package pipeline

import (
	"strings"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/prometheus"
)

// ---------------------------------------------------------------------------
// Cleaning
// ---------------------------------------------------------------------------

// Drop reasons reported in metrics and logs.
const (
	ReasonBlankIdentity = "blank_identity"
	ReasonDuplicateID   = "duplicate_id"
	ReasonEmptyCategory = "empty_category"
)

// CleanReport counts what Clean removed.
type CleanReport struct {
	BlankIdentity   int
	DuplicateIDs    int
	EmptyCategories int
}

// Cleaner applies the per-relation row filters.
type Cleaner struct {
	logger  logging.Logger
	metrics *prometheus.PipelineMetrics
}

// NewCleaner creates a Cleaner. Nil arguments are replaced with no-ops.
func NewCleaner(logger logging.Logger, metrics *prometheus.PipelineMetrics) *Cleaner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopPipelineMetrics()
	}
	return &Cleaner{logger: logger, metrics: metrics}
}

// Clean returns a new dataset where:
//   - primary rows with type, created and primary id all empty are removed;
//   - a repeated primary id keeps only its first row;
//   - categories with an empty name are removed.
//
// Pathways, properties and interactions pass through unchanged.
func (c *Cleaner) Clean(ds *drug.Dataset) (*drug.Dataset, CleanReport) {
	var report CleanReport
	out := &drug.Dataset{
		Records:      make([]drug.Record, 0, len(ds.Records)),
		Pathways:     ds.Pathways,
		Properties:   ds.Properties,
		Interactions: ds.Interactions,
	}

	seen := make(map[string]struct{}, len(ds.Records))
	for _, r := range ds.Records {
		if r.IdentityBlank() {
			report.BlankIdentity++
			continue
		}
		if id := r.ID(); id != "" {
			if _, dup := seen[id]; dup {
				report.DuplicateIDs++
				c.logger.Warn("duplicate primary id dropped", logging.String("id", id), logging.String("name", r.Name.String()))
				continue
			}
			seen[id] = struct{}{}
		}
		out.Records = append(out.Records, r)
	}

	out.Categories = make([]drug.CategoryLink, 0, len(ds.Categories))
	for _, cat := range ds.Categories {
		if strings.TrimSpace(cat.Category) == "" {
			report.EmptyCategories++
			continue
		}
		out.Categories = append(out.Categories, cat)
	}

	prometheus.RecordDropped(c.metrics, drug.TableDrugs, ReasonBlankIdentity, report.BlankIdentity)
	prometheus.RecordDropped(c.metrics, drug.TableDrugs, ReasonDuplicateID, report.DuplicateIDs)
	prometheus.RecordDropped(c.metrics, drug.TableCategories, ReasonEmptyCategory, report.EmptyCategories)

	c.logger.Info("relations cleaned",
		logging.Int("drugs", len(out.Records)),
		logging.Int("blank_identity", report.BlankIdentity),
		logging.Int("duplicate_ids", report.DuplicateIDs),
		logging.Int("empty_categories", report.EmptyCategories))
	return out, report
}

// ReferenceReport maps child table name to the number of rows whose owning
// id is empty or missing from the primary relation.
type ReferenceReport map[string]int

// Total returns the number of orphan rows across tables.
func (r ReferenceReport) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

// CheckReferences counts child rows that do not resolve to a primary row.
// Rows are never removed.
func (c *Cleaner) CheckReferences(ds *drug.Dataset) ReferenceReport {
	ids := make(map[string]struct{}, len(ds.Records))
	for i := range ds.Records {
		if id := ds.Records[i].ID(); id != "" {
			ids[id] = struct{}{}
		}
	}
	orphan := func(id string) bool {
		if id == "" {
			return true
		}
		_, ok := ids[id]
		return !ok
	}

	report := ReferenceReport{}
	count := func(table string, n int, idAt func(int) string) {
		o := 0
		for i := 0; i < n; i++ {
			if orphan(idAt(i)) {
				o++
			}
		}
		report[table] = o
		c.metrics.OrphanRows.WithLabelValues(table).Set(float64(o))
		if o > 0 {
			c.logger.Warn("child rows without a primary record", logging.String("table", table), logging.Int("rows", o))
		}
	}
	count(drug.TableCategories, len(ds.Categories), func(i int) string { return ds.Categories[i].DrugID })
	count(drug.TablePathways, len(ds.Pathways), func(i int) string { return ds.Pathways[i].DrugID })
	count(drug.TableProperties, len(ds.Properties), func(i int) string { return ds.Properties[i].DrugID })
	count(drug.TableInteractions, len(ds.Interactions), func(i int) string { return ds.Interactions[i].DrugID })
	return report
}
