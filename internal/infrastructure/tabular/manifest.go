package tabular

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/pkg/errors"
)

// ManifestFile is the name of the schema manifest written next to the tables.
const ManifestFile = "schema.yaml"

// Manifest records the schema version and ordered columns of every table of
// one run.
type Manifest struct {
	SchemaVersion string          `yaml:"schema_version"`
	RunID         string          `yaml:"run_id,omitempty"`
	GeneratedAt   time.Time       `yaml:"generated_at,omitempty"`
	Source        string          `yaml:"source,omitempty"`
	Tables        []ManifestTable `yaml:"tables"`
}

// ManifestTable is one table entry of a Manifest.
type ManifestTable struct {
	Name    string   `yaml:"name"`
	File    string   `yaml:"file"`
	Rows    *int     `yaml:"rows,omitempty"`
	Columns []string `yaml:"columns"`
}

// NewManifest lists schemas without row counts.
func NewManifest(schemas []drug.TableSchema) *Manifest {
	m := &Manifest{SchemaVersion: drug.SchemaVersion}
	for _, s := range schemas {
		m.Tables = append(m.Tables, ManifestTable{Name: s.Name, File: s.File, Columns: s.Columns})
	}
	return m
}

// AddResult appends a written table with its row count.
func (m *Manifest) AddResult(r TableResult) {
	rows := r.Rows
	m.Tables = append(m.Tables, ManifestTable{Name: r.Name, File: r.File, Rows: &rows, Columns: r.Columns})
}

// Encode writes m as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode schema manifest")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode schema manifest")
	}
	return nil
}

// WriteManifest writes m to dir/schema.yaml and returns the path.
func (w *Writer) WriteManifest(m *Manifest) (string, error) {
	path := filepath.Join(w.dir, ManifestFile)
	tmp := path + tempSuffix
	f, err := os.Create(tmp)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeTableWriteFailed, "create schema manifest").WithDetail(tmp)
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := commit(f, tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "read schema manifest").WithDetail(path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode schema manifest").WithDetail(path)
	}
	return &m, nil
}
