// Package drugbank streams a DrugBank XML export and flattens every top-level
// drug element into a primary record plus its child relations.
package drugbank

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/pkg/errors"
)

const (
	// DefaultNamespace is the XML namespace of DrugBank exports.
	DefaultNamespace = "http://www.drugbank.ca"

	rootElement   = "drugbank"
	entityElement = "drug"
)

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	Namespace     string
	ListSeparator string
	// ProgressEvery logs a debug line every N entities; 0 disables it.
	ProgressEvery int
}

// Reader decodes DrugBank exports one top-level entity at a time.
type Reader struct {
	opts   ReaderOptions
	logger logging.Logger
}

// NewReader creates a Reader. Empty options fall back to the DrugBank
// namespace and the "|" list separator.
func NewReader(opts ReaderOptions, logger logging.Logger) *Reader {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.ListSeparator == "" {
		opts.ListSeparator = "|"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reader{opts: opts, logger: logger}
}

// ReadFile opens path and reads the whole export into a Dataset.
func (r *Reader) ReadFile(ctx context.Context, path string) (*drug.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "open source document").WithDetail(path)
	}
	defer f.Close()
	return r.Read(ctx, bufio.NewReaderSize(f, 1<<20))
}

// Read collects every entity of src into a Dataset.
func (r *Reader) Read(ctx context.Context, src io.Reader) (*drug.Dataset, error) {
	ds := &drug.Dataset{}
	err := r.Each(ctx, src, func(e *Entity) error {
		ds.Records = append(ds.Records, e.Record)
		ds.Categories = append(ds.Categories, e.Categories...)
		ds.Pathways = append(ds.Pathways, e.Pathways...)
		ds.Properties = append(ds.Properties, e.Properties...)
		ds.Interactions = append(ds.Interactions, e.Interactions...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Each streams src and calls fn once per top-level drug element, in document
// order. Nested drug elements belong to their parent entity. A missing or
// foreign root element yields SRC_005; malformed XML yields SRC_004.
func (r *Reader) Each(ctx context.Context, src io.Reader, fn func(*Entity) error) error {
	dec := xml.NewDecoder(src)
	rootSeen := false
	count := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if !rootSeen {
				return errors.New(errors.ErrCodeDataSourceRootMissing, "source document has no root element")
			}
			return errors.New(errors.ErrCodeDataSourceParseError, "source document ended before the root element closed")
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDataSourceParseError, "malformed source document")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !rootSeen {
				if t.Name.Local != rootElement || t.Name.Space != r.opts.Namespace {
					return errors.Newf(errors.ErrCodeDataSourceRootMissing,
						"unexpected root element {%s}%s", t.Name.Space, t.Name.Local)
				}
				rootSeen = true
				continue
			}
			if t.Name.Local != entityElement {
				if err := dec.Skip(); err != nil {
					return errors.Wrap(err, errors.ErrCodeDataSourceParseError, "malformed source document")
				}
				continue
			}

			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrCodeCanceled, "extraction canceled")
			}
			var n node
			if err := dec.DecodeElement(&n, &t); err != nil {
				return errors.Wrap(err, errors.ErrCodeDataSourceParseError, "malformed drug element").
					WithDetail(positionDetail(dec))
			}
			e := extractEntity(&n, r.opts.ListSeparator)
			if err := fn(&e); err != nil {
				return err
			}
			count++
			if r.opts.ProgressEvery > 0 && count%r.opts.ProgressEvery == 0 {
				r.logger.Debug("extraction progress", logging.Int("entities", count))
			}

		case xml.EndElement:
			// Children are decoded or skipped whole, so the only end tag seen
			// here closes the root.
			r.logger.Debug("extraction finished", logging.Int("entities", count))
			return nil
		}
	}
}

func positionDetail(dec *xml.Decoder) string {
	line, col := dec.InputPos()
	return fmt.Sprintf("line %d, column %d", line, col)
}
