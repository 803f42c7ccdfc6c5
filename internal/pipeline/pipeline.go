// Package pipeline drives a full load: parse a source file, normalize its
// rows, extract facts and replace the store contents in one write.
package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mbsclarity/mbs-clarity/internal/extract"
	"github.com/mbsclarity/mbs-clarity/internal/ingest"
	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// ErrSourceUnreadable marks a load that failed before anything was written:
// the file could not be opened or parsed, or it held no usable rows.
var ErrSourceUnreadable = errors.New("source unreadable")

// Sink receives a complete batch. Implementations must apply it atomically.
type Sink interface {
	Replace(ctx context.Context, b *model.Batch) (model.LoadMeta, error)
}

// Summary reports the outcome of a successful load.
type Summary struct {
	LoadID      string        `json:"load_id"`
	SourcePath  string        `json:"source_path"`
	Format      ingest.Format `json:"format"`
	SHA256      string        `json:"sha256"`
	Records     int           `json:"records"`
	Relations   int           `json:"relations"`
	Constraints int           `json:"constraints"`
	SkippedRows int           `json:"skipped_rows"`
	Elapsed     time.Duration `json:"-"`
	ElapsedMS   int64         `json:"elapsed_ms"`
}

// Prepared is a parsed and extracted source that has not been written.
type Prepared struct {
	Batch    model.Batch
	Rejected []ingest.RowError
}

// Pipeline runs loads against one sink with one pattern library.
type Pipeline struct {
	sink Sink
	lib  *extract.Library
	log  *zap.Logger
}

// New returns a pipeline. A nil library means extract.Default and a nil
// logger discards output.
func New(sink Sink, lib *extract.Library, log *zap.Logger) *Pipeline {
	if lib == nil {
		lib = extract.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{sink: sink, lib: lib, log: log}
}

// Load replaces the sink contents with the facts derived from the file at
// path. Rejected rows are logged and skipped. Any failure to read or parse
// the file returns an error wrapping ErrSourceUnreadable and leaves the sink
// untouched.
func (p *Pipeline) Load(ctx context.Context, path string, format ingest.Format) (*Summary, error) {
	start := time.Now()
	log := p.log.With(zap.String("source", path), zap.String("format", string(format)))

	prep, err := p.Prepare(path, format)
	if err != nil {
		log.Error("load aborted", zap.Error(err))
		return nil, err
	}
	for _, rej := range prep.Rejected {
		log.Warn("row rejected",
			zap.Int("row", rej.Row),
			zap.String("item_num", rej.ItemNum),
			zap.String("reason", rej.Err.Error()))
	}
	log.Info("source parsed",
		zap.Int("records", len(prep.Batch.Records)),
		zap.Int("relations", len(prep.Batch.Relations)),
		zap.Int("constraints", len(prep.Batch.Constraints)),
		zap.Int("skipped_rows", len(prep.Rejected)),
		zap.Duration("elapsed", time.Since(start)))

	prep.Batch.Meta.ElapsedMS = time.Since(start).Milliseconds()
	meta, err := p.sink.Replace(ctx, &prep.Batch)
	if err != nil {
		log.Error("store write failed", zap.Error(err))
		return nil, fmt.Errorf("write store: %w", err)
	}

	elapsed := time.Since(start)
	log.Info("load complete", zap.String("load_id", meta.ID), zap.Duration("elapsed", elapsed))

	return &Summary{
		LoadID:      meta.ID,
		SourcePath:  meta.SourcePath,
		Format:      format,
		SHA256:      meta.SHA256,
		Records:     meta.Records,
		Relations:   meta.Relations,
		Constraints: meta.Constraints,
		SkippedRows: meta.SkippedRows,
		Elapsed:     elapsed,
		ElapsedMS:   elapsed.Milliseconds(),
	}, nil
}

// Prepare reads, normalizes and extracts the file at path without writing
// anything.
func (p *Pipeline) Prepare(path string, format ingest.Format) (*Prepared, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	rows, err := ingest.Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}

	recs, rejected := ingest.NormalizeAll(rows)
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s: no usable records in %d rows", ErrSourceUnreadable, path, len(rows))
	}

	sum := sha256.Sum256(data)
	prep := &Prepared{
		Batch: model.Batch{
			Records: recs,
			Meta: model.LoadMeta{
				SourcePath:  absPath(path),
				Format:      string(format),
				SHA256:      hex.EncodeToString(sum[:]),
				SkippedRows: len(rejected),
			},
		},
		Rejected: rejected,
	}
	for _, rec := range recs {
		rels, cons := p.lib.Extract(rec)
		if ce := p.log.Check(zap.DebugLevel, "item extracted"); ce != nil {
			ce.Write(zap.String("item_num", rec.ItemNum), zap.Int("relations", len(rels)), zap.Int("constraints", len(cons)))
		}
		prep.Batch.Relations = append(prep.Batch.Relations, rels...)
		prep.Batch.Constraints = append(prep.Batch.Constraints, cons...)
	}
	return prep, nil
}

// readSource reads the whole file; the handle is released before parsing.
func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// FormatFromPath infers the source format from the file extension.
func FormatFromPath(path string) (ingest.Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %s: no extension", path)
	}
	return ingest.ParseFormat(ext)
}
