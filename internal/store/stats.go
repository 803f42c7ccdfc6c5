package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string          `json:"db_path"`
	DBSizeBytes     int64           `json:"db_size_bytes"`
	Items           int             `json:"items"`
	Relations       int             `json:"relations"`
	Constraints     int             `json:"constraints"`
	RelationKinds   []KindCount     `json:"relation_kinds"`
	ConstraintKinds []KindCount     `json:"constraint_kinds"`
	LastLoad        *model.LoadMeta `json:"last_load,omitempty"`
}

// KindCount holds the number of facts of one kind.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// CategoryCount holds per-category item counts.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		table string
		dest  *int
	}{
		{"items", &st.Items},
		{"relations", &st.Relations},
		{"constraints", &st.Constraints},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dest); err != nil {
			return st, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	var err error
	st.RelationKinds, err = s.kindCounts(ctx, `SELECT relation_type, COUNT(*) AS cnt FROM relations GROUP BY relation_type ORDER BY cnt DESC, relation_type`)
	if err != nil {
		return st, err
	}
	st.ConstraintKinds, err = s.kindCounts(ctx, `SELECT constraint_type, COUNT(*) AS cnt FROM constraints GROUP BY constraint_type ORDER BY cnt DESC, constraint_type`)
	if err != nil {
		return st, err
	}

	last, err := s.LastLoad(ctx)
	switch {
	case err == nil:
		st.LastLoad = last
	case !errors.Is(err, ErrNotFound):
		return st, err
	}
	return st, nil
}

func (s *SQLiteStore) kindCounts(ctx context.Context, query string) ([]KindCount, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, err
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}

// Categories returns item counts per category. Items with no category are
// reported under an empty name.
func (s *SQLiteStore) Categories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(category, ''), COUNT(*) FROM items
		GROUP BY COALESCE(category, '')
		ORDER BY CAST(COALESCE(category, '') AS INTEGER), COALESCE(category, '')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LastLoad returns the metadata of the most recent load.
func (s *SQLiteStore) LastLoad(ctx context.Context) (*model.LoadMeta, error) {
	var m model.LoadMeta
	var loadedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT load_id, source_path, format, sha256, records, relations, constraints,
		       skipped_rows, elapsed_ms, loaded_at
		FROM load_meta ORDER BY rowid DESC LIMIT 1`).Scan(
		&m.ID, &m.SourcePath, &m.Format, &m.SHA256, &m.Records, &m.Relations,
		&m.Constraints, &m.SkippedRows, &m.ElapsedMS, &loadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load metadata: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	m.LoadedAt, _ = time.Parse(time.RFC3339, loadedAt)
	return &m, nil
}
