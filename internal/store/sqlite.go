package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		item_num         TEXT PRIMARY KEY,
		category         TEXT,
		group_code       TEXT,
		schedule_fee     REAL,
		description      TEXT,
		derived_fee      TEXT,
		start_date       TEXT,
		end_date         TEXT,
		provider_type    TEXT,
		emsn_description TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
	CREATE INDEX IF NOT EXISTS idx_items_group ON items(group_code);

	CREATE TABLE IF NOT EXISTS relations (
		id              INTEGER PRIMARY KEY,
		item_num        TEXT NOT NULL REFERENCES items(item_num),
		relation_type   TEXT NOT NULL,
		target_item_num TEXT,
		detail          TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_relations_item ON relations(item_num);
	CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target_item_num);

	CREATE TABLE IF NOT EXISTS constraints (
		id              INTEGER PRIMARY KEY,
		item_num        TEXT NOT NULL REFERENCES items(item_num),
		constraint_type TEXT NOT NULL,
		value           TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_constraints_item ON constraints(item_num);
	CREATE INDEX IF NOT EXISTS idx_constraints_type ON constraints(constraint_type);

	CREATE TABLE IF NOT EXISTS load_meta (
		load_id      TEXT PRIMARY KEY,
		source_path  TEXT NOT NULL,
		format       TEXT NOT NULL,
		sha256       TEXT NOT NULL,
		records      INTEGER NOT NULL,
		relations    INTEGER NOT NULL,
		constraints  INTEGER NOT NULL,
		skipped_rows INTEGER NOT NULL DEFAULT 0,
		elapsed_ms   INTEGER NOT NULL DEFAULT 0,
		loaded_at    TEXT NOT NULL
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
		item_num,
		description,
		content=items,
		content_rowid=rowid
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 triggers for automatic sync
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(rowid, item_num, description) VALUES (new.rowid, new.item_num, new.description);
		END`,
		`CREATE TRIGGER IF NOT EXISTS items_ad AFTER DELETE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, item_num, description) VALUES('delete', old.rowid, old.item_num, old.description);
		END`,
		`CREATE TRIGGER IF NOT EXISTS items_au AFTER UPDATE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, item_num, description) VALUES('delete', old.rowid, old.item_num, old.description);
			INSERT INTO items_fts(rowid, item_num, description) VALUES (new.rowid, new.item_num, new.description);
		END`,
	}
	for _, t := range triggers {
		if _, err := s.db.Exec(t); err != nil {
			return fmt.Errorf("create trigger: %w", err)
		}
	}
	return nil
}

// Replace implements Store. Nothing is changed unless every write succeeds.
func (s *SQLiteStore) Replace(ctx context.Context, b *model.Batch) (model.LoadMeta, error) {
	meta := b.Meta
	if meta.ID == "" {
		meta.ID = s.newID()
	}
	if meta.LoadedAt.IsZero() {
		meta.LoadedAt = time.Now().UTC()
	}
	meta.Records = len(b.Records)
	meta.Relations = len(b.Relations)
	meta.Constraints = len(b.Constraints)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return meta, err
	}
	defer tx.Rollback()

	for _, table := range []string{"constraints", "relations", "items"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return meta, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertItems(ctx, tx, b.Records); err != nil {
		return meta, err
	}
	if err := insertRelations(ctx, tx, b.Relations); err != nil {
		return meta, err
	}
	if err := insertConstraints(ctx, tx, b.Constraints); err != nil {
		return meta, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO load_meta (load_id, source_path, format, sha256, records, relations, constraints, skipped_rows, elapsed_ms, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.SourcePath, meta.Format, meta.SHA256, meta.Records, meta.Relations,
		meta.Constraints, meta.SkippedRows, meta.ElapsedMS, meta.LoadedAt.Format(time.RFC3339))
	if err != nil {
		return meta, fmt.Errorf("insert load meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return meta, err
	}
	return meta, nil
}

func insertItems(ctx context.Context, tx *sql.Tx, recs []model.Record) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (item_num, category, group_code, schedule_fee, description, derived_fee,
		                    start_date, end_date, provider_type, emsn_description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		_, err := stmt.ExecContext(ctx, r.ItemNum, nullable(r.Category), nullable(r.GroupCode), r.ScheduleFee,
			nullable(r.Description), nullable(r.DerivedFee), nullable(r.StartDate), nullable(r.EndDate),
			nullable(r.ProviderType), nullable(r.EMSNDescription))
		if err != nil {
			return fmt.Errorf("insert item %s: %w", r.ItemNum, err)
		}
	}
	return nil
}

func insertRelations(ctx context.Context, tx *sql.Tx, rels []model.Relation) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO relations (item_num, relation_type, target_item_num, detail) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rels {
		if _, err := stmt.ExecContext(ctx, r.ItemNum, string(r.Kind), r.Target, nullable(r.Detail)); err != nil {
			return fmt.Errorf("insert relation for %s: %w", r.ItemNum, err)
		}
	}
	return nil
}

func insertConstraints(ctx context.Context, tx *sql.Tx, cons []model.Constraint) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO constraints (item_num, constraint_type, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range cons {
		if _, err := stmt.ExecContext(ctx, c.ItemNum, string(c.Kind), c.Value); err != nil {
			return fmt.Errorf("insert constraint for %s: %w", c.ItemNum, err)
		}
	}
	return nil
}

const itemColumns = `item_num, category, group_code, schedule_fee, description, derived_fee,
	start_date, end_date, provider_type, emsn_description`

// itemOrder sorts numeric item numbers numerically and anything else after them.
const itemOrder = `CAST(item_num AS INTEGER), item_num`

func (s *SQLiteStore) Get(ctx context.Context, itemNum string) (*model.ItemAggregate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE item_num = ?`, itemNum)
	rec, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", itemNum, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	agg := &model.ItemAggregate{Item: rec, Relations: []model.Relation{}, Constraints: []model.Constraint{}}
	agg.Relations, err = s.queryRelations(ctx, `WHERE item_num = ?`, itemNum)
	if err != nil {
		return nil, err
	}
	agg.Constraints, err = s.queryConstraints(ctx, `WHERE item_num = ?`, itemNum)
	if err != nil {
		return nil, err
	}
	return agg, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Record, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}

	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	if p.Group != "" {
		where = append(where, "group_code = ?")
		args = append(args, p.Group)
	}

	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY %s LIMIT ? OFFSET ?`,
		itemColumns, strings.Join(where, " AND "), itemOrder)
	args = append(args, limit, p.Offset)

	return s.queryItems(ctx, query, args...)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...interface{}) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		r, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// queryRelations returns relations matching where, in insertion order.
func (s *SQLiteStore) queryRelations(ctx context.Context, where string, args ...interface{}) ([]model.Relation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_num, relation_type, target_item_num, detail FROM relations `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rels := []model.Relation{}
	for rows.Next() {
		var r model.Relation
		var target, detail sql.NullString
		if err := rows.Scan(&r.ItemNum, &r.Kind, &target, &detail); err != nil {
			return nil, err
		}
		if target.Valid {
			r.Target = model.StringPtr(target.String)
		}
		r.Detail = detail.String
		rels = append(rels, r)
	}
	return rels, rows.Err()
}

// queryConstraints returns constraints matching where, in insertion order.
func (s *SQLiteStore) queryConstraints(ctx context.Context, where string, args ...interface{}) ([]model.Constraint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_num, constraint_type, value FROM constraints `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cons := []model.Constraint{}
	for rows.Next() {
		var c model.Constraint
		if err := rows.Scan(&c.ItemNum, &c.Kind, &c.Value); err != nil {
			return nil, err
		}
		cons = append(cons, c)
	}
	return cons, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (model.Record, error) {
	var r model.Record
	var category, group, desc, derived, start, end, provider, emsn sql.NullString
	var fee sql.NullFloat64

	err := row.Scan(&r.ItemNum, &category, &group, &fee, &desc, &derived, &start, &end, &provider, &emsn)
	if err != nil {
		return r, err
	}

	r.Category = category.String
	r.GroupCode = group.String
	if fee.Valid {
		f := fee.Float64
		r.ScheduleFee = &f
	}
	r.Description = desc.String
	r.DerivedFee = derived.String
	r.StartDate = start.String
	r.EndDate = end.String
	r.ProviderType = provider.String
	r.EMSNDescription = emsn.String
	return r, nil
}

// nullable stores empty strings as NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
