package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// SearchParams holds parameters for searching items.
type SearchParams struct {
	Query    string
	Category string
	Limit    int
}

// SearchResult wraps an item with the matched description fragment.
type SearchResult struct {
	model.Record
	Snippet string `json:"snippet,omitempty"`
}

// Search finds items whose number or description match the query. The query
// is tried as an FTS5 expression first; if FTS rejects it the search falls
// back to a substring match.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	if strings.TrimSpace(p.Query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	results, err := s.searchFTS(ctx, p, limit)
	if err == nil {
		return results, nil
	}
	return s.searchLike(ctx, p, limit)
}

func (s *SQLiteStore) searchFTS(ctx context.Context, p SearchParams, limit int) ([]SearchResult, error) {
	where := []string{"items_fts MATCH ?"}
	args := []interface{}{p.Query}
	if p.Category != "" {
		where = append(where, "i.category = ?")
		args = append(args, p.Category)
	}

	query := fmt.Sprintf(`
		SELECT i.item_num, i.category, i.group_code, i.schedule_fee, i.description, i.derived_fee,
		       i.start_date, i.end_date, i.provider_type, i.emsn_description,
		       snippet(items_fts, 1, '[', ']', '...', 16)
		FROM items_fts
		JOIN items i ON i.rowid = items_fts.rowid
		WHERE %s
		ORDER BY items_fts.rank
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var res SearchResult
		var snippet sql.NullString
		r, err := scanItem(scanFunc(func(dest ...interface{}) error {
			return rows.Scan(append(dest, &snippet)...)
		}))
		if err != nil {
			return nil, err
		}
		res.Record = r
		res.Snippet = snippet.String
		results = append(results, res)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) searchLike(ctx context.Context, p SearchParams, limit int) ([]SearchResult, error) {
	like := "%" + p.Query + "%"
	where := []string{"(description LIKE ? OR item_num = ?)"}
	args := []interface{}{like, p.Query}
	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}

	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY %s LIMIT ?`,
		itemColumns, strings.Join(where, " AND "), itemOrder)
	args = append(args, limit)

	recs, err := s.queryItems(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(recs))
	for _, r := range recs {
		results = append(results, SearchResult{Record: r})
	}
	return results, nil
}

// scanFunc adapts a closure to scanner so extra columns can follow an item.
type scanFunc func(dest ...interface{}) error

func (f scanFunc) Scan(dest ...interface{}) error { return f(dest...) }
