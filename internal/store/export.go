package store

import (
	"context"
	"fmt"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// ExportAll returns every item joined with its facts, optionally filtered by
// category, in item number order.
func (s *SQLiteStore) ExportAll(ctx context.Context, category string) ([]model.ItemAggregate, error) {
	where, args := "", []interface{}{}
	if category != "" {
		where = "WHERE category = ?"
		args = append(args, category)
	}

	recs, err := s.queryItems(ctx, fmt.Sprintf(`SELECT %s FROM items %s ORDER BY %s`, itemColumns, where, itemOrder), args...)
	if err != nil {
		return nil, err
	}

	sub := ""
	if category != "" {
		sub = "WHERE item_num IN (SELECT item_num FROM items WHERE category = ?)"
	}
	rels, err := s.queryRelations(ctx, sub, args...)
	if err != nil {
		return nil, err
	}
	cons, err := s.queryConstraints(ctx, sub, args...)
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*model.ItemAggregate, len(recs))
	out := make([]model.ItemAggregate, len(recs))
	for i, r := range recs {
		out[i] = model.ItemAggregate{Item: r, Relations: []model.Relation{}, Constraints: []model.Constraint{}}
		byItem[r.ItemNum] = &out[i]
	}
	for _, r := range rels {
		if agg, ok := byItem[r.ItemNum]; ok {
			agg.Relations = append(agg.Relations, r)
		}
	}
	for _, c := range cons {
		if agg, ok := byItem[c.ItemNum]; ok {
			agg.Constraints = append(agg.Constraints, c)
		}
	}
	return out, nil
}
