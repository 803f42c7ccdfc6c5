package store

import (
	"context"
	"fmt"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Refs returns every relation that names itemNum as its target, optionally
// restricted to one relation kind.
func (s *SQLiteStore) Refs(ctx context.Context, itemNum string, kind model.RelationKind) ([]model.Relation, error) {
	if kind == "" {
		return s.queryRelations(ctx, `WHERE target_item_num = ?`, itemNum)
	}
	if !model.ValidRelationKinds[kind] {
		return nil, fmt.Errorf("invalid relation kind %q", kind)
	}
	return s.queryRelations(ctx, `WHERE target_item_num = ? AND relation_type = ?`, itemNum, string(kind))
}

// Relations returns the relations whose source is itemNum.
func (s *SQLiteStore) Relations(ctx context.Context, itemNum string) ([]model.Relation, error) {
	return s.queryRelations(ctx, `WHERE item_num = ?`, itemNum)
}

// Constraints returns the constraints of itemNum, optionally restricted to one kind.
func (s *SQLiteStore) Constraints(ctx context.Context, itemNum string, kind model.ConstraintKind) ([]model.Constraint, error) {
	if kind == "" {
		return s.queryConstraints(ctx, `WHERE item_num = ?`, itemNum)
	}
	return s.queryConstraints(ctx, `WHERE item_num = ? AND constraint_type = ?`, itemNum, string(kind))
}
