package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

func TestRefs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Replace(ctx, testBatch())

	refs, err := s.Refs(ctx, "36", "")
	if err != nil {
		t.Fatalf("refs: %v", err)
	}
	if len(refs) != 1 || refs[0].ItemNum != "30001" || refs[0].Kind != model.DerivedFeeRef {
		t.Fatalf("expected derived fee ref from 30001, got %+v", refs)
	}

	refs, err = s.Refs(ctx, "23", model.Excludes)
	if err != nil {
		t.Fatalf("refs: %v", err)
	}
	if len(refs) != 1 || refs[0].ItemNum != "36" {
		t.Fatalf("expected exclusion from 36, got %+v", refs)
	}

	refs, err = s.Refs(ctx, "23", model.Prerequisite)
	if err != nil {
		t.Fatalf("refs: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no prerequisites, got %d", len(refs))
	}
}

func TestRefsInvalidKind(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Refs(context.Background(), "23", "relates_to")
	if err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestConstraintsByKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Replace(ctx, testBatch())

	cons, err := s.Constraints(ctx, "23", model.Requirement)
	if err != nil {
		t.Fatalf("constraints: %v", err)
	}
	if len(cons) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(cons))
	}

	rels, err := s.Relations(ctx, "30001")
	if err != nil {
		t.Fatalf("relations: %v", err)
	}
	if len(rels) != 1 || rels[0].Detail != "item 36" {
		t.Fatalf("unexpected relations: %+v", rels)
	}
}

func TestStatsAndCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st, err := s.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats on empty store: %v", err)
	}
	if st.LastLoad != nil {
		t.Errorf("expected no last load, got %+v", st.LastLoad)
	}
	if _, err := s.LastLoad(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	s.Replace(ctx, testBatch())

	st, err = s.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Items != 4 || st.Relations != 3 || st.Constraints != 4 {
		t.Errorf("unexpected counts: %+v", st)
	}
	if len(st.ConstraintKinds) == 0 || st.ConstraintKinds[0].Kind != string(model.Requirement) || st.ConstraintKinds[0].Count != 2 {
		t.Errorf("expected requirement first with 2, got %+v", st.ConstraintKinds)
	}
	if len(st.RelationKinds) != 3 {
		t.Errorf("expected 3 relation kinds, got %+v", st.RelationKinds)
	}
	if st.LastLoad == nil || st.LastLoad.SkippedRows != 1 || st.LastLoad.SHA256 != "abc" {
		t.Errorf("unexpected last load: %+v", st.LastLoad)
	}

	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []CategoryCount{{"", 1}, {"1", 2}, {"3", 1}}
	if len(cats) != len(want) {
		t.Fatalf("expected %v, got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("category %d: expected %v, got %v", i, want[i], cats[i])
		}
	}
}

func TestStatsReportsQueryFailure(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.Stats(context.Background(), ""); err == nil {
		t.Fatal("expected error from stats on a closed store")
	}
}
