package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

func TestSearch_Basic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Replace(ctx, testBatch())

	results, err := s.Search(ctx, SearchParams{Query: "attendance"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !strings.Contains(results[0].Snippet, "[") {
		t.Errorf("expected highlighted snippet, got %q", results[0].Snippet)
	}

	// Search by item number
	results, err = s.Search(ctx, SearchParams{Query: "30001"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ItemNum != "30001" {
		t.Fatalf("expected item 30001, got %+v", results)
	}

	// Category filter
	results, err = s.Search(ctx, SearchParams{Query: "attendance", Category: "3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}

	// No results
	results, err = s.Search(ctx, SearchParams{Query: "radiotherapy"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestSearch_FallbackOnFTSSyntax(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Replace(ctx, testBatch())

	// "(a" is not a valid FTS5 expression.
	results, err := s.Search(ctx, SearchParams{Query: "(a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ItemNum != "23" {
		t.Fatalf("expected item 23 from substring fallback, got %+v", results)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Search(context.Background(), SearchParams{Query: "  "}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearch_IndexFollowsReplace(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fts.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s.Replace(ctx, testBatch())
	s.Replace(ctx, &model.Batch{
		Records: []model.Record{{ItemNum: "55", Description: "Skin biopsy"}},
		Meta:    model.LoadMeta{SourcePath: "b.csv", Format: "csv", SHA256: "b"},
	})
	s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file missing: %v", err)
	}

	// Reopen to make sure the index persisted.
	s, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	results, err := s.Search(ctx, SearchParams{Query: "skin"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ItemNum != "55" {
		t.Fatalf("expected only item 55, got %+v", results)
	}
}
