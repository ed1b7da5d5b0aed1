package articles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhinav/readquiz/internal/quiz"
)

func TestDirStore_RoundTrip(t *testing.T) {
	s := NewDirStore(t.TempDir())
	ctx := context.Background()

	in := &quiz.Article{
		ID:           "art-1",
		Title:        "The Silk Road",
		Content:      "Trade routes connected east and west for centuries.",
		Tags:         []string{"history", "geography"},
		ThumbnailRef: "thumbs/art-1.png",
	}
	if err := s.Put(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.GetArticle(ctx, "art-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != in.ID || got.Title != in.Title || got.Content != in.Content {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "history" {
		t.Errorf("tags mismatch: %v", got.Tags)
	}
	if got.ThumbnailRef != in.ThumbnailRef {
		t.Errorf("thumbnail mismatch: %s", got.ThumbnailRef)
	}
}

func TestDirStore_NotFound(t *testing.T) {
	s := NewDirStore(t.TempDir())

	_, err := s.GetArticle(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirStore_IDMismatch(t *testing.T) {
	dir := t.TempDir()
	doc := []byte(`{"id": "other", "title": "T", "content": "C"}`)
	if err := os.WriteFile(filepath.Join(dir, "art-1.json"), doc, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewDirStore(dir).GetArticle(context.Background(), "art-1")
	if err == nil {
		t.Fatal("expected id mismatch error")
	}
}

func TestDirStore_MissingIDDefaultsToFileName(t *testing.T) {
	dir := t.TempDir()
	doc := []byte(`{"title": "T", "content": "C"}`)
	if err := os.WriteFile(filepath.Join(dir, "art-1.json"), doc, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewDirStore(dir).GetArticle(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "art-1" {
		t.Errorf("expected id art-1, got %s", got.ID)
	}
}

func TestDirStore_RejectsIncompleteDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no title", `{"id": "art-1", "content": "C"}`},
		{"no content", `{"id": "art-1", "title": "T"}`},
		{"not json", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "art-1.json"), []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := NewDirStore(dir).GetArticle(context.Background(), "art-1"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDirStore_PutRequiresFields(t *testing.T) {
	s := NewDirStore(t.TempDir())
	err := s.Put(context.Background(), &quiz.Article{ID: "art-1", Title: "T"})
	if err == nil {
		t.Fatal("expected error for missing content")
	}
}
