package articles

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhinav/readquiz/internal/quiz"
)

// articleDoc is the on-disk JSON shape of an article document.
type articleDoc struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	ThumbnailRef string   `json:"thumbnailRef"`
}

// DirStore is a Store backed by a directory of JSON documents, one file
// per article named <id>.json. Used by the CLI and tests; a production
// deployment substitutes its own Store.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) GetArticle(_ context.Context, id string) (*quiz.Article, error) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read article %s: %w", id, err)
	}

	var doc articleDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse article %s: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	if doc.ID != id {
		return nil, fmt.Errorf("article %s: document id %q does not match file name", id, doc.ID)
	}
	if doc.Title == "" || doc.Content == "" {
		return nil, fmt.Errorf("article %s: title and content are required", id)
	}

	return &quiz.Article{
		ID:           doc.ID,
		Title:        doc.Title,
		Content:      doc.Content,
		Tags:         doc.Tags,
		ThumbnailRef: doc.ThumbnailRef,
	}, nil
}

// Put writes an article document, overwriting any existing one.
func (s *DirStore) Put(_ context.Context, a *quiz.Article) error {
	if a.ID == "" || a.Title == "" || a.Content == "" {
		return fmt.Errorf("article id, title, and content are required")
	}

	doc := articleDoc{
		ID:           a.ID,
		Title:        a.Title,
		Content:      a.Content,
		Tags:         a.Tags,
		ThumbnailRef: a.ThumbnailRef,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode article %s: %w", a.ID, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create articles dir: %w", err)
	}
	if err := os.WriteFile(s.path(a.ID), raw, 0o644); err != nil {
		return fmt.Errorf("write article %s: %w", a.ID, err)
	}
	return nil
}

func (s *DirStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// DefaultDir resolves the article directory in priority order:
// 1. READQUIZ_ARTICLES environment variable
// 2. $XDG_DATA_HOME/readquiz/articles
// 3. ~/.local/share/readquiz/articles
func DefaultDir() (string, error) {
	if p := os.Getenv("READQUIZ_ARTICLES"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "readquiz", "articles"), nil
}
