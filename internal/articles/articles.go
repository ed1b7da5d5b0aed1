// Package articles provides access to the article store collaborator.
// Quizzes are generated from articles but the articles themselves are
// authored elsewhere; this package only reads (and, for the CLI, imports)
// them.
package articles

import (
	"context"
	"errors"

	"github.com/abhinav/readquiz/internal/quiz"
)

// ErrNotFound indicates no article exists for the requested id.
var ErrNotFound = errors.New("article not found")

// Store is the article-store collaborator consumed by quiz generation.
type Store interface {
	// GetArticle returns the article with the given id.
	GetArticle(ctx context.Context, id string) (*quiz.Article, error)
}
