package store

import (
	"context"

	"github.com/abhinav/readquiz/internal/quiz"
)

// QuizRepository provides access to quiz, attempt, and statistics documents.
// Implementations must return ErrNotFound for missing ids, DecodingError for
// stored data violating the serialization contract, and StorageError for
// transport failures.
type QuizRepository interface {
	// CreateQuiz persists a new quiz document.
	CreateQuiz(ctx context.Context, q *quiz.Quiz) error

	// GetQuiz returns the quiz with the given id.
	GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error)

	// QuizzesByArticle returns all quizzes generated for an article,
	// in creation order.
	QuizzesByArticle(ctx context.Context, articleID string) ([]*quiz.Quiz, error)

	// SaveAttempt persists a completed attempt.
	SaveAttempt(ctx context.Context, a *quiz.Attempt) error

	// AttemptsByUser returns all attempts by a user, most recent first.
	AttemptsByUser(ctx context.Context, userID string) ([]*quiz.Attempt, error)

	// GetStatistics returns the cached statistics document for a user.
	GetStatistics(ctx context.Context, userID string) (*quiz.Statistics, error)

	// UpsertStatistics overwrites the cached statistics document for a user.
	UpsertStatistics(ctx context.Context, stats *quiz.Statistics) error
}

// LLMRequestEventData captures the data for a single completion-request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to observability events.
type EventRepo interface {
	// AppendLLMRequest records a completion API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}
