package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/abhinav/readquiz/internal/llm"
	"github.com/abhinav/readquiz/internal/quiz"
)

// Generator produces a validated quiz for an article.
type Generator interface {
	// GenerateQuiz builds the prompt, invokes the completion endpoint
	// once, and returns a fully validated quiz. No retry is performed;
	// retry is a caller-level policy.
	GenerateQuiz(ctx context.Context, article quiz.Article) (*quiz.Quiz, error)
}

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0). Kept
	// low-to-moderate so regeneration for the same article is repeatable.
	Temperature float64

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.4,
		Timeout:     30 * time.Second,
	}
}

// LLMGenerator implements Generator using a completion provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// quizOutput is the raw model response before validation.
type quizOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	ID            string            `json:"id"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correctAnswer"`
	Explanation   string            `json:"explanation"`
}

func (g *LLMGenerator) GenerateQuiz(ctx context.Context, article quiz.Article) (*quiz.Quiz, error) {
	ctx = llm.WithPurpose(ctx, "quiz-gen")
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(article)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, mapProviderError(err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &ErrInvalidResponse{Err: err}
	}

	questions, verr := validateOutput(raw)
	if verr != nil {
		return nil, verr
	}

	return &quiz.Quiz{
		ID:              quiz.NewID(),
		SourceArticleID: article.ID,
		Title:           article.Title,
		Questions:       questions,
		CreatedAt:       time.Now().UTC(),
		Article:         article.Snapshot(),
	}, nil
}

// mapProviderError translates provider-layer failures into the generation
// error taxonomy. The layering mirrors the response parsing: transport
// failures are network errors; content that is present but not JSON is an
// invalid response; JSON that fails the schema is a violation.
func mapProviderError(err error) error {
	var invResp *llm.ErrInvalidResponse
	if errors.As(err, &invResp) {
		if len(invResp.Content) > 0 && json.Valid(invResp.Content) {
			return &ErrSchemaViolation{Reason: invResp.Err.Error()}
		}
		return &ErrInvalidResponse{Err: err}
	}

	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return &ErrInvalidResponse{Err: err}
	}

	return &ErrNetwork{Err: err}
}
