// Package session drives one quiz-taking flow: find or generate a quiz for
// an article, collect answers, score, and persist the attempt.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhinav/readquiz/internal/articles"
	"github.com/abhinav/readquiz/internal/quiz"
	"github.com/abhinav/readquiz/internal/quizgen"
	"github.com/abhinav/readquiz/internal/store"
)

// saveBuffer bounds the save-result channel. One completion produces at
// most one result, but a reused channel reader may lag.
const saveBuffer = 4

// Session is the quiz-taking state machine. One Session serves one
// user-facing flow at a time; methods serialize on an internal mutex, so a
// single instance must not be driven concurrently by multiple callers
// expecting interleaving guarantees beyond that.
type Session struct {
	repo     store.QuizRepository
	gen      quizgen.Generator
	articles articles.Store
	userID   string

	mu    sync.Mutex
	quiz  *quiz.Quiz
	state State

	saveResults chan error
}

// New creates a session for one user. All collaborators are injected;
// substitute fakes in tests.
func New(repo store.QuizRepository, gen quizgen.Generator, arts articles.Store, userID string) *Session {
	return &Session{
		repo:        repo,
		gen:         gen,
		articles:    arts,
		userID:      userID,
		state:       State{Phase: PhaseLoading},
		saveResults: make(chan error, saveBuffer),
	}
}

// Load finds or generates the quiz for an article and starts the session.
// An existing quiz wins: the first, in creation order, is adopted. When none
// exists the article is fetched, a quiz generated and persisted. Any failure
// leaves the session in Loading, retryable by calling Load again. The quiz
// write happens only after full validation, so cancelling ctx mid-generation
// leaves no persisted side effect.
func (s *Session) Load(ctx context.Context, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.QuizzesByArticle(ctx, articleID)
	if err != nil {
		return fmt.Errorf("look up quizzes for article %s: %w", articleID, err)
	}

	var active *quiz.Quiz
	if len(existing) > 0 {
		active = existing[0]
	} else {
		article, err := s.articles.GetArticle(ctx, articleID)
		if err != nil {
			return fmt.Errorf("fetch article %s: %w", articleID, err)
		}

		generated, err := s.gen.GenerateQuiz(ctx, *article)
		if err != nil {
			return fmt.Errorf("generate quiz for article %s: %w", articleID, err)
		}

		if err := s.repo.CreateQuiz(ctx, generated); err != nil {
			return fmt.Errorf("persist quiz for article %s: %w", articleID, err)
		}
		active = generated
	}

	s.quiz = active
	s.state = inProgress()
	return nil
}

// SelectAnswer records the label for the current question, overwriting any
// previous selection. Idempotent for repeated calls on the same question;
// does not advance.
func (s *Session) SelectAnswer(label quiz.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseInProgress {
		return ErrNoActiveQuiz
	}
	if _, ok := quiz.ParseLabel(string(label)); !ok {
		return ErrInvalidLabel
	}

	q, err := s.currentQuestionLocked()
	if err != nil {
		return err
	}

	s.state.Answers[q.ID] = label
	return nil
}

// Advance moves to the next question. The current question must have a
// recorded answer. Advancing past the last question computes the score,
// transitions to Completed, and persists the attempt in the background.
// A persistence failure never reverts Completed or the returned score; it
// surfaces on SaveResults instead.
func (s *Session) Advance(ctx context.Context) (completed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseInProgress {
		return false, ErrNoActiveQuiz
	}

	q, err := s.currentQuestionLocked()
	if err != nil {
		return false, err
	}
	if _, answered := s.state.Answers[q.ID]; !answered {
		return false, ErrNoSelection
	}

	s.state.QuestionIndex++
	if s.state.QuestionIndex < len(s.quiz.Questions) {
		return false, nil
	}

	s.state.Phase = PhaseCompleted
	s.state.Score = quiz.Score(s.quiz.Questions, s.state.Answers)

	attempt := &quiz.Attempt{
		ID:             quiz.NewID(),
		UserID:         s.userID,
		QuizID:         s.quiz.ID,
		ArticleID:      s.quiz.SourceArticleID,
		Score:          s.state.Score,
		TotalQuestions: len(s.quiz.Questions),
		Answers:        s.state.clone().Answers,
		CompletedAt:    time.Now().UTC(),
	}

	// Best-effort persistence: the in-memory score is authoritative.
	// Detached from ctx so abandoning the flow doesn't cancel the write.
	go s.persistAttempt(context.WithoutCancel(ctx), attempt)

	return true, nil
}

func (s *Session) persistAttempt(ctx context.Context, attempt *quiz.Attempt) {
	err := s.repo.SaveAttempt(ctx, attempt)
	if err != nil {
		err = fmt.Errorf("persist attempt %s: %w", attempt.ID, err)
	}
	select {
	case s.saveResults <- err:
	default:
	}
}

// SaveResults reports the outcome of each background attempt save, nil on
// success. Failures are non-fatal; a higher layer may log or retry them.
func (s *Session) SaveResults() <-chan error {
	return s.saveResults
}

// Reset clears answers and the question index. Returns to InProgress when a
// quiz is already loaded, otherwise back to Loading.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quiz != nil {
		s.state = inProgress()
		return
	}
	s.state = State{Phase: PhaseLoading}
}

// State returns a snapshot of the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Quiz returns the active quiz, or nil before Load succeeds.
func (s *Session) Quiz() *quiz.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() (*quiz.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseInProgress {
		return nil, ErrNoActiveQuiz
	}
	return s.currentQuestionLocked()
}

func (s *Session) currentQuestionLocked() (*quiz.Question, error) {
	if s.quiz == nil {
		return nil, ErrNoActiveQuiz
	}
	idx := s.state.QuestionIndex
	if idx < 0 || idx >= len(s.quiz.Questions) {
		return nil, ErrIndexOutOfRange
	}
	return &s.quiz.Questions[idx], nil
}

// Progress reports answered progress as questionIndex / totalQuestions.
// 0 before a quiz is loaded, 1 once completed.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quiz == nil || len(s.quiz.Questions) == 0 {
		return 0
	}
	return float64(s.state.QuestionIndex) / float64(len(s.quiz.Questions))
}

// IsCompleted reports whether the session reached the terminal state.
func (s *Session) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase == PhaseCompleted
}

// Score returns the computed score. Valid only once completed; 0 otherwise.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Score
}
