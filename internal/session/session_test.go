package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhinav/readquiz/internal/llm"
	"github.com/abhinav/readquiz/internal/quiz"
	"github.com/abhinav/readquiz/internal/quizgen"
	"github.com/abhinav/readquiz/internal/store"
)

// fakeRepo is an in-memory store.QuizRepository.
type fakeRepo struct {
	mu       sync.Mutex
	quizzes  map[string][]*quiz.Quiz // keyed by article id, creation order
	attempts []*quiz.Attempt

	createErr error
	listErr   error
	saveErr   error

	saved chan *quiz.Attempt
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		quizzes: make(map[string][]*quiz.Quiz),
		saved:   make(chan *quiz.Attempt, 1),
	}
}

func (r *fakeRepo) CreateQuiz(_ context.Context, q *quiz.Quiz) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[q.SourceArticleID] = append(r.quizzes[q.SourceArticleID], q)
	return nil
}

func (r *fakeRepo) GetQuiz(_ context.Context, id string) (*quiz.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, list := range r.quizzes {
		for _, q := range list {
			if q.ID == id {
				return q, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeRepo) QuizzesByArticle(_ context.Context, articleID string) ([]*quiz.Quiz, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quizzes[articleID], nil
}

func (r *fakeRepo) SaveAttempt(_ context.Context, a *quiz.Attempt) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	r.attempts = append(r.attempts, a)
	r.mu.Unlock()
	select {
	case r.saved <- a:
	default:
	}
	return nil
}

func (r *fakeRepo) AttemptsByUser(_ context.Context, userID string) ([]*quiz.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*quiz.Attempt
	for _, a := range r.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetStatistics(context.Context, string) (*quiz.Statistics, error) {
	return nil, store.ErrNotFound
}

func (r *fakeRepo) UpsertStatistics(context.Context, *quiz.Statistics) error {
	return nil
}

// fakeArticles serves articles from a map.
type fakeArticles struct {
	byID map[string]*quiz.Article
}

func (s *fakeArticles) GetArticle(_ context.Context, id string) (*quiz.Article, error) {
	if a, ok := s.byID[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("article not found: %s", id)
}

// fakeGenerator returns a canned quiz or error.
type fakeGenerator struct {
	quiz *quiz.Quiz
	err  error
}

func (g *fakeGenerator) GenerateQuiz(_ context.Context, article quiz.Article) (*quiz.Quiz, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.quiz, nil
}

func testArticle(id string) *quiz.Article {
	return &quiz.Article{
		ID:      id,
		Title:   "Article " + id,
		Content: "Body of article " + id + ".",
		Tags:    []string{"history"},
	}
}

func testQuiz(articleID string) *quiz.Quiz {
	opts := func() map[quiz.Label]string {
		return map[quiz.Label]string{
			quiz.LabelA: "first", quiz.LabelB: "second", quiz.LabelC: "third", quiz.LabelD: "fourth",
		}
	}
	return &quiz.Quiz{
		ID:              quiz.NewID(),
		SourceArticleID: articleID,
		Title:           "Article " + articleID,
		Questions: []quiz.Question{
			{ID: "q1", Prompt: "one?", Options: opts(), CorrectAnswer: quiz.LabelA, Explanation: "a"},
			{ID: "q2", Prompt: "two?", Options: opts(), CorrectAnswer: quiz.LabelB, Explanation: "b"},
			{ID: "q3", Prompt: "three?", Options: opts(), CorrectAnswer: quiz.LabelC, Explanation: "c"},
			{ID: "q4", Prompt: "four?", Options: opts(), CorrectAnswer: quiz.LabelD, Explanation: "d"},
			{ID: "q5", Prompt: "five?", Options: opts(), CorrectAnswer: quiz.LabelA, Explanation: "a"},
		},
		CreatedAt: time.Now().UTC(),
		Article:   quiz.ArticleSnapshot{ID: articleID, Title: "Article " + articleID},
	}
}

func newTestSession(repo *fakeRepo, gen quizgen.Generator, userID string) *Session {
	arts := &fakeArticles{byID: map[string]*quiz.Article{"art-1": testArticle("art-1")}}
	return New(repo, gen, arts, userID)
}

func TestLoad_AdoptsFirstExistingQuiz(t *testing.T) {
	repo := newFakeRepo()
	first := testQuiz("art-1")
	second := testQuiz("art-1")
	repo.quizzes["art-1"] = []*quiz.Quiz{first, second}

	sess := newTestSession(repo, &fakeGenerator{err: errors.New("must not generate")}, "u1")
	if err := sess.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sess.Quiz().ID != first.ID {
		t.Errorf("expected first-created quiz %s, got %s", first.ID, sess.Quiz().ID)
	}
	st := sess.State()
	if st.Phase != PhaseInProgress || st.QuestionIndex != 0 || len(st.Answers) != 0 {
		t.Errorf("expected InProgress(0, {}), got %+v", st)
	}
}

func TestLoad_GeneratesAndPersistsWhenAbsent(t *testing.T) {
	repo := newFakeRepo()
	generated := testQuiz("art-1")

	sess := newTestSession(repo, &fakeGenerator{quiz: generated}, "u1")
	if err := sess.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sess.Quiz().ID != generated.ID {
		t.Errorf("expected generated quiz to be adopted")
	}
	if len(repo.quizzes["art-1"]) != 1 {
		t.Fatalf("expected generated quiz to be persisted, found %d", len(repo.quizzes["art-1"]))
	}
}

func TestLoad_IdempotentLookup(t *testing.T) {
	repo := newFakeRepo()
	generated := testQuiz("art-1")

	first := newTestSession(repo, &fakeGenerator{quiz: generated}, "u1")
	if err := first.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second session must adopt the already-persisted quiz, not generate.
	second := newTestSession(repo, &fakeGenerator{err: errors.New("must not generate")}, "u1")
	if err := second.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Quiz().ID != second.Quiz().ID {
		t.Errorf("expected same quiz id both times, got %s and %s", first.Quiz().ID, second.Quiz().ID)
	}
}

func TestLoad_GenerationFailureStaysLoadingAndIsRetryable(t *testing.T) {
	repo := newFakeRepo()
	gen := &fakeGenerator{err: &quizgen.ErrNetwork{Err: errors.New("timeout")}}

	sess := newTestSession(repo, gen, "u1")
	if err := sess.Load(context.Background(), "art-1"); err == nil {
		t.Fatal("expected error")
	}

	if sess.State().Phase != PhaseLoading {
		t.Errorf("expected session to remain Loading, got %v", sess.State().Phase)
	}
	if len(repo.quizzes["art-1"]) != 0 {
		t.Error("no quiz must be persisted on failed generation")
	}

	// Retry succeeds.
	gen.err = nil
	gen.quiz = testQuiz("art-1")
	if err := sess.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if sess.State().Phase != PhaseInProgress {
		t.Errorf("expected InProgress after retry, got %v", sess.State().Phase)
	}
}

func TestSelectAnswer_BeforeLoad(t *testing.T) {
	sess := newTestSession(newFakeRepo(), &fakeGenerator{}, "u1")
	if err := sess.SelectAnswer(quiz.LabelA); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("expected ErrNoActiveQuiz, got %v", err)
	}
	if _, err := sess.Advance(context.Background()); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("expected ErrNoActiveQuiz, got %v", err)
	}
}

func TestSelectAnswer_OverwritesWithoutAdvancing(t *testing.T) {
	repo := newFakeRepo()
	repo.quizzes["art-1"] = []*quiz.Quiz{testQuiz("art-1")}
	sess := newTestSession(repo, &fakeGenerator{}, "u1")
	if err := sess.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sess.SelectAnswer(quiz.LabelB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.SelectAnswer(quiz.LabelC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.SelectAnswer(quiz.LabelC); err != nil {
		t.Fatalf("repeated select must be idempotent: %v", err)
	}

	st := sess.State()
	if st.QuestionIndex != 0 {
		t.Errorf("selectAnswer must not advance; index = %d", st.QuestionIndex)
	}
	if st.Answers["q1"] != quiz.LabelC {
		t.Errorf("expected overwrite to C, got %s", st.Answers["q1"])
	}
}

func TestSelectAnswer_InvalidLabel(t *testing.T) {
	repo := newFakeRepo()
	repo.quizzes["art-1"] = []*quiz.Quiz{testQuiz("art-1")}
	sess := newTestSession(repo, &fakeGenerator{}, "u1")
	if err := sess.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sess.SelectAnswer(quiz.Label("E")); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
}

func TestAdvance_WithoutSelection(t *testing.T) {
	repo := newFakeRepo()
	repo.quizzes["art-1"] = []*quiz.Quiz{testQuiz("art-1")}
	sess := newTestSession(repo, &fakeGenerator{}, "u1")
	if err := sess.Load(context.Background(), "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sess.Advance(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestFullWalkthrough_AllCorrect(t *testing.T) {
	repo := newFakeRepo()
	repo.quizzes["art-1"] = []*quiz.Quiz{testQuiz("art-1")}
	sess := newTestSession(repo, &fakeGenerator{}, "u1")
	ctx := context.Background()
	if err := sess.Load(ctx, "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < quiz.QuestionCount; i++ {
		q, err := sess.CurrentQuestion()
		if err != nil {
			t.Fatalf("question %d: %v", i, err)
		}
		if err := sess.SelectAnswer(q.CorrectAnswer); err != nil {
			t.Fatalf("question %d: %v", i, err)
		}

		completed, err := sess.Advance(ctx)
		if err != nil {
			t.Fatalf("question %d: %v", i, err)
		}
		if want := i == quiz.QuestionCount-1; completed != want {
			t.Fatalf("question %d: completed = %v, want %v", i, completed, want)
		}
	}

	if !sess.IsCompleted() {
		t.Fatal("expected completed session")
	}
	if sess.Score() != quiz.QuestionCount {
		t.Errorf("expected score %d, got %d", quiz.QuestionCount, sess.Score())
	}
	if sess.Progress() != 1 {
		t.Errorf("expected progress 1, got %v", sess.Progress())
	}

	select {
	case attempt := <-repo.saved:
		if attempt.Score != 5 || attempt.TotalQuestions != 5 {
			t.Errorf("persisted attempt score %d/%d, want 5/5", attempt.Score, attempt.TotalQuestions)
		}
		if attempt.UserID != "u1" || attempt.ArticleID != "art-1" {
			t.Errorf("attempt attribution wrong: %+v", attempt)
		}
		if len(attempt.Answers) != quiz.QuestionCount {
			t.Errorf("expected %d recorded answers, got %d", quiz.QuestionCount, len(attempt.Answers))
		}
		if attempt.CompletedAt.IsZero() {
			t.Error("expected a completion timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("attempt was not persisted")
	}

	select {
	case err := <-sess.SaveResults():
		if err != nil {
			t.Errorf("expected nil save result on success, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("save result was not reported")
	}
}

func TestAdvance_PersistenceFailureKeepsScore(t *testing.T) {
	repo := newFakeRepo()
	repo.quizzes["art-1"] = []*quiz.Quiz{testQuiz("art-1")}
	repo.saveErr = errors.New("store unreachable")

	sess := newTestSession(repo, &fakeGenerator{}, "u1")
	ctx := context.Background()
	if err := sess.Load(ctx, "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < quiz.QuestionCount; i++ {
		q, _ := sess.CurrentQuestion()
		if err := sess.SelectAnswer(q.CorrectAnswer); err != nil {
			t.Fatalf("question %d: %v", i, err)
		}
		if _, err := sess.Advance(ctx); err != nil {
			t.Fatalf("question %d: %v", i, err)
		}
	}

	if !sess.IsCompleted() {
		t.Fatal("completion must not revert on persistence failure")
	}
	if sess.Score() != quiz.QuestionCount {
		t.Errorf("score must stay authoritative, got %d", sess.Score())
	}

	select {
	case err := <-sess.SaveResults():
		if err == nil {
			t.Fatal("expected non-nil save result")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("persistence failure was not reported")
	}
}

func TestReset(t *testing.T) {
	repo := newFakeRepo()
	repo.quizzes["art-1"] = []*quiz.Quiz{testQuiz("art-1")}
	sess := newTestSession(repo, &fakeGenerator{}, "u1")
	ctx := context.Background()
	if err := sess.Load(ctx, "art-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, _ := sess.CurrentQuestion()
	if err := sess.SelectAnswer(q.CorrectAnswer); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Advance(ctx); err != nil {
		t.Fatal(err)
	}

	sess.Reset()
	st := sess.State()
	if st.Phase != PhaseInProgress || st.QuestionIndex != 0 || len(st.Answers) != 0 {
		t.Errorf("expected InProgress(0, {}) after reset with loaded quiz, got %+v", st)
	}
	if sess.IsCompleted() {
		t.Error("reset session must not be completed")
	}

	// Without a loaded quiz, reset returns to Loading.
	fresh := newTestSession(newFakeRepo(), &fakeGenerator{}, "u1")
	fresh.Reset()
	if fresh.State().Phase != PhaseLoading {
		t.Errorf("expected Loading, got %v", fresh.State().Phase)
	}
}

func TestProgress(t *testing.T) {
	repo := newFakeRepo()
	repo.quizzes["art-1"] = []*quiz.Quiz{testQuiz("art-1")}
	sess := newTestSession(repo, &fakeGenerator{}, "u1")
	ctx := context.Background()

	if sess.Progress() != 0 {
		t.Errorf("expected 0 before load, got %v", sess.Progress())
	}
	if err := sess.Load(ctx, "art-1"); err != nil {
		t.Fatal(err)
	}

	q, _ := sess.CurrentQuestion()
	if err := sess.SelectAnswer(q.CorrectAnswer); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	if want := 1.0 / quiz.QuestionCount; sess.Progress() != want {
		t.Errorf("expected %v after one answer, got %v", want, sess.Progress())
	}
}

// End to end through the real generator: article in, five questions out,
// all answered correctly, attempt persisted with a full score.
func TestEndToEnd_GenerateTakeScore(t *testing.T) {
	items := make([]string, 0, quiz.QuestionCount)
	for i := 1; i <= quiz.QuestionCount; i++ {
		items = append(items, fmt.Sprintf(`{
			"id": "q%d",
			"question": "Question %d?",
			"options": {"A": "first", "B": "second", "C": "third", "D": "fourth"},
			"correctAnswer": "C",
			"explanation": "Stated in the article."
		}`, i, i))
	}
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions":[` + strings.Join(items, ",") + `]}`),
	})

	repo := newFakeRepo()
	sess := newTestSession(repo, quizgen.New(mock, quizgen.DefaultConfig()), "u1")
	ctx := context.Background()

	if err := sess.Load(ctx, "art-1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(sess.Quiz().Questions); got != quiz.QuestionCount {
		t.Fatalf("expected %d generated questions, got %d", quiz.QuestionCount, got)
	}

	for !sess.IsCompleted() {
		q, err := sess.CurrentQuestion()
		if err != nil {
			t.Fatal(err)
		}
		if err := sess.SelectAnswer(q.CorrectAnswer); err != nil {
			t.Fatal(err)
		}
		if _, err := sess.Advance(ctx); err != nil {
			t.Fatal(err)
		}
	}

	if sess.Score() != 5 {
		t.Errorf("expected Completed(score=5), got %d", sess.Score())
	}

	select {
	case attempt := <-repo.saved:
		if attempt.Score != 5 || attempt.TotalQuestions != 5 {
			t.Errorf("persisted %d/%d, want 5/5", attempt.Score, attempt.TotalQuestions)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("attempt was not persisted")
	}
}
