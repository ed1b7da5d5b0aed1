package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/abhinav/readquiz/internal/quiz"
)

// quizRepo implements QuizRepository on a SQLite database.
type quizRepo struct {
	db *sql.DB
}

func (r *quizRepo) CreateQuiz(ctx context.Context, q *quiz.Quiz) error {
	questionsJSON, err := encodeQuestions(q.Questions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quizzes (id, source_article_id, title, questions_json, article_title, article_thumbnail, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.SourceArticleID, q.Title, questionsJSON,
		q.Article.Title, q.Article.ThumbnailRef, q.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return &StorageError{Op: "create quiz", Err: err}
	}
	return nil
}

func (r *quizRepo) GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_article_id, title, questions_json, article_title, article_thumbnail, created_at_ms
		FROM quizzes WHERE id = ?`, id)

	q, err := scanQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

func (r *quizRepo) QuizzesByArticle(ctx context.Context, articleID string) ([]*quiz.Quiz, error) {
	// rowid breaks created_at ties so concurrent duplicates still have a
	// stable "first created" winner.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_article_id, title, questions_json, article_title, article_thumbnail, created_at_ms
		FROM quizzes WHERE source_article_id = ?
		ORDER BY created_at_ms ASC, rowid ASC`, articleID)
	if err != nil {
		return nil, &StorageError{Op: "query quizzes by article", Err: err}
	}
	defer rows.Close()

	var out []*quiz.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query quizzes by article", Err: err}
	}
	return out, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuiz(s scanner) (*quiz.Quiz, error) {
	var (
		q            quiz.Quiz
		questionsRaw string
		createdAtMs  int64
	)
	err := s.Scan(&q.ID, &q.SourceArticleID, &q.Title, &questionsRaw,
		&q.Article.Title, &q.Article.ThumbnailRef, &createdAtMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, &StorageError{Op: "scan quiz", Err: err}
	}

	questions, err := decodeQuestions(questionsRaw)
	if err != nil {
		return nil, err
	}
	if len(questions) != quiz.QuestionCount {
		return nil, &DecodingError{Entity: "quiz", Field: "questions", Reason: "question count is not 5"}
	}

	q.Questions = questions
	q.CreatedAt = time.UnixMilli(createdAtMs).UTC()
	q.Article.ID = q.SourceArticleID
	return &q, nil
}
