package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/abhinav/readquiz/internal/quiz"
)

func (r *quizRepo) SaveAttempt(ctx context.Context, a *quiz.Attempt) error {
	answersJSON, err := encodeAnswers(a.Answers)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO attempts (id, user_id, quiz_id, article_id, score, total_questions, answers_json, completed_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.QuizID, a.ArticleID,
		a.Score, a.TotalQuestions, answersJSON, a.CompletedAt.UnixMilli(),
	)
	if err != nil {
		return &StorageError{Op: "save attempt", Err: err}
	}
	return nil
}

func (r *quizRepo) AttemptsByUser(ctx context.Context, userID string) ([]*quiz.Attempt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, quiz_id, article_id, score, total_questions, answers_json, completed_at_ms
		FROM attempts WHERE user_id = ?
		ORDER BY completed_at_ms DESC, rowid DESC`, userID)
	if err != nil {
		return nil, &StorageError{Op: "query attempts by user", Err: err}
	}
	defer rows.Close()

	var out []*quiz.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query attempts by user", Err: err}
	}
	return out, nil
}

func scanAttempt(s scanner) (*quiz.Attempt, error) {
	var (
		a             quiz.Attempt
		answersRaw    string
		completedAtMs int64
	)
	err := s.Scan(&a.ID, &a.UserID, &a.QuizID, &a.ArticleID,
		&a.Score, &a.TotalQuestions, &answersRaw, &completedAtMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, &StorageError{Op: "scan attempt", Err: err}
	}

	if a.TotalQuestions <= 0 {
		return nil, &DecodingError{Entity: "attempt", Field: "totalQuestions", Reason: "must be positive"}
	}
	if a.Score < 0 || a.Score > a.TotalQuestions {
		return nil, &DecodingError{Entity: "attempt", Field: "score", Reason: "outside 0..totalQuestions"}
	}

	answers, err := decodeAnswers(answersRaw)
	if err != nil {
		return nil, err
	}

	a.Answers = answers
	a.CompletedAt = time.UnixMilli(completedAtMs).UTC()
	return &a, nil
}
