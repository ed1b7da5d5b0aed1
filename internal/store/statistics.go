package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/abhinav/readquiz/internal/quiz"
)

func (r *quizRepo) GetStatistics(ctx context.Context, userID string) (*quiz.Statistics, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, total_attempted, average_score_pct, completion_rate_pct, topic_scores_json, last_updated_ms
		FROM statistics WHERE user_id = ?`, userID)

	var (
		stats         quiz.Statistics
		topicsRaw     string
		lastUpdatedMs int64
	)
	err := row.Scan(&stats.UserID, &stats.TotalAttempted, &stats.AverageScorePercent,
		&stats.CompletionRatePercent, &topicsRaw, &lastUpdatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get statistics", Err: err}
	}

	topics, err := decodeTopicScores(topicsRaw)
	if err != nil {
		return nil, err
	}

	stats.TopicScores = topics
	stats.LastUpdated = time.UnixMilli(lastUpdatedMs).UTC()
	return &stats, nil
}

func (r *quizRepo) UpsertStatistics(ctx context.Context, stats *quiz.Statistics) error {
	topicsJSON, err := encodeTopicScores(stats.TopicScores)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO statistics (user_id, total_attempted, average_score_pct, completion_rate_pct, topic_scores_json, last_updated_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_attempted = excluded.total_attempted,
			average_score_pct = excluded.average_score_pct,
			completion_rate_pct = excluded.completion_rate_pct,
			topic_scores_json = excluded.topic_scores_json,
			last_updated_ms = excluded.last_updated_ms`,
		stats.UserID, stats.TotalAttempted, stats.AverageScorePercent,
		stats.CompletionRatePercent, topicsJSON, stats.LastUpdated.UnixMilli(),
	)
	if err != nil {
		return &StorageError{Op: "upsert statistics", Err: err}
	}
	return nil
}
