package store

import (
	"context"
	"database/sql"
	"time"
)

// eventRepo implements EventRepo on a SQLite database.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	success := 0
	if data.Success {
		success = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_requests (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		success, data.ErrorMessage, time.Now().UnixMilli(),
	)
	if err != nil {
		return &StorageError{Op: "append llm request event", Err: err}
	}
	return nil
}
