package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sprouthq/sprout/internal/llm"
)

// LLMRequestRepo records every LLM API call for cost and failure auditing.
// It implements llm.RequestSink.
type LLMRequestRepo struct {
	db *sqlx.DB
}

// AppendLLMRequest stores one request record.
func (r *LLMRequestRepo) AppendLLMRequest(ctx context.Context, rec llm.RequestRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_requests
		 (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Provider, rec.Model, rec.Purpose, rec.InputTokens, rec.OutputTokens,
		rec.LatencyMs, rec.Success, rec.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

var _ llm.RequestSink = (*LLMRequestRepo)(nil)
