package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// RequestRecord captures one LLM API call for the audit log.
type RequestRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestSink receives request records. The store package implements this
// with an llm_requests table.
type RequestSink interface {
	AppendLLMRequest(ctx context.Context, rec RequestRecord) error
}

// LoggingProvider is a decorator that records every request as an audit row.
type LoggingProvider struct {
	inner Provider
	sink  RequestSink
}

// WithLogging wraps a Provider with request audit logging.
func WithLogging(p Provider, sink RequestSink) Provider {
	return &LoggingProvider{inner: p, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	rec := RequestRecord{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Audit failures must not fail the request itself.
	if logErr := l.sink.AppendLLMRequest(ctx, rec); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
