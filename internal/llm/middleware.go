package llm

import (
	"context"
	"encoding/json"
	"time"

	llmclient "docarch/internal/llmClient"
	"docarch/internal/logger"
	"docarch/internal/util/jsonutil"
)

// Retry retries GenerateJSON up to maxAttempts with exponential backoff
// starting at baseDelay. Permanent errors and context cancellation stop it
// immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		if maxAttempts == 1 {
			return next
		}
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next llmclient.LLMClient
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }
func (r *retrying) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.GenerateJSON(ctx, prompt, input)
		if err == nil {
			return resp, nil
		}
		if llmclient.IsPermanent(err) {
			return nil, err
		}
		last = err
		if i == r.max-1 {
			break
		}
		t := time.NewTimer(r.base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, last
}

// WithLogging logs request size, latency and errors. A nil log falls back
// to the logger carried by the request context.
func WithLogging(log logger.Logger) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &logging{next: next, log: log}
	}
}

type logging struct {
	next llmclient.LLMClient
	log  logger.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	log := l.log
	if log == nil {
		log = logger.FromContext(ctx)
	}
	in, _ := jsonutil.MarshalNoEscape(input)
	start := time.Now()
	log.Debug("llm request", "client", l.next.Name(), "phase", PhaseFrom(ctx), "bytes", len(prompt)+len(in))
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		log.Warn("llm error", "client", l.next.Name(), "phase", PhaseFrom(ctx), "err", err)
		return raw, err
	}
	log.Debug("llm response", "client", l.next.Name(), "phase", PhaseFrom(ctx), "elapsed", time.Since(start))
	return raw, err
}
