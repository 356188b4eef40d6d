// Package llm wraps an eino chat model with the bounded-call policy every
// model invocation in the agent goes through: a per-call timeout plus a
// single retry with exponential backoff. Timeouts surface as errx timeout
// errors so callers can apply the node's documented fallback.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/deskpilot-poc/server/internal/core/error"
	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 2
	defaultBackoff     = 200 * time.Millisecond
)

// Client executes chat-model calls with bounded timeout and retry.
type Client struct {
	cm          einomodel.BaseChatModel
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
}

// NewClient builds a Client from the shared call configuration.
func NewClient(cm einomodel.BaseChatModel, cfg model.CallConfig) *Client {
	c := &Client{
		cm:          cm,
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxAttempts: cfg.MaxAttempts,
		backoff:     time.Duration(cfg.BackoffMillis) * time.Millisecond,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.backoff <= 0 {
		c.backoff = defaultBackoff
	}
	return c
}

// Complete sends the messages to the model and returns the response content.
// An empty response is treated as malformed output and reported as an
// inference failure rather than returned to the caller.
func (c *Client) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	var lastErr error
	wait := c.backoff

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		out, err := c.generateOnce(ctx, messages)
		if err == nil {
			content := strings.TrimSpace(out)
			if content == "" {
				lastErr = errx.Newf(errx.KindInference, "model returned empty content")
			} else {
				return content, nil
			}
		} else {
			lastErr = err
		}

		if attempt == c.maxAttempts {
			break
		}
		logx.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", c.maxAttempts).
			Dur("backoff", wait).
			Msg("model call failed, retrying")

		select {
		case <-ctx.Done():
			return "", errx.New(errx.KindTimeout, ctx.Err(), "model call canceled")
		case <-time.After(wait):
		}
		wait *= 2
	}

	return "", lastErr
}

func (c *Client) generateOnce(ctx context.Context, messages []*schema.Message) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.cm.Generate(callCtx, messages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", errx.New(errx.KindTimeout, err, "model call timed out")
		}
		return "", errx.New(errx.KindInference, err, "model call failed")
	}
	if out == nil {
		return "", errx.Newf(errx.KindInference, "model returned nil message")
	}
	return out.Content, nil
}
