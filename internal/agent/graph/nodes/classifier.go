package nodes

import (
	"context"

	errx "github.com/deskpilot-poc/server/internal/core/error"
	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/graph/parsers"
	"github.com/deskpilot-poc/server/internal/agent/graph/prompts"
	"github.com/deskpilot-poc/server/internal/agent/llm"
	"github.com/deskpilot-poc/server/internal/agent/model"
)

// FallbackIntent is what the orchestrator assumes when classification fails:
// treating an unknown query as an IT support request keeps the turn moving
// without blocking on the classifier.
const (
	FallbackIntent     = model.IntentITSupport
	FallbackConfidence = 0.0
)

// Classifier maps raw user text to a typed intent category with one model
// call. No side effects beyond that call.
type Classifier struct {
	llm *llm.Client
}

func NewClassifier(client *llm.Client) *Classifier {
	return &Classifier{llm: client}
}

// Classify returns the intent and a confidence for the query. Any failure
// (call error, timeout, unparseable label) is returned as a classification
// error; the caller owns the documented fallback.
func (c *Classifier) Classify(ctx context.Context, userQuery string) (model.Intent, float64, error) {
	messages, err := prompts.ClassifyMessages(ctx, userQuery)
	if err != nil {
		return "", 0, errx.New(errx.KindClassification, err, "classifier prompt render failed")
	}

	content, err := c.llm.Complete(ctx, messages)
	if err != nil {
		return "", 0, errx.New(errx.KindClassification, err, "classifier call failed")
	}

	intent, confidence, err := parsers.ParseIntent(content)
	if err != nil {
		logx.Warn().Err(err).Str("raw_output", content).Msg("classifier output did not parse")
		return "", 0, err
	}

	logx.Debug().
		Str("intent", intent.String()).
		Float64("confidence", confidence).
		Msg("intent classified")
	return intent, confidence, nil
}
