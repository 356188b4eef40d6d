// Package rag implements the retrieval subgraph: a strictly linear
// rewrite → retrieve → synthesize pipeline invoked as one unit from the main
// graph. The subgraph never fails the turn; every step degrades to its
// documented fallback and the result records which fallbacks fired.
package rag

import (
	"context"
	"errors"
	"time"

	einoretriever "github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	errx "github.com/deskpilot-poc/server/internal/core/error"
	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/graph/prompts"
	"github.com/deskpilot-poc/server/internal/agent/llm"
	"github.com/deskpilot-poc/server/internal/agent/model"
)

// Subgraph step names as they appear in the turn trace.
const (
	StepRewrite    = "rag.rewrite_query"
	StepRetrieve   = "rag.retrieve_docs"
	StepSynthesize = "rag.generate_answer"
)

// Fallback notes recorded when a step degrades.
const (
	NoteRewriteFallback   = "rewrite_fallback_verbatim"
	NoteRetrieveFailed    = "retrieve_failed_empty_evidence"
	NoteNoEvidence        = "insufficient_evidence"
	NoteSynthesisFallback = "synthesis_fallback"
)

// InsufficientInfoAnswer is the documented marker answer when no usable
// evidence exists. The synthesizer must return this rather than fabricate a
// grounded-sounding claim.
const InsufficientInfoAnswer = "I'm sorry, I couldn't find relevant information to answer your question."

// SynthesisFallbackAnswer is the deterministic final fallback when the
// synthesis model call itself fails.
const SynthesisFallbackAnswer = "I found documentation related to your question but couldn't generate an answer right now. Please reach out to the support team directly."

// Result is the typed outcome of one subgraph invocation. The rewritten
// query lives and dies inside the invocation; it is surfaced here only for
// the trace.
type Result struct {
	RewrittenQuery string
	Evidence       []model.EvidenceChunk
	DraftAnswer    string
	Trace          []model.TraceEvent
}

// Subgraph owns the three retrieval steps and the vector-index boundary.
type Subgraph struct {
	llm          *llm.Client
	index        einoretriever.Retriever
	topK         int
	minRelevance float64
	timeout      time.Duration
	maxAttempts  int
	backoff      time.Duration
}

func NewSubgraph(client *llm.Client, index einoretriever.Retriever, retrievalCfg model.RetrievalConfig, callCfg model.CallConfig) *Subgraph {
	s := &Subgraph{
		llm:          client,
		index:        index,
		topK:         retrievalCfg.TopK,
		minRelevance: retrievalCfg.MinRelevance,
		timeout:      time.Duration(callCfg.TimeoutSeconds) * time.Second,
		maxAttempts:  callCfg.MaxAttempts,
		backoff:      time.Duration(callCfg.BackoffMillis) * time.Millisecond,
	}
	if s.topK <= 0 {
		s.topK = 5
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 2
	}
	if s.backoff <= 0 {
		s.backoff = 200 * time.Millisecond
	}
	return s
}

// Run executes rewrite → retrieve → synthesize for the query. It always
// returns a usable result with a non-empty draft answer.
func (s *Subgraph) Run(ctx context.Context, userQuery string) Result {
	var res Result

	start := time.Now()
	rewritten, rewriteErr := s.rewrite(ctx, userQuery)
	if rewriteErr != nil {
		// Soft failure: search with the user's words verbatim.
		logx.Warn().Err(rewriteErr).Msg("query rewrite failed, using original query")
		rewritten = userQuery
		res.Trace = append(res.Trace, model.TraceEvent{Node: StepRewrite, Note: NoteRewriteFallback, Elapsed: time.Since(start)})
	} else {
		res.Trace = append(res.Trace, model.TraceEvent{Node: StepRewrite, Elapsed: time.Since(start)})
	}
	res.RewrittenQuery = rewritten

	start = time.Now()
	evidence, retrieveErr := s.retrieve(ctx, rewritten)
	if retrieveErr != nil {
		// Unavailable index degrades to the no-evidence path instead of
		// failing the turn.
		logx.Error().Err(retrieveErr).Msg("retrieval failed, proceeding without evidence")
		res.Trace = append(res.Trace, model.TraceEvent{Node: StepRetrieve, Note: NoteRetrieveFailed, Elapsed: time.Since(start)})
	} else {
		res.Trace = append(res.Trace, model.TraceEvent{Node: StepRetrieve, Elapsed: time.Since(start)})
	}
	res.Evidence = evidence

	start = time.Now()
	answer, note := s.synthesize(ctx, userQuery, evidence)
	res.DraftAnswer = answer
	res.Trace = append(res.Trace, model.TraceEvent{Node: StepSynthesize, Note: note, Elapsed: time.Since(start)})

	return res
}

func (s *Subgraph) rewrite(ctx context.Context, userQuery string) (string, error) {
	messages, err := prompts.RewriteMessages(ctx, userQuery)
	if err != nil {
		return "", errx.New(errx.KindRetrieval, err, "rewrite prompt render failed")
	}
	content, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return "", errx.New(errx.KindRetrieval, err, "rewrite call failed")
	}
	return content, nil
}

// retrieve queries the vector index with a bounded timeout and a single
// retry with exponential backoff, mirroring the model-call boundary policy.
func (s *Subgraph) retrieve(ctx context.Context, query string) ([]model.EvidenceChunk, error) {
	var docs []*schema.Document
	var lastErr error
	wait := s.backoff

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		result, err := s.index.Retrieve(callCtx, query, einoretriever.WithTopK(s.topK))
		cancel()
		if err == nil {
			docs = result
			lastErr = nil
			break
		}
		if errors.Is(err, context.DeadlineExceeded) {
			lastErr = errx.New(errx.KindTimeout, err, "vector index query timed out")
		} else {
			lastErr = errx.New(errx.KindRetrieval, err, "vector index query failed")
		}
		if attempt == s.maxAttempts {
			break
		}
		logx.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("vector index query failed, retrying")
		select {
		case <-ctx.Done():
			return nil, errx.New(errx.KindTimeout, ctx.Err(), "retrieval canceled")
		case <-time.After(wait):
		}
		wait *= 2
	}
	if lastErr != nil {
		return nil, lastErr
	}

	evidence := make([]model.EvidenceChunk, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		evidence = append(evidence, model.EvidenceChunk{
			SourceID:       doc.ID,
			Text:           doc.Content,
			RelevanceScore: doc.Score(),
			Metadata:       stringMetadata(doc.MetaData),
		})
	}
	// The index contract already orders by descending score with stable
	// ties; chunks keep that order.
	return evidence, nil
}

// synthesize produces the draft answer. When evidence is empty or everything
// scored below the relevance floor it returns the insufficient-information
// marker without a model call; a model failure returns the deterministic
// support-channel fallback.
func (s *Subgraph) synthesize(ctx context.Context, userQuery string, evidence []model.EvidenceChunk) (answer, note string) {
	if !s.hasUsableEvidence(evidence) {
		return InsufficientInfoAnswer, NoteNoEvidence
	}

	messages, err := prompts.SynthesizeMessages(ctx, userQuery, evidence)
	if err != nil {
		logx.Error().Err(err).Msg("synthesis prompt render failed")
		return SynthesisFallbackAnswer, NoteSynthesisFallback
	}
	content, err := s.llm.Complete(ctx, messages)
	if err != nil {
		logx.Error().Err(err).Msg("answer synthesis failed")
		return SynthesisFallbackAnswer, NoteSynthesisFallback
	}
	return content, ""
}

func (s *Subgraph) hasUsableEvidence(evidence []model.EvidenceChunk) bool {
	for _, chunk := range evidence {
		if chunk.RelevanceScore >= s.minRelevance {
			return true
		}
	}
	return false
}

func stringMetadata(meta map[string]any) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
