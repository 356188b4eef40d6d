package rag

import (
	"context"
	"errors"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	einoretriever "github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpilot-poc/server/internal/agent/llm"
	"github.com/deskpilot-poc/server/internal/agent/model"
	"github.com/deskpilot-poc/server/internal/agent/vectorstore"
)

// scriptedChatModel returns queued responses in order; a nil entry in errs
// makes that call succeed.
type scriptedChatModel struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.responses) {
		return nil, errors.New("no scripted response left")
	}
	i := s.calls
	s.calls++
	if s.errs != nil && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return schema.AssistantMessage(s.responses[i], nil), nil
}

func (s *scriptedChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (s *scriptedChatModel) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// failingIndex rejects every query.
type failingIndex struct{}

func (failingIndex) Retrieve(ctx context.Context, query string, opts ...einoretriever.Option) ([]*schema.Document, error) {
	return nil, errors.New("index unavailable")
}

// fixedScoreIndex returns one document with a fixed score.
type fixedScoreIndex struct{ score float64 }

func (f fixedScoreIndex) Retrieve(ctx context.Context, query string, opts ...einoretriever.Option) ([]*schema.Document, error) {
	doc := &schema.Document{ID: "doc-1", Content: "barely related text"}
	return []*schema.Document{doc.WithScore(f.score)}, nil
}

func newTestSubgraph(cm einomodel.BaseChatModel, index einoretriever.Retriever) *Subgraph {
	client := llm.NewClient(cm, model.CallConfig{TimeoutSeconds: 5, MaxAttempts: 1, BackoffMillis: 1})
	return NewSubgraph(client, index, model.RetrievalConfig{TopK: 5, MinRelevance: 0.1}, model.CallConfig{TimeoutSeconds: 5, MaxAttempts: 1, BackoffMillis: 1})
}

func traceNotes(trace []model.TraceEvent) []string {
	out := make([]string, 0, len(trace))
	for _, e := range trace {
		if e.Note != "" {
			out = append(out, e.Note)
		}
	}
	return out
}

func TestRunGroundedAnswer(t *testing.T) {
	cm := &scriptedChatModel{responses: []string{
		"remote work home office days per week policy",
		"You can work from home up to 3 days per week after your first month.",
	}}
	index := vectorstore.NewMemoryIndex(vectorstore.OnboardingCorpus()...)
	sg := newTestSubgraph(cm, index)

	res := sg.Run(context.Background(), "How many home office days per week do we get?")

	assert.Equal(t, "remote work home office days per week policy", res.RewrittenQuery)
	require.NotEmpty(t, res.Evidence)
	assert.Equal(t, "remote-work-001", res.Evidence[0].SourceID)
	assert.Contains(t, res.DraftAnswer, "3 days")
	assert.Empty(t, traceNotes(res.Trace))
	require.Len(t, res.Trace, 3)
	assert.Equal(t, StepRewrite, res.Trace[0].Node)
	assert.Equal(t, StepRetrieve, res.Trace[1].Node)
	assert.Equal(t, StepSynthesize, res.Trace[2].Node)
}

func TestRunRewriteFailureSearchesVerbatim(t *testing.T) {
	cm := &scriptedChatModel{
		responses: []string{"", "The VPN client needs multi-factor authentication."},
		errs:      []error{errors.New("rewrite model down"), nil},
	}
	index := vectorstore.NewMemoryIndex(vectorstore.OnboardingCorpus()...)
	sg := newTestSubgraph(cm, index)

	res := sg.Run(context.Background(), "vpn client fails to connect")

	assert.Equal(t, "vpn client fails to connect", res.RewrittenQuery)
	assert.NotEmpty(t, res.Evidence)
	assert.Contains(t, traceNotes(res.Trace), NoteRewriteFallback)
	assert.Equal(t, "The VPN client needs multi-factor authentication.", res.DraftAnswer)
}

func TestRunIndexFailureDegradesToNoEvidence(t *testing.T) {
	cm := &scriptedChatModel{responses: []string{"vpn connection troubleshooting"}}
	sg := newTestSubgraph(cm, failingIndex{})

	res := sg.Run(context.Background(), "vpn is broken")

	assert.Empty(t, res.Evidence)
	assert.Equal(t, InsufficientInfoAnswer, res.DraftAnswer)
	notes := traceNotes(res.Trace)
	assert.Contains(t, notes, NoteRetrieveFailed)
	assert.Contains(t, notes, NoteNoEvidence)
	// No synthesis call without usable evidence.
	assert.Equal(t, 1, cm.callCount())
}

func TestRunNoMatchesYieldsInsufficientInfo(t *testing.T) {
	cm := &scriptedChatModel{responses: []string{"quantum flux capacitor maintenance"}}
	index := vectorstore.NewMemoryIndex(vectorstore.OnboardingCorpus()...)
	sg := newTestSubgraph(cm, index)

	res := sg.Run(context.Background(), "quantum flux capacitor maintenance")

	assert.Empty(t, res.Evidence)
	assert.Equal(t, InsufficientInfoAnswer, res.DraftAnswer)
	assert.Contains(t, traceNotes(res.Trace), NoteNoEvidence)
}

func TestRunBelowRelevanceFloorSkipsSynthesis(t *testing.T) {
	cm := &scriptedChatModel{responses: []string{"some rewritten query"}}
	sg := newTestSubgraph(cm, fixedScoreIndex{score: 0.05})

	res := sg.Run(context.Background(), "anything")

	require.Len(t, res.Evidence, 1)
	assert.Equal(t, InsufficientInfoAnswer, res.DraftAnswer)
	assert.Contains(t, traceNotes(res.Trace), NoteNoEvidence)
	assert.Equal(t, 1, cm.callCount())
}

func TestRunSynthesisFailureUsesDeterministicFallback(t *testing.T) {
	cm := &scriptedChatModel{
		responses: []string{"vacation days policy", ""},
		errs:      []error{nil, errors.New("generation model down")},
	}
	index := vectorstore.NewMemoryIndex(vectorstore.OnboardingCorpus()...)
	sg := newTestSubgraph(cm, index)

	res := sg.Run(context.Background(), "how many vacation days per year?")

	assert.NotEmpty(t, res.Evidence)
	assert.Equal(t, SynthesisFallbackAnswer, res.DraftAnswer)
	assert.Contains(t, traceNotes(res.Trace), NoteSynthesisFallback)
}
