package graph

import (
	"context"
	"fmt"
	"time"

	einoretriever "github.com/cloudwego/eino/components/retriever"

	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/graph/nodes"
	"github.com/deskpilot-poc/server/internal/agent/graph/rag"
	"github.com/deskpilot-poc/server/internal/agent/llm"
	"github.com/deskpilot-poc/server/internal/agent/model"
	"github.com/deskpilot-poc/server/internal/agent/tools"
)

// Runner is a thin wrapper to execute one turn with the public TurnInput.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*model.TurnResult, error)
}

// Config holds everything needed to compose the full turn pipeline
// end-to-end. It constructs the chat models and wires every node.
type Config struct {
	APIKey  string
	BaseURL string

	ClassifierModel model.ClassifierModelConfig
	GenerationModel model.GenerationModelConfig
	Retrieval       model.RetrievalConfig
	Call            model.CallConfig
	Escalation      model.EscalationConfig

	// Index is the vector-index boundary (external collaborator).
	Index einoretriever.Retriever
	// Tickets is the ticketing-system boundary (external collaborator).
	Tickets tools.TicketService
	// TraceRepo persists per-turn trace records; nil disables persistence.
	TraceRepo model.TraceRepository
}

// BuildTurnRunner composes the chat models, nodes, retrieval subgraph, and
// escalation handler into a Runner.
func BuildTurnRunner(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Index == nil {
		return nil, fmt.Errorf("vector index is nil")
	}
	if cfg.Tickets == nil {
		return nil, fmt.Errorf("ticket service is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ClassifierConfig: &cfg.ClassifierModel,
		GenerationConfig: &cfg.GenerationModel,
	})
	if err != nil {
		return nil, err
	}

	classifierClient := llm.NewClient(cms.Classifier, cfg.Call)
	generationClient := llm.NewClient(cms.Generation, cfg.Call)

	orch := NewOrchestrator(
		nodes.NewClassifier(classifierClient),
		nodes.NewPlanner(generationClient),
		nodes.NewEscalator(tools.NewCreateTicketTool(cfg.Tickets), cfg.Escalation, cfg.Call),
		rag.NewSubgraph(generationClient, cfg.Index, cfg.Retrieval, cfg.Call),
	)

	logx.Debug().
		Str("classifier_model", cms.ClassifierModelName).
		Str("generation_model", cms.GenerationModelName).
		Msg("turn pipeline built")

	return NewRunner(orch, cfg.TraceRepo), nil
}

// NewRunner wraps an orchestrator with trace persistence. Used directly by
// tests that inject mock models.
func NewRunner(orch *Orchestrator, repo model.TraceRepository) Runner {
	return &turnRunner{orch: orch, repo: repo}
}

type turnRunner struct {
	orch *Orchestrator
	repo model.TraceRepository
}

func (r *turnRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	start := time.Now()
	st := r.orch.Run(ctx, in)

	if r.repo != nil {
		// Persistence is best effort; a storage failure never costs the
		// user their answer.
		if err := r.repo.AppendTurn(ctx, st.ConversationID, Record(st, time.Since(start))); err != nil {
			logx.Error().
				Err(err).
				Str("turn_id", st.TurnID).
				Str("conversation_id", st.ConversationID).
				Msg("failed to persist turn record")
		}
	}

	return Result(st), nil
}
