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

// ClarificationAnswer is the deterministic direct response for queries the
// planner decides need no documentation grounding.
const ClarificationAnswer = "I'm not sure I understand your question. Could you please provide more details about what you need help with? I can assist with onboarding procedures, company policies, IT support, and equipment information."

// Plan is the planner's verdict for a non-critical turn.
type Plan struct {
	// Delegate is true when the retrieval subgraph must produce the answer.
	Delegate bool
	// Answer carries the direct answer when Delegate is false.
	Answer string
}

// Planner decides whether a non-critical query can be answered without
// documentation. It is advisory only and is never consulted for
// critical_issue turns.
type Planner struct {
	llm *llm.Client
}

func NewPlanner(client *llm.Client) *Planner {
	return &Planner{llm: client}
}

// Decide returns the plan for the query. Policy and IT questions always
// delegate: grounded answers are preferred over ungrounded ones. Unclear or
// conversational queries get one model call to check whether documentation
// would actually help; any failure of that call falls back to delegation,
// and the error is returned alongside so the caller can record the fallback.
func (p *Planner) Decide(ctx context.Context, userQuery string, intent model.Intent) (Plan, error) {
	switch intent {
	case model.IntentPolicyQuery, model.IntentITSupport:
		return Plan{Delegate: true}, nil
	case model.IntentCriticalIssue:
		// Escalation is decided by the router and never overridden here.
		return Plan{Delegate: false}, errx.Newf(errx.KindInference, "planner consulted for critical_issue")
	}

	messages, err := prompts.PlanMessages(ctx, userQuery)
	if err != nil {
		return Plan{Delegate: true}, errx.New(errx.KindInference, err, "planner prompt render failed")
	}

	content, err := p.llm.Complete(ctx, messages)
	if err != nil {
		logx.Warn().Err(err).Msg("planner call failed, delegating to retrieval")
		return Plan{Delegate: true}, err
	}

	decision, err := parsers.ParsePlanDecision(content)
	if err != nil {
		logx.Warn().Err(err).Str("raw_output", content).Msg("planner verdict did not parse, delegating to retrieval")
		return Plan{Delegate: true}, err
	}

	if decision == parsers.PlanNeedsRetrieval {
		return Plan{Delegate: true}, nil
	}
	return Plan{Delegate: false, Answer: ClarificationAnswer}, nil
}
