// Package graph owns the conversation orchestration: the main
// classify → route → {respond | retrieve | escalate} → finalize state
// machine, the nested retrieval subgraph invocation, and trace recording.
package graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/graph/nodes"
	"github.com/deskpilot-poc/server/internal/agent/graph/rag"
	"github.com/deskpilot-poc/server/internal/agent/model"
)

// Node names as recorded in the turn trace.
const (
	NodeClassifyIntent = "classify_intent"
	NodeRouter         = "router"
	NodeRespond        = "respond"
	NodeEscalate       = "escalate"
	NodeFinalize       = "finalized"
)

// Trace notes for fallbacks and overrides taken by the orchestrator.
const (
	NoteClassifierFallback = "fallback_default_intent"
	NotePlannerOverride    = "planner_override_to_retrieval"
	NotePlannerFallback    = "planner_fallback_delegate"
	NoteTicketFailed       = "ticket_creation_failed"
)

// Orchestrator executes the main graph for one turn at a time. It owns no
// cross-turn state; every Run gets a fresh ConversationState.
type Orchestrator struct {
	classifier *nodes.Classifier
	planner    *nodes.Planner
	escalator  *nodes.Escalator
	retrieval  *rag.Subgraph
}

func NewOrchestrator(classifier *nodes.Classifier, planner *nodes.Planner, escalator *nodes.Escalator, retrieval *rag.Subgraph) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		planner:    planner,
		escalator:  escalator,
		retrieval:  retrieval,
	}
}

// Run drives one turn from start to finalized and returns the completed
// state. The turn always reaches finalized with a non-empty final answer;
// node failures are absorbed by their documented fallbacks.
func (o *Orchestrator) Run(ctx context.Context, in model.TurnInput) *model.ConversationState {
	st := &model.ConversationState{
		TurnID:         uuid.NewString(),
		ConversationID: in.ConversationID,
		UserQuery:      in.Query,
	}

	escalated := false
	current := StateStart

	for current != StateFinalized {
		next := NextState(current, st.Route)
		switch next {
		case StateClassified:
			o.classify(ctx, st)
		case StateRouted:
			o.route(ctx, st)
		case StateResponding:
			o.respond(st)
		case StateRetrieving:
			o.retrieve(ctx, st)
		case StateEscalating:
			// One ticket per turn; the state machine cannot revisit this
			// branch, the flag guards against future regressions.
			if !escalated {
				escalated = true
				o.escalate(ctx, st)
			}
		case StateFinalized:
			o.finalize(st)
		}
		current = next
	}

	logx.Info().
		Str("turn_id", st.TurnID).
		Str("conversation_id", st.ConversationID).
		Str("intent", st.Intent.String()).
		Str("route", st.Route.String()).
		Int("evidence_count", len(st.Evidence)).
		Bool("ticket_created", st.Ticket != nil).
		Msg("turn finalized")

	return st
}

func (o *Orchestrator) classify(ctx context.Context, st *model.ConversationState) {
	start := time.Now()
	intent, confidence, err := o.classifier.Classify(ctx, st.UserQuery)
	if err != nil {
		// Never block a turn on classification: assume an IT support
		// request with zero confidence and move on.
		logx.Warn().
			Err(err).
			Str("turn_id", st.TurnID).
			Str("fallback_intent", nodes.FallbackIntent.String()).
			Msg("classification failed, applying default intent")
		st.Intent = nodes.FallbackIntent
		st.ClassifierConfidence = nodes.FallbackConfidence
		st.AddTraceNote(NodeClassifyIntent, NoteClassifierFallback, time.Since(start))
		return
	}
	st.Intent = intent
	st.ClassifierConfidence = confidence
	st.AddTrace(NodeClassifyIntent, time.Since(start))
}

// route combines the pure router with the planner: the router fixes the
// path for critical issues, and the planner refines the two non-critical
// paths. Planner overrides never rewrite the classified intent; they are
// recorded in the trace.
func (o *Orchestrator) route(ctx context.Context, st *model.ConversationState) {
	start := time.Now()
	st.Route = nodes.Route(st.Intent)

	if st.Route == model.RouteEscalate {
		st.AddTraceNote(NodeRouter, st.Route.String(), time.Since(start))
		return
	}

	plan, err := o.planner.Decide(ctx, st.UserQuery, st.Intent)
	switch {
	case err != nil:
		// Safer default: prefer grounded answers over ungrounded ones.
		st.Route = model.RouteNeedsRetrieval
		st.AddTraceNote(NodeRouter, NotePlannerFallback, time.Since(start))
	case plan.Delegate && st.Route == model.RouteRespondDirect:
		st.Route = model.RouteNeedsRetrieval
		st.AddTraceNote(NodeRouter, NotePlannerOverride, time.Since(start))
	case plan.Delegate:
		st.AddTraceNote(NodeRouter, st.Route.String(), time.Since(start))
	default:
		st.Route = model.RouteRespondDirect
		st.DraftAnswer = plan.Answer
		st.AddTraceNote(NodeRouter, st.Route.String(), time.Since(start))
	}
}

func (o *Orchestrator) respond(st *model.ConversationState) {
	start := time.Now()
	if st.DraftAnswer == "" {
		st.DraftAnswer = nodes.ClarificationAnswer
	}
	st.AddTrace(NodeRespond, time.Since(start))
}

func (o *Orchestrator) retrieve(ctx context.Context, st *model.ConversationState) {
	res := o.retrieval.Run(ctx, st.UserQuery)
	st.Evidence = res.Evidence
	st.DraftAnswer = res.DraftAnswer
	st.Trace = append(st.Trace, res.Trace...)
}

func (o *Orchestrator) escalate(ctx context.Context, st *model.ConversationState) {
	start := time.Now()
	ticket, answer, err := o.escalator.Escalate(ctx, st.UserQuery)
	st.DraftAnswer = answer
	if err != nil {
		st.AddTraceNote(NodeEscalate, NoteTicketFailed, time.Since(start))
		return
	}
	st.Ticket = ticket
	st.AddTrace(NodeEscalate, time.Since(start))
}

func (o *Orchestrator) finalize(st *model.ConversationState) {
	start := time.Now()
	st.FinalAnswer = nodes.FormatFinalAnswer(st)
	st.AddTrace(NodeFinalize, time.Since(start))
}

// Result converts a finished state into the turn entry point's return shape.
func Result(st *model.ConversationState) *model.TurnResult {
	return &model.TurnResult{
		FinalAnswer: st.FinalAnswer,
		Intent:      st.Intent,
		Ticket:      st.Ticket,
		Trace:       st.TraceStrings(),
	}
}

// Record builds the persisted observability artifact for a finished turn.
func Record(st *model.ConversationState, latency time.Duration) *model.TurnRecord {
	rec := &model.TurnRecord{
		TurnID:         st.TurnID,
		ConversationID: st.ConversationID,
		Query:          st.UserQuery,
		Intent:         st.Intent,
		Route:          st.Route,
		FinalAnswer:    st.FinalAnswer,
		Trace:          st.Trace,
		Latency:        latency,
		CreatedAt:      time.Now().UTC(),
	}
	if st.Ticket != nil {
		rec.TicketID = st.Ticket.ID
	}
	return rec
}

