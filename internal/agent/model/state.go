package model

import (
	"time"
)

// Intent is the closed set of query categories the classifier may assign.
// Exactly one intent is assigned per turn and it is never rewritten by a
// downstream node; routing overrides are recorded in the trace instead.
type Intent string

const (
	IntentPolicyQuery     Intent = "policy_query"
	IntentITSupport       Intent = "it_support"
	IntentCriticalIssue   Intent = "critical_issue"
	IntentChitchatUnclear Intent = "chitchat_unclear"
)

// Known returns whether the intent is one of the four modeled categories.
func (i Intent) Known() bool {
	switch i {
	case IntentPolicyQuery, IntentITSupport, IntentCriticalIssue, IntentChitchatUnclear:
		return true
	}
	return false
}

func (i Intent) String() string { return string(i) }

// Route is the routing decision derived from an intent.
type Route string

const (
	RouteRespondDirect  Route = "respond_direct"
	RouteNeedsRetrieval Route = "needs_retrieval"
	RouteEscalate       Route = "escalate"
)

func (r Route) String() string { return string(r) }

// TicketPriority is the urgency assigned to an escalation ticket.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// TicketStatus models only the initial lifecycle state; everything after
// "open" belongs to the external ticketing system.
type TicketStatus string

const TicketStatusOpen TicketStatus = "open"

// Ticket is the record produced by one escalation. Immutable after creation.
type Ticket struct {
	ID           string         `json:"id"`
	Priority     TicketPriority `json:"priority"`
	Summary      string         `json:"summary"`
	Department   string         `json:"department"`
	ContactEmail string         `json:"contact_email"`
	CreatedAt    time.Time      `json:"created_at"`
	Status       TicketStatus   `json:"status"`
}

// EvidenceChunk is one retrieved passage used to ground an answer.
// Produced only by the retrieval step, never mutated afterwards.
type EvidenceChunk struct {
	SourceID       string            `json:"source_id"`
	Text           string            `json:"text"`
	RelevanceScore float64           `json:"relevance_score"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// TraceEvent records one node visit (or fallback taken inside a node) for
// post-hoc auditing of routing and escalation decisions.
type TraceEvent struct {
	Node    string        `json:"node"`
	Note    string        `json:"note,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// String renders the event the way the turn entry point exposes it:
// the node name, with the note appended when a fallback or override fired.
func (e TraceEvent) String() string {
	if e.Note == "" {
		return e.Node
	}
	return e.Node + ":" + e.Note
}

// ConversationState is the per-turn working record. It is created fresh for
// every turn, mutated only by the node currently executing, and treated as
// immutable once FinalAnswer is written by the terminal node.
type ConversationState struct {
	TurnID               string
	ConversationID       string
	UserQuery            string
	Intent               Intent
	ClassifierConfidence float64
	Route                Route
	Evidence             []EvidenceChunk
	DraftAnswer          string
	Ticket               *Ticket
	FinalAnswer          string
	Trace                []TraceEvent
}

// AddTrace appends a node-visit event.
func (s *ConversationState) AddTrace(node string, elapsed time.Duration) {
	s.Trace = append(s.Trace, TraceEvent{Node: node, Elapsed: elapsed})
}

// AddTraceNote appends a node-visit event carrying a fallback/override note.
func (s *ConversationState) AddTraceNote(node, note string, elapsed time.Duration) {
	s.Trace = append(s.Trace, TraceEvent{Node: node, Note: note, Elapsed: elapsed})
}

// TraceStrings flattens the trace for the turn entry point contract.
func (s *ConversationState) TraceStrings() []string {
	out := make([]string, len(s.Trace))
	for i, e := range s.Trace {
		out[i] = e.String()
	}
	return out
}
