package model

import (
	"context"
	"time"
)

// TurnRecord is the persisted, structured trace of one completed turn.
// External evaluation harnesses read these to assert routing and escalation
// correctness against expected labels.
type TurnRecord struct {
	TurnID         string        `json:"turn_id"`
	ConversationID string        `json:"conversation_id"`
	Query          string        `json:"query"`
	Intent         Intent        `json:"intent"`
	Route          Route         `json:"route"`
	TicketID       string        `json:"ticket_id,omitempty"`
	FinalAnswer    string        `json:"final_answer"`
	Trace          []TraceEvent  `json:"trace"`
	Latency        time.Duration `json:"latency_ns"`
	CreatedAt      time.Time     `json:"created_at"`
}

// TraceRepository persists turn records keyed by conversation.
type TraceRepository interface {
	// AppendTurn stores the record for the given conversation.
	AppendTurn(ctx context.Context, conversationID string, record *TurnRecord) error

	// LoadTurns retrieves all turn records for a conversation, oldest first.
	LoadTurns(ctx context.Context, conversationID string) ([]*TurnRecord, error)

	// ClearTurns removes all turn records for a conversation.
	ClearTurns(ctx context.Context, conversationID string) error
}
