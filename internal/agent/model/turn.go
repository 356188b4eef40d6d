package model

// TurnInput represents one user query entering the orchestrator.
type TurnInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// TurnResult is what the turn entry point returns to callers.
type TurnResult struct {
	FinalAnswer string   `json:"final_answer"`
	Intent      Intent   `json:"intent"`
	Ticket      *Ticket  `json:"ticket,omitempty"`
	Trace       []string `json:"trace"`
}
