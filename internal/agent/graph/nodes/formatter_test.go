package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

func TestFormatFinalAnswerPassesDraftThrough(t *testing.T) {
	st := &model.ConversationState{DraftAnswer: "You get 25 vacation days per year."}

	assert.Equal(t, "You get 25 vacation days per year.", FormatFinalAnswer(st))
}

func TestFormatFinalAnswerNeverEmpty(t *testing.T) {
	for _, draft := range []string{"", "   ", "\n\t"} {
		st := &model.ConversationState{DraftAnswer: draft}
		assert.Equal(t, FallbackAnswer, FormatFinalAnswer(st), "draft=%q", draft)
	}
}

func TestFormatFinalAnswerAppendsTicketReference(t *testing.T) {
	st := &model.ConversationState{
		DraftAnswer: "Your issue has been escalated.",
		Ticket:      &model.Ticket{ID: "TICKET-A1B2C3D4"},
	}

	assert.Equal(t, "Your issue has been escalated. (reference: TICKET-A1B2C3D4)", FormatFinalAnswer(st))
}

func TestFormatFinalAnswerDoesNotDuplicateTicketReference(t *testing.T) {
	st := &model.ConversationState{
		DraftAnswer: "Support ticket TICKET-A1B2C3D4 created successfully.",
		Ticket:      &model.Ticket{ID: "TICKET-A1B2C3D4"},
	}

	got := FormatFinalAnswer(st)

	assert.Equal(t, "Support ticket TICKET-A1B2C3D4 created successfully.", got)
}

func TestFormatFinalAnswerTicketReferenceOnFallback(t *testing.T) {
	// Even a failed upstream path keeps the reference when a ticket exists.
	st := &model.ConversationState{
		DraftAnswer: "",
		Ticket:      &model.Ticket{ID: "TICKET-00FF00FF"},
	}

	got := FormatFinalAnswer(st)

	assert.Contains(t, got, FallbackAnswer)
	assert.Contains(t, got, "(reference: TICKET-00FF00FF)")
}
