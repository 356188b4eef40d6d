package nodes

import (
	"fmt"
	"strings"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

// FallbackAnswer is returned when every upstream path failed to produce
// content. The formatter guarantees a non-empty final answer.
const FallbackAnswer = "I apologize, but I couldn't process your request. Please try rephrasing your question or contact support directly."

// FormatFinalAnswer normalizes whichever upstream artifact exists into the
// outward-facing response. Pure and side-effect free: it reads the state and
// returns the final answer without mutating anything.
func FormatFinalAnswer(state *model.ConversationState) string {
	answer := strings.TrimSpace(state.DraftAnswer)
	if answer == "" {
		answer = FallbackAnswer
	}
	if state.Ticket != nil && !strings.Contains(answer, state.Ticket.ID) {
		answer = fmt.Sprintf("%s (reference: %s)", answer, state.Ticket.ID)
	}
	return answer
}
