package nodes

import (
	"github.com/deskpilot-poc/server/internal/agent/model"
)

// Route maps an intent to a routing decision. Pure, deterministic, and total
// over the intent type: critical issues always escalate (never downgraded by
// any later heuristic), documentation-shaped intents go through retrieval,
// and everything else, including values outside the known enum, gets a direct
// clarification response.
func Route(intent model.Intent) model.Route {
	switch intent {
	case model.IntentCriticalIssue:
		return model.RouteEscalate
	case model.IntentPolicyQuery, model.IntentITSupport:
		return model.RouteNeedsRetrieval
	case model.IntentChitchatUnclear:
		return model.RouteRespondDirect
	default:
		return model.RouteRespondDirect
	}
}
