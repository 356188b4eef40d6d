package graph

import (
	"github.com/deskpilot-poc/server/internal/agent/model"
)

// State is the orchestrator's position in the main graph. The turn DAG is
// fixed and small, so it is modeled as an explicit state machine rather than
// a generic graph engine.
type State string

const (
	StateStart      State = "start"
	StateClassified State = "classified"
	StateRouted     State = "routed"
	StateResponding State = "responding"
	StateRetrieving State = "retrieving"
	StateEscalating State = "escalating"
	StateFinalized  State = "finalized"
)

// NextState is the total transition function of the main graph. From routed
// it branches on the route decision; every execution branch converges on
// finalized, and finalized is terminal (it maps to itself so the function
// stays total).
func NextState(current State, route model.Route) State {
	switch current {
	case StateStart:
		return StateClassified
	case StateClassified:
		return StateRouted
	case StateRouted:
		switch route {
		case model.RouteEscalate:
			return StateEscalating
		case model.RouteNeedsRetrieval:
			return StateRetrieving
		default:
			return StateResponding
		}
	case StateResponding, StateRetrieving, StateEscalating:
		return StateFinalized
	default:
		return StateFinalized
	}
}
