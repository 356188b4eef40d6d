package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

func TestNextStateLinearPrefix(t *testing.T) {
	assert.Equal(t, StateClassified, NextState(StateStart, ""))
	assert.Equal(t, StateRouted, NextState(StateClassified, ""))
}

func TestNextStateBranchesOnRoute(t *testing.T) {
	assert.Equal(t, StateEscalating, NextState(StateRouted, model.RouteEscalate))
	assert.Equal(t, StateRetrieving, NextState(StateRouted, model.RouteNeedsRetrieval))
	assert.Equal(t, StateResponding, NextState(StateRouted, model.RouteRespondDirect))
}

func TestNextStateExecutionBranchesConverge(t *testing.T) {
	for _, s := range []State{StateResponding, StateRetrieving, StateEscalating} {
		assert.Equal(t, StateFinalized, NextState(s, ""), "state=%s", s)
	}
}

func TestNextStateFinalizedIsTerminal(t *testing.T) {
	for _, r := range []model.Route{model.RouteRespondDirect, model.RouteNeedsRetrieval, model.RouteEscalate, ""} {
		assert.Equal(t, StateFinalized, NextState(StateFinalized, r), "route=%s", r)
	}
}

func TestEveryRunTerminates(t *testing.T) {
	// From any state and any route, finalized is reached within the graph
	// depth. A regression here would hang the orchestrator loop.
	states := []State{StateStart, StateClassified, StateRouted, StateResponding, StateRetrieving, StateEscalating, StateFinalized, State("bogus")}
	routes := []model.Route{model.RouteRespondDirect, model.RouteNeedsRetrieval, model.RouteEscalate, model.Route("bogus"), ""}

	for _, start := range states {
		for _, route := range routes {
			current := start
			for step := 0; current != StateFinalized; step++ {
				if step > len(states) {
					t.Fatalf("no convergence from state=%s route=%s", start, route)
				}
				current = NextState(current, route)
			}
		}
	}
}
