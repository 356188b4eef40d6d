// Package service exposes the turn entry point behind a bounded worker
// pool. The pool size caps how many turns run simultaneously, which in turn
// caps the number of outstanding model and vector-index calls.
package service

import (
	"context"

	"github.com/deskpilot-poc/server/internal/agent/graph"
	"github.com/deskpilot-poc/server/internal/agent/model"
)

const defaultPoolSize = 8

// Service runs turns through the orchestrator with bounded concurrency.
// Each turn owns its ConversationState exclusively; no state is shared
// between turns, so no locking beyond the admission semaphore is needed.
type Service struct {
	runner graph.Runner
	sem    chan struct{}
}

func New(runner graph.Runner, cfg model.WorkerPoolConfig) *Service {
	size := cfg.Size
	if size <= 0 {
		size = defaultPoolSize
	}
	return &Service{
		runner: runner,
		sem:    make(chan struct{}, size),
	}
}

// ProcessTurn executes one turn, blocking while the pool is saturated.
// It fails only when the caller's context expires before a worker slot
// frees up; node-level failures inside the turn resolve to degraded answers,
// not errors.
func (s *Service) ProcessTurn(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.sem }()

	return s.runner.Invoke(ctx, in)
}

// InFlight reports how many turns are currently executing.
func (s *Service) InFlight() int {
	return len(s.sem)
}
