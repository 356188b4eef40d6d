package repo

import (
	"context"
	"sync"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

// MemoryTraceRepository keeps turn records in memory. It backs local runs
// without Redis and the test suite.
type MemoryTraceRepository struct {
	mu    sync.RWMutex
	turns map[string][]*model.TurnRecord
}

func NewMemoryTraceRepository() *MemoryTraceRepository {
	return &MemoryTraceRepository{turns: make(map[string][]*model.TurnRecord)}
}

func (r *MemoryTraceRepository) AppendTurn(ctx context.Context, conversationID string, record *model.TurnRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[conversationID] = append(r.turns[conversationID], record)
	return nil
}

func (r *MemoryTraceRepository) LoadTurns(ctx context.Context, conversationID string) ([]*model.TurnRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.turns[conversationID]
	out := make([]*model.TurnRecord, len(src))
	copy(out, src)
	return out, nil
}

func (r *MemoryTraceRepository) ClearTurns(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.turns, conversationID)
	return nil
}
