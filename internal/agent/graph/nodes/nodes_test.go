package nodes

import (
	"context"
	"errors"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/deskpilot-poc/server/internal/agent/llm"
	"github.com/deskpilot-poc/server/internal/agent/model"
)

// scriptedChatModel returns queued responses in order; a nil entry produces
// an error. Shared by the classifier and planner tests.
type scriptedChatModel struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.responses) {
		return nil, errors.New("no scripted response left")
	}
	i := s.calls
	s.calls++
	if s.errs != nil && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return schema.AssistantMessage(s.responses[i], nil), nil
}

func (s *scriptedChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (s *scriptedChatModel) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// singleAttemptClient keeps scripted call sequences deterministic.
func singleAttemptClient(cm einomodel.BaseChatModel) *llm.Client {
	return llm.NewClient(cm, model.CallConfig{TimeoutSeconds: 5, MaxAttempts: 1, BackoffMillis: 1})
}

// failingTicketTool always rejects the call.
type failingTicketTool struct{}

func (failingTicketTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{Name: "create_ticket"}, nil
}

func (failingTicketTool) InvokableRun(ctx context.Context, args string, opts ...tool.Option) (string, error) {
	return "", errors.New("ticketing system unavailable")
}
