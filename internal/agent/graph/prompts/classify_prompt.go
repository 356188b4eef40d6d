package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/classify_prompt.txt
var classifySystemPrompt string

//go:embed template/plan_prompt.txt
var planSystemPrompt string

// ClassifyMessages builds the intent-classification exchange for a query.
func ClassifyMessages(ctx context.Context, userQuery string) ([]*schema.Message, error) {
	return renderSystemAndUser(ctx, classifySystemPrompt, userQuery)
}

// PlanMessages builds the NEEDS_RAG / DIRECT planning exchange for a query.
func PlanMessages(ctx context.Context, userQuery string) ([]*schema.Message, error) {
	return renderSystemAndUser(ctx, planSystemPrompt, userQuery)
}

// renderSystemAndUser runs the fixed system prompt plus the raw user query
// through the Eino prompt component so prompt callbacks fire.
func renderSystemAndUser(ctx context.Context, systemText, userQuery string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"messages": []*schema.Message{
			schema.SystemMessage(systemText),
			schema.UserMessage(userQuery),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("render prompt: empty result")
	}
	return msgs, nil
}
