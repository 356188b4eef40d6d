package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

//go:embed template/rewrite_prompt.txt
var rewritePrompt string

//go:embed template/synthesize_prompt.txt
var synthesizeSystemPrompt string

// RewriteMessages renders the query-rewrite prompt for the given question.
func RewriteMessages(ctx context.Context, userQuery string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(rewritePrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{"Question": userQuery})
	if err != nil {
		return nil, fmt.Errorf("rewrite prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("rewrite prompt render: empty result")
	}
	return msgs, nil
}

// SynthesizeMessages renders the grounded-answer exchange: the fixed system
// prompt plus a user message carrying the numbered evidence block and the
// original question.
func SynthesizeMessages(ctx context.Context, userQuery string, evidence []model.EvidenceChunk) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("messages", false),
	)
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", FormatEvidence(evidence), userQuery)
	msgs, err := tpl.Format(ctx, map[string]any{
		"messages": []*schema.Message{
			schema.SystemMessage(synthesizeSystemPrompt),
			schema.UserMessage(user),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize prompt render: %w", err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("synthesize prompt render: empty result")
	}
	return msgs, nil
}

// FormatEvidence renders retrieved chunks as a numbered context block,
// attributing each passage to its source document.
func FormatEvidence(evidence []model.EvidenceChunk) string {
	var sb strings.Builder
	for i, chunk := range evidence {
		source := chunk.SourceID
		if s, ok := chunk.Metadata["source"]; ok && s != "" {
			source = s
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Document %d - %s]\n%s", i+1, source, chunk.Text)
	}
	return sb.String()
}
