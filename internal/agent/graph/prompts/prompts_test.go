package prompts

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

func TestClassifyMessages(t *testing.T) {
	msgs, err := ClassifyMessages(context.Background(), "how many vacation days do I get?")

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "policy_query")
	assert.Contains(t, msgs[0].Content, "critical_issue")
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "how many vacation days do I get?", msgs[1].Content)
}

func TestPlanMessages(t *testing.T) {
	msgs, err := PlanMessages(context.Background(), "hey!")

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Content, "NEEDS_RAG")
	assert.Contains(t, msgs[0].Content, "DIRECT")
}

func TestRewriteMessagesInterpolatesQuestion(t *testing.T) {
	msgs, err := RewriteMessages(context.Background(), "vpn broken??")

	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "vpn broken??")
}

func TestSynthesizeMessagesCarryEvidenceAndQuestion(t *testing.T) {
	evidence := []model.EvidenceChunk{
		{SourceID: "remote-work-001", Text: "up to 3 days per week", Metadata: map[string]string{"source": "remote_work_policy.md"}},
		{SourceID: "vacation-001", Text: "25 vacation days per year"},
	}

	msgs, err := SynthesizeMessages(context.Background(), "how many home office days?", evidence)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[1].Content, "[Document 1 - remote_work_policy.md]")
	assert.Contains(t, msgs[1].Content, "[Document 2 - vacation-001]")
	assert.Contains(t, msgs[1].Content, "Question: how many home office days?")
}

func TestFormatEvidenceEmpty(t *testing.T) {
	assert.Equal(t, "", FormatEvidence(nil))
}
