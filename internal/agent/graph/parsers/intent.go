// Package parsers is the deserialization boundary between free-form model
// output and the closed enums the rest of the system works with. Anything
// that does not map onto a known label is rejected here; it never propagates
// as an open string.
package parsers

import (
	"strings"

	errx "github.com/deskpilot-poc/server/internal/core/error"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

// maxLabelLen guards against pathological classifier output; a valid label
// is a couple of words at most.
const maxLabelLen = 128

// intentAliases maps every label spelling the classifier (or an older prompt
// revision) may emit onto the closed intent set.
var intentAliases = map[string]model.Intent{
	"policy_query":     model.IntentPolicyQuery,
	"policy_question":  model.IntentPolicyQuery,
	"policy":           model.IntentPolicyQuery,
	"it_support":       model.IntentITSupport,
	"it_question":      model.IntentITSupport,
	"it":               model.IntentITSupport,
	"critical_issue":   model.IntentCriticalIssue,
	"critical":         model.IntentCriticalIssue,
	"chitchat_unclear": model.IntentChitchatUnclear,
	"chitchat/unclear": model.IntentChitchatUnclear,
	"chitchat":         model.IntentChitchatUnclear,
	"unclear":          model.IntentChitchatUnclear,
	"ambiguous":        model.IntentChitchatUnclear,
}

// Confidence assigned by parse quality: a bare label is a clean answer, a
// label buried in a sentence is weaker evidence the model followed the
// contract.
const (
	exactMatchConfidence    = 1.0
	containsMatchConfidence = 0.6
)

// ParseIntent normalizes a classifier response into one of the four intents
// plus a parse-quality confidence. The model is instructed to answer with
// the bare category name, but we tolerate surrounding quotes, punctuation,
// and mixed case.
func ParseIntent(content string) (model.Intent, float64, error) {
	label := normalizeLabel(content)
	if label == "" {
		return "", 0, errx.Newf(errx.KindClassification, "empty classifier output")
	}
	if len(label) > maxLabelLen {
		return "", 0, errx.Newf(errx.KindClassification, "classifier output too long")
	}
	if intent, ok := intentAliases[label]; ok {
		return intent, exactMatchConfidence, nil
	}
	// Some models answer in a sentence ("The category is policy_query.").
	// Accept it only when exactly one known label appears.
	var found model.Intent
	for _, c := range containsLabels {
		if !strings.Contains(label, c.label) {
			continue
		}
		if found != "" && found != c.intent {
			return "", 0, errx.Newf(errx.KindClassification, "ambiguous classifier output %q", snippet(label))
		}
		found = c.intent
	}
	if found != "" {
		return found, containsMatchConfidence, nil
	}
	return "", 0, errx.Newf(errx.KindClassification, "unrecognized intent label %q", snippet(label))
}

// containsLabels lists the substrings that are unambiguous enough to match
// inside a full sentence. Short aliases like "it" stay exact-match only.
var containsLabels = []struct {
	label  string
	intent model.Intent
}{
	{"policy_query", model.IntentPolicyQuery},
	{"policy_question", model.IntentPolicyQuery},
	{"it_support", model.IntentITSupport},
	{"it_question", model.IntentITSupport},
	{"critical_issue", model.IntentCriticalIssue},
	{"chitchat_unclear", model.IntentChitchatUnclear},
	{"chitchat/unclear", model.IntentChitchatUnclear},
	{"ambiguous", model.IntentChitchatUnclear},
}

// PlanDecision is the planner's verdict on whether grounding is required.
type PlanDecision string

const (
	PlanNeedsRetrieval PlanDecision = "NEEDS_RAG"
	PlanDirect         PlanDecision = "DIRECT"
)

// ParsePlanDecision reads the planner model's NEEDS_RAG / DIRECT verdict.
// NEEDS_RAG wins whenever both markers appear: the safer default is a
// grounded answer.
func ParsePlanDecision(content string) (PlanDecision, error) {
	verdict := strings.ToUpper(strings.TrimSpace(content))
	if verdict == "" {
		return "", errx.Newf(errx.KindInference, "empty planner output")
	}
	if strings.Contains(verdict, string(PlanNeedsRetrieval)) {
		return PlanNeedsRetrieval, nil
	}
	if strings.Contains(verdict, string(PlanDirect)) {
		return PlanDirect, nil
	}
	return "", errx.Newf(errx.KindInference, "unrecognized planner verdict %q", snippet(verdict))
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, "\"'`.,:;!")
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max]
}
