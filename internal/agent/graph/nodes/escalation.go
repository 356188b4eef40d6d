package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/tool"

	errx "github.com/deskpilot-poc/server/internal/core/error"
	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/model"
	"github.com/deskpilot-poc/server/internal/agent/tools"
)

const maxSummaryLen = 140

// Escalator creates exactly one ticket per escalated turn through the
// create_ticket tool. The tool call gets a bounded timeout and is never
// retried: a duplicate ticket is worse than a reported failure.
type Escalator struct {
	ticketTool     tool.InvokableTool
	contactEmail   string
	supportChannel string
	timeout        time.Duration
}

func NewEscalator(ticketTool tool.InvokableTool, escCfg model.EscalationConfig, callCfg model.CallConfig) *Escalator {
	timeout := time.Duration(callCfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Escalator{
		ticketTool:     ticketTool,
		contactEmail:   escCfg.ContactEmail,
		supportChannel: escCfg.SupportChannel,
		timeout:        timeout,
	}
}

// Escalate files a ticket for the query and returns the ticket plus the
// user-facing confirmation. On tool failure the returned answer explicitly
// states that the escalation could not be confirmed and names the direct
// contact path; it is never a silent success.
func (e *Escalator) Escalate(ctx context.Context, userQuery string) (*model.Ticket, string, error) {
	req := tools.CreateTicketRequest{
		Summary:      summarize(userQuery),
		Priority:     PriorityFromQuery(userQuery),
		Department:   DepartmentFromQuery(userQuery),
		ContactEmail: e.contactEmail,
	}

	args, err := json.Marshal(req)
	if err != nil {
		return nil, e.failureAnswer(), errx.New(errx.KindTicketCreation, err, "marshal ticket arguments")
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.ticketTool.InvokableRun(callCtx, string(args))
	if err != nil {
		logx.Error().
			Err(err).
			Str("priority", string(req.Priority)).
			Str("department", req.Department).
			Msg("ticket creation failed")
		return nil, e.failureAnswer(), errx.New(errx.KindTicketCreation, err, "ticket tool call failed")
	}

	var out tools.CreateTicketOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out.Ticket == nil {
		logx.Error().Err(err).Str("raw_output", raw).Msg("ticket tool returned malformed response")
		return nil, e.failureAnswer(), errx.New(errx.KindTicketCreation, err, "malformed ticket tool response")
	}

	answer := out.Message
	if strings.TrimSpace(answer) == "" {
		answer = fmt.Sprintf("Your issue has been escalated. Support ticket %s was created and someone will contact you shortly.", out.Ticket.ID)
	}
	return out.Ticket, answer, nil
}

func (e *Escalator) failureAnswer() string {
	return fmt.Sprintf(
		"I could not confirm your escalation with the ticketing system. Your report has been recorded locally and will be retried. For immediate assistance please contact %s directly.",
		e.supportChannel,
	)
}

// criticalKeywords mark incidents severe enough for critical priority.
var criticalKeywords = []string{"security", "breach", "hack", "compromis", "phishing", "ransomware"}

// deviceWords and lossWords together detect a lost or stolen device report.
var (
	deviceWords = []string{"laptop", "phone", "device", "computer", "notebook", "tablet"}
	lossWords   = []string{"lost", "stolen", "missing"}
)

// PriorityFromQuery derives ticket priority from keyword severity. Every
// escalated turn is at least high priority; security incidents and lost
// devices are critical.
func PriorityFromQuery(userQuery string) model.TicketPriority {
	q := strings.ToLower(userQuery)
	for _, kw := range criticalKeywords {
		if strings.Contains(q, kw) {
			return model.PriorityCritical
		}
	}
	if containsAny(q, lossWords) && containsAny(q, deviceWords) {
		return model.PriorityCritical
	}
	return model.PriorityHigh
}

// DepartmentFromQuery picks the owning department the way the escalation
// prompt instructed the original tool-calling model to.
func DepartmentFromQuery(userQuery string) string {
	q := strings.ToLower(userQuery)
	switch {
	case containsAny(q, criticalKeywords) || (containsAny(q, lossWords) && containsAny(q, deviceWords)):
		return "Security"
	case containsAny(q, []string{"payroll", "salary", "benefits", "harassment", "hr", "contract"}):
		return "HR"
	case containsAny(q, []string{"building", "office", "door", "badge", "desk", "heating"}):
		return "Facilities"
	default:
		return "IT"
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func summarize(userQuery string) string {
	q := strings.TrimSpace(userQuery)
	if len(q) <= maxSummaryLen {
		return q
	}
	// Back off to a rune boundary so the cut never produces invalid UTF-8.
	cut := maxSummaryLen
	for cut > 0 && !utf8.RuneStart(q[cut]) {
		cut--
	}
	return q[:cut]
}
