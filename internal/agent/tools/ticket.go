// Package tools holds the agent's side-effecting tools. The only one today
// is create_ticket, exposed as an eino tool so the escalation handler calls
// it through the same component contract a model-bound tool would use.
package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	errx "github.com/deskpilot-poc/server/internal/core/error"
	logx "github.com/deskpilot-poc/server/pkg/logger"

	"github.com/deskpilot-poc/server/internal/agent/model"
)

const ToolCreateTicket = "create_ticket"

// TicketService creates tickets in the (simulated) ticketing system.
type TicketService interface {
	CreateTicket(ctx context.Context, req CreateTicketRequest) (*model.Ticket, error)
}

// CreateTicketRequest carries everything needed to open a ticket.
type CreateTicketRequest struct {
	Summary      string               `json:"summary"`
	Priority     model.TicketPriority `json:"priority"`
	Department   string               `json:"department"`
	ContactEmail string               `json:"contact_email"`
}

// CreateTicketOutput is the tool's wire response.
type CreateTicketOutput struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Ticket  *model.Ticket `json:"ticket"`
}

// NewCreateTicketTool wraps the ticket service as an invokable eino tool.
func NewCreateTicketTool(svc TicketService) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCreateTicket,
			Desc: "Create a support ticket in the ticketing system for issues that require human follow-up. Returns a confirmation message with the ticket ID.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"summary": {
					Type:     "string",
					Desc:     "Short description of the issue taken from the user's report.",
					Required: true,
				},
				"priority": {
					Type:     "string",
					Desc:     "Priority level: low, medium, high, or critical.",
					Required: true,
				},
				"department": {
					Type:     "string",
					Desc:     "Department the ticket should be assigned to: IT, HR, Security, or Facilities.",
					Required: true,
				},
				"contact_email": {
					Type:     "string",
					Desc:     "Contact email for follow-up.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CreateTicketRequest) (*CreateTicketOutput, error) {
			if strings.TrimSpace(in.Summary) == "" {
				return nil, errx.Newf(errx.KindTicketCreation, "summary is required")
			}
			ticket, err := svc.CreateTicket(ctx, *in)
			if err != nil {
				return nil, err
			}
			return &CreateTicketOutput{
				Status: "success",
				Message: fmt.Sprintf(
					"Support ticket %s created successfully for the %s department. We will contact you at %s regarding the issue: %q.",
					ticket.ID, ticket.Department, ticket.ContactEmail, ticket.Summary,
				),
				Ticket: ticket,
			}, nil
		},
	)
}

// SimulatedTicketService keeps created tickets in memory. It stands in for
// the external ticketing system behind the same stable interface.
type SimulatedTicketService struct {
	mu      sync.Mutex
	tickets map[string]*model.Ticket
}

func NewSimulatedTicketService() *SimulatedTicketService {
	return &SimulatedTicketService{tickets: make(map[string]*model.Ticket)}
}

// CreateTicket registers a new open ticket with a process-unique ID.
func (s *SimulatedTicketService) CreateTicket(ctx context.Context, req CreateTicketRequest) (*model.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, errx.New(errx.KindTicketCreation, err, "ticket creation canceled")
	}

	priority := req.Priority
	switch priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityCritical:
	default:
		priority = model.PriorityHigh
	}

	ticket := &model.Ticket{
		ID:           newTicketID(),
		Priority:     priority,
		Summary:      req.Summary,
		Department:   req.Department,
		ContactEmail: req.ContactEmail,
		CreatedAt:    time.Now().UTC(),
		Status:       model.TicketStatusOpen,
	}

	s.mu.Lock()
	s.tickets[ticket.ID] = ticket
	s.mu.Unlock()

	logx.Info().
		Str("ticket_id", ticket.ID).
		Str("priority", string(ticket.Priority)).
		Str("department", ticket.Department).
		Msg("ticket created")

	return ticket, nil
}

// Get returns a previously created ticket, or nil when unknown.
func (s *SimulatedTicketService) Get(id string) *model.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets[id]
}

// Count returns how many tickets have been created so far.
func (s *SimulatedTicketService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

func newTicketID() string {
	return "TICKET-" + strings.ToUpper(uuid.NewString()[:8])
}
