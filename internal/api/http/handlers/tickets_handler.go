package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pardismasoud-hue/pishgam/internal/api/dto"
	"github.com/pardismasoud-hue/pishgam/internal/auth"
	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/service"
	apperrors "github.com/pardismasoud-hue/pishgam/pkg/errorutil"
)

// TicketsHandler adapts the ticket engine to HTTP. Every route group mounts
// the same methods; the resolved actor decides what the engine allows.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /company/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), actor, service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		ServiceID:   req.ServiceID,
		AssetID:     req.AssetID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// GetTicket GET /:role/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /:role/tickets?status=OPEN,IN_PROGRESS.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var statuses []domain.TicketStatus
	for _, raw := range strings.Split(c.Query("status"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			statuses = append(statuses, domain.TicketStatus(strings.ToUpper(raw)))
		}
	}
	tickets, err := h.service.ListTickets(c.UserContext(), actor, statuses)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// ListSatisfactions GET /company/tickets/satisfaction.
func (h *TicketsHandler) ListSatisfactions(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	surveys, err := h.service.ListSatisfactions(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSatisfactionResponses(surveys)})
}

// ListMessages GET /:role/tickets/:id/messages.
func (h *TicketsHandler) ListMessages(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.ListMessages(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketMessageResponses(msgs)})
}

// AddMessage POST /:role/tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.AddMessage(c.UserContext(), actor, c.Params("id"), service.AddMessageInput{
		Body:       req.Body,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketMessageResponse(msg)})
}

// ChangeStatus PATCH /:role/tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AssignExpert POST /admin/tickets/:id/assign/:expertUserId.
func (h *TicketsHandler) AssignExpert(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.AssignExpert(c.UserContext(), actor, c.Params("id"), c.Params("expertUserId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// SubmitSatisfaction POST /company/tickets/:id/satisfaction.
func (h *TicketsHandler) SubmitSatisfaction(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SatisfactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	survey, err := h.service.SubmitSatisfaction(c.UserContext(), actor, c.Params("id"), service.SatisfactionInput{
		Rating:                  req.Rating,
		ResponseTimeRating:      req.ResponseTimeRating,
		ResolutionQualityRating: req.ResolutionQualityRating,
		CommunicationRating:     req.CommunicationRating,
		Comment:                 req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSatisfactionResponse(survey)})
}

// LogTime POST /expert/tickets/:id/timelogs.
func (h *TicketsHandler) LogTime(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.TimeLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.service.LogTime(c.UserContext(), actor, c.Params("id"), service.TimeLogInput{
		Minutes:  req.Minutes,
		WorkType: req.WorkType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTimeLogResponse(entry)})
}

// ListTimeLogs GET /:role/tickets/:id/timelogs.
func (h *TicketsHandler) ListTimeLogs(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	logs, err := h.service.ListTimeLogs(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimeLogResponses(logs)})
}

// ListHistory GET /:role/tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	history, err := h.service.ListHistory(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketHistoryResponses(history)})
}

func actorFrom(c *fiber.Ctx) (auth.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return auth.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}
