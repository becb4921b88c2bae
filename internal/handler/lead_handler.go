package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorat/leads-api/internal/dto"
	"github.com/mentorat/leads-api/internal/logging"
	"github.com/mentorat/leads-api/internal/service"
	"github.com/mentorat/leads-api/internal/utils"
)

// LeadHandler handles consultation form submissions.
type LeadHandler struct {
	service service.LeadService
	logger  *logging.Logger
}

// NewLeadHandler constructs a lead handler.
func NewLeadHandler(service service.LeadService, logger *logging.Logger) *LeadHandler {
	return &LeadHandler{
		service: service,
		logger:  logger,
	}
}

// Register wires the lead routes, with any route-scoped middleware first.
func (h *LeadHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := append(middlewares, h.submit)
	router.Post("/submit-lead", handlers...)
}

const submitLeadEndpoint = "/api/submit-lead"

func (h *LeadHandler) submit(c *fiber.Ctx) (err error) {
	// Internal failures must never reach the caller as anything other than a
	// generic 500.
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Unhandled error during lead submission", logging.Context{
				"action":    "submit_lead",
				"errorKind": fmt.Sprintf("%T", r),
			}, submitLeadEndpoint)
			err = utils.SendError(c, fiber.StatusInternalServerError, "An unexpected error occurred")
		}
	}()

	var payload dto.LeadRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	meta := service.RequestMeta{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Referrer:  c.Get(fiber.HeaderReferer),
	}

	response, err := h.service.Submit(c.Context(), payload, meta)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", validationErr.Fields)
		case errors.Is(err, service.ErrConfig):
			return utils.SendError(c, fiber.StatusInternalServerError, "Server configuration error")
		case errors.Is(err, service.ErrEmailSend):
			return utils.SendError(c, fiber.StatusInternalServerError, "Failed to send email")
		case errors.Is(err, service.ErrDatabase):
			return utils.SendError(c, fiber.StatusInternalServerError, "Failed to save lead to database")
		default:
			h.logger.Error("Unhandled error during lead submission", logging.Context{
				"action": "submit_lead",
			}, submitLeadEndpoint)
			return utils.SendError(c, fiber.StatusInternalServerError, "An unexpected error occurred")
		}
	}

	return utils.SendLeadCreated(c, "Thank you! Your message has been sent.", response.LeadID, response.EmailID)
}
