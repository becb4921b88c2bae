package utils

import "github.com/gofiber/fiber/v2"

// LeadCreatedResponse is the success envelope for a captured lead.
type LeadCreatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"leadId"`
	EmailID string `json:"emailId,omitempty"`
}

// ErrorResponse is the failure envelope. Details is only populated for
// validation failures; every other error carries a generic message.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// SendLeadCreated sends the success payload for a new lead.
func SendLeadCreated(c *fiber.Ctx, message, leadID, emailID string) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(LeadCreatedResponse{
		Success: true,
		Message: message,
		LeadID:  leadID,
		EmailID: emailID,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// SendErrorWithDetails sends an error response carrying structured detail,
// used for field-level validation violations.
func SendErrorWithDetails(c *fiber.Ctx, status int, message string, details interface{}) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}
