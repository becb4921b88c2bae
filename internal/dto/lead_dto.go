package dto

// LeadRequest defines the expected payload for the lead submission endpoint.
// Telegram and Email treat the empty string as absent.
type LeadRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Phone    string `json:"phone" validate:"required,lead_phone"`
	Telegram string `json:"telegram" validate:"omitempty,tg_handle"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
}

// LeadResponse carries the identifiers produced by a successful submission.
type LeadResponse struct {
	LeadID  string `json:"leadId"`
	EmailID string `json:"emailId,omitempty"`
}
