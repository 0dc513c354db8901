package booking

// Status tokens returned to the gateway per turn. Diagnostics only, the
// human-facing reply travels over WhatsApp.
const (
	StatusAskService      = "ask_service"
	StatusAskProfessional = "ask_professional"
	StatusAskDate         = "ask_date"
	StatusAskMeridiem     = "ask_meridiem"
	StatusAskName         = "ask_name"
	StatusConfirmBooking  = "confirm_booking"
	StatusBooked          = "booked"
	StatusUnavailable     = "unavailable"
	StatusIgnored         = "ignored"
	StatusHandoff         = "handoff"
	StatusWelcome         = "welcome"
	StatusUnknown         = "unknown"
	StatusError           = "error"
)

// WebhookRequest is what the remote WhatsApp gateway posts per inbound message.
type WebhookRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Text    string `json:"text" validate:"required"`
	Name    string `json:"name"`
	IsGroup bool   `json:"is_group"`
	Secret  string `json:"secret"`
}

type WebhookResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply,omitempty"`
}
