package entity

import "time"

// Step is the dialogue state of one WhatsApp conversation. A missing
// ConversationState record behaves as StepWelcome.
type Step uint8

const (
	StepWelcome Step = iota
	StepSelectService
	StepSelectServiceSpecific
	StepSelectProfessional
	StepSelectDate
	StepSelectMeridiem
	StepAskName
	StepConfirmBooking
	StepHandoff
)

var stepNames = map[Step]string{
	StepWelcome:               "welcome",
	StepSelectService:         "select_service",
	StepSelectServiceSpecific: "select_service_specific",
	StepSelectProfessional:    "select_professional",
	StepSelectDate:            "select_date",
	StepSelectMeridiem:        "select_meridiem",
	StepAskName:               "ask_name",
	StepConfirmBooking:        "confirm_booking",
	StepHandoff:               "handoff",
}

func (s Step) String() string {
	return stepNames[s]
}

// BookingRequest is one pending {professional, service} pair inside a
// conversation. A single message may open several of them at once.
type BookingRequest struct {
	Professional string `json:"professional,omitempty"`
	Service      string `json:"service,omitempty"`
}

func (r BookingRequest) HasService() bool      { return r.Service != "" }
func (r BookingRequest) HasProfessional() bool { return r.Professional != "" }

// SlotData accumulates the booking fields collected so far across turns.
type SlotData struct {
	Requests   []BookingRequest `json:"requests,omitempty"`
	Date       string           `json:"date,omitempty"` // YYYY-MM-DD
	Time       string           `json:"time,omitempty"` // HH:MM, 24h
	ClientName string           `json:"client_name,omitempty"`

	// PendingHour holds the candidate hour while the meridiem is still
	// unresolved; applied once the client answers morning/afternoon.
	PendingHour   int  `json:"pending_hour,omitempty"`
	PendingMinute int  `json:"pending_minute,omitempty"`
	TimeAmbiguous bool `json:"time_ambiguous,omitempty"`
}

// ConversationState is the per-actor dialogue memory, one live record per
// phone number, overwritten every turn.
type ConversationState struct {
	Phone       string    `json:"phone"`
	Step        Step      `json:"step"`
	Slots       SlotData  `json:"slots"`
	LastUpdated time.Time `json:"last_updated"`
}

// AllServicesFilled reports whether every pending request carries a service.
func (s SlotData) AllServicesFilled() bool {
	if len(s.Requests) == 0 {
		return false
	}
	for _, r := range s.Requests {
		if !r.HasService() {
			return false
		}
	}
	return true
}

// AllProfessionalsFilled reports whether every pending request carries a professional.
func (s SlotData) AllProfessionalsFilled() bool {
	if len(s.Requests) == 0 {
		return false
	}
	for _, r := range s.Requests {
		if !r.HasProfessional() {
			return false
		}
	}
	return true
}

func (s SlotData) HasDate() bool { return s.Date != "" }
func (s SlotData) HasTime() bool { return s.Time != "" }
