package nlp

import "fmt"

type Intent string

const (
	IntentNails        Intent = "nails"
	IntentOtherService Intent = "other_service"
	IntentUnknown      Intent = "unknown"
)

type Meridiem uint8

const (
	MeridiemNone Meridiem = iota
	MeridiemAM
	MeridiemPM
)

// RequestCandidate is one {professional, service} pair guessed from a single
// message. Either field may be empty when the message only named one of them.
type RequestCandidate struct {
	Professional string
	Service      string
}

func (r RequestCandidate) Complete() bool {
	return r.Professional != "" && r.Service != ""
}

// ParsedDateTime is the date/time guess for a message, biased to the future.
// Ambiguous is set when a clock time was found but the message carried no
// meridiem marker, so the AM/PM reading cannot be trusted.
type ParsedDateTime struct {
	Date      string // YYYY-MM-DD
	Hour      int
	Minute    int
	HasTime   bool
	Ambiguous bool
}

// Clock formats an hour and minute as HH:MM.
func Clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func (p ParsedDateTime) Clock() string {
	return Clock(p.Hour, p.Minute)
}

// ParsedMessage is the full extraction result for one inbound message.
type ParsedMessage struct {
	Intent   Intent
	DateTime *ParsedDateTime
	Requests []RequestCandidate
}
