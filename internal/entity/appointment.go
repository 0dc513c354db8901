package entity

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func IsValidAppointmentStatus(status string) bool {
	switch AppointmentStatus(status) {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	default:
		return false
	}
}

// DefaultDurationMinutes is the slot length reserved for bookings created by the bot.
const DefaultDurationMinutes = 60

type Appointment struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"` // YYYY-MM-DD
	Time          string    `json:"time"` // HH:MM
	Duration      int       `json:"duration"`
	Professional  string    `json:"professional"`
	Status        string    `json:"status"`
	ClientName    string    `json:"client_name"`
	ClientPhone   string    `json:"client_phone"`
	ServiceType   string    `json:"service_type"`
	ServiceDetail string    `json:"service_detail"`
	CreatedAt     time.Time `json:"created_at"`
}

// StartMinute returns the appointment start as minute-of-day, or -1 when
// the stored time is malformed.
func (a Appointment) StartMinute() int {
	return MinuteOfDay(a.Time)
}

// Overlaps reports whether the [start, start+duration) interval of this
// appointment intersects the given candidate interval, both in minutes of day.
func (a Appointment) Overlaps(startMinute, durationMinutes int) bool {
	existingStart := a.StartMinute()
	if existingStart < 0 {
		return false
	}

	duration := a.Duration
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}

	existingEnd := existingStart + duration
	candidateEnd := startMinute + durationMinutes

	return max(existingStart, startMinute) < min(existingEnd, candidateEnd)
}

// MinuteOfDay converts an HH:MM clock string to minute-of-day, -1 when malformed.
func MinuteOfDay(hhmm string) int {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return -1
	}

	for _, i := range []int{0, 1, 3, 4} {
		if hhmm[i] < '0' || hhmm[i] > '9' {
			return -1
		}
	}

	hour := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	minute := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if hour > 23 || minute > 59 {
		return -1
	}

	return hour*60 + minute
}
