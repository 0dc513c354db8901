package bookingService

import (
	"os"
	"strconv"

	"github.com/ktrillos2/brahneyker/internal/entity"
)

// BusinessHours is the daily opening window shared by the whole roster. A
// booking must fit entirely inside it, including its full duration.
type BusinessHours struct {
	OpenHour  int
	CloseHour int
}

func NewBusinessHoursFromEnv() BusinessHours {
	hours := BusinessHours{OpenHour: 8, CloseHour: 19}
	if v, err := strconv.Atoi(os.Getenv("SALON_OPEN_HOUR")); err == nil && v >= 0 && v <= 23 {
		hours.OpenHour = v
	}
	if v, err := strconv.Atoi(os.Getenv("SALON_CLOSE_HOUR")); err == nil && v >= 1 && v <= 24 {
		hours.CloseHour = v
	}
	if hours.CloseHour <= hours.OpenHour {
		hours = BusinessHours{OpenHour: 8, CloseHour: 19}
	}
	return hours
}

const (
	reasonClosed   = "closed"
	reasonOccupied = "occupied"
)

type availabilityResult struct {
	Available bool
	Reason    string
	Blocking  entity.Appointment
}

// resolveAvailability checks one professional's day against the requested
// clock time. Cancelled appointments never block, the caller already filters
// them out of existing.
func resolveAvailability(hours BusinessHours, clock string, existing []entity.Appointment) availabilityResult {
	start := entity.MinuteOfDay(clock)
	if start < 0 || start < hours.OpenHour*60 || start+entity.DefaultDurationMinutes > hours.CloseHour*60 {
		return availabilityResult{Reason: reasonClosed}
	}
	for _, appt := range existing {
		if appt.Overlaps(start, entity.DefaultDurationMinutes) {
			return availabilityResult{Reason: reasonOccupied, Blocking: appt}
		}
	}
	return availabilityResult{Available: true}
}
