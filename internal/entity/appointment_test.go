package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinuteOfDay(t *testing.T) {
	assert.Equal(t, 0, MinuteOfDay("00:00"))
	assert.Equal(t, 570, MinuteOfDay("09:30"))
	assert.Equal(t, 1140, MinuteOfDay("19:00"))
	assert.Equal(t, -1, MinuteOfDay("9:30"))
	assert.Equal(t, -1, MinuteOfDay("25:00"))
	assert.Equal(t, -1, MinuteOfDay("ab:cd"))
	assert.Equal(t, -1, MinuteOfDay(""))
}

func TestAppointmentOverlaps(t *testing.T) {
	appt := Appointment{Time: "10:00", Duration: 60}

	tests := []struct {
		name  string
		start int
		want  bool
	}{
		{"same slot", 600, true},
		{"starts mid-appointment", 630, true},
		{"ends mid-appointment", 570, true},
		{"back to back before", 540, false},
		{"back to back after", 660, false},
		{"far away", 900, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, appt.Overlaps(tt.start, 60))
		})
	}
}

func TestAppointmentOverlapsZeroDurationDefaults(t *testing.T) {
	// Stored rows may predate the duration column, treat zero as the default.
	appt := Appointment{Time: "10:00"}
	assert.True(t, appt.Overlaps(630, 60))
}

func TestIsValidAppointmentStatus(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "completed", "cancelled"} {
		assert.True(t, IsValidAppointmentStatus(status), status)
	}
	assert.False(t, IsValidAppointmentStatus("booked"))
	assert.False(t, IsValidAppointmentStatus(""))
}
