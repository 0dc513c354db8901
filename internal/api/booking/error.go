package booking

import "github.com/ktrillos2/brahneyker/pkg/response"

var (
	ErrMissingPhoneOrText  = response.NewError(400, "missing phone or text")
	ErrInvalidSecret       = response.NewError(401, "invalid gateway secret")
	ErrAppointmentNotFound = response.NewError(404, "appointment not found")
	ErrInvalidStatus       = response.NewError(400, "invalid appointment status")
	ErrSlotConflict        = response.NewError(409, "slot no longer available")
	ErrStoreUnavailable    = response.NewError(503, "appointment storage unavailable")
)
