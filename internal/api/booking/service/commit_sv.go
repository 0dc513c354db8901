package bookingService

import (
	"github.com/ktrillos2/brahneyker/internal/api/booking"
	"github.com/ktrillos2/brahneyker/internal/entity"
	contextPkg "github.com/ktrillos2/brahneyker/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// commitBooking writes every pending request of a confirmed conversation in
// one transaction. Each professional's day is locked and re-checked for
// overlaps inside the transaction, so two clients confirming the same slot at
// once cannot both win.
func (s *bookingService) commitBooking(ctx context.Context, req booking.WebhookRequest, state entity.ConversationState) (booking.WebhookResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	slots := state.Slots

	start := entity.MinuteOfDay(slots.Time)
	if start < 0 || len(slots.Requests) == 0 {
		// Confirmation reached without a complete booking, restart the date.
		state.Slots.Date = ""
		state.Slots.Time = ""
		state.Step = entity.StepSelectDate
		return s.replyTurn(ctx, req, state, booking.StatusAskDate, promptDate)
	}

	repo, err := s.bookingRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return s.apologyTurn(ctx, req, err)
	}

	for _, r := range slots.Requests {
		existing, err := repo.Appointment.LockProfessionalDay(ctx, r.Professional, slots.Date)
		if err != nil {
			repo.Rollback()
			return s.apologyTurn(ctx, req, err)
		}

		for _, appt := range existing {
			if appt.Overlaps(start, entity.DefaultDurationMinutes) {
				repo.Rollback()
				s.log.WithFields(logrus.Fields{
					"request_id":   requestID,
					"professional": r.Professional,
					"date":         slots.Date,
					"time":         slots.Time,
				}).Warn("Slot taken between confirmation and commit")

				state.Slots.Date = ""
				state.Slots.Time = ""
				state.Step = entity.StepSelectDate
				return s.replyTurn(ctx, req, state, booking.StatusUnavailable,
					unavailablePrompt([]string{occupiedReason(r.Professional, slots.Time)}))
			}
		}

		id, err := s.utils.NewULIDFromTimestamp(s.now())
		if err != nil {
			repo.Rollback()
			return s.apologyTurn(ctx, req, err)
		}

		appointment := entity.Appointment{
			ID:           id,
			Date:         slots.Date,
			Time:         slots.Time,
			Duration:     entity.DefaultDurationMinutes,
			Professional: r.Professional,
			Status:       string(entity.AppointmentStatusConfirmed),
			ClientName:   slots.ClientName,
			ClientPhone:  req.Phone,
			ServiceType:  r.Service,
			CreatedAt:    s.now(),
		}
		if err := repo.Appointment.Create(ctx, appointment); err != nil {
			repo.Rollback()
			return s.apologyTurn(ctx, req, err)
		}
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit booking transaction")
		return s.apologyTurn(ctx, req, err)
	}

	// The booking stands even if the conversation record cannot be cleared.
	if err := s.conversations.DeleteState(ctx, req.Phone); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"phone":      req.Phone,
			"error":      err.Error(),
		}).Warn("Failed to clear conversation state after booking")
	}

	reply := bookedPrompt(slots)
	s.sendReply(ctx, req.Phone, reply)

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"phone":        req.Phone,
		"date":         slots.Date,
		"time":         slots.Time,
		"appointments": len(slots.Requests),
	}).Info("Booking committed")

	return booking.WebhookResponse{Status: booking.StatusBooked, Reply: reply}, nil
}
