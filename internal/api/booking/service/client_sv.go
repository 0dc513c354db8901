package bookingService

import (
	"fmt"
	"time"

	contextPkg "github.com/ktrillos2/brahneyker/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// hasFutureActiveBooking reports whether the client already has a pending or
// confirmed appointment from today on.
func (s *bookingService) hasFutureActiveBooking(ctx context.Context, phone string) (bool, error) {
	repo, err := s.bookingRepo.NewClient(false)
	if err != nil {
		return false, err
	}
	return repo.Appointment.HasFutureActive(ctx, phone, s.today())
}

// knownName looks up the name this client used on their most recent
// appointment, so returning clients skip the name question.
func (s *bookingService) knownName(ctx context.Context, phone string) string {
	repo, err := s.bookingRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return ""
	}
	name, err := repo.Appointment.LatestClientName(ctx, phone)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"phone":      phone,
			"error":      err.Error(),
		}).Warn("Failed to look up client name")
		return ""
	}
	return name
}

func (s *bookingService) today() string {
	return s.now().Format("2006-01-02")
}

// clockPassed reports whether the given date and clock already lie behind the
// current instant.
func (s *bookingService) clockPassed(date string, hour, minute int) bool {
	var y, m, d int
	if _, err := fmt.Sscanf(date, "%d-%d-%d", &y, &m, &d); err != nil {
		return false
	}
	now := s.now()
	candidate := time.Date(y, time.Month(m), d, hour, minute, 0, 0, now.Location())
	return !candidate.After(now)
}
