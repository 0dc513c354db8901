package bookingService

import (
	"github.com/ktrillos2/brahneyker/internal/entity"
	contextPkg "github.com/ktrillos2/brahneyker/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *bookingService) GetAppointment(ctx context.Context, id string) (entity.Appointment, error) {
	repo, err := s.bookingRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.Appointment{}, err
	}
	return repo.Appointment.GetByID(ctx, id)
}

func (s *bookingService) ListAppointmentsByPhone(ctx context.Context, phone string) ([]entity.Appointment, error) {
	repo, err := s.bookingRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}
	return repo.Appointment.ListByPhone(ctx, phone)
}

func (s *bookingService) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.bookingRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return err
	}

	if err := repo.Appointment.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"id":         id,
		"status":     status,
	}).Info("Appointment status updated")
	return nil
}

func (s *bookingService) DeleteAppointment(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.bookingRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return err
	}

	if err := repo.Appointment.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"id":         id,
	}).Info("Appointment deleted")
	return nil
}
