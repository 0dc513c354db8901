package bookingRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ktrillos2/brahneyker/internal/api/booking"
	"github.com/ktrillos2/brahneyker/internal/entity"
	contextPkg "github.com/ktrillos2/brahneyker/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type AppointmentDB struct {
	ID            sql.NullString `db:"id"`
	Date          sql.NullString `db:"date"`
	Time          sql.NullString `db:"time"`
	Duration      sql.NullInt64  `db:"duration"`
	Professional  sql.NullString `db:"professional"`
	Status        sql.NullString `db:"status"`
	ClientName    sql.NullString `db:"client_name"`
	ClientPhone   sql.NullString `db:"client_phone"`
	ServiceType   sql.NullString `db:"service_type"`
	ServiceDetail sql.NullString `db:"service_detail"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r *appointmentRepository) Create(c context.Context, appointment entity.Appointment) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":             appointment.ID,
		"date":           appointment.Date,
		"time":           appointment.Time,
		"duration":       appointment.Duration,
		"professional":   appointment.Professional,
		"status":         appointment.Status,
		"client_name":    appointment.ClientName,
		"client_phone":   appointment.ClientPhone,
		"service_type":   appointment.ServiceType,
		"service_detail": appointment.ServiceDetail,
		"created_at":     time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateAppointment, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Create appointment")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating appointment")

		return err
	}

	return nil
}

func (r *appointmentRepository) GetByID(c context.Context, id string) (entity.Appointment, error) {
	requestID := contextPkg.GetRequestID(c)
	var appointment AppointmentDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetAppointmentByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.Appointment{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&appointment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetByID no rows found")
			return entity.Appointment{}, booking.ErrAppointmentNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.Appointment{}, err
	}

	return r.makeAppointment(appointment), nil
}

func (r *appointmentRepository) ListActiveByProfessionalAndDate(c context.Context, professional, date string) ([]entity.Appointment, error) {
	return r.listProfessionalDay(c, queryListActiveByProfessionalAndDate, professional, date)
}

// LockProfessionalDay is ListActiveByProfessionalAndDate plus row locks, for
// the commit transaction that re-validates overlap right before insert.
func (r *appointmentRepository) LockProfessionalDay(c context.Context, professional, date string) ([]entity.Appointment, error) {
	return r.listProfessionalDay(c, queryLockProfessionalDay, professional, date)
}

func (r *appointmentRepository) listProfessionalDay(c context.Context, baseQuery, professional, date string) ([]entity.Appointment, error) {
	requestID := contextPkg.GetRequestID(c)
	var appointments []AppointmentDB

	argsKV := map[string]interface{}{
		"professional": professional,
		"date":         date,
	}

	query, args, err := sqlx.Named(baseQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("listProfessionalDay named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &appointments, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("listProfessionalDay execution err")
		return nil, err
	}

	result := make([]entity.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, r.makeAppointment(appointment))
	}

	return result, nil
}

func (r *appointmentRepository) ListByPhone(c context.Context, phone string) ([]entity.Appointment, error) {
	requestID := contextPkg.GetRequestID(c)
	var appointments []AppointmentDB

	argsKV := map[string]interface{}{
		"client_phone": phone,
	}

	query, args, err := sqlx.Named(queryListAppointmentsByPhone, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByPhone named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &appointments, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByPhone execution err")
		return nil, err
	}

	result := make([]entity.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, r.makeAppointment(appointment))
	}

	return result, nil
}

func (r *appointmentRepository) HasFutureActive(c context.Context, phone, fromDate string) (bool, error) {
	requestID := contextPkg.GetRequestID(c)
	var count int

	argsKV := map[string]interface{}{
		"client_phone": phone,
		"from_date":    fromDate,
	}

	query, args, err := sqlx.Named(queryHasFutureActive, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("HasFutureActive named query preparation err")
		return false, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).Scan(&count); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("HasFutureActive execution err")
		return false, err
	}

	return count > 0, nil
}

func (r *appointmentRepository) LatestClientName(c context.Context, phone string) (string, error) {
	requestID := contextPkg.GetRequestID(c)
	var name sql.NullString

	argsKV := map[string]interface{}{
		"client_phone": phone,
	}

	query, args, err := sqlx.Named(queryLatestClientName, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("LatestClientName named query preparation err")
		return "", err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("LatestClientName execution err")
		return "", err
	}

	return name.String, nil
}

func (r *appointmentRepository) UpdateStatus(c context.Context, id, status string) error {
	requestID := contextPkg.GetRequestID(c)

	if !entity.IsValidAppointmentStatus(status) {
		return booking.ErrInvalidStatus
	}

	argsKV := map[string]interface{}{
		"id":     id,
		"status": status,
	}

	query, args, err := sqlx.Named(queryUpdateAppointmentStatus, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateStatus named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateStatus execution err")
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return booking.ErrAppointmentNotFound
	}

	return nil
}

func (r *appointmentRepository) Delete(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteAppointment, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Delete named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Delete execution err")
		return err
	}

	return nil
}

func (r *appointmentRepository) makeAppointment(row AppointmentDB) entity.Appointment {
	return entity.Appointment{
		ID:            row.ID.String,
		Date:          row.Date.String,
		Time:          row.Time.String,
		Duration:      int(row.Duration.Int64),
		Professional:  row.Professional.String,
		Status:        row.Status.String,
		ClientName:    row.ClientName.String,
		ClientPhone:   row.ClientPhone.String,
		ServiceType:   row.ServiceType.String,
		ServiceDetail: row.ServiceDetail.String,
		CreatedAt:     row.CreatedAt,
	}
}
