package bookingRepository

const (
	queryCreateAppointment = `
		INSERT INTO appointments (
			id,
			date,
			time,
			duration,
			professional,
			status,
			client_name,
			client_phone,
			service_type,
			service_detail,
			created_at
		) VALUES (
			:id,
			:date,
			:time,
			:duration,
			:professional,
			:status,
			:client_name,
			:client_phone,
			:service_type,
			:service_detail,
			:created_at
		)
	`

	queryGetAppointmentByID = `
		SELECT
			id,
			date,
			time,
			duration,
			professional,
			status,
			client_name,
			client_phone,
			service_type,
			service_detail,
			created_at
		FROM appointments
		WHERE id = :id
	`

	queryListActiveByProfessionalAndDate = `
		SELECT
			id,
			date,
			time,
			duration,
			professional,
			status,
			client_name,
			client_phone,
			service_type,
			service_detail,
			created_at
		FROM appointments
		WHERE
			professional = :professional
			AND date = :date
			AND status != 'cancelled'
		ORDER BY time ASC
	`

	queryLockProfessionalDay = `
		SELECT
			id,
			date,
			time,
			duration,
			professional,
			status,
			client_name,
			client_phone,
			service_type,
			service_detail,
			created_at
		FROM appointments
		WHERE
			professional = :professional
			AND date = :date
			AND status != 'cancelled'
		ORDER BY time ASC
		FOR UPDATE
	`

	queryListAppointmentsByPhone = `
		SELECT
			id,
			date,
			time,
			duration,
			professional,
			status,
			client_name,
			client_phone,
			service_type,
			service_detail,
			created_at
		FROM appointments
		WHERE client_phone = :client_phone
		ORDER BY created_at DESC
	`

	queryHasFutureActive = `
		SELECT COUNT(1)
		FROM appointments
		WHERE
			client_phone = :client_phone
			AND date >= :from_date
			AND status != 'cancelled'
	`

	queryLatestClientName = `
		SELECT client_name
		FROM appointments
		WHERE
			client_phone = :client_phone
			AND client_name != ''
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryUpdateAppointmentStatus = `
		UPDATE appointments
		SET status = :status
		WHERE id = :id
	`

	queryDeleteAppointment = `
		DELETE FROM appointments
		WHERE id = :id
	`
)
