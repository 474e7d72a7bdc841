package attendanceRepository

const (
	queryCreateEntry = `
		INSERT INTO attendance_entries (
			id,
			employee_id,
			type,
			method,
			status,
			lat,
			lng,
			distance_meters,
			selfie_url,
			visa_photo_url,
			note,
			timestamp
		) VALUES (
			:id,
			:employee_id,
			:type,
			:method,
			:status,
			:lat,
			:lng,
			:distance_meters,
			:selfie_url,
			:visa_photo_url,
			:note,
			:timestamp
		)
	`

	queryGetEntriesInWindow = `
		SELECT
			id,
			employee_id,
			type,
			method,
			status,
			lat,
			lng,
			distance_meters,
			selfie_url,
			visa_photo_url,
			note,
			timestamp
		FROM attendance_entries
		WHERE
			employee_id = :employee_id
			AND timestamp >= :from
			AND timestamp < :to
		ORDER BY timestamp ASC
	`
)
