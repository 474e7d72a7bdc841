package biometricRepository

const (
	queryCreateCredential = `
		INSERT INTO biometric_credentials (
			id,
			employee_id,
			credential_id,
			public_key,
			device_name,
			last_used_at,
			created_at
		) VALUES (
			:id,
			:employee_id,
			:credential_id,
			:public_key,
			:device_name,
			:last_used_at,
			:created_at
		)
	`

	queryListCredentialsByEmployee = `
		SELECT
			id,
			employee_id,
			credential_id,
			public_key,
			device_name,
			last_used_at,
			created_at
		FROM biometric_credentials
		WHERE employee_id = :employee_id
		ORDER BY created_at ASC
	`

	queryTouchCredentialLastUsed = `
		UPDATE biometric_credentials
		SET last_used_at = :last_used_at
		WHERE credential_id = :credential_id
	`
)
