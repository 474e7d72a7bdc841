package biometricRepository

import (
	"MarvelBackend/internal/api/biometric"
	"MarvelBackend/internal/entity"
	contextPkg "MarvelBackend/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type BiometricCredentialDB struct {
	ID           sql.NullString `db:"id"`
	EmployeeID   sql.NullString `db:"employee_id"`
	CredentialID sql.NullString `db:"credential_id"`
	PublicKey    sql.NullString `db:"public_key"`
	DeviceName   sql.NullString `db:"device_name"`
	LastUsedAt   time.Time      `db:"last_used_at"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r *credentialRepository) ListByEmployee(ctx context.Context, employeeID string) ([]entity.BiometricCredential, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var credentials []BiometricCredentialDB

	argsKV := map[string]interface{}{
		"employee_id": employeeID,
	}

	query, args, err := sqlx.Named(queryListCredentialsByEmployee, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByEmployee named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &credentials, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByEmployee execution err")
		return nil, err
	}

	// An empty result is a normal state: first-time enrollment.
	result := make([]entity.BiometricCredential, 0, len(credentials))
	for _, credential := range credentials {
		result = append(result, r.makeBiometricCredential(credential))
	}

	return result, nil
}

func (r *credentialRepository) Create(ctx context.Context, credential entity.BiometricCredential) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":            credential.ID,
		"employee_id":   credential.EmployeeID,
		"credential_id": credential.CredentialID,
		"public_key":    credential.PublicKey,
		"device_name":   credential.DeviceName,
		"last_used_at":  credential.LastUsedAt,
		"created_at":    credential.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCredential, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Create credential")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.WithFields(logrus.Fields{
				"request_id":    requestID,
				"credential_id": credential.CredentialID,
			}).Warn("Credential id already registered")
			return biometric.ErrDuplicateCredential
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating credential")
		return err
	}

	return nil
}

func (r *credentialRepository) TouchLastUsed(ctx context.Context, credentialID string) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"credential_id": credentialID,
		"last_used_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryTouchCredentialLastUsed, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("TouchLastUsed named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("TouchLastUsed execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"credential_id": credentialID,
		}).Warn("TouchLastUsed unknown credential id")
		return biometric.ErrCredentialNotFound
	}

	return nil
}

func (r *credentialRepository) makeBiometricCredential(credential BiometricCredentialDB) entity.BiometricCredential {
	return entity.BiometricCredential{
		ID:           credential.ID.String,
		EmployeeID:   credential.EmployeeID.String,
		CredentialID: credential.CredentialID.String,
		PublicKey:    credential.PublicKey.String,
		DeviceName:   credential.DeviceName.String,
		LastUsedAt:   credential.LastUsedAt,
		CreatedAt:    credential.CreatedAt,
	}
}
