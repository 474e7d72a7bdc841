package biometricService

import (
	"MarvelBackend/internal/entity"
	contextPkg "MarvelBackend/pkg/context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *biometricService) ListCredentials(ctx context.Context, employeeID string) ([]entity.BiometricCredential, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.biometricRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	credentials, err := repo.Credentials.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
			"error":       err.Error(),
		}).Error("Failed to list credentials")
		return nil, err
	}

	return credentials, nil
}

func (s *biometricService) RegisterCredential(ctx context.Context, employeeID, credentialID, publicKey, deviceName string) (entity.BiometricCredential, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.biometricRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.BiometricCredential{}, err
	}

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.BiometricCredential{}, err
	}

	credential := entity.BiometricCredential{
		ID:           ULID,
		EmployeeID:   employeeID,
		CredentialID: credentialID,
		PublicKey:    publicKey,
		DeviceName:   entity.NormalizeDeviceName(deviceName),
		LastUsedAt:   time.Now(),
		CreatedAt:    time.Now(),
	}

	if err := repo.Credentials.Create(ctx, credential); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
			"error":       err.Error(),
		}).Warn("Failed to register credential")
		return entity.BiometricCredential{}, err
	}

	return credential, nil
}

// TouchLastUsed is best-effort: an unknown credential id is logged and
// swallowed, never surfaced to the caller.
func (s *biometricService) TouchLastUsed(ctx context.Context, credentialID string) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.biometricRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return
	}

	if err := repo.Credentials.TouchLastUsed(ctx, credentialID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"credential_id": credentialID,
			"error":         err.Error(),
		}).Warn("Failed to touch credential last-used timestamp")
	}
}

// MatchDeviceCredential selects the employee's credential for the current
// coarse device class. A credential enrolled on another device class cannot
// be presented to this device's platform authenticator, so a class miss is
// reported as not matched even when other credentials exist.
func (s *biometricService) MatchDeviceCredential(ctx context.Context, employeeID, deviceName string) (entity.BiometricCredential, bool, error) {
	credentials, err := s.ListCredentials(ctx, employeeID)
	if err != nil {
		return entity.BiometricCredential{}, false, err
	}

	wanted := entity.NormalizeDeviceName(deviceName)
	for _, credential := range credentials {
		if credential.DeviceName == wanted {
			return credential, true, nil
		}
	}

	return entity.BiometricCredential{}, false, nil
}
