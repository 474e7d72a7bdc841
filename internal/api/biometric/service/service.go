package biometricService

import (
	biometricRepository "MarvelBackend/internal/api/biometric/repository"
	"MarvelBackend/internal/entity"
	"MarvelBackend/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IBiometricService interface {
	ListCredentials(ctx context.Context, employeeID string) ([]entity.BiometricCredential, error)
	RegisterCredential(ctx context.Context, employeeID, credentialID, publicKey, deviceName string) (entity.BiometricCredential, error)
	TouchLastUsed(ctx context.Context, credentialID string)
	MatchDeviceCredential(ctx context.Context, employeeID, deviceName string) (entity.BiometricCredential, bool, error)
}

type biometricService struct {
	log                 *logrus.Logger
	biometricRepository biometricRepository.Repository
	utils               utils.IUtils
}

func New(log *logrus.Logger, br biometricRepository.Repository, utils utils.IUtils) IBiometricService {
	return &biometricService{
		log:                 log,
		biometricRepository: br,
		utils:               utils,
	}
}
