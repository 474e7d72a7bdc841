package attendanceService

import (
	attendanceRepository "MarvelBackend/internal/api/attendance/repository"
	biometricService "MarvelBackend/internal/api/biometric/service"
	"MarvelBackend/internal/entity"
	"MarvelBackend/internal/zone"
	"MarvelBackend/pkg/redis"
	"MarvelBackend/pkg/s3"
	"MarvelBackend/pkg/smtp"
	"MarvelBackend/pkg/utils"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IAttendanceService interface {
	GetToday(ctx context.Context, employeeID string) ([]entity.AttendanceEntry, error)
	GetHistory(ctx context.Context, employeeID string, monthOffset int) ([]entity.AttendanceEntry, error)
	SubmitCheckIn(ctx context.Context, req CheckSubmission) (entity.AttendanceEntry, error)
	SubmitCheckOut(ctx context.Context, req CheckSubmission) (entity.AttendanceEntry, error)
	PresignEvidence(ctx context.Context, employeeID, fileURL string) (string, error)
}

// CheckSubmission is the validated input for a check-in or check-out attempt.
// Lat/Lng are raw device coordinates; the service computes the distance and
// assigns the timestamp itself.
type CheckSubmission struct {
	EmployeeID    string
	Lat           float64
	Lng           float64
	Mode          string
	SelfieDataURL string
	DeviceName    string
	Note          string
}

type attendanceService struct {
	log                  *logrus.Logger
	attendanceRepository attendanceRepository.Repository
	biometric            biometricService.IBiometricService
	policy               *zone.Policy
	s3                   s3.ItfS3
	cache                redis.ICache
	mailer               smtp.ItfSmtp
	utils                utils.IUtils
	hrEmail              string
	now                  func() time.Time
}

func New(
	log *logrus.Logger,
	ar attendanceRepository.Repository,
	biometric biometricService.IBiometricService,
	policy *zone.Policy,
	s3Client s3.ItfS3,
	cache redis.ICache,
	mailer smtp.ItfSmtp,
	utils utils.IUtils,
) IAttendanceService {
	return &attendanceService{
		log:                  log,
		attendanceRepository: ar,
		biometric:            biometric,
		policy:               policy,
		s3:                   s3Client,
		cache:                cache,
		mailer:               mailer,
		utils:                utils,
		hrEmail:              os.Getenv("HR_NOTIFY_EMAIL"),
		now:                  time.Now,
	}
}
