package attendanceService

import (
	"MarvelBackend/internal/api/attendance"
	"MarvelBackend/internal/entity"
	contextPkg "MarvelBackend/pkg/context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"MarvelBackend/pkg/geo"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *attendanceService) SubmitCheckIn(ctx context.Context, req CheckSubmission) (entity.AttendanceEntry, error) {
	return s.submit(ctx, req, entity.AttendanceIn)
}

func (s *attendanceService) SubmitCheckOut(ctx context.Context, req CheckSubmission) (entity.AttendanceEntry, error) {
	return s.submit(ctx, req, entity.AttendanceOut)
}

func (s *attendanceService) submit(ctx context.Context, req CheckSubmission, entryType entity.AttendanceType) (entity.AttendanceEntry, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := validateSubmission(req); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid check submission")
		return entity.AttendanceEntry{}, attendance.ErrInvalidRequest
	}

	var credential entity.BiometricCredential
	if req.Mode == attendance.ModeBio {
		matched, found, err := s.biometric.MatchDeviceCredential(ctx, req.EmployeeID, req.DeviceName)
		if err != nil {
			return entity.AttendanceEntry{}, attendance.ErrStorageUnavailable
		}
		if !found {
			s.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"employee_id": req.EmployeeID,
				"device_name": req.DeviceName,
			}).Info("No enrolled credential for this device class")
			return entity.AttendanceEntry{}, attendance.ErrEnrollmentRequired
		}
		credential = matched
	}

	distance := geo.Distance(req.Lat, req.Lng, s.policy.CenterLat, s.policy.CenterLng)
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return entity.AttendanceEntry{}, attendance.ErrInvalidLocation
	}
	if !s.policy.Contains(distance) {
		s.log.WithFields(logrus.Fields{
			"request_id":      requestID,
			"employee_id":     req.EmployeeID,
			"distance_meters": distance,
			"radius_meters":   s.policy.RadiusMeters,
		}).Warn("Submission outside authorized zone")
		return entity.AttendanceEntry{}, &attendance.OutOfZoneError{
			DistanceMeters: distance,
			RadiusMeters:   s.policy.RadiusMeters,
		}
	}

	now := s.now()
	from, to := s.policy.DayWindow(now)
	todays, err := s.entriesInWindow(ctx, req.EmployeeID, from, to)
	if err != nil {
		return entity.AttendanceEntry{}, err
	}

	if err := checkDailyState(todays, entryType); err != nil {
		return entity.AttendanceEntry{}, err
	}

	var selfieURL, selfieKey string
	if req.Mode == attendance.ModeSelfie {
		selfieURL, selfieKey, err = s.uploadSelfie(req, entryType, now)
		if err != nil {
			return entity.AttendanceEntry{}, err
		}
	}

	status := entity.StatusPresent
	if entryType == entity.AttendanceIn {
		// Server clock only; client-supplied time is never trusted.
		status = s.policy.StatusForCheckIn(now)
	}

	ULID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.AttendanceEntry{}, err
	}

	entry := entity.AttendanceEntry{
		ID:             ULID,
		EmployeeID:     req.EmployeeID,
		Type:           entryType,
		Method:         methodForMode(req.Mode),
		Status:         status,
		Lat:            req.Lat,
		Lng:            req.Lng,
		DistanceMeters: distance,
		SelfieURL:      selfieURL,
		Note:           req.Note,
		Timestamp:      now,
	}

	if err := entry.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid attendance entry")
		return entity.AttendanceEntry{}, attendance.ErrInvalidRequest
	}

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		return entity.AttendanceEntry{}, attendance.ErrStorageUnavailable
	}

	if err := repo.Ledger.CreateEntry(ctx, entry); err != nil {
		// The uploaded selfie would be orphaned otherwise; removal is
		// best-effort and must not block a retry.
		s.removeOrphanedSelfie(requestID, selfieKey)
		if errors.Is(err, attendance.ErrDuplicateDailyEntry) {
			if entryType == entity.AttendanceIn {
				return entity.AttendanceEntry{}, attendance.ErrAlreadyCheckedIn
			}
			return entity.AttendanceEntry{}, attendance.ErrAlreadyCheckedOut
		}
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": req.EmployeeID,
			"error":       err.Error(),
		}).Error("Failed to append attendance entry")
		return entity.AttendanceEntry{}, attendance.ErrStorageUnavailable
	}

	if req.Mode == attendance.ModeBio {
		s.biometric.TouchLastUsed(ctx, credential.CredentialID)
	}

	s.invalidateTodayCache(ctx, req.EmployeeID)

	if entry.Status == entity.StatusLate && s.hrEmail != "" {
		if err := s.mailer.SendLateArrivalNotice(s.hrEmail, req.EmployeeID, now); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"employee_id": req.EmployeeID,
				"error":       err.Error(),
			}).Warn("Failed to send late arrival notice")
		}
	}

	return entry, nil
}

func (s *attendanceService) uploadSelfie(req CheckSubmission, entryType entity.AttendanceType, now time.Time) (string, string, error) {
	data, contentType, err := s.utils.DecodeImageDataURL(req.SelfieDataURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"employee_id": req.EmployeeID,
			"error":       err.Error(),
		}).Warn("Invalid selfie payload")
		return "", "", attendance.ErrInvalidRequest
	}

	key := fmt.Sprintf("attendance/%s/%d-%s.%s",
		req.EmployeeID, now.UnixMilli(), strings.ToLower(string(entryType)), extensionFor(contentType))

	url, err := s.s3.UploadBytes(key, contentType, data)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"employee_id": req.EmployeeID,
			"error":       err.Error(),
		}).Error("Failed to upload selfie evidence")
		return "", "", attendance.ErrEvidenceUpload
	}

	return url, key, nil
}

func (s *attendanceService) removeOrphanedSelfie(requestID, key string) {
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(key); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Warn("Failed to remove orphaned selfie evidence")
	}
}

func validateSubmission(req CheckSubmission) error {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return errors.New("employee id is required")
	}
	if math.IsNaN(req.Lat) || math.IsInf(req.Lat, 0) || math.IsNaN(req.Lng) || math.IsInf(req.Lng, 0) {
		return errors.New("coordinates must be finite")
	}
	if req.Mode != attendance.ModeSelfie && req.Mode != attendance.ModeBio {
		return fmt.Errorf("unsupported mode %q", req.Mode)
	}
	if req.Mode == attendance.ModeSelfie && req.SelfieDataURL == "" {
		return errors.New("selfie evidence is required in SELFIE mode")
	}
	return nil
}

// checkDailyState enforces the per-day state machine NONE -> CLOCKED_IN ->
// CLOCKED_OUT from the entries already on the ledger for the day.
func checkDailyState(todays []entity.AttendanceEntry, entryType entity.AttendanceType) error {
	var hasIn, hasOut bool
	for _, e := range todays {
		switch e.Type {
		case entity.AttendanceIn:
			hasIn = true
		case entity.AttendanceOut:
			hasOut = true
		}
	}

	if entryType == entity.AttendanceIn {
		if hasIn {
			return attendance.ErrAlreadyCheckedIn
		}
		return nil
	}

	if !hasIn {
		return attendance.ErrNoCheckInFound
	}
	if hasOut {
		return attendance.ErrAlreadyCheckedOut
	}
	return nil
}

func methodForMode(mode string) entity.AttendanceMethod {
	if mode == attendance.ModeBio {
		return entity.MethodBio
	}
	return entity.MethodFace
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	default:
		return "jpg"
	}
}
