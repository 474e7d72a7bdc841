package handlerUtil

import (
	"MarvelBackend/internal/api/attendance"
	"MarvelBackend/internal/api/biometric"
	"MarvelBackend/pkg/log"
	"MarvelBackend/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	// Attendance domain errors
	var outOfZone *attendance.OutOfZoneError
	if errors.As(err, &outOfZone) {
		h.logger.WithFields(fields).Warn("Submission outside authorized zone")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":          "Outside the authorized attendance zone",
			"code":           "OUT_OF_ZONE",
			"distanceMeters": outOfZone.DistanceMeters,
			"radiusMeters":   outOfZone.RadiusMeters,
		})
	}

	if errors.Is(err, attendance.ErrInvalidRequest) {
		h.logger.WithFields(fields).Warn("Invalid attendance request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance request",
			"code":  "INVALID_REQUEST",
		})
	}

	if errors.Is(err, attendance.ErrInvalidLocation) {
		h.logger.WithFields(fields).Warn("Device location unusable")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Device location is unusable, re-acquire GPS and retry",
			"code":  "INVALID_LOCATION",
		})
	}

	if errors.Is(err, attendance.ErrEnrollmentRequired) {
		h.logger.WithFields(fields).Info("Biometric enrollment required")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Biometric enrollment required for this device",
			"code":  "ENROLLMENT_REQUIRED",
		})
	}

	if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
		h.logger.WithFields(fields).Warn("Already checked in today")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Already checked in today",
			"code":  "ALREADY_CHECKED_IN",
		})
	}

	if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
		h.logger.WithFields(fields).Warn("Already checked out today")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Already checked out today",
			"code":  "ALREADY_CHECKED_OUT",
		})
	}

	if errors.Is(err, attendance.ErrNoCheckInFound) {
		h.logger.WithFields(fields).Warn("No check-in found for today")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No check-in found for today",
			"code":  "NO_CHECK_IN_FOUND",
		})
	}

	if errors.Is(err, attendance.ErrEvidenceNotFound) {
		h.logger.WithFields(fields).Warn("Attendance evidence not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance evidence not found",
			"code":  "EVIDENCE_NOT_FOUND",
		})
	}

	if errors.Is(err, attendance.ErrEvidenceUpload) {
		h.logger.WithFields(fields).Error("Failed to store attendance evidence")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store attendance evidence",
			"code":  "EVIDENCE_UPLOAD_FAILED",
		})
	}

	if errors.Is(err, attendance.ErrStorageUnavailable) {
		h.logger.WithFields(fields).Error("Attendance storage unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Attendance storage unavailable",
			"code":  "STORAGE_UNAVAILABLE",
		})
	}

	// Biometric domain errors
	if errors.Is(err, biometric.ErrDuplicateCredential) {
		h.logger.WithFields(fields).Warn("Credential id already registered")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Credential id already registered",
			"code":  "DUPLICATE_CREDENTIAL",
		})
	}

	if errors.Is(err, biometric.ErrCredentialNotFound) {
		h.logger.WithFields(fields).Warn("Credential not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Credential not found",
			"code":  "CREDENTIAL_NOT_FOUND",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.WithFields(fields).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
