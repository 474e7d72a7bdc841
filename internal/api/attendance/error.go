package attendance

import (
	"MarvelBackend/pkg/response"
	"fmt"
)

var (
	ErrInvalidRequest     = response.NewError(400, "invalid attendance request")
	ErrInvalidLocation    = response.NewError(400, "device location is unusable")
	ErrOutOfZone          = response.NewError(403, "outside the authorized attendance zone")
	ErrEnrollmentRequired = response.NewError(403, "biometric enrollment required for this device")
	ErrAlreadyCheckedIn   = response.NewError(409, "already checked in today")
	ErrAlreadyCheckedOut  = response.NewError(409, "already checked out today")
	ErrNoCheckInFound     = response.NewError(409, "no check-in found for today")
	ErrEvidenceNotFound   = response.NewError(404, "attendance evidence not found")
	ErrEvidenceUpload     = response.NewError(500, "failed to store attendance evidence")
	ErrStorageUnavailable = response.NewError(503, "attendance storage unavailable")

	// ErrDuplicateDailyEntry is the repository-level signal for a write-time
	// uniqueness violation; the service maps it to AlreadyCheckedIn/Out
	// depending on the entry type.
	ErrDuplicateDailyEntry = response.NewError(409, "duplicate attendance entry for the day")
)

// OutOfZoneError carries the measured distance and the configured radius so
// the client can show how far off the employee is.
type OutOfZoneError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfZoneError) Error() string {
	return fmt.Sprintf("outside the authorized attendance zone: %.0fm away, radius %.0fm",
		e.DistanceMeters, e.RadiusMeters)
}

func (e *OutOfZoneError) Unwrap() error {
	return ErrOutOfZone
}
