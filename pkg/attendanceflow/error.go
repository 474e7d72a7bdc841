package attendanceflow

import (
	"MarvelBackend/internal/api/attendance"
	"errors"
	"fmt"
)

type Gate string

const (
	GateLocation  Gate = "LOCATION"
	GateCamera    Gate = "CAMERA"
	GateBiometric Gate = "BIOMETRIC"
	GateSubmit    Gate = "SUBMIT"
)

// Device gate failures. Providers return these so the flow can tell the user
// which capability is missing instead of a generic failure.
var (
	ErrPermissionDenied = errors.New("permission denied by the user or platform")
	ErrNoHardware       = errors.New("required hardware is not available on this device")
	ErrInsecureContext  = errors.New("device capabilities require a secure context")
)

// GateError ties a failure to the gate it happened at.
type GateError struct {
	Gate Gate
	Err  error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s gate: %v", e.Gate, e.Err)
}

func (e *GateError) Unwrap() error {
	return e.Err
}

// Guidance maps a flow error to a short instruction the UI can show as-is.
func Guidance(err error) string {
	var gateErr *GateError
	gate := GateSubmit
	if errors.As(err, &gateErr) {
		gate = gateErr.Gate
	}

	switch {
	case errors.Is(err, ErrPermissionDenied):
		switch gate {
		case GateLocation:
			return "Autorisez l'accès à votre position pour pointer."
		case GateCamera:
			return "Autorisez l'accès à la caméra pour prendre votre selfie."
		default:
			return "Autorisez l'accès demandé pour continuer."
		}
	case errors.Is(err, ErrNoHardware):
		if gate == GateBiometric {
			return "Cet appareil n'a pas de capteur biométrique. Utilisez le mode selfie."
		}
		return "Cet appareil ne dispose pas du matériel nécessaire."
	case errors.Is(err, ErrInsecureContext):
		return "Ouvrez l'application via une connexion sécurisée (HTTPS)."
	case errors.Is(err, attendance.ErrOutOfZone):
		return "Vous êtes en dehors de la zone de pointage autorisée."
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return "Vous avez déjà pointé votre arrivée aujourd'hui."
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		return "Vous avez déjà pointé votre départ aujourd'hui."
	case errors.Is(err, attendance.ErrNoCheckInFound):
		return "Pointez d'abord votre arrivée avant de pointer votre départ."
	case errors.Is(err, attendance.ErrEnrollmentRequired):
		return "Enregistrez d'abord la biométrie de cet appareil."
	default:
		return "Le pointage a échoué. Veuillez réessayer."
	}
}
