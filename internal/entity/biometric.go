package entity

import (
	"strings"
	"time"
)

// Coarse device classes for platform-authenticator credentials. A public-key
// credential is bound to the authenticator that created it, so an employee
// holds at most one credential per device class. The classification itself is
// a user-agent heuristic, not a cryptographic binding.
const (
	DeviceMobile  = "Mobile Device"
	DeviceDesktop = "Desktop"
)

type BiometricCredential struct {
	ID           string    `db:"id"`
	EmployeeID   string    `db:"employee_id"`
	CredentialID string    `db:"credential_id"`
	PublicKey    string    `db:"public_key"`
	DeviceName   string    `db:"device_name"`
	LastUsedAt   time.Time `db:"last_used_at"`
	CreatedAt    time.Time `db:"created_at"`
}

// NormalizeDeviceName folds a free-form device string onto the two supported
// classes, defaulting to Desktop for anything unrecognized.
func NormalizeDeviceName(name string) string {
	lowered := strings.ToLower(name)
	for _, marker := range []string{"mobile", "phone", "android", "tablet", "ipad"} {
		if strings.Contains(lowered, marker) {
			return DeviceMobile
		}
	}
	return DeviceDesktop
}

type EmployeeLoginData struct {
	ID    string
	Name  string
	Email string
}
