package entity

import (
	"errors"
	"time"
)

type AttendanceType string

const (
	AttendanceIn  AttendanceType = "IN"
	AttendanceOut AttendanceType = "OUT"
)

type AttendanceMethod string

const (
	MethodFace AttendanceMethod = "FACE"
	MethodBio  AttendanceMethod = "BIO"
	MethodVisa AttendanceMethod = "VISA"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusLate    AttendanceStatus = "EN_RETARD"
	StatusRefused AttendanceStatus = "REFUSE"
)

// AttendanceEntry is one row of the append-only attendance ledger. Entries are
// created exclusively by the attendance service and never mutated afterwards.
type AttendanceEntry struct {
	ID             string           `db:"id"`
	EmployeeID     string           `db:"employee_id"`
	Type           AttendanceType   `db:"type"`
	Method         AttendanceMethod `db:"method"`
	Status         AttendanceStatus `db:"status"`
	Lat            float64          `db:"lat"`
	Lng            float64          `db:"lng"`
	DistanceMeters float64          `db:"distance_meters"`
	SelfieURL      string           `db:"selfie_url"`
	VisaPhotoURL   string           `db:"visa_photo_url"`
	Note           string           `db:"note"`
	Timestamp      time.Time        `db:"timestamp"`
}

func (t AttendanceType) IsValid() bool {
	return t == AttendanceIn || t == AttendanceOut
}

func (m AttendanceMethod) IsValid() bool {
	return m == MethodFace || m == MethodBio || m == MethodVisa
}

func (s AttendanceStatus) IsValid() bool {
	return s == StatusPresent || s == StatusLate || s == StatusRefused
}

func (e AttendanceEntry) Validate() error {
	if e.ID == "" {
		return errors.New("attendance entry id is required")
	}
	if e.EmployeeID == "" {
		return errors.New("attendance entry employee id is required")
	}
	if !e.Type.IsValid() {
		return errors.New("invalid attendance type")
	}
	if !e.Method.IsValid() {
		return errors.New("invalid attendance method")
	}
	if !e.Status.IsValid() {
		return errors.New("invalid attendance status")
	}
	if e.Timestamp.IsZero() {
		return errors.New("attendance entry timestamp is required")
	}
	return nil
}
