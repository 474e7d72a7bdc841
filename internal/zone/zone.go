// Package zone holds the attendance geofence and lateness policy. It sits
// below both the config wiring and the attendance service so neither has to
// import the other.
package zone

import (
	"MarvelBackend/internal/entity"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Policy is the process-wide geofence and lateness configuration. It is
// loaded once at startup from the environment and never mutated after.
type Policy struct {
	CenterLat    float64
	CenterLng    float64
	RadiusMeters float64
	LateHour     int
	LateMinute   int
	Location     *time.Location
}

func LoadPolicy() (*Policy, error) {
	lat, err := strconv.ParseFloat(os.Getenv("ATTENDANCE_ZONE_LAT"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_ZONE_LAT: %w", err)
	}

	lng, err := strconv.ParseFloat(os.Getenv("ATTENDANCE_ZONE_LNG"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_ZONE_LNG: %w", err)
	}

	radius, err := strconv.ParseFloat(os.Getenv("ATTENDANCE_ZONE_RADIUS_METERS"), 64)
	if err != nil || radius <= 0 {
		return nil, fmt.Errorf("invalid ATTENDANCE_ZONE_RADIUS_METERS: %v", os.Getenv("ATTENDANCE_ZONE_RADIUS_METERS"))
	}

	lateHour, err := strconv.Atoi(os.Getenv("ATTENDANCE_LATE_HOUR"))
	if err != nil || lateHour < 0 || lateHour > 23 {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_HOUR: %v", os.Getenv("ATTENDANCE_LATE_HOUR"))
	}

	lateMinute, err := strconv.Atoi(os.Getenv("ATTENDANCE_LATE_MINUTE"))
	if err != nil || lateMinute < 0 || lateMinute > 59 {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_MINUTE: %v", os.Getenv("ATTENDANCE_LATE_MINUTE"))
	}

	tz := os.Getenv("ATTENDANCE_TIMEZONE")
	if tz == "" {
		tz = "Africa/Casablanca"
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", tz, err)
	}

	return &Policy{
		CenterLat:    lat,
		CenterLng:    lng,
		RadiusMeters: radius,
		LateHour:     lateHour,
		LateMinute:   lateMinute,
		Location:     location,
	}, nil
}

// Contains reports whether a measured distance from the zone center falls
// inside the authorized radius.
func (p *Policy) Contains(distanceMeters float64) bool {
	return distanceMeters <= p.RadiusMeters
}

// StatusForCheckIn computes the check-in status from local wall-clock time.
// Strictly after the cutoff (hour, then minute) is late; at or before is
// present. Check-outs never go through this gate.
func (p *Policy) StatusForCheckIn(t time.Time) entity.AttendanceStatus {
	local := t.In(p.Location)
	if local.Hour() > p.LateHour {
		return entity.StatusLate
	}
	if local.Hour() == p.LateHour && local.Minute() > p.LateMinute {
		return entity.StatusLate
	}
	return entity.StatusPresent
}

// DayWindow returns [local midnight, next local midnight) around t.
func (p *Policy) DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(p.Location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location)
	return start, start.AddDate(0, 0, 1)
}

// MonthWindow returns [start of month, start of next month) for the month
// monthOffset away from t's month (0 = current, -1 = previous).
func (p *Policy) MonthWindow(t time.Time, monthOffset int) (time.Time, time.Time) {
	local := t.In(p.Location)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, p.Location)
	start = start.AddDate(0, monthOffset, 0)
	return start, start.AddDate(0, 1, 0)
}
