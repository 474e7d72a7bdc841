package zone

import (
	"MarvelBackend/internal/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T) *Policy {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Casablanca")
	require.NoError(t, err)

	return &Policy{
		CenterLat:    33.5731,
		CenterLng:    -7.5898,
		RadiusMeters: 50,
		LateHour:     9,
		LateMinute:   0,
		Location:     loc,
	}
}

func TestLoadPolicy(t *testing.T) {
	t.Setenv("ATTENDANCE_ZONE_LAT", "33.5731")
	t.Setenv("ATTENDANCE_ZONE_LNG", "-7.5898")
	t.Setenv("ATTENDANCE_ZONE_RADIUS_METERS", "50")
	t.Setenv("ATTENDANCE_LATE_HOUR", "9")
	t.Setenv("ATTENDANCE_LATE_MINUTE", "0")
	t.Setenv("ATTENDANCE_TIMEZONE", "Africa/Casablanca")

	policy, err := LoadPolicy()
	require.NoError(t, err)
	assert.Equal(t, 33.5731, policy.CenterLat)
	assert.Equal(t, -7.5898, policy.CenterLng)
	assert.Equal(t, float64(50), policy.RadiusMeters)
	assert.Equal(t, 9, policy.LateHour)
	assert.Equal(t, 0, policy.LateMinute)
}

func TestLoadPolicyInvalid(t *testing.T) {
	t.Setenv("ATTENDANCE_ZONE_LAT", "not-a-number")
	t.Setenv("ATTENDANCE_ZONE_LNG", "-7.5898")
	t.Setenv("ATTENDANCE_ZONE_RADIUS_METERS", "50")
	t.Setenv("ATTENDANCE_LATE_HOUR", "9")
	t.Setenv("ATTENDANCE_LATE_MINUTE", "0")

	_, err := LoadPolicy()
	assert.Error(t, err)

	t.Setenv("ATTENDANCE_ZONE_LAT", "33.5731")
	t.Setenv("ATTENDANCE_ZONE_RADIUS_METERS", "-10")

	_, err = LoadPolicy()
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	policy := testPolicy(t)

	assert.True(t, policy.Contains(0))
	assert.True(t, policy.Contains(50))
	assert.False(t, policy.Contains(50.01))
	assert.False(t, policy.Contains(200))
}

func TestStatusForCheckIn(t *testing.T) {
	policy := testPolicy(t)

	tests := []struct {
		name     string
		hour     int
		minute   int
		expected entity.AttendanceStatus
	}{
		{"well before cutoff", 8, 30, entity.StatusPresent},
		{"exactly at cutoff", 9, 0, entity.StatusPresent},
		{"one minute past cutoff", 9, 1, entity.StatusLate},
		{"later hour", 10, 0, entity.StatusLate},
		{"midnight", 0, 0, entity.StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Date(2025, 3, 10, tt.hour, tt.minute, 0, 0, policy.Location)
			assert.Equal(t, tt.expected, policy.StatusForCheckIn(at))
		})
	}
}

func TestStatusForCheckInConvertsTimezone(t *testing.T) {
	policy := testPolicy(t)

	// 10:30 UTC in March is 11:30 in Casablanca (UTC+1), past a 09:00 cutoff.
	at := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, entity.StatusLate, policy.StatusForCheckIn(at))

	// 07:30 UTC is 08:30 local, before the cutoff.
	at = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	assert.Equal(t, entity.StatusPresent, policy.StatusForCheckIn(at))
}

func TestDayWindow(t *testing.T) {
	policy := testPolicy(t)

	at := time.Date(2025, 3, 10, 15, 42, 7, 0, policy.Location)
	from, to := policy.DayWindow(at)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, policy.Location), from)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, policy.Location), to)
	assert.True(t, at.After(from) && at.Before(to))
}

func TestMonthWindow(t *testing.T) {
	policy := testPolicy(t)
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, policy.Location)

	from, to := policy.MonthWindow(at, 0)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, policy.Location), from)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, policy.Location), to)

	from, to = policy.MonthWindow(at, -1)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, policy.Location), from)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, policy.Location), to)

	from, to = policy.MonthWindow(at, -3)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, policy.Location), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, policy.Location), to)
}
