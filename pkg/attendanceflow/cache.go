package attendanceflow

import (
	"MarvelBackend/internal/entity"
	"time"
)

// todayCache keeps today's entries for one employee so re-rendering the home
// screen does not hit the API every time. Single owner, no locking.
type todayCache struct {
	ttl        time.Duration
	employeeID string
	entries    []entity.AttendanceEntry
	fetchedAt  time.Time
}

func (c *todayCache) get(employeeID string) ([]entity.AttendanceEntry, bool) {
	if c.employeeID != employeeID || c.fetchedAt.IsZero() {
		return nil, false
	}
	if time.Since(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.entries, true
}

func (c *todayCache) put(employeeID string, entries []entity.AttendanceEntry) {
	c.employeeID = employeeID
	c.entries = entries
	c.fetchedAt = time.Now()
}

func (c *todayCache) invalidate() {
	c.fetchedAt = time.Time{}
	c.entries = nil
}
