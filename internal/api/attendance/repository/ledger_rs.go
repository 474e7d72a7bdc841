package attendanceRepository

import (
	"MarvelBackend/internal/api/attendance"
	"MarvelBackend/internal/entity"
	contextPkg "MarvelBackend/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type AttendanceEntryDB struct {
	ID             sql.NullString  `db:"id"`
	EmployeeID     sql.NullString  `db:"employee_id"`
	Type           sql.NullString  `db:"type"`
	Method         sql.NullString  `db:"method"`
	Status         sql.NullString  `db:"status"`
	Lat            sql.NullFloat64 `db:"lat"`
	Lng            sql.NullFloat64 `db:"lng"`
	DistanceMeters sql.NullFloat64 `db:"distance_meters"`
	SelfieURL      sql.NullString  `db:"selfie_url"`
	VisaPhotoURL   sql.NullString  `db:"visa_photo_url"`
	Note           sql.NullString  `db:"note"`
	Timestamp      time.Time       `db:"timestamp"`
}

func (r *ledgerRepository) GetEntriesInWindow(ctx context.Context, employeeID string, from, to time.Time) ([]entity.AttendanceEntry, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var entries []AttendanceEntryDB

	argsKV := map[string]interface{}{
		"employee_id": employeeID,
		"from":        from,
		"to":          to,
	}

	query, args, err := sqlx.Named(queryGetEntriesInWindow, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetEntriesInWindow named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &entries, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetEntriesInWindow execution err")
		return nil, err
	}

	result := make([]entity.AttendanceEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, r.makeAttendanceEntry(entry))
	}

	return result, nil
}

// CreateEntry is the ledger's only write path. The per-day unique index is
// the final arbiter for the one-IN-one-OUT invariant under concurrent
// double-submission.
func (r *ledgerRepository) CreateEntry(ctx context.Context, entry entity.AttendanceEntry) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":              entry.ID,
		"employee_id":     entry.EmployeeID,
		"type":            entry.Type,
		"method":          entry.Method,
		"status":          entry.Status,
		"lat":             entry.Lat,
		"lng":             entry.Lng,
		"distance_meters": entry.DistanceMeters,
		"selfie_url":      entry.SelfieURL,
		"visa_photo_url":  entry.VisaPhotoURL,
		"note":            entry.Note,
		"timestamp":       entry.Timestamp,
	}

	query, args, err := sqlx.Named(queryCreateEntry, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateEntry")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"employee_id": entry.EmployeeID,
				"type":        entry.Type,
			}).Warn("Duplicate attendance entry for the day")
			return attendance.ErrDuplicateDailyEntry
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating attendance entry")
		return err
	}

	return nil
}

func (r *ledgerRepository) makeAttendanceEntry(entry AttendanceEntryDB) entity.AttendanceEntry {
	return entity.AttendanceEntry{
		ID:             entry.ID.String,
		EmployeeID:     entry.EmployeeID.String,
		Type:           entity.AttendanceType(entry.Type.String),
		Method:         entity.AttendanceMethod(entry.Method.String),
		Status:         entity.AttendanceStatus(entry.Status.String),
		Lat:            entry.Lat.Float64,
		Lng:            entry.Lng.Float64,
		DistanceMeters: entry.DistanceMeters.Float64,
		SelfieURL:      entry.SelfieURL.String,
		VisaPhotoURL:   entry.VisaPhotoURL.String,
		Note:           entry.Note.String,
		Timestamp:      entry.Timestamp,
	}
}
