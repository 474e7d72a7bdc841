package attendanceService

import (
	"MarvelBackend/internal/api/attendance"
	"MarvelBackend/internal/entity"
	contextPkg "MarvelBackend/pkg/context"
	"MarvelBackend/pkg/redis"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const todayCacheTTL = 60 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func todayCacheKey(employeeID string) string {
	return "attendance:today:" + employeeID
}

func (s *attendanceService) GetToday(ctx context.Context, employeeID string) ([]entity.AttendanceEntry, error) {
	requestID := contextPkg.GetRequestID(ctx)

	cached, err := s.cache.Get(ctx, todayCacheKey(employeeID))
	if err == nil {
		var entries []entity.AttendanceEntry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
		}).Warn("Discarding unreadable today-cache value")
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Today-cache read failed, falling back to database")
	}

	from, to := s.policy.DayWindow(s.now())
	entries, err := s.entriesInWindow(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := s.cache.Set(ctx, todayCacheKey(employeeID), string(payload), todayCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Today-cache write failed")
		}
	}

	return entries, nil
}

func (s *attendanceService) GetHistory(ctx context.Context, employeeID string, monthOffset int) ([]entity.AttendanceEntry, error) {
	from, to := s.policy.MonthWindow(s.now(), monthOffset)
	return s.entriesInWindow(ctx, employeeID, from, to)
}

func (s *attendanceService) entriesInWindow(ctx context.Context, employeeID string, from, to time.Time) ([]entity.AttendanceEntry, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, attendance.ErrStorageUnavailable
	}

	entries, err := repo.Ledger.GetEntriesInWindow(ctx, employeeID, from, to)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
			"error":       err.Error(),
		}).Error("Failed to read attendance entries")
		return nil, attendance.ErrStorageUnavailable
	}

	return entries, nil
}

func (s *attendanceService) invalidateTodayCache(ctx context.Context, employeeID string) {
	if err := s.cache.Delete(ctx, todayCacheKey(employeeID)); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  contextPkg.GetRequestID(ctx),
			"employee_id": employeeID,
			"error":       err.Error(),
		}).Warn("Failed to invalidate today-cache")
	}
}
