package attendanceHandler

import (
	attendanceService "MarvelBackend/internal/api/attendance/service"
	"MarvelBackend/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AttendanceHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	attendanceService attendanceService.IAttendanceService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	attendanceService attendanceService.IAttendanceService,
) *AttendanceHandler {
	return &AttendanceHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		attendanceService: attendanceService,
	}
}

func (h *AttendanceHandler) Start(srv fiber.Router) {
	attendance := srv.Group("/attendance")

	attendance.Get("/me", h.middleware.NewTokenMiddleware, h.GetToday)
	attendance.Get("/history", h.middleware.NewTokenMiddleware, h.GetHistory)
	attendance.Get("/evidence", h.middleware.NewTokenMiddleware, h.GetEvidence)
	attendance.Post("/check-in", h.middleware.NewTokenMiddleware, h.CheckIn)
	attendance.Post("/check-out", h.middleware.NewTokenMiddleware, h.CheckOut)
}
