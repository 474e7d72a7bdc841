package biometricHandler

import (
	biometricService "MarvelBackend/internal/api/biometric/service"
	"MarvelBackend/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type BiometricHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	biometricService biometricService.IBiometricService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	biometricService biometricService.IBiometricService,
) *BiometricHandler {
	return &BiometricHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		biometricService: biometricService,
	}
}

func (h *BiometricHandler) Start(srv fiber.Router) {
	biometric := srv.Group("/biometric")

	biometric.Get("/credentials", h.middleware.NewTokenMiddleware, h.ListCredentials)
	biometric.Post("/credentials", h.middleware.NewTokenMiddleware, h.RegisterCredential)
}
