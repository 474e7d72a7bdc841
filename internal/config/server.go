package config

import (
	"MarvelBackend/database/postgres"
	attendanceHandler "MarvelBackend/internal/api/attendance/handler"
	attendanceRepository "MarvelBackend/internal/api/attendance/repository"
	attendanceService "MarvelBackend/internal/api/attendance/service"
	biometricHandler "MarvelBackend/internal/api/biometric/handler"
	biometricRepository "MarvelBackend/internal/api/biometric/repository"
	biometricService "MarvelBackend/internal/api/biometric/service"
	"MarvelBackend/internal/middleware"
	"MarvelBackend/internal/zone"
	"MarvelBackend/pkg/redis"
	"MarvelBackend/pkg/s3"
	"MarvelBackend/pkg/smtp"
	"MarvelBackend/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.ICache
	smtpMailer  smtp.ItfSmtp
	s3Client    s3.ItfS3
	zonePolicy  *zone.Policy
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.zonePolicy == nil {
		return nil, fmt.Errorf("attendance zone policy is required")
	}

	if server.db != nil {
		if err := postgres.VerifyDailyIndexTimezone(server.db, server.zonePolicy.Location.String()); err != nil {
			server.log.Errorf("Attendance schema check failed: %v", err)
			return nil, fmt.Errorf("attendance schema check failed: %w", err)
		}
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.ICache) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithAttendanceZone() ServerOption {
	return func(s *Server) error {
		policy, err := zone.LoadPolicy()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load attendance zone policy: %v", err)
			}
			return fmt.Errorf("failed to load attendance zone policy: %w", err)
		}
		s.zonePolicy = policy
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Biometric Credential Domain
	biometricRepo := biometricRepository.New(s.db, s.log)
	biometricServices := biometricService.New(s.log, biometricRepo, s.utils)
	biometricHandlers := biometricHandler.New(s.log, s.validator, s.middleware, biometricServices)

	// Attendance Domain
	attendanceRepo := attendanceRepository.New(s.db, s.log)
	attendanceServices := attendanceService.New(
		s.log, attendanceRepo, biometricServices, s.zonePolicy,
		s.s3Client, s.redisServer, s.smtpMailer, s.utils)
	attendanceHandlers := attendanceHandler.New(s.log, s.validator, s.middleware, attendanceServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, biometricHandlers, attendanceHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
