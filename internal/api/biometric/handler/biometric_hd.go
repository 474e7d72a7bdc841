package biometricHandler

import (
	"MarvelBackend/internal/api/biometric"
	contextPkg "MarvelBackend/pkg/context"
	"MarvelBackend/pkg/handlerUtil"
	jwtPkg "MarvelBackend/pkg/jwt"
	"MarvelBackend/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *BiometricHandler) ListCredentials(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing list credentials request")

	employeeData, err := jwtPkg.GetEmployeeLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	employeeID := ctx.Query("employeeId", employeeData.ID)
	if employeeID != employeeData.ID {
		return errHandler.HandleUnauthorized(ctx, requestID, "Cannot read another employee's credentials")
	}

	credentials, err := h.biometricService.ListCredentials(c, employeeID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_credentials")
	}

	response := biometric.CredentialListResponse{
		Credentials: make([]biometric.CredentialResponse, 0, len(credentials)),
	}
	for _, credential := range credentials {
		response.Credentials = append(response.Credentials, biometric.CredentialResponse{
			CredentialID: credential.CredentialID,
			DeviceName:   credential.DeviceName,
			LastUsedAt:   credential.LastUsedAt.Format(time.RFC3339),
			CreatedAt:    credential.CreatedAt.Format(time.RFC3339),
		})
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

func (h *BiometricHandler) RegisterCredential(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing register credential request")

	var req biometric.RegisterCredentialRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	employeeData, err := jwtPkg.GetEmployeeLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	if req.EmployeeID == "" {
		req.EmployeeID = employeeData.ID
	}
	if req.EmployeeID != employeeData.ID {
		return errHandler.HandleUnauthorized(ctx, requestID, "Cannot enroll a credential for another employee")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	credential, err := h.biometricService.RegisterCredential(c, req.EmployeeID, req.CredentialID, req.PublicKey, req.DeviceName)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "register_credential")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, biometric.CredentialResponse{
			CredentialID: credential.CredentialID,
			DeviceName:   credential.DeviceName,
			LastUsedAt:   credential.LastUsedAt.Format(time.RFC3339),
			CreatedAt:    credential.CreatedAt.Format(time.RFC3339),
		})
	}
}
