package attendanceHandler

import (
	"MarvelBackend/internal/api/attendance"
	attendanceService "MarvelBackend/internal/api/attendance/service"
	"MarvelBackend/internal/entity"
	contextPkg "MarvelBackend/pkg/context"
	"MarvelBackend/pkg/handlerUtil"
	jwtPkg "MarvelBackend/pkg/jwt"
	"MarvelBackend/pkg/log"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AttendanceHandler) GetToday(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing today attendance request")

	employeeID, err := h.resolveEmployeeID(ctx, ctx.Query("employeeId"))
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	entries, err := h.attendanceService.GetToday(c, employeeID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_today")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, makeEntriesResponse(entries))
	}
}

func (h *AttendanceHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing attendance history request")

	employeeID, err := h.resolveEmployeeID(ctx, ctx.Query("employeeId"))
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	monthOffset := 0
	if raw := ctx.Query("monthOffset"); raw != "" {
		monthOffset, err = strconv.Atoi(raw)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("monthOffset must be an integer"), ctx.Path())
		}
	}

	entries, err := h.attendanceService.GetHistory(c, employeeID, monthOffset)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, makeEntriesResponse(entries))
	}
}

func (h *AttendanceHandler) GetEvidence(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing evidence presign request")

	employeeID, err := h.resolveEmployeeID(ctx, ctx.Query("employeeId"))
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	fileURL := ctx.Query("url")
	if fileURL == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("url query parameter is required"), ctx.Path())
	}

	signed, err := h.attendanceService.PresignEvidence(c, employeeID, fileURL)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "presign_evidence")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, attendance.EvidenceResponse{URL: signed})
	}
}

func (h *AttendanceHandler) CheckIn(ctx *fiber.Ctx) error {
	return h.handleCheck(ctx, "check_in", h.attendanceService.SubmitCheckIn)
}

func (h *AttendanceHandler) CheckOut(ctx *fiber.Ctx) error {
	return h.handleCheck(ctx, "check_out", h.attendanceService.SubmitCheckOut)
}

func (h *AttendanceHandler) handleCheck(
	ctx *fiber.Ctx,
	operation string,
	submit func(context.Context, attendanceService.CheckSubmission) (entity.AttendanceEntry, error),
) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing attendance submission")

	var req attendance.CheckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	employeeID, err := h.resolveEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}
	req.EmployeeID = employeeID

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	entry, err := submit(c, attendanceService.CheckSubmission{
		EmployeeID:    req.EmployeeID,
		Lat:           *req.Lat,
		Lng:           *req.Lng,
		Mode:          req.Mode,
		SelfieDataURL: req.SelfieDataURL,
		DeviceName:    req.DeviceName,
		Note:          req.Note,
	})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), operation)
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, attendance.EntryEnvelope{
			Entry: makeEntryResponse(entry),
		})
	}
}

// resolveEmployeeID defaults to the token subject and rejects submissions on
// behalf of another employee.
func (h *AttendanceHandler) resolveEmployeeID(ctx *fiber.Ctx, requested string) (string, error) {
	employeeData, err := jwtPkg.GetEmployeeLoginData(ctx)
	if err != nil {
		return "", err
	}

	if requested == "" {
		return employeeData.ID, nil
	}
	if requested != employeeData.ID {
		return "", fiber.ErrUnauthorized
	}
	return requested, nil
}

func makeEntryResponse(entry entity.AttendanceEntry) attendance.EntryResponse {
	return attendance.EntryResponse{
		ID:             entry.ID,
		EmployeeID:     entry.EmployeeID,
		Type:           string(entry.Type),
		Method:         string(entry.Method),
		Status:         string(entry.Status),
		Lat:            entry.Lat,
		Lng:            entry.Lng,
		DistanceMeters: entry.DistanceMeters,
		SelfieURL:      entry.SelfieURL,
		VisaPhotoURL:   entry.VisaPhotoURL,
		Note:           entry.Note,
		Timestamp:      entry.Timestamp.Format(time.RFC3339),
	}
}

func makeEntriesResponse(entries []entity.AttendanceEntry) attendance.EntriesResponse {
	response := attendance.EntriesResponse{
		Entries: make([]attendance.EntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, makeEntryResponse(entry))
	}
	return response
}
