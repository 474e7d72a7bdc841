// Package attendanceflow drives the employee-facing check-in/check-out flow:
// a sequential state machine over the device gates (geolocation, camera,
// platform authenticator) and the attendance API. Gates run one after the
// other, never in parallel, so every failure is attributable to a specific
// gate. A Controller is single-threaded and not safe for concurrent use.
package attendanceflow

import (
	"MarvelBackend/internal/api/attendance"
	"MarvelBackend/internal/entity"
	"errors"
	"time"

	"golang.org/x/net/context"
)

type State string

const (
	StateIdle                  State = "IDLE"
	StateRequestingPermissions State = "REQUESTING_PERMISSIONS"
	StateCapturingEvidence     State = "CAPTURING_EVIDENCE"
	StateSubmitting            State = "SUBMITTING"
	StateSuccess               State = "SUCCESS"
	StateErrored               State = "ERRORED"
)

type Coordinates struct {
	Lat float64
	Lng float64
}

// LocationProvider resolves the device position. Implementations surface
// ErrPermissionDenied, ErrNoHardware or ErrInsecureContext where applicable.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (Coordinates, error)
}

// Camera captures a selfie and returns it as a base64 image data-URL.
type Camera interface {
	CaptureSelfie(ctx context.Context) (string, error)
}

// Authenticator wraps the device's platform authenticator. Register creates
// a new credential on this device; Authenticate asserts an existing one.
type Authenticator interface {
	DeviceName() string
	Authenticate(ctx context.Context, credentialID string) error
	Register(ctx context.Context) (credentialID string, publicKey string, err error)
}

type Submission struct {
	EmployeeID    string
	Lat           float64
	Lng           float64
	Mode          string
	SelfieDataURL string
	DeviceName    string
}

// API is the attendance service surface the controller talks to.
type API interface {
	Today(ctx context.Context, employeeID string) ([]entity.AttendanceEntry, error)
	CheckIn(ctx context.Context, sub Submission) (entity.AttendanceEntry, error)
	CheckOut(ctx context.Context, sub Submission) (entity.AttendanceEntry, error)
	ListCredentials(ctx context.Context, employeeID string) ([]entity.BiometricCredential, error)
	RegisterCredential(ctx context.Context, employeeID, credentialID, publicKey, deviceName string) error
}

type Config struct {
	LocationTimeout time.Duration
	CaptureTimeout  time.Duration
	SubmitTimeout   time.Duration
	TodayTTL        time.Duration

	// ConfirmEnrollment is asked before enrolling a credential inline when
	// the service reports enrollment is required. Nil means never enroll.
	ConfirmEnrollment func(ctx context.Context) bool
}

func (c *Config) applyDefaults() {
	if c.LocationTimeout <= 0 {
		c.LocationTimeout = 30 * time.Second
	}
	if c.CaptureTimeout <= 0 {
		c.CaptureTimeout = 60 * time.Second
	}
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = 30 * time.Second
	}
	if c.TodayTTL <= 0 {
		c.TodayTTL = 60 * time.Second
	}
}

type Controller struct {
	api           API
	location      LocationProvider
	camera        Camera
	authenticator Authenticator
	cfg           Config

	state      State
	employeeID string
	today      todayCache
	lastErr    error
}

func New(api API, location LocationProvider, camera Camera, authenticator Authenticator, cfg Config) *Controller {
	cfg.applyDefaults()
	return &Controller{
		api:           api,
		location:      location,
		camera:        camera,
		authenticator: authenticator,
		cfg:           cfg,
		state:         StateIdle,
		today:         todayCache{ttl: cfg.TodayTTL},
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) LastError() error {
	return c.lastErr
}

// SetIdentity switches the active employee. The today-cache is dropped when
// the identity changes so one employee never sees another's entries.
func (c *Controller) SetIdentity(employeeID string) {
	if c.employeeID != employeeID {
		c.today.invalidate()
	}
	c.employeeID = employeeID
}

// Today returns today's entries for the active employee, serving from the
// short-TTL cache when fresh.
func (c *Controller) Today(ctx context.Context) ([]entity.AttendanceEntry, error) {
	if entries, ok := c.today.get(c.employeeID); ok {
		return entries, nil
	}

	entries, err := c.api.Today(ctx, c.employeeID)
	if err != nil {
		return nil, err
	}

	c.today.put(c.employeeID, entries)
	return entries, nil
}

func (c *Controller) CheckIn(ctx context.Context, mode string) (entity.AttendanceEntry, error) {
	return c.run(ctx, mode, c.api.CheckIn)
}

func (c *Controller) CheckOut(ctx context.Context, mode string) (entity.AttendanceEntry, error) {
	return c.run(ctx, mode, c.api.CheckOut)
}

func (c *Controller) run(
	ctx context.Context,
	mode string,
	submit func(context.Context, Submission) (entity.AttendanceEntry, error),
) (entity.AttendanceEntry, error) {
	c.state = StateRequestingPermissions
	c.lastErr = nil

	coords, err := c.acquireLocation(ctx)
	if err != nil {
		return c.fail(err)
	}

	c.state = StateCapturingEvidence
	sub := Submission{
		EmployeeID: c.employeeID,
		Lat:        coords.Lat,
		Lng:        coords.Lng,
		Mode:       mode,
		DeviceName: c.authenticator.DeviceName(),
	}

	switch mode {
	case attendance.ModeSelfie:
		sub.SelfieDataURL, err = c.captureSelfie(ctx)
		if err != nil {
			return c.fail(err)
		}
	case attendance.ModeBio:
		if err := c.assertBiometric(ctx); err != nil {
			return c.fail(err)
		}
	default:
		return c.fail(&GateError{Gate: GateSubmit, Err: errors.New("unsupported mode " + mode)})
	}

	c.state = StateSubmitting
	entry, err := c.doSubmit(ctx, sub, submit)
	if err != nil {
		return c.fail(err)
	}

	c.state = StateSuccess
	c.today.invalidate()
	return entry, nil
}

func (c *Controller) acquireLocation(ctx context.Context) (Coordinates, error) {
	gateCtx, cancel := context.WithTimeout(ctx, c.cfg.LocationTimeout)
	defer cancel()

	coords, err := c.location.CurrentLocation(gateCtx)
	if err != nil {
		return Coordinates{}, &GateError{Gate: GateLocation, Err: err}
	}
	return coords, nil
}

func (c *Controller) captureSelfie(ctx context.Context) (string, error) {
	gateCtx, cancel := context.WithTimeout(ctx, c.cfg.CaptureTimeout)
	defer cancel()

	dataURL, err := c.camera.CaptureSelfie(gateCtx)
	if err != nil {
		return "", &GateError{Gate: GateCamera, Err: err}
	}
	return dataURL, nil
}

// assertBiometric matches this device's credential and asserts it. A class
// miss is not an authentication failure: it flows into the enrollment branch
// at submit time via the service's enrollment-required answer.
func (c *Controller) assertBiometric(ctx context.Context) error {
	gateCtx, cancel := context.WithTimeout(ctx, c.cfg.CaptureTimeout)
	defer cancel()

	credentials, err := c.api.ListCredentials(gateCtx, c.employeeID)
	if err != nil {
		return &GateError{Gate: GateBiometric, Err: err}
	}

	deviceClass := entity.NormalizeDeviceName(c.authenticator.DeviceName())
	for _, credential := range credentials {
		if credential.DeviceName == deviceClass {
			if err := c.authenticator.Authenticate(gateCtx, credential.CredentialID); err != nil {
				return &GateError{Gate: GateBiometric, Err: err}
			}
			return nil
		}
	}

	return nil
}

func (c *Controller) doSubmit(
	ctx context.Context,
	sub Submission,
	submit func(context.Context, Submission) (entity.AttendanceEntry, error),
) (entity.AttendanceEntry, error) {
	gateCtx, cancel := context.WithTimeout(ctx, c.cfg.SubmitTimeout)
	defer cancel()

	entry, err := submit(gateCtx, sub)
	if err == nil {
		return entry, nil
	}

	if !errors.Is(err, attendance.ErrEnrollmentRequired) {
		return entity.AttendanceEntry{}, &GateError{Gate: GateSubmit, Err: err}
	}

	// Recoverable branch: enroll this device inline, then retry once. The
	// user must confirm first; declining ends the flow with the original
	// error.
	if c.cfg.ConfirmEnrollment == nil || !c.cfg.ConfirmEnrollment(ctx) {
		return entity.AttendanceEntry{}, &GateError{Gate: GateSubmit, Err: err}
	}

	if err := c.enroll(ctx); err != nil {
		return entity.AttendanceEntry{}, err
	}

	retryCtx, cancelRetry := context.WithTimeout(ctx, c.cfg.SubmitTimeout)
	defer cancelRetry()

	entry, err = submit(retryCtx, sub)
	if err != nil {
		return entity.AttendanceEntry{}, &GateError{Gate: GateSubmit, Err: err}
	}
	return entry, nil
}

func (c *Controller) enroll(ctx context.Context) error {
	gateCtx, cancel := context.WithTimeout(ctx, c.cfg.CaptureTimeout)
	defer cancel()

	credentialID, publicKey, err := c.authenticator.Register(gateCtx)
	if err != nil {
		return &GateError{Gate: GateBiometric, Err: err}
	}

	deviceClass := entity.NormalizeDeviceName(c.authenticator.DeviceName())
	if err := c.api.RegisterCredential(gateCtx, c.employeeID, credentialID, publicKey, deviceClass); err != nil {
		return &GateError{Gate: GateSubmit, Err: err}
	}

	return nil
}

func (c *Controller) fail(err error) (entity.AttendanceEntry, error) {
	c.state = StateErrored
	c.lastErr = err
	return entity.AttendanceEntry{}, err
}
