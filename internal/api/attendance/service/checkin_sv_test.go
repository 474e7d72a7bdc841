package attendanceService

import (
	"MarvelBackend/internal/api/attendance"
	attendanceRepository "MarvelBackend/internal/api/attendance/repository"
	"MarvelBackend/internal/entity"
	"MarvelBackend/internal/zone"
	"MarvelBackend/pkg/redis"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

const (
	testCenterLat = 33.5731
	testCenterLng = -7.5898
)

type fakeLedger struct {
	entries   []entity.AttendanceEntry
	getErr    error
	createErr error
	created   []entity.AttendanceEntry
}

func (f *fakeLedger) GetEntriesInWindow(ctx context.Context, employeeID string, from, to time.Time) ([]entity.AttendanceEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries, nil
}

func (f *fakeLedger) CreateEntry(ctx context.Context, entry entity.AttendanceEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, entry)
	return nil
}

type fakeRepository struct {
	ledger    *fakeLedger
	clientErr error
}

func (f *fakeRepository) NewClient(tx bool) (attendanceRepository.Client, error) {
	if f.clientErr != nil {
		return attendanceRepository.Client{}, f.clientErr
	}
	return attendanceRepository.Client{
		Ledger:   f.ledger,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeBiometric struct {
	credential entity.BiometricCredential
	found      bool
	matchErr   error
	touched    []string
}

func (f *fakeBiometric) ListCredentials(ctx context.Context, employeeID string) ([]entity.BiometricCredential, error) {
	return nil, nil
}

func (f *fakeBiometric) RegisterCredential(ctx context.Context, employeeID, credentialID, publicKey, deviceName string) (entity.BiometricCredential, error) {
	return entity.BiometricCredential{}, nil
}

func (f *fakeBiometric) TouchLastUsed(ctx context.Context, credentialID string) {
	f.touched = append(f.touched, credentialID)
}

func (f *fakeBiometric) MatchDeviceCredential(ctx context.Context, employeeID, deviceName string) (entity.BiometricCredential, bool, error) {
	return f.credential, f.found, f.matchErr
}

type fakeS3 struct {
	uploadErr  error
	presignErr error
	deleteErr  error
	keys       []string
	presigned  []string
	deleted    []string
}

func (f *fakeS3) UploadBytes(key string, contentType string, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.keys = append(f.keys, key)
	return "https://bucket.example.com/" + key, nil
}

func (f *fakeS3) PresignUrl(fileUrl string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	f.presigned = append(f.presigned, fileUrl)
	return fileUrl + "?signed=1", nil
}

func (f *fakeS3) DeleteFile(fileName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, fileName)
	return nil
}

type fakeCache struct {
	values  map[string]string
	deleted []string
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.values[key]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.values, key)
	return nil
}

type fakeMailer struct {
	notices []string
	err     error
}

func (f *fakeMailer) SendLateArrivalNotice(toEmail string, employeeID string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, toEmail)
	return nil
}

type fakeUtils struct {
	decodeErr error
	ulidSeq   int
}

func (f *fakeUtils) NewULIDFromTimestamp(t time.Time) (string, error) {
	f.ulidSeq++
	return fmt.Sprintf("01TESTULID%016d", f.ulidSeq), nil
}

func (f *fakeUtils) DecodeImageDataURL(dataURL string) ([]byte, string, error) {
	if f.decodeErr != nil {
		return nil, "", f.decodeErr
	}
	return []byte("jpeg-bytes"), "image/jpeg", nil
}

type serviceFixture struct {
	service   *attendanceService
	ledger    *fakeLedger
	biometric *fakeBiometric
	s3        *fakeS3
	cache     *fakeCache
	mailer    *fakeMailer
}

func testPolicy() *zone.Policy {
	return &zone.Policy{
		CenterLat:    testCenterLat,
		CenterLng:    testCenterLng,
		RadiusMeters: 200,
		LateHour:     9,
		LateMinute:   0,
		Location:     time.UTC,
	}
}

func newFixture(now time.Time) *serviceFixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	ledger := &fakeLedger{}
	biometric := &fakeBiometric{}
	s3Client := &fakeS3{}
	cache := newFakeCache()
	mailer := &fakeMailer{}

	svc := &attendanceService{
		log:                  log,
		attendanceRepository: &fakeRepository{ledger: ledger},
		biometric:            biometric,
		policy:               testPolicy(),
		s3:                   s3Client,
		cache:                cache,
		mailer:               mailer,
		utils:                &fakeUtils{},
		hrEmail:              "hr@example.com",
		now:                  func() time.Time { return now },
	}

	return &serviceFixture{
		service:   svc,
		ledger:    ledger,
		biometric: biometric,
		s3:        s3Client,
		cache:     cache,
		mailer:    mailer,
	}
}

func selfieSubmission() CheckSubmission {
	return CheckSubmission{
		EmployeeID:    "emp-1",
		Lat:           testCenterLat,
		Lng:           testCenterLng,
		Mode:          attendance.ModeSelfie,
		SelfieDataURL: "data:image/jpeg;base64,Zm9v",
	}
}

func inEntry() entity.AttendanceEntry {
	return entity.AttendanceEntry{
		ID:         "prev-in",
		EmployeeID: "emp-1",
		Type:       entity.AttendanceIn,
		Method:     entity.MethodFace,
		Status:     entity.StatusPresent,
	}
}

func TestSubmitCheckInOnTime(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)

	entry, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	require.NoError(t, err)
	assert.Equal(t, entity.AttendanceIn, entry.Type)
	assert.Equal(t, entity.MethodFace, entry.Method)
	assert.Equal(t, entity.StatusPresent, entry.Status)
	assert.Equal(t, now, entry.Timestamp)
	assert.Zero(t, entry.DistanceMeters)
	assert.NotEmpty(t, entry.SelfieURL)

	require.Len(t, f.ledger.created, 1)
	assert.Contains(t, f.cache.deleted, "attendance:today:emp-1")
	assert.Empty(t, f.mailer.notices)
}

func TestSubmitCheckInAfterCutoffIsLateAndNotifiesHR(t *testing.T) {
	now := time.Date(2026, 3, 16, 9, 1, 0, 0, time.UTC)
	f := newFixture(now)

	entry, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	require.NoError(t, err)
	assert.Equal(t, entity.StatusLate, entry.Status)
	assert.Equal(t, []string{"hr@example.com"}, f.mailer.notices)
}

func TestSubmitCheckInAtExactCutoffIsPresent(t *testing.T) {
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)

	entry, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPresent, entry.Status)
	assert.Empty(t, f.mailer.notices)
}

func TestSubmitCheckOutNeverLate(t *testing.T) {
	now := time.Date(2026, 3, 16, 18, 45, 0, 0, time.UTC)
	f := newFixture(now)
	f.ledger.entries = []entity.AttendanceEntry{inEntry()}

	entry, err := f.service.SubmitCheckOut(context.Background(), selfieSubmission())

	require.NoError(t, err)
	assert.Equal(t, entity.AttendanceOut, entry.Type)
	assert.Equal(t, entity.StatusPresent, entry.Status)
	assert.Empty(t, f.mailer.notices)
}

func TestSubmitCheckInTwiceSameDayRejected(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.ledger.entries = []entity.AttendanceEntry{inEntry()}

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Empty(t, f.ledger.created)
	assert.Empty(t, f.s3.keys)
}

func TestSubmitCheckOutWithoutCheckIn(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	f := newFixture(now)

	_, err := f.service.SubmitCheckOut(context.Background(), selfieSubmission())

	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
	assert.Empty(t, f.ledger.created)
}

func TestSubmitCheckOutTwiceSameDayRejected(t *testing.T) {
	now := time.Date(2026, 3, 16, 18, 0, 0, 0, time.UTC)
	f := newFixture(now)
	out := inEntry()
	out.ID = "prev-out"
	out.Type = entity.AttendanceOut
	f.ledger.entries = []entity.AttendanceEntry{inEntry(), out}

	_, err := f.service.SubmitCheckOut(context.Background(), selfieSubmission())

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestSubmitCheckInOutOfZoneCarriesDistances(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.service.policy.RadiusMeters = 50

	req := selfieSubmission()
	// ~200m north of the zone center
	req.Lat = testCenterLat + 0.0018

	_, err := f.service.SubmitCheckIn(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrOutOfZone)

	var zoneErr *attendance.OutOfZoneError
	require.ErrorAs(t, err, &zoneErr)
	assert.InDelta(t, 200, zoneErr.DistanceMeters, 5)
	assert.Equal(t, float64(50), zoneErr.RadiusMeters)
	assert.Empty(t, f.ledger.created)
	assert.Empty(t, f.s3.keys)
}

func TestSubmitCheckInExactlyOnBoundaryAccepted(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)

	req := selfieSubmission()
	// just under the 200m radius
	req.Lat = testCenterLat + 0.00178

	_, err := f.service.SubmitCheckIn(context.Background(), req)
	require.NoError(t, err)
}

func TestSubmitCheckInRejectsNonFiniteCoordinates(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)

	req := selfieSubmission()
	req.Lat = math.NaN()

	_, err := f.service.SubmitCheckIn(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrInvalidRequest)
}

func TestSubmitCheckInSelfieWithoutEvidenceRejected(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)

	req := selfieSubmission()
	req.SelfieDataURL = ""

	_, err := f.service.SubmitCheckIn(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrInvalidRequest)
}

func TestSubmitCheckInBioWithoutCredentialRequiresEnrollment(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)

	req := selfieSubmission()
	req.Mode = attendance.ModeBio
	req.SelfieDataURL = ""
	req.DeviceName = "iPhone 15"

	_, err := f.service.SubmitCheckIn(context.Background(), req)

	assert.ErrorIs(t, err, attendance.ErrEnrollmentRequired)
	assert.Empty(t, f.ledger.created)
}

func TestSubmitCheckInBioTouchesCredentialAndSkipsUpload(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.biometric.found = true
	f.biometric.credential = entity.BiometricCredential{CredentialID: "cred-1", DeviceName: entity.DeviceMobile}

	req := selfieSubmission()
	req.Mode = attendance.ModeBio
	req.SelfieDataURL = ""
	req.DeviceName = "iPhone 15"

	entry, err := f.service.SubmitCheckIn(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, entity.MethodBio, entry.Method)
	assert.Empty(t, entry.SelfieURL)
	assert.Empty(t, f.s3.keys)
	assert.Equal(t, []string{"cred-1"}, f.biometric.touched)
}

func TestSubmitCheckInSelfieDecodeFailure(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.service.utils = &fakeUtils{decodeErr: errors.New("not an image")}

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	assert.ErrorIs(t, err, attendance.ErrInvalidRequest)
	assert.Empty(t, f.ledger.created)
}

func TestSubmitCheckInSelfieUploadFailure(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.s3.uploadErr = errors.New("s3 down")

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	assert.ErrorIs(t, err, attendance.ErrEvidenceUpload)
	assert.Empty(t, f.ledger.created)
}

func TestSubmitCheckInDuplicateWriteMapsToAlreadyCheckedIn(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	// reader saw nothing, but a concurrent writer got there first
	f.ledger.createErr = attendance.ErrDuplicateDailyEntry

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestSubmitCheckOutDuplicateWriteMapsToAlreadyCheckedOut(t *testing.T) {
	now := time.Date(2026, 3, 16, 18, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.ledger.entries = []entity.AttendanceEntry{inEntry()}
	f.ledger.createErr = attendance.ErrDuplicateDailyEntry

	_, err := f.service.SubmitCheckOut(context.Background(), selfieSubmission())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestSubmitCheckInLedgerReadFailure(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.ledger.getErr = errors.New("connection refused")

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())
	assert.ErrorIs(t, err, attendance.ErrStorageUnavailable)
}

func TestSubmitCheckInLateMailFailureDoesNotFailSubmission(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.mailer.err = errors.New("smtp unreachable")

	entry, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	require.NoError(t, err)
	assert.Equal(t, entity.StatusLate, entry.Status)
	require.Len(t, f.ledger.created, 1)
}

func TestSubmitCheckInRemovesSelfieWhenAppendFails(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.ledger.createErr = errors.New("connection reset")

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	assert.ErrorIs(t, err, attendance.ErrStorageUnavailable)
	require.Len(t, f.s3.keys, 1)
	assert.Equal(t, f.s3.keys, f.s3.deleted)
}

func TestSubmitCheckInSelfieCleanupFailureStillReturnsConflict(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)
	f.ledger.createErr = attendance.ErrDuplicateDailyEntry
	f.s3.deleteErr = errors.New("s3 down")

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Empty(t, f.s3.deleted)
}

func TestFullDayAttendanceSequence(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC))

	first, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPresent, first.Status)
	assert.Zero(t, first.DistanceMeters)

	// later submissions see the morning entry on the ledger
	f.ledger.entries = append(f.ledger.entries, f.ledger.created...)

	f.service.now = func() time.Time { return time.Date(2026, 3, 16, 8, 45, 0, 0, time.UTC) }
	_, err = f.service.SubmitCheckIn(context.Background(), selfieSubmission())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	require.Len(t, f.ledger.created, 1)

	f.service.now = func() time.Time { return time.Date(2026, 3, 16, 17, 0, 0, 0, time.UTC) }
	last, err := f.service.SubmitCheckOut(context.Background(), selfieSubmission())
	require.NoError(t, err)
	assert.Equal(t, entity.AttendanceOut, last.Type)
	assert.Equal(t, entity.StatusPresent, last.Status)

	require.Len(t, f.ledger.created, 2)
	assert.Equal(t, entity.AttendanceIn, f.ledger.created[0].Type)
	assert.Equal(t, entity.AttendanceOut, f.ledger.created[1].Type)
}

func TestSubmitCheckInSelfieKeyLayout(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)
	f := newFixture(now)

	_, err := f.service.SubmitCheckIn(context.Background(), selfieSubmission())

	require.NoError(t, err)
	require.Len(t, f.s3.keys, 1)
	assert.Equal(t, fmt.Sprintf("attendance/emp-1/%d-in.jpg", now.UnixMilli()), f.s3.keys[0])
}
