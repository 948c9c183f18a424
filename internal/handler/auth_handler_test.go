package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

type authServiceMock struct {
	loginReq     models.LoginRequest
	loggedOut    string
	loggedOutBy  string
	loginErr     error
	meCalledWith string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.loginReq = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil
}

func (m *authServiceMock) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, refreshToken string, userID string, meta models.LoginRequest) error {
	m.loggedOut = refreshToken
	m.loggedOutBy = userID
	return nil
}

func (m *authServiceMock) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	m.meCalledWith = userID
	return &models.UserInfo{ID: userID, Level: models.LevelCounty}, nil
}

func TestAuthLoginCapturesClientMetadata(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)
	c, w := testContext(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"ana@example.org","password":"secret"}`), nil)
	c.Request.Header.Set("User-Agent", "test-agent")
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.org", svc.loginReq.Email)
	assert.Equal(t, "test-agent", svc.loginReq.UserAgent)
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrInvalidCredentials})
	c, w := testContext(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"ana@example.org","password":"wrong"}`), nil)
	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthLogoutAndMeUseCaller(t *testing.T) {
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)

	c, w := testContext(http.MethodPost, "/auth/logout", bytes.NewBufferString(`{"refresh_token":"refresh"}`), staffClaims())
	h.Logout(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "refresh", svc.loggedOut)
	assert.Equal(t, "validator-1", svc.loggedOutBy)

	c, w = testContext(http.MethodGet, "/auth/me", nil, staffClaims())
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "validator-1", svc.meCalledWith)
}

type calendarServiceMock struct {
	partnerState string
	ref          time.Time
}

func (m *calendarServiceMock) Create(ctx context.Context, claims *models.JWTClaims, req models.CalendarConfigRequest) (*models.ApprovalCalendarConfig, error) {
	return &models.ApprovalCalendarConfig{PartnerStateID: claims.PartnerStateID, SubmissionDayLimit: req.SubmissionDayLimit}, nil
}

func (m *calendarServiceMock) Update(ctx context.Context, claims *models.JWTClaims, req models.CalendarConfigRequest) (*models.ApprovalCalendarConfig, error) {
	return nil, appErrors.ErrNotFound
}

func (m *calendarServiceMock) Me(ctx context.Context, claims *models.JWTClaims) (*models.ApprovalCalendarConfig, error) {
	return &models.ApprovalCalendarConfig{PartnerStateID: claims.PartnerStateID}, nil
}

func (m *calendarServiceMock) Deadline(ctx context.Context, partnerStateID string, ref time.Time) (*models.CalendarDeadline, error) {
	m.partnerState = partnerStateID
	m.ref = ref
	return &models.CalendarDeadline{PartnerStateID: partnerStateID}, nil
}

func TestCalendarDeadlineParsesDate(t *testing.T) {
	svc := &calendarServiceMock{}
	h := NewCalendarConfigHandler(svc)

	c, w := testContext(http.MethodGet, "/calendar-config/deadline?date=2024-05-10", nil, staffClaims())
	h.Deadline(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ps-1", svc.partnerState)
	assert.Equal(t, time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), svc.ref)

	c, w = testContext(http.MethodGet, "/calendar-config/deadline?date=10/05/2024", nil, staffClaims())
	h.Deadline(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarCreateAndUpdate(t *testing.T) {
	h := NewCalendarConfigHandler(&calendarServiceMock{})

	c, w := testContext(http.MethodPost, "/calendar-config", bytes.NewBufferString(`{"submission_day_limit":10,"analysis_window_days":5}`), staffClaims())
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = testContext(http.MethodPut, "/calendar-config", bytes.NewBufferString(`{"submission_day_limit":10}`), staffClaims())
	h.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type workPlanDueMock struct {
	workPlanService
	month, year int
}

func (m *workPlanDueMock) DueSchedules(ctx context.Context, userID string, month, year int) ([]models.ScheduleItem, error) {
	m.month, m.year = month, year
	return []models.ScheduleItem{{ID: "s-1"}}, nil
}

func TestWorkPlanDueSchedulesRequiresPeriod(t *testing.T) {
	svc := &workPlanDueMock{}
	h := NewWorkPlanHandler(svc)

	c, w := testContext(http.MethodGet, "/work-plans/due-schedules?month=5", nil, staffClaims())
	h.DueSchedules(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testContext(http.MethodGet, "/work-plans/due-schedules?month=5&year=2024", nil, staffClaims())
	h.DueSchedules(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.month)
	assert.Equal(t, 2024, svc.year)
}

type notificationServiceMock struct {
	unread         bool
	page, pageSize int
	markedID       string
}

func (m *notificationServiceMock) ListMine(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, *models.Pagination, error) {
	m.unread, m.page, m.pageSize = unreadOnly, page, pageSize
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *notificationServiceMock) MarkRead(ctx context.Context, id, userID string) error {
	m.markedID = id
	return nil
}

func TestNotificationInbox(t *testing.T) {
	svc := &notificationServiceMock{}
	h := NewNotificationHandler(svc)

	c, w := testContext(http.MethodGet, "/notifications?unread=true&page=2", nil, staffClaims())
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.unread)
	assert.Equal(t, 2, svc.page)

	c, w = testContext(http.MethodPatch, "/notifications/n-1/read", nil, staffClaims())
	c.Params = gin.Params{{Key: "id", Value: "n-1"}}
	h.MarkRead(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "n-1", svc.markedID)
}
