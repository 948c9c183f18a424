package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

type tokenValidatorStub struct {
	claims *models.JWTClaims
	err    error
}

func (s tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, s.err
}

type checkerStub struct {
	allowed  bool
	err      error
	subjects []string
}

func (s *checkerStub) Allowed(subjects []string, resource, action string) (bool, error) {
	s.subjects = subjects
	return s.allowed, s.err
}

type auditStub struct {
	logs []*models.AuditLog
}

func (s *auditStub) Create(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

type observerStub struct {
	path   string
	status int
}

func (s *observerStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	s.path = path
	s.status = status
}

func validatorClaims() *models.JWTClaims {
	return &models.JWTClaims{
		UserID:         "user-1",
		Role:           models.RoleStaff,
		Level:          models.LevelRegional,
		PartnerStateID: "ps-1",
		Areas:          []string{models.AreaApproveReports},
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func perform(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newRouter()
	r.GET("/secure", JWT(tokenValidatorStub{claims: validatorClaims()}), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/secure", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/secure", "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/secure", "Bearer bad").Code)

	w := perform(r, http.MethodGet, "/secure", "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := newRouter()
	r.POST("/reports", JWT(tokenValidatorStub{claims: validatorClaims()}), RequireRoles(models.RoleScholar), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodPost, "/reports", "Bearer good").Code)
}

func TestRequirePermissionPassesSubjects(t *testing.T) {
	checker := &checkerStub{allowed: true}
	r := newRouter()
	r.PATCH("/reports/:id/approve", JWT(tokenValidatorStub{claims: validatorClaims()}), RequirePermission(checker, "monthly_reports", "decide"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodPatch, "/reports/r-1/approve", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"role:STAFF", models.AreaApproveReports}, checker.subjects)

	checker.allowed = false
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodPatch, "/reports/r-1/approve", "Bearer good").Code)

	checker.err = errors.New("policy unavailable")
	assert.Equal(t, http.StatusInternalServerError, perform(r, http.MethodPatch, "/reports/r-1/approve", "Bearer good").Code)
}

func TestAuditRecordsSuccessfulWritesOnly(t *testing.T) {
	writer := &auditStub{}
	r := newRouter()
	r.PUT("/calendar-config", JWT(tokenValidatorStub{claims: validatorClaims()}), Audit(writer, "calendar_config", models.AuditActionUpdate, nil), func(c *gin.Context) {
		if c.Query("fail") != "" {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	perform(r, http.MethodPut, "/calendar-config?fail=1", "Bearer good")
	assert.Empty(t, writer.logs)

	perform(r, http.MethodPut, "/calendar-config", "Bearer good")
	require.Len(t, writer.logs, 1)
	log := writer.logs[0]
	assert.Equal(t, models.AuditActionUpdate, log.Action)
	assert.Equal(t, "calendar_config", log.Resource)
	assert.Equal(t, "user-1", *log.UserID)
	assert.Equal(t, "ps-1", *log.ResourceID)
	assert.JSONEq(t, `{"method":"PUT","path":"/calendar-config","status":200}`, string(log.NewValues))
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &observerStub{}
	r := newRouter()
	r.Use(Metrics(observer))
	r.GET("/reports/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	perform(r, http.MethodGet, "/reports/abc", "")
	assert.Equal(t, "/reports/:id", observer.path)
	assert.Equal(t, http.StatusNoContent, observer.status)

	perform(r, http.MethodGet, "/nowhere", "")
	assert.Equal(t, "unmatched", observer.path)
}

func TestResponseMetaCarriesViewerLevel(t *testing.T) {
	var meta map[string]interface{}
	r := newRouter()
	r.GET("/reports", JWT(tokenValidatorStub{claims: validatorClaims()}), WithResponseMeta(), func(c *gin.Context) {
		SetMeta(c, "projected", true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	perform(r, http.MethodGet, "/reports", "Bearer good")
	require.NotNil(t, meta)
	assert.Equal(t, models.LevelRegional, meta["viewer_level"])
	assert.Equal(t, true, meta["projected"])
}
