package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
)

const testSecret = "test-secret"

func signToken(t *testing.T, sub string, role models.UserRole, expires time.Time) string {
	claims := models.JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:id", Auth(testSecret), RBAC(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID())
	})
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRejectsMissingToken(t *testing.T) {
	rec := doRequest(newAuthRouter("admin"), "/users/u-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	token := signToken(t, "u-1", models.RoleAdmin, time.Now().Add(-time.Minute))
	rec := doRequest(newAuthRouter("admin"), "/users/u-1", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func TestRBACAllowsRole(t *testing.T) {
	token := signToken(t, "u-1", models.RoleAdmin, time.Now().Add(time.Hour))
	rec := doRequest(newAuthRouter("admin"), "/users/u-2", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", rec.Body.String())
}

func TestRBACForbidsOtherRoles(t *testing.T) {
	token := signToken(t, "u-1", models.RoleStudent, time.Now().Add(time.Hour))
	rec := doRequest(newAuthRouter("admin", SelfRole), "/users/u-2", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(newAuthRouter("admin", SelfRole), "/users/u-1", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func recordedRoutes(t *testing.T, metrics *service.MetricsService) []string {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	var routes []string
	for _, mf := range families {
		if mf.GetName() != "classroom_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "path" {
					routes = append(routes, label.GetValue())
				}
			}
		}
	}
	return routes
}

func TestMetricsMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/classes/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	doRequest(r, "/classes/5", "")

	assert.Equal(t, []string{"/classes/:id"}, recordedRoutes(t, metrics))
}

func TestMetricsMiddlewareCollapsesUnknownPathsAndSkipsScrape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/metrics"))
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	doRequest(r, "/metrics", "")
	doRequest(r, "/wp-admin/a1", "")
	rec := doRequest(r, "/wp-admin/b2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{UnmatchedRoute}, recordedRoutes(t, metrics))
}

func TestMetricsMiddlewareWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, doRequest(r, "/ping", "").Code)
}

func TestSetCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))
	SetCacheHit(c, true)
	assert.Equal(t, true, ExtractMeta(c)["cache_hit"])
}
