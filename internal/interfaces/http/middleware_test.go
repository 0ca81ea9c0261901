package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type denyAfter struct {
	left int
}

func (d *denyAfter) Allow(string) bool {
	if d.left == 0 {
		return false
	}
	d.left--
	return true
}

func TestRateLimitPerUser(t *testing.T) {
	env := newTestEnv(t, withLimiter(&denyAfter{left: 1}))
	env.withTenant()
	env.campaigns.On("Latest", mock.Anything, 20).Return(nil, nil)
	tok := env.token(t, entities.RoleUser)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/campaigns/history", tok, nil).Code)

	rec := env.do(t, http.MethodGet, "/api/campaigns/history", tok, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Rate limit exceeded", errorBody(t, rec))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewMiddleware(nil, nil, nil, "https://admin.example.com").CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRequestID_ReusesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(headerRequestID))
}

func TestRequestSizeLimiter(t *testing.T) {
	env := newTestEnv(t, withMaxBody(64))
	env.withTenant()
	big := `{"name":"` + strings.Repeat("a", 128) + `"}`
	rec := env.do(t, http.MethodPost, "/api/products", env.token(t, entities.RoleUser), big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
