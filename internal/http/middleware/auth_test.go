package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"travelplanner/internal/domain"
	"travelplanner/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(raw string) (services.SessionClaims, error) {
	sub, ok := s[raw]
	if !ok {
		return services.SessionClaims{}, domain.UnauthorizedError{}
	}
	var claims services.SessionClaims
	claims.Subject = sub
	return claims, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/who", RequireAuth(stubVerifier{"good": "acc-1"}), func(c *gin.Context) {
		c.String(http.StatusOK, GetCallerID(c))
	})
	return r
}

func TestRequireAuthAcceptsBearerAndCookie(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acc-1", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejects(t *testing.T) {
	r := newAuthRouter()

	for _, header := range []string{"", "Bearer bad", "Basic good"} {
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Contains(t, rec.Body.String(), "unauthorized")
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	}
}

func TestRequestIDDropsOversizedHeader(t *testing.T) {
	r := newAuthRouter()
	long := make([]byte, maxRequestIDLen+1)
	for i := range long {
		long[i] = 'a'
	}
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(requestIDHeader, string(long))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEqual(t, string(long), rec.Header().Get(requestIDHeader))
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}
