package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, caller, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if caller != "" {
		req.Header.Set(CallerIdHeader, caller)
	}
	if token != "" {
		req.Header.Set(AuthTokenHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	authTokens = "token-a,token-b"
	r := newAuthRouter()

	tests := []struct {
		name   string
		caller string
		token  string
		status int
	}{
		{"missing caller id", "", "token-a", http.StatusBadRequest},
		{"missing token", "caller-1", "", http.StatusBadRequest},
		{"unknown token", "caller-1", "token-x", http.StatusUnauthorized},
		{"valid token", "caller-1", "token-a", http.StatusOK},
		{"second valid token", "caller-1", "token-b", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.caller, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
