package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRequestContext(remoteAddr string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "forwarded chain uses first valid hop",
			remoteAddr: "10.0.0.1:4321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "garbage forwarded entry is skipped",
			remoteAddr: "10.0.0.1:4321",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip, 203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "real ip header",
			remoteAddr: "10.0.0.1:4321",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			want:       "198.51.100.9",
		},
		{
			name:       "remote addr fallback strips port",
			remoteAddr: "192.0.2.4:5678",
			want:       "192.0.2.4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRequestContext(tt.remoteAddr, tt.headers)
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}
