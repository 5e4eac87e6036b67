package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:   "remote addr with port",
			remote: "192.0.2.10:54321",
			want:   "192.0.2.10",
		},
		{
			name:    "x-forwarded-for single hop",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5"},
			remote:  "10.0.0.1:80",
			want:    "203.0.113.5",
		},
		{
			name:    "x-forwarded-for takes first hop",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2, 10.0.0.3"},
			remote:  "10.0.0.1:80",
			want:    "203.0.113.5",
		},
		{
			name:    "x-real-ip fallback",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			remote:  "10.0.0.1:80",
			want:    "198.51.100.7",
		},
		{
			name:    "forwarded-for wins over real-ip",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5", "X-Real-IP": "198.51.100.7"},
			remote:  "10.0.0.1:80",
			want:    "203.0.113.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for name, value := range tt.headers {
				req.Header.Set(name, value)
			}
			require.Equal(t, tt.want, ClientIP(req))
		})
	}
}
