package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authservice/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "remote addr", remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "remote addr without port", remoteAddr: "10.0.0.2", want: "10.0.0.2"},
		{name: "cloudflare wins", headers: map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, remoteAddr: "10.0.0.1:1", want: "1.1.1.1"},
		{name: "first valid forwarded", headers: map[string]string{"X-Forwarded-For": "garbage, 3.3.3.3, 4.4.4.4"}, remoteAddr: "10.0.0.1:1", want: "3.3.3.3"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "5.5.5.5"}, remoteAddr: "10.0.0.1:1", want: "5.5.5.5"},
		{name: "ipv6 normalized", headers: map[string]string{"X-Real-IP": "2001:DB8::1"}, remoteAddr: "10.0.0.1:1", want: "2001:db8::1"},
		{name: "invalid everything", headers: map[string]string{"X-Real-IP": "nope"}, remoteAddr: "bad", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(req))
		})
	}
}
