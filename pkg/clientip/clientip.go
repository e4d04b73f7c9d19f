// Package clientip resolves the caller address of an HTTP request.
// It is used to key rate limits for unauthenticated endpoints.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client IP, checking in order CF-Connecting-IP,
// the first valid X-Forwarded-For entry, X-Real-IP and finally RemoteAddr.
// An empty string means no valid address was found.
func GetIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for part := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
