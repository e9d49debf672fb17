package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/teranos/plaszyme/errors"
)

// maxPortAttempts is how many ports above the requested one are tried.
const maxPortAttempts = 10

// checkOrigin validates the request origin against the configured allowed
// origins. Prefix matching allows any port on an allowed host.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	allowed := s.cfg.AllowedOrigins
	if len(allowed) == 0 {
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "https://localhost")
	}
	for _, a := range allowed {
		if a == "*" || strings.HasPrefix(origin, a) {
			return true
		}
	}
	return false
}

// clientIP returns the remote host of r without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close() // best-effort check, the real bind follows
	return true
}

// findAvailablePort tries the requested port, then up to maxPortAttempts
// ports above it.
func findAvailablePort(requestedPort int) (int, error) {
	for port := requestedPort; port <= requestedPort+maxPortAttempts && port <= 65535; port++ {
		if isPortAvailable(port) {
			return port, nil
		}
	}
	return 0, errors.WithHintf(
		errors.Newf("no available port in range %d-%d", requestedPort, requestedPort+maxPortAttempts),
		"set server.port in am.toml or pass --port",
	)
}

// shortID truncates an ID to 8 characters for logging
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
