package server

import (
	"net/http"
)

// routes registers every endpoint and wraps the mux in the middleware chain.
// Order, outermost first: request ID, access log, CORS, rate limit, timeout.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/enzymes/{id}", s.HandleEnzyme)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /api/datasets", s.HandleDatasets)
	mux.HandleFunc("GET /api/substrates", s.HandleSubstrates)
	mux.HandleFunc("GET /api/substrates/{name}", s.HandleSubstrate)
	mux.HandleFunc("GET /health", s.HandleHealth)

	var h http.Handler = mux
	h = s.timeoutMiddleware(h)
	h = s.rateLimitMiddleware(h)
	h = s.corsMiddleware(h)
	h = s.accessLogMiddleware(h)
	h = s.requestIDMiddleware(h)
	return h
}

// corsMiddleware adds CORS headers for configured origins and answers
// preflight requests directly.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
