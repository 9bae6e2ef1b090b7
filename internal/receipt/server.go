package receipt

import (
	"net/http"
)

// Server handles HTTP requests for receipts
type Server struct {
	store   Store
	intake  *Intake
	metrics *Metrics
	mux     *http.ServeMux
}

// NewServer creates a new Server with default mux. intake and metrics may be nil,
// which disables the scan and metrics endpoints.
func NewServer(store Store, intake *Intake, metrics *Metrics) *Server {
	return NewServerWithMux(store, intake, metrics, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(store Store, intake *Intake, metrics *Metrics, mux *http.ServeMux) *Server {
	s := &Server{
		store:   store,
		intake:  intake,
		metrics: metrics,
		mux:     mux,
	}
	s.registerRoutes()
	return s
}

// corsMiddleware adds CORS headers to every response and answers preflight requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /receipts/process", s.handleProcessReceipt)
	s.mux.HandleFunc("POST /receipts/scan", s.handleScanReceipt)
	s.mux.HandleFunc("GET /receipts/{id}/points", s.handleGetPoints)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Handler returns the mux wrapped with CORS handling, ready for an http.Server
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}
