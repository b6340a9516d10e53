package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	DefaultReadTimeout = 15 * time.Second
	// admin writes may carry an image upload, whose client allows 60s
	DefaultWriteTimeout = 90 * time.Second
)

type Server struct {
	mux *chi.Mux

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New builds the router. Middlewares are registered here, before any route;
// request timeouts are applied per route group in MountHandlers.
func New(allowedOrigins []string) *Server {
	m := chi.NewRouter()

	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(CORS(allowedOrigins)) // answers preflights before routing
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m, readTimeout: DefaultReadTimeout, writeTimeout: DefaultWriteTimeout}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.With(Timeout(s.readTimeout)).Handle(path, h)
}
