// Package mockserver implements the development backend the precifi
// client's development environment points at. It keeps accounts in memory,
// issues opaque bearer tokens, and serves the demo finance dataset behind
// bearer auth so the client's full request path can be exercised without
// the real API.
package mockserver

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/precifi/precifi-go/session"
)

//go:embed openapi.yaml
var openapiSpec []byte

// account is a registered user plus its password. Plaintext is fine here:
// this server exists for development and tests only.
type account struct {
	user     session.User
	password string
}

// Server holds the in-memory state of the mock backend.
type Server struct {
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	accounts    map[string]*account // keyed by normalized email
	tokens      map[string]string   // bearer token -> normalized email
	resetTokens map[string]string   // reset token -> normalized email
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger. If not set, a default JSON logger
// writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock overrides the server's clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a mock backend with no registered accounts.
func New(opts ...Option) *Server {
	s := &Server{
		now:         time.Now,
		accounts:    make(map[string]*account),
		tokens:      make(map[string]string),
		resetTokens: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return s
}

// Router returns a chi.Router with all mock API routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/forgot-password", s.handleForgotPassword)
	r.Post("/auth/reset-password", s.handleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Get("/profile", s.handleProfile)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/budgets", s.handleBudgets)
		r.Get("/vault/locks", s.handleVaultLocks)
	})

	return r
}

// ResetTokenFor returns the pending password reset token for an email, or
// "" if none. The real backend delivers this by email; the mock exposes it
// so flows can be completed in development and tests.
func (s *Server) ResetTokenFor(email string) string {
	email = session.NormalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, e := range s.resetTokens {
		if e == email {
			return token
		}
	}
	return ""
}
