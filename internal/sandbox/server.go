// Package sandbox is an in-process implementation of the banking backend's
// wire contract. It backs local development (cmd/sandboxd) and the client
// integration tests; it is not the production backend.
package sandbox

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/meridianbank/console/internal/models"
)

// Server wires the in-memory store to the HTTP contract.
type Server struct {
	store      *Store
	secret     []byte
	sessionTTL time.Duration
	validate   *validator.Validate
}

func NewServer(jwtSecret string, sessionTTL time.Duration) *Server {
	return &Server{
		store:      NewStore(),
		secret:     []byte(jwtSecret),
		sessionTTL: sessionTTL,
		validate:   validator.New(),
	}
}

// Router builds the full route tree: public auth endpoints plus the
// role-scoped protected surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Route("/{role}", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/profile", s.handleProfile)
		r.Put("/profile", s.handleProfileUpdate)
		r.Get("/accounts", s.handleAccounts)
		r.Post("/deposit", s.handleDeposit)
		r.Post("/withdraw", s.handleWithdraw)
		r.Post("/transfer", s.handleTransfer)
		r.Post("/transactions/find", s.handleFind)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(models.RoleAdmin, models.RoleEmployee))
			r.Post("/accounts", s.handleOpenAccount)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(models.RoleAdmin))
			r.Post("/users", s.handleCreateUser)
		})
	})

	return r
}

// authMiddleware resolves the session cookie and checks that the role in
// the URL matches the signed-in role. Auth failures are 401; a role
// mismatch is 403.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			sendError(w, "Authentication required", http.StatusUnauthorized, nil)
			return
		}

		userID, role, err := s.parseToken(cookie.Value)
		if err != nil {
			sendError(w, "Invalid or expired session", http.StatusUnauthorized, nil)
			return
		}

		if chi.URLParam(r, "role") != role.PathSegment() {
			sendError(w, "Not permitted for this role", http.StatusForbidden, nil)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, userID)
		ctx = context.WithValue(ctx, ctxRole, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := r.Context().Value(ctxRole).(models.Role)
			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}
			sendError(w, "Not permitted for this role", http.StatusForbidden, nil)
		})
	}
}
