package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"filternet/internal/app"
	"filternet/internal/models"
	"filternet/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	WorkspaceContextKey ContextKey = "workspace"
	UserContextKey      ContextKey = "user"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	registry     *app.Registry
	csrf         *security.CSRFGenerator
	limiter      *security.RateLimiter
	cookieMaxAge time.Duration
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(registry *app.Registry, csrf *security.CSRFGenerator, limiter *security.RateLimiter, cookieMaxAge time.Duration) *Middleware {
	return &Middleware{
		registry:     registry,
		csrf:         csrf,
		limiter:      limiter,
		cookieMaxAge: cookieMaxAge,
	}
}

// Browser attaches the workspace of the browser profile to the request. A
// profile cookie is issued on the first visit.
func (m *Middleware) Browser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(BrowserCookieName); err == nil && security.ValidID(cookie.Value) {
			id = cookie.Value
		}
		if id == "" {
			id = security.NewID()
			http.SetCookie(w, security.CreateCookie(r, BrowserCookieName, id, m.cookieMaxAge))
		}

		ctx := context.WithValue(r.Context(), WorkspaceContextKey, m.registry.Get(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth is middleware that requires a signed-in workspace. Anyone else
// is sent back to the entry page.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := GetWorkspaceFromContext(r.Context())
		if ws == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		user, err := ws.Auth.RequireAuthenticated(r.Context())
		if err != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect rejects state-changing requests without a token issued to
// this browser profile
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(CSRFHeaderName)
		if token == "" {
			if err := r.ParseForm(); err != nil {
				respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
				return
			}
			token = r.FormValue(CSRFFieldName)
		}

		ws := GetWorkspaceFromContext(r.Context())
		if ws == nil || !m.csrf.ValidateToken(ws.ID, token) {
			respondWithError(w, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFToken issues a form token for the request's browser profile
func (m *Middleware) CSRFToken(r *http.Request) string {
	ws := GetWorkspaceFromContext(r.Context())
	if ws == nil {
		return ""
	}
	token, err := m.csrf.GenerateToken(ws.ID)
	if err != nil {
		log.Printf("Failed to generate CSRF token: %v", err)
		return ""
	}
	return token
}

// RateLimit limits attempts per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// GetWorkspaceFromContext retrieves the browser workspace from the request context
func GetWorkspaceFromContext(ctx context.Context) *app.Workspace {
	ws, ok := ctx.Value(WorkspaceContextKey).(*app.Workspace)
	if !ok {
		return nil
	}
	return ws
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
