package handlers

import (
	"crypto/subtle"
	"html/template"
	"log"
	"net/http"

	"filternet/internal/config"
	"filternet/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	cfg        *config.Config
	templates  *template.Template
	middleware *Middleware
	google     *service.GoogleSignIn
}

// NewAuthHandler creates a new auth handler. google may be nil, in which
// case only the sign-in button and demo login are offered.
func NewAuthHandler(cfg *config.Config, templates *template.Template, middleware *Middleware, google *service.GoogleSignIn) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		templates:  templates,
		middleware: middleware,
		google:     google,
	}
}

// Home renders the entry page, or sends a signed-in browser to the dashboard
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if ws := GetWorkspaceFromContext(r.Context()); ws != nil {
		if ws.Auth.State(r.Context()) == service.StateLoggedIn {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}

	h.renderLogin(w, r, "", http.StatusOK)
}

// demoAllowed reports whether demo login is offered. Without a real Google
// client id it is the only way in.
func (h *AuthHandler) demoAllowed() bool {
	return h.cfg.DemoMode || !h.cfg.GoogleConfigured()
}

// DemoLogin signs the browser in as the demo user
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	if !h.demoAllowed() {
		respondWithError(w, http.StatusForbidden, "Demo mode is disabled", "", nil)
		return
	}

	ws := GetWorkspaceFromContext(r.Context())
	if _, err := ws.Auth.DemoLogin(r.Context()); err != nil {
		log.Printf("Demo login failed: %v", err)
		h.renderLogin(w, r, ErrSignInFailed, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// GoogleCredential accepts the ID token posted by the Google sign-in button
func (h *AuthHandler) GoogleCredential(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	if !h.validCredentialPost(r) {
		respondWithError(w, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
		return
	}

	credential := r.FormValue("credential")
	if credential == "" {
		h.renderLogin(w, r, "Missing Google credential", http.StatusBadRequest)
		return
	}

	h.signIn(w, r, credential)
}

// validCredentialPost accepts either the Google double-submit cookie or a
// token issued by this server
func (h *AuthHandler) validCredentialPost(r *http.Request) bool {
	if body := r.PostFormValue(GoogleCSRFCookieName); body != "" {
		cookie, err := r.Cookie(GoogleCSRFCookieName)
		return err == nil && subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(body)) == 1
	}
	ws := GetWorkspaceFromContext(r.Context())
	return ws != nil && h.middleware.csrf.ValidateToken(ws.ID, r.PostFormValue(CSRFFieldName))
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, credential string) {
	ws := GetWorkspaceFromContext(r.Context())
	user, err := ws.Auth.SignInWithCredential(r.Context(), credential)
	if err != nil {
		log.Printf("Google sign-in failed: %v", err)
		h.renderLogin(w, r, ErrSignInFailed, http.StatusUnauthorized)
		return
	}

	log.Printf("Browser %s signed in as %s", ws.ID, user.Email)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout signs the browser out. The local session is gone even when the
// backend logout fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ws := GetWorkspaceFromContext(r.Context())
	if ws != nil {
		if err := ws.Auth.Logout(r.Context()); err != nil {
			log.Printf("Backend logout failed: %v", err)
		}
		ws.Dashboard.Reset()
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, message string, status int) {
	data := LoginViewData{
		Title:            "Sign in - " + h.cfg.AppName,
		AppName:          h.cfg.AppName,
		AppVersion:       h.cfg.AppVersion,
		GoogleClientID:   h.cfg.GoogleClientID,
		GoogleConfigured: h.cfg.GoogleConfigured(),
		GoogleRedirect:   h.google != nil,
		DemoMode:         h.demoAllowed(),
		LoginURI:         h.callbackBaseURL(r) + "/auth/google/credential",
		CSRFToken:        h.middleware.CSRFToken(r),
		Error:            message,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
		log.Printf("Error rendering login template: %v", err)
	}
}
