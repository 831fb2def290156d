package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"filternet/internal/security"
	"filternet/internal/service"
)

const (
	oauthStateCookie = "oauth_state"
	oauthNonceCookie = "oauth_nonce"
)

// StartGoogle sends the browser to Google's consent page. Used when the
// sign-in button cannot run, for example with scripts blocked.
func (h *AuthHandler) StartGoogle(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		h.renderLogin(w, r, "Google sign-in is not configured", http.StatusBadRequest)
		return
	}

	state := security.NewID()
	nonce := security.NewID()
	h.setTempCookie(w, r, oauthStateCookie, state, oauthCookieTTL)
	h.setTempCookie(w, r, oauthNonceCookie, nonce, oauthCookieTTL)

	http.Redirect(w, r, h.google.AuthCodeURL(h.oauthRedirectURL(r), state, nonce), http.StatusFound)
}

// GoogleCallback finishes the redirect flow and signs in with the ID token
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		h.renderLogin(w, r, "Google sign-in is not configured", http.StatusBadRequest)
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.renderLogin(w, r, "Google sign-in was cancelled", http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		h.renderLogin(w, r, "Missing authorization code", http.StatusBadRequest)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || !equalStrings(stateCookie.Value, r.URL.Query().Get("state")) {
		h.renderLogin(w, r, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	nonce := ""
	if cookie, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = cookie.Value
	}

	h.clearTempCookie(w, r, oauthStateCookie)
	h.clearTempCookie(w, r, oauthNonceCookie)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	idToken, err := h.google.Exchange(ctx, h.oauthRedirectURL(r), code)
	if err != nil {
		log.Printf("Google code exchange failed: %v", err)
		h.renderLogin(w, r, ErrSignInFailed, http.StatusBadRequest)
		return
	}
	if nonce == "" || !equalStrings(service.CredentialNonce(idToken), nonce) {
		h.renderLogin(w, r, "Invalid OAuth nonce", http.StatusBadRequest)
		return
	}

	h.signIn(w, r, idToken)
}

func equalStrings(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// callbackBaseURL is the public address of this server
func (h *AuthHandler) callbackBaseURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.cfg.OAuthRedirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/")
}

func (h *AuthHandler) oauthRedirectURL(r *http.Request) string {
	return h.callbackBaseURL(r) + "/auth/google/callback"
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, security.CreateCookie(r, name, value, ttl))
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, security.CreateDeleteCookie(r, name))
}
