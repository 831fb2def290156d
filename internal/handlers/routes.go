package handlers

import "net/http"

// Router wires the entry page, sign-in and dashboard routes. Every route
// runs inside the browser workspace and request logging.
func Router(m *Middleware, auth *AuthHandler, dash *DashboardHandler, startup *Startup) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /", auth.Home)
	mux.HandleFunc("POST /auth/demo", m.RateLimit(m.CSRFProtect(auth.DemoLogin)))
	mux.HandleFunc("POST /auth/google/credential", m.RateLimit(auth.GoogleCredential))
	mux.HandleFunc("GET /auth/google/start", m.RateLimit(auth.StartGoogle))
	mux.HandleFunc("GET /auth/google/callback", auth.GoogleCallback)
	mux.HandleFunc("POST /logout", m.CSRFProtect(auth.Logout))
	mux.HandleFunc("GET /healthz", startup.Health)

	// Protected dashboard routes
	mux.HandleFunc("GET /dashboard", m.RequireAuth(dash.Show))
	mux.HandleFunc("POST /dashboard/clients/{clientID}/services/{serviceID}", m.RequireAuth(m.CSRFProtect(dash.ToggleService)))
	mux.HandleFunc("POST /dashboard/members/{memberID}/categories/{categoryID}", m.RequireAuth(m.CSRFProtect(dash.ToggleCategory)))
	mux.HandleFunc("POST /dashboard/members/{memberID}/apps/{appID}", m.RequireAuth(m.CSRFProtect(dash.UpdateAppStatus)))
	mux.HandleFunc("POST /dashboard/bedtime/{scheduleID}", m.RequireAuth(m.CSRFProtect(dash.ToggleBedtime)))
	mux.HandleFunc("POST /dashboard/digest", m.RequireAuth(m.CSRFProtect(dash.SendDigest)))

	return Logging(m.Browser(mux))
}
