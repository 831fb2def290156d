package handlers

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"filternet/internal/app"
	"filternet/internal/catalog"
	"filternet/internal/config"
	"filternet/internal/dashboard"
	"filternet/internal/models"
	"filternet/internal/service"
	"filternet/internal/validation"
)

// DashboardHandler renders the dashboard and applies its toggles
type DashboardHandler struct {
	cfg        *config.Config
	templates  *template.Template
	middleware *Middleware
	alerts     *service.AlertService
}

// NewDashboardHandler creates a new dashboard handler. alerts may be nil.
func NewDashboardHandler(cfg *config.Config, templates *template.Template, middleware *Middleware, alerts *service.AlertService) *DashboardHandler {
	return &DashboardHandler{
		cfg:        cfg,
		templates:  templates,
		middleware: middleware,
		alerts:     alerts,
	}
}

// Show loads the initial data plus the requested section and renders the
// page. Failed regions render an error block; the page itself still loads.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ws := GetWorkspaceFromContext(r.Context())
	ctx := r.Context()
	q := r.URL.Query()

	section := q.Get("section")
	if !validSection(section) {
		section = SectionOverview
	}

	state := ws.Dashboard
	state.Initialize(ctx)
	state.Update(func(snap *dashboard.Snapshot) {
		if member := q.Get("member"); member != "" {
			snap.SelectedMember = member
		}
		if client := q.Get("client"); client != "" {
			snap.SelectedClient = client
		}
	})
	h.loadSection(ctx, state, section, q)

	// A 401 during any load has already cleared the session
	if !ws.Store.IsAuthenticated(ctx) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := h.viewData(r, ws, section)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "dashboard.tmpl", data); err != nil {
		log.Printf("Error rendering dashboard template: %v", err)
	}
}

func (h *DashboardHandler) loadSection(ctx context.Context, state *dashboard.State, section string, q url.Values) {
	member := state.Snapshot().SelectedMember

	switch section {
	case SectionOverview, SectionFamily:
		state.LoadClients(ctx)
	case SectionTimeLimits:
		if member != "" {
			state.LoadTimeLimits(ctx, member)
		}
	case SectionContentFilters:
		if state.LoadClients(ctx) == nil {
			if client := state.Snapshot().SelectedClient; client != "" {
				state.LoadClientServices(ctx, client)
			}
		}
		state.LoadContentFilters(ctx)
	case SectionActivity:
		if member != "" {
			state.LoadActivity(ctx, member, q.Get("date"))
		}
	case SectionBedtime:
		if member != "" {
			state.LoadBedtimeSchedules(ctx, member)
		}
	}
}

func (h *DashboardHandler) viewData(r *http.Request, ws *app.Workspace, section string) DashboardViewData {
	state := ws.Dashboard
	snap := state.Snapshot()

	// The signed-in identity wins over the backend profile
	user := GetUserFromContext(r.Context())
	if user == nil || (user.Name == "" && user.Email == "") {
		user = snap.User
	}

	data := DashboardViewData{
		Title:         "Dashboard - " + h.cfg.AppName,
		AppName:       h.cfg.AppName,
		AppVersion:    h.cfg.AppVersion,
		User:          user,
		CSRFToken:     h.middleware.CSRFToken(r),
		Section:       section,
		Nav:           navFor(section),
		Notifications: state.TakeNotifications(),
		Snap:          snap,
		MemberCards:   memberCards(snap.Members, snap.Devices),
		ClientCards:   clientCards(snap.Clients, snap.SelectedClient),
		ServiceGroups: catalog.GroupByCategory(snap.Services),
		AppStatuses:   []models.AppStatus{models.AppBlocked, models.AppAllowed, models.AppLimited},
		ActivityDate:  r.URL.Query().Get("date"),
		DigestEnabled: h.alerts != nil && h.alerts.Enabled(),
		regions:       state.Regions(),
	}
	if m, ok := snap.Member(snap.SelectedMember); ok {
		data.SelectedMember = &m
	}
	if c, ok := snap.Client(snap.SelectedClient); ok {
		data.SelectedClient = &c
	}
	return data
}

// ToggleService blocks or allows a service on a client
func (h *DashboardHandler) ToggleService(w http.ResponseWriter, r *http.Request) {
	ws := GetWorkspaceFromContext(r.Context())
	clientID := r.PathValue("clientID")
	serviceID := r.PathValue("serviceID")
	if !validPathIDs(w, "client", clientID, "service", serviceID) {
		return
	}
	if _, ok := catalog.Lookup(serviceID); !ok {
		respondWithError(w, http.StatusBadRequest, "Unknown service", "", nil)
		return
	}

	state := ws.Dashboard
	if _, ok := state.Snapshot().Client(clientID); !ok {
		state.LoadClients(r.Context())
	}
	if state.Snapshot().SelectedClient == clientID && len(state.Snapshot().Services) == 0 {
		state.LoadClientServices(r.Context(), clientID)
	}

	err := state.ToggleService(r.Context(), clientID, serviceID, r.FormValue("blocked") == "true")
	h.finishAction(w, r, err, SectionContentFilters)
}

// ToggleCategory blocks or allows a content category for a member
func (h *DashboardHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	ws := GetWorkspaceFromContext(r.Context())
	if !validPathIDs(w, "member", r.PathValue("memberID"), "category", r.PathValue("categoryID")) {
		return
	}
	ensureContentFilters(r.Context(), ws.Dashboard)
	err := ws.Dashboard.ToggleCategory(r.Context(), r.PathValue("memberID"), r.PathValue("categoryID"), r.FormValue("blocked") == "true")
	h.finishAction(w, r, err, SectionContentFilters)
}

// UpdateAppStatus sets an app to blocked, allowed or limited
func (h *DashboardHandler) UpdateAppStatus(w http.ResponseWriter, r *http.Request) {
	ws := GetWorkspaceFromContext(r.Context())
	if !validPathIDs(w, "member", r.PathValue("memberID"), "app", r.PathValue("appID")) {
		return
	}
	ensureContentFilters(r.Context(), ws.Dashboard)
	err := ws.Dashboard.UpdateAppStatus(r.Context(), r.PathValue("memberID"), r.PathValue("appID"), models.AppStatus(r.FormValue("status")))
	if err != nil {
		// Show what the backend really holds
		ws.Dashboard.LoadContentFilters(r.Context())
	}
	h.finishAction(w, r, err, SectionContentFilters)
}

// validPathIDs checks field/value pairs taken from the URL and answers 400
// when one is malformed
func validPathIDs(w http.ResponseWriter, pairs ...string) bool {
	if err := validation.ValidateIDs(pairs...); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return false
	}
	return true
}

// ensureContentFilters loads apps and categories when the browser toggles
// one before its workspace has them
func ensureContentFilters(ctx context.Context, state *dashboard.State) {
	snap := state.Snapshot()
	if len(snap.Apps) == 0 || len(snap.Categories) == 0 {
		state.LoadContentFilters(ctx)
	}
}

// ToggleBedtime switches a bedtime schedule on or off
func (h *DashboardHandler) ToggleBedtime(w http.ResponseWriter, r *http.Request) {
	ws := GetWorkspaceFromContext(r.Context())
	if !validPathIDs(w, "schedule", r.PathValue("scheduleID")) {
		return
	}
	err := ws.Dashboard.ToggleBedtime(r.Context(), r.PathValue("scheduleID"), r.FormValue("active") == "true")
	h.finishAction(w, r, err, SectionBedtime)
}

// SendDigest mails the activity digest to the signed-in parent
func (h *DashboardHandler) SendDigest(w http.ResponseWriter, r *http.Request) {
	ws := GetWorkspaceFromContext(r.Context())
	state := ws.Dashboard

	if h.alerts == nil || !h.alerts.Enabled() {
		state.Notify(dashboard.NotifyError, "E-mail digests are not configured")
		h.finishAction(w, r, nil, SectionOverview)
		return
	}

	user := GetUserFromContext(r.Context())
	if user == nil {
		user = &models.User{}
	}
	_, err := h.alerts.SendDigest(r.Context(), ws.Facades, *user)
	switch {
	case errors.Is(err, service.ErrNoRecipient):
		state.Notify(dashboard.NotifyError, "Your account has no e-mail address")
	case err != nil:
		state.Notify(dashboard.NotifyError, "Failed to send digest")
	default:
		state.Notify(dashboard.NotifySuccess, "Digest sent to "+user.Email)
	}
	h.finishAction(w, r, err, SectionOverview)
}

// finishAction sends the browser back to the section it came from. The
// outcome travels as a notification; a rejected session goes to the entry
// page instead.
func (h *DashboardHandler) finishAction(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if err != nil {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		if statusForError(err) == http.StatusUnauthorized {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	section := r.FormValue("section")
	if !validSection(section) {
		section = fallback
	}
	q := url.Values{}
	q.Set("section", section)
	for _, key := range []string{"member", "client"} {
		if v := r.FormValue(key); v != "" {
			q.Set(key, v)
		}
	}
	http.Redirect(w, r, "/dashboard?"+q.Encode(), http.StatusSeeOther)
}
