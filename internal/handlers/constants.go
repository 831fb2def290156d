package handlers

import "time"

const (
	BrowserCookieName = "filternet_browser"
	CSRFFieldName     = "csrf_token"
	CSRFHeaderName    = "X-CSRF-Token"

	// Google Identity Services double-submit cookie
	GoogleCSRFCookieName = "g_csrf_token"

	oauthCookieTTL = 10 * time.Minute

	ErrInvalidFormData     = "Invalid form data"
	ErrInvalidCSRFToken    = "Invalid or missing CSRF token"
	ErrTooManyRequests     = "Too many requests. Please try again later."
	ErrInternalServerError = "Internal server error"
	ErrSignInFailed        = "Authentication failed. Please try again."
)

// Dashboard sections, addressed by ?section=
const (
	SectionOverview       = "overview"
	SectionFamily         = "family"
	SectionDevices        = "devices"
	SectionTimeLimits     = "time-limits"
	SectionContentFilters = "content-filtering"
	SectionActivity       = "activity"
	SectionBedtime        = "bedtime"
)
