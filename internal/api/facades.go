package api

import (
	"context"

	"filternet/internal/models"
)

// AuthAPI covers the signed-in account
type AuthAPI interface {
	GetCurrentUser(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)
	Logout(ctx context.Context) error
	ExchangeGoogleCredential(ctx context.Context, credential string) (string, error)
}

// FamilyAPI manages family members
type FamilyAPI interface {
	GetAllMembers(ctx context.Context) ([]models.FamilyMember, error)
	GetMember(ctx context.Context, memberID string) (*models.FamilyMember, error)
	AddMember(ctx context.Context, member models.FamilyMember) (*models.FamilyMember, error)
	UpdateMember(ctx context.Context, memberID string, member models.FamilyMember) (*models.FamilyMember, error)
	DeleteMember(ctx context.Context, memberID string) error
}

// DeviceAPI manages devices
type DeviceAPI interface {
	GetAllDevices(ctx context.Context) ([]models.Device, error)
	GetMemberDevices(ctx context.Context, memberID string) ([]models.Device, error)
	AddDevice(ctx context.Context, device models.Device) (*models.Device, error)
	UpdateDevice(ctx context.Context, deviceID string, device models.Device) (*models.Device, error)
	RemoveDevice(ctx context.Context, deviceID string) error
}

// TimeLimitAPI manages screen time limits. Dates are "YYYY-MM-DD"; an empty
// date means today.
type TimeLimitAPI interface {
	GetLimits(ctx context.Context, memberID string) ([]models.TimeLimit, error)
	SetDailyLimit(ctx context.Context, memberID string, minutes int) error
	SetAppLimit(ctx context.Context, memberID, appID string, minutes int) (*models.TimeLimit, error)
	UpdateLimit(ctx context.Context, limitID string, limit models.TimeLimit) (*models.TimeLimit, error)
	DeleteLimit(ctx context.Context, limitID string) error
	GetCurrentUsage(ctx context.Context, memberID, date string) (*models.Usage, error)
}

// ContentFilterAPI manages app, website and category rules
type ContentFilterAPI interface {
	GetRules(ctx context.Context, memberID string) (*models.ContentRules, error)
	GetAvailableApps(ctx context.Context) ([]models.App, error)
	UpdateAppStatus(ctx context.Context, memberID, appID string, status models.AppStatus) error
	BlockWebsite(ctx context.Context, memberID, url string) (*models.BlockedWebsite, error)
	GetBlockedWebsites(ctx context.Context, memberID string) ([]models.BlockedWebsite, error)
	UpdateCategoryStatus(ctx context.Context, memberID, categoryID string, blocked bool) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	UpdateProfile(ctx context.Context, memberID string, profile models.Profile) error
}

// ActivityAPI reads activity logs
type ActivityAPI interface {
	GetActivity(ctx context.Context, memberID, date string) (*models.Activity, error)
	GetSummary(ctx context.Context, memberID, start, end string) (*models.ActivitySummary, error)
	GetTopApps(ctx context.Context, memberID, date string) ([]models.AppTime, error)
	GetByCategory(ctx context.Context, memberID, date string) ([]models.CategoryTime, error)
}

// BedtimeAPI manages bedtime schedules
type BedtimeAPI interface {
	GetSchedules(ctx context.Context, memberID string) ([]models.BedtimeSchedule, error)
	CreateSchedule(ctx context.Context, memberID string, schedule models.BedtimeSchedule) (*models.BedtimeSchedule, error)
	UpdateSchedule(ctx context.Context, scheduleID string, schedule models.BedtimeSchedule) (*models.BedtimeSchedule, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
	ToggleSchedule(ctx context.Context, scheduleID string, active bool) error
}

// DashboardAPI reads the overview
type DashboardAPI interface {
	GetOverview(ctx context.Context) (*models.Overview, error)
	GetAlerts(ctx context.Context) ([]models.Alert, error)
	GetRecentBlocks(ctx context.Context, limit int) ([]models.BlockEvent, error)
}

// ClientRepository manages per-device filtering configuration
type ClientRepository interface {
	GetAllClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, clientID string) (*models.RawClientConfig, error)
	UpdateBlockedServices(ctx context.Context, clientID string, blocked []string) (*models.BlockedServicesResult, error)
	ToggleService(ctx context.Context, clientID, serviceID string, block bool) (*models.ToggleResult, error)
	UpdateSafeSearch(ctx context.Context, clientID string, safeSearch models.SafeSearch) (*models.SafeSearchResult, error)
}

// DefaultRecentBlocks is the page size used when no limit is given
const DefaultRecentBlocks = 10

// Facades bundles one implementation of every resource API
type Facades struct {
	Auth          AuthAPI
	Family        FamilyAPI
	Devices       DeviceAPI
	TimeLimits    TimeLimitAPI
	ContentFilter ContentFilterAPI
	Activity      ActivityAPI
	Bedtime       BedtimeAPI
	Dashboard     DashboardAPI
	Clients       ClientRepository
}

// NewHTTPFacades returns facades that talk to the backend through g
func NewHTTPFacades(g *Gateway) *Facades {
	return &Facades{
		Auth:          &authClient{g: g},
		Family:        &familyClient{g: g},
		Devices:       &deviceClient{g: g},
		TimeLimits:    &timeLimitClient{g: g},
		ContentFilter: &contentFilterClient{g: g},
		Activity:      &activityClient{g: g},
		Bedtime:       &bedtimeClient{g: g},
		Dashboard:     &dashboardClient{g: g},
		Clients:       &clientRepository{g: g},
	}
}
