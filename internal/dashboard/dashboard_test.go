package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filternet/internal/api"
	"filternet/internal/mock"
	"filternet/internal/models"
)

var errBackend = &api.APIError{Status: 503, StatusText: "Service Unavailable"}

// failingClients rejects every toggle
type failingClients struct {
	api.ClientRepository
}

func (failingClients) ToggleService(ctx context.Context, clientID, serviceID string, block bool) (*models.ToggleResult, error) {
	return nil, errBackend
}

type failingContent struct {
	api.ContentFilterAPI
}

func (failingContent) UpdateAppStatus(ctx context.Context, memberID, appID string, status models.AppStatus) error {
	return errBackend
}

func (failingContent) UpdateCategoryStatus(ctx context.Context, memberID, categoryID string, blocked bool) error {
	return errBackend
}

type failingFamily struct {
	api.FamilyAPI
}

func (failingFamily) GetAllMembers(ctx context.Context) ([]models.FamilyMember, error) {
	return nil, errBackend
}

type failingBedtime struct {
	api.BedtimeAPI
}

func (failingBedtime) ToggleSchedule(ctx context.Context, scheduleID string, active bool) error {
	return errBackend
}

// signOutClients behaves like a gateway whose token was rejected: the
// dashboard is reset before the toggle returns
type signOutClients struct {
	api.ClientRepository
	state *State
}

func (c signOutClients) ToggleService(ctx context.Context, clientID, serviceID string, block bool) (*models.ToggleResult, error) {
	c.state.Reset()
	return nil, api.ErrUnauthorized
}

func TestPerform(t *testing.T) {
	ctx := context.Background()
	var shown []int
	apply := func(v []int) { shown = v }

	got, err := Perform(ctx, []int{1}, []int{1, 2}, apply, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, []int{1, 2}, shown)

	var during []int
	got, err = Perform(ctx, []int{1}, []int{1, 3}, apply, func(context.Context) error {
		during = shown
		return errBackend
	})
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, []int{1, 3}, during)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, []int{1}, shown)
}

func TestInitialize(t *testing.T) {
	s := New(mock.New().Facades())
	require.NoError(t, s.Initialize(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, "Parent Account", snap.User.Name)
	assert.Len(t, snap.Members, 4)
	assert.Len(t, snap.Devices, 5)
	assert.Equal(t, 47, snap.Overview.SitesBlockedToday)
	assert.Equal(t, "member_1", snap.SelectedMember)

	for _, r := range []Region{RegionUser, RegionMembers, RegionDevices, RegionOverview} {
		assert.Equal(t, StatusReady, s.Region(r).Status, r)
	}
	assert.Equal(t, StatusIdle, s.Region(RegionBedtime).Status)
}

func TestInitializeRegionFailure(t *testing.T) {
	f := mock.New().Facades()
	f.Family = failingFamily{f.Family}
	s := New(f)

	err := s.Initialize(context.Background())
	assert.ErrorIs(t, err, errBackend)

	members := s.Region(RegionMembers)
	assert.Equal(t, StatusError, members.Status)
	assert.True(t, members.Retry)
	assert.Equal(t, "API Error: 503 Service Unavailable", members.Message)

	// Other regions still load
	assert.Equal(t, StatusReady, s.Region(RegionDevices).Status)
	assert.Len(t, s.Snapshot().Devices, 5)
}

func TestLoadTimeLimits(t *testing.T) {
	s := New(mock.New().Facades())
	require.NoError(t, s.LoadTimeLimits(context.Background(), "member_1"))

	snap := s.Snapshot()
	require.Len(t, snap.TimeLimits, 2)
	assert.True(t, snap.TimeLimits[1].IsExceeded())
	assert.Equal(t, 180, snap.Usage.Daily.Limit)
	assert.Equal(t, StatusReady, s.Region(RegionTimeLimits).Status)
}

func TestLoadClientsSelectsFirst(t *testing.T) {
	s := New(mock.New().Facades())
	ctx := context.Background()
	require.NoError(t, s.LoadClients(ctx))

	snap := s.Snapshot()
	assert.Equal(t, "yourznag-gmail-com-1", snap.SelectedClient)
	assert.Equal(t, 7, snap.Stats.TotalBlocked)

	require.NoError(t, s.LoadClientServices(ctx, "yourznag-gmail-com-2"))
	snap = s.Snapshot()
	assert.Equal(t, "yourznag-gmail-com-2", snap.SelectedClient)
	assert.Len(t, snap.Services, 11)
}

func TestToggleServiceSuccess(t *testing.T) {
	s := New(mock.New().Facades())
	ctx := context.Background()
	require.NoError(t, s.LoadClients(ctx))
	require.NoError(t, s.LoadClientServices(ctx, "yourznag-gmail-com-2"))

	require.NoError(t, s.ToggleService(ctx, "yourznag-gmail-com-2", "youtube", false))

	snap := s.Snapshot()
	phone, ok := snap.Client("yourznag-gmail-com-2")
	require.True(t, ok)
	assert.Equal(t, []string{"instagram", "tiktok"}, phone.BlockedServices)
	assert.Equal(t, 6, snap.Stats.TotalBlocked)
	for _, svc := range snap.Services {
		if svc.ID == "youtube" {
			assert.False(t, svc.IsBlocked)
			assert.Equal(t, models.ServiceAllowed, svc.Status)
		}
	}

	notes := s.TakeNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, NotifySuccess, notes[0].Kind)
	assert.Equal(t, "YouTube allowed", notes[0].Message)
	assert.Empty(t, s.TakeNotifications())

	// Reloading from the backend shows the same state
	require.NoError(t, s.LoadClientServices(ctx, "yourznag-gmail-com-2"))
	assert.Equal(t, snap.Services, s.Snapshot().Services)
}

func TestToggleServiceFailureRestoresState(t *testing.T) {
	f := mock.New().Facades()
	s := New(f)
	ctx := context.Background()
	require.NoError(t, s.LoadClients(ctx))
	require.NoError(t, s.LoadClientServices(ctx, "yourznag-gmail-com-1"))

	before := s.Snapshot()
	f.Clients = failingClients{f.Clients}

	err := s.ToggleService(ctx, "yourznag-gmail-com-1", "netflix", true)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, before, s.Snapshot())

	notes := s.TakeNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, NotifyError, notes[0].Kind)
}

func TestToggleServiceAfterSignOutLeavesStateEmpty(t *testing.T) {
	f := mock.New().Facades()
	s := New(f)
	ctx := context.Background()
	require.NoError(t, s.LoadClients(ctx))
	require.NoError(t, s.LoadClientServices(ctx, "yourznag-gmail-com-1"))
	f.Clients = signOutClients{ClientRepository: f.Clients, state: s}

	err := s.ToggleService(ctx, "yourznag-gmail-com-1", "netflix", true)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, Snapshot{}, s.Snapshot())
	assert.Empty(t, s.TakeNotifications())
}

func TestContentToggles(t *testing.T) {
	f := mock.New().Facades()
	s := New(f)
	ctx := context.Background()
	require.NoError(t, s.LoadContentFilters(ctx))

	require.NoError(t, s.UpdateAppStatus(ctx, "member_1", "discord", models.AppAllowed))
	require.NoError(t, s.ToggleCategory(ctx, "member_1", "video", true))
	snap := s.Snapshot()
	assert.Equal(t, models.AppAllowed, snap.Apps[1].Status)
	assert.True(t, snap.Categories[2].IsBlocked)

	notes := s.TakeNotifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "Discord is now allowed", notes[0].Message)
	assert.Equal(t, "Video Streaming blocked", notes[1].Message)

	before := s.Snapshot()
	f.ContentFilter = failingContent{f.ContentFilter}
	assert.Error(t, s.UpdateAppStatus(ctx, "member_1", "discord", models.AppBlocked))
	assert.Error(t, s.ToggleCategory(ctx, "member_1", "gaming", false))
	assert.Equal(t, before, s.Snapshot())

	assert.Error(t, s.UpdateAppStatus(ctx, "member_1", "discord", "sometimes"))
	assert.Equal(t, before, s.Snapshot())
}

func TestToggleBedtime(t *testing.T) {
	f := mock.New().Facades()
	s := New(f)
	ctx := context.Background()
	require.NoError(t, s.LoadBedtimeSchedules(ctx, "member_1"))

	require.NoError(t, s.ToggleBedtime(ctx, "schedule_1", false))
	assert.False(t, s.Snapshot().Schedules[0].IsActive)
	assert.Equal(t, "Bedtime schedule deactivated", s.TakeNotifications()[0].Message)

	before := s.Snapshot()
	f.Bedtime = failingBedtime{f.Bedtime}
	err := s.ToggleBedtime(ctx, "schedule_1", true)
	assert.True(t, errors.Is(err, errBackend))
	assert.Equal(t, before, s.Snapshot())
}

func TestNotificationsAreBounded(t *testing.T) {
	s := New(mock.New().Facades())
	for range maxNotifications + 5 {
		s.Notify(NotifySuccess, "ok")
	}
	assert.Len(t, s.TakeNotifications(), maxNotifications)
}

func TestReset(t *testing.T) {
	s := New(mock.New().Facades())
	require.NoError(t, s.Initialize(context.Background()))
	s.Notify(NotifySuccess, "ok")

	s.Reset()
	assert.Equal(t, Snapshot{}, s.Snapshot())
	assert.Empty(t, s.Regions())
	assert.Empty(t, s.TakeNotifications())
}
