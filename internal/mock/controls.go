package mock

import (
	"context"
	"fmt"
	"slices"

	"filternet/internal/api"
	"filternet/internal/models"
)

type timeLimitMock struct{ p *Provider }

func (m timeLimitMock) GetLimits(ctx context.Context, memberID string) ([]models.TimeLimit, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	limits := slices.Clone(m.p.limits[memberID])
	if limits == nil {
		limits = []models.TimeLimit{}
	}
	return limits, nil
}

func (m timeLimitMock) SetDailyLimit(ctx context.Context, memberID string, minutes int) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	if m.p.memberIndex(memberID) < 0 {
		return api.ErrNotFound
	}
	usage := m.p.usageFor(memberID)
	usage.Daily.Limit = minutes
	m.p.usage[memberID] = usage
	return nil
}

// SetAppLimit replaces the member's limit for appID or adds a new one
func (m timeLimitMock) SetAppLimit(ctx context.Context, memberID, appID string, minutes int) (*models.TimeLimit, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	if m.p.memberIndex(memberID) < 0 {
		return nil, api.ErrNotFound
	}

	limits := m.p.limits[memberID]
	if i := slices.IndexFunc(limits, func(l models.TimeLimit) bool { return l.AppID == appID }); i >= 0 {
		limits[i].LimitMinutes = minutes
		limit := limits[i]
		return &limit, nil
	}

	limit := models.TimeLimit{ID: newID("limit"), MemberID: memberID, App: appID, AppID: appID, LimitMinutes: minutes}
	for _, app := range m.p.apps {
		if app.ID == appID {
			limit.App = app.Name
			limit.Icon = app.Icon
		}
	}
	m.p.limits[memberID] = append(limits, limit)
	return &limit, nil
}

func (m timeLimitMock) UpdateLimit(ctx context.Context, limitID string, limit models.TimeLimit) (*models.TimeLimit, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	for memberID, limits := range m.p.limits {
		for i := range limits {
			if limits[i].ID != limitID {
				continue
			}
			limit.ID = limitID
			limit.MemberID = memberID
			limits[i] = limit
			return &limit, nil
		}
	}
	return nil, api.ErrNotFound
}

func (m timeLimitMock) DeleteLimit(ctx context.Context, limitID string) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	for memberID, limits := range m.p.limits {
		if i := slices.IndexFunc(limits, func(l models.TimeLimit) bool { return l.ID == limitID }); i >= 0 {
			m.p.limits[memberID] = slices.Delete(limits, i, i+1)
			return nil
		}
	}
	return api.ErrNotFound
}

// GetCurrentUsage ignores date; the demo data has a single day
func (m timeLimitMock) GetCurrentUsage(ctx context.Context, memberID, date string) (*models.Usage, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	usage := m.p.usageFor(memberID)
	return &usage, nil
}

func (p *Provider) usageFor(memberID string) models.Usage {
	usage, ok := p.usage[memberID]
	if !ok {
		usage = fixtureUsage()
	}
	usage.Apps = slices.Clone(usage.Apps)
	return usage
}

type contentFilterMock struct{ p *Provider }

func (m contentFilterMock) GetRules(ctx context.Context, memberID string) (*models.ContentRules, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.memberIndex(memberID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	rules := &models.ContentRules{
		MemberID:   memberID,
		Profile:    m.p.members[idx].Profile,
		Apps:       slices.Clone(m.p.apps),
		Categories: slices.Clone(m.p.categories),
		Websites:   []string{},
	}
	for _, site := range m.p.websites[memberID] {
		rules.Websites = append(rules.Websites, site.URL)
	}
	return rules, nil
}

func (m contentFilterMock) GetAvailableApps(ctx context.Context) ([]models.App, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	return slices.Clone(m.p.apps), nil
}

// UpdateAppStatus changes the app's status for the whole family; the demo
// data keeps one app list
func (m contentFilterMock) UpdateAppStatus(ctx context.Context, memberID, appID string, status models.AppStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid app status %q", status)
	}
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	i := slices.IndexFunc(m.p.apps, func(a models.App) bool { return a.ID == appID })
	if i < 0 {
		return api.ErrNotFound
	}
	m.p.apps[i].Status = status
	return nil
}

func (m contentFilterMock) BlockWebsite(ctx context.Context, memberID, url string) (*models.BlockedWebsite, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	for _, site := range m.p.websites[memberID] {
		if site.URL == url {
			return &site, nil
		}
	}
	site := models.BlockedWebsite{ID: newID("site"), MemberID: memberID, URL: url, Action: "block"}
	m.p.websites[memberID] = append(m.p.websites[memberID], site)
	return &site, nil
}

func (m contentFilterMock) GetBlockedWebsites(ctx context.Context, memberID string) ([]models.BlockedWebsite, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	sites := slices.Clone(m.p.websites[memberID])
	if sites == nil {
		sites = []models.BlockedWebsite{}
	}
	return sites, nil
}

func (m contentFilterMock) UpdateCategoryStatus(ctx context.Context, memberID, categoryID string, blocked bool) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	i := slices.IndexFunc(m.p.categories, func(c models.Category) bool { return c.ID == categoryID })
	if i < 0 {
		return api.ErrNotFound
	}
	m.p.categories[i].IsBlocked = blocked
	return nil
}

func (m contentFilterMock) GetCategories(ctx context.Context) ([]models.Category, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	return slices.Clone(m.p.categories), nil
}

func (m contentFilterMock) UpdateProfile(ctx context.Context, memberID string, profile models.Profile) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.memberIndex(memberID)
	if idx < 0 {
		return api.ErrNotFound
	}
	m.p.members[idx].Profile = profile
	return nil
}

// activityMock reports no recorded activity, matching a freshly set up family
type activityMock struct{ p *Provider }

func (m activityMock) GetActivity(ctx context.Context, memberID, date string) (*models.Activity, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	return &models.Activity{HasActivity: false, Activities: []models.ActivityEntry{}, TotalTime: 0}, nil
}

func (m activityMock) GetSummary(ctx context.Context, memberID, start, end string) (*models.ActivitySummary, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	return &models.ActivitySummary{MemberID: memberID, Start: start, End: end}, nil
}

func (m activityMock) GetTopApps(ctx context.Context, memberID, date string) ([]models.AppTime, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	return []models.AppTime{}, nil
}

func (m activityMock) GetByCategory(ctx context.Context, memberID, date string) ([]models.CategoryTime, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	return []models.CategoryTime{}, nil
}

type bedtimeMock struct{ p *Provider }

func (m bedtimeMock) GetSchedules(ctx context.Context, memberID string) ([]models.BedtimeSchedule, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	schedules := make([]models.BedtimeSchedule, 0, len(m.p.schedules[memberID]))
	for _, s := range m.p.schedules[memberID] {
		schedules = append(schedules, cloneSchedule(s))
	}
	return schedules, nil
}

func (m bedtimeMock) CreateSchedule(ctx context.Context, memberID string, schedule models.BedtimeSchedule) (*models.BedtimeSchedule, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	if m.p.memberIndex(memberID) < 0 {
		return nil, api.ErrNotFound
	}
	schedule.ID = newID("schedule")
	schedule.MemberID = memberID
	m.p.schedules[memberID] = append(m.p.schedules[memberID], cloneSchedule(schedule))
	created := cloneSchedule(schedule)
	return &created, nil
}

func (m bedtimeMock) UpdateSchedule(ctx context.Context, scheduleID string, schedule models.BedtimeSchedule) (*models.BedtimeSchedule, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	s := m.p.findSchedule(scheduleID)
	if s == nil {
		return nil, api.ErrNotFound
	}
	schedule.ID = s.ID
	schedule.MemberID = s.MemberID
	*s = cloneSchedule(schedule)
	updated := cloneSchedule(schedule)
	return &updated, nil
}

func (m bedtimeMock) DeleteSchedule(ctx context.Context, scheduleID string) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	for memberID, schedules := range m.p.schedules {
		if i := slices.IndexFunc(schedules, func(s models.BedtimeSchedule) bool { return s.ID == scheduleID }); i >= 0 {
			m.p.schedules[memberID] = slices.Delete(schedules, i, i+1)
			return nil
		}
	}
	return api.ErrNotFound
}

func (m bedtimeMock) ToggleSchedule(ctx context.Context, scheduleID string, active bool) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	s := m.p.findSchedule(scheduleID)
	if s == nil {
		return api.ErrNotFound
	}
	s.IsActive = active
	return nil
}

func (p *Provider) findSchedule(id string) *models.BedtimeSchedule {
	for _, schedules := range p.schedules {
		for i := range schedules {
			if schedules[i].ID == id {
				return &schedules[i]
			}
		}
	}
	return nil
}
