package mock

import (
	"context"
	"log"
	"slices"

	"filternet/internal/api"
	"filternet/internal/models"
)

type authMock struct{ p *Provider }

func (m authMock) GetCurrentUser(ctx context.Context) (*models.User, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	user := m.p.user
	return &user, nil
}

func (m authMock) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	if user.Name != "" {
		m.p.user.Name = user.Name
	}
	if user.Picture != "" {
		m.p.user.Picture = user.Picture
	}
	updated := m.p.user
	return &updated, nil
}

func (m authMock) Logout(ctx context.Context) error {
	if m.p.session == nil {
		return nil
	}
	if err := m.p.session.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Printf("Failed to clear session on logout: %v", err)
		return err
	}
	return nil
}

// ExchangeGoogleCredential accepts any credential and hands it back as the
// session token
func (m authMock) ExchangeGoogleCredential(ctx context.Context, credential string) (string, error) {
	if err := m.p.wait(ctx); err != nil {
		return "", err
	}
	if credential == "" {
		return "", api.ErrNoToken
	}
	return credential, nil
}

type familyMock struct{ p *Provider }

func (m familyMock) GetAllMembers(ctx context.Context) ([]models.FamilyMember, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	members := make([]models.FamilyMember, 0, len(m.p.members))
	for _, member := range m.p.members {
		members = append(members, cloneMember(member))
	}
	return members, nil
}

func (m familyMock) GetMember(ctx context.Context, memberID string) (*models.FamilyMember, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.memberIndex(memberID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	member := cloneMember(m.p.members[idx])
	return &member, nil
}

func (m familyMock) AddMember(ctx context.Context, member models.FamilyMember) (*models.FamilyMember, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	member.ID = newID("member")
	if member.DeviceIDs == nil {
		member.DeviceIDs = []string{}
	}
	m.p.members = append(m.p.members, cloneMember(member))
	return &member, nil
}

func (m familyMock) UpdateMember(ctx context.Context, memberID string, member models.FamilyMember) (*models.FamilyMember, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.memberIndex(memberID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	member.ID = memberID
	if member.DeviceIDs == nil {
		member.DeviceIDs = m.p.members[idx].DeviceIDs
	}
	m.p.members[idx] = cloneMember(member)
	updated := cloneMember(member)
	return &updated, nil
}

// DeleteMember removes the member together with their devices, limits and
// schedules
func (m familyMock) DeleteMember(ctx context.Context, memberID string) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.memberIndex(memberID)
	if idx < 0 {
		return api.ErrNotFound
	}
	m.p.members = slices.Delete(m.p.members, idx, idx+1)
	m.p.devices = slices.DeleteFunc(m.p.devices, func(d models.Device) bool { return d.MemberID == memberID })
	delete(m.p.limits, memberID)
	delete(m.p.usage, memberID)
	delete(m.p.websites, memberID)
	delete(m.p.schedules, memberID)
	return nil
}

type deviceMock struct{ p *Provider }

func (m deviceMock) GetAllDevices(ctx context.Context) ([]models.Device, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	return slices.Clone(m.p.devices), nil
}

func (m deviceMock) GetMemberDevices(ctx context.Context, memberID string) ([]models.Device, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	devices := []models.Device{}
	for _, d := range m.p.devices {
		if d.MemberID == memberID {
			devices = append(devices, d)
		}
	}
	return devices, nil
}

func (m deviceMock) AddDevice(ctx context.Context, device models.Device) (*models.Device, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	device.ID = newID("device")
	if device.Status == "" {
		device.Status = models.DeviceOffline
	}
	m.p.devices = append(m.p.devices, device)
	if idx := m.p.memberIndex(device.MemberID); idx >= 0 {
		m.p.members[idx].DeviceIDs = append(m.p.members[idx].DeviceIDs, device.ID)
	}
	return &device, nil
}

func (m deviceMock) UpdateDevice(ctx context.Context, deviceID string, device models.Device) (*models.Device, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.deviceIndex(deviceID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	device.ID = deviceID
	m.p.devices[idx] = device
	return &device, nil
}

func (m deviceMock) RemoveDevice(ctx context.Context, deviceID string) error {
	if err := m.p.wait(ctx); err != nil {
		return err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.deviceIndex(deviceID)
	if idx < 0 {
		return api.ErrNotFound
	}
	memberID := m.p.devices[idx].MemberID
	m.p.devices = slices.Delete(m.p.devices, idx, idx+1)
	if mi := m.p.memberIndex(memberID); mi >= 0 {
		m.p.members[mi].DeviceIDs = slices.DeleteFunc(m.p.members[mi].DeviceIDs, func(id string) bool { return id == deviceID })
	}
	return nil
}

type dashboardMock struct{ p *Provider }

func (m dashboardMock) GetOverview(ctx context.Context) (*models.Overview, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	overview := m.p.overview
	overview.RecentAlerts = slices.Clone(overview.RecentAlerts)
	return &overview, nil
}

func (m dashboardMock) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	return slices.Clone(m.p.overview.RecentAlerts), nil
}

func (m dashboardMock) GetRecentBlocks(ctx context.Context, limit int) ([]models.BlockEvent, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = api.DefaultRecentBlocks
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	return slices.Clone(m.p.blocks[:min(limit, len(m.p.blocks))]), nil
}
