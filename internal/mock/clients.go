package mock

import (
	"context"
	"log"
	"slices"

	"filternet/internal/api"
	"filternet/internal/catalog"
	"filternet/internal/models"
)

type clientMock struct{ p *Provider }

func (m clientMock) GetAllClients(ctx context.Context) ([]models.Client, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	list := make(models.ClientConfigList, 0, len(m.p.clients))
	for _, entry := range m.p.clients {
		list = append(list, models.ClientEntry{ID: entry.ID, Config: cloneClient(entry.Config)})
	}
	return catalog.TransformClients(list), nil
}

func (m clientMock) GetClient(ctx context.Context, clientID string) (*models.RawClientConfig, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.clientIndex(clientID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	cfg := cloneClient(m.p.clients[idx].Config)
	return &cfg, nil
}

func (m clientMock) UpdateBlockedServices(ctx context.Context, clientID string, blocked []string) (*models.BlockedServicesResult, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	if blocked == nil {
		blocked = []string{}
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.clientIndex(clientID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	m.p.clients[idx].Config.BlockedServices = slices.Clone(blocked)
	log.Printf("Mock: updated blocked services for %s: %v", clientID, blocked)
	return &models.BlockedServicesResult{
		Success:         true,
		ClientID:        clientID,
		BlockedServices: slices.Clone(blocked),
	}, nil
}

// ToggleService edits the stored list in place under the provider lock, so
// concurrent toggles on one client never lose an update
func (m clientMock) ToggleService(ctx context.Context, clientID, serviceID string, block bool) (*models.ToggleResult, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.clientIndex(clientID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	cfg := &m.p.clients[idx].Config
	cfg.BlockedServices = catalog.SetMembership(cfg.BlockedServices, serviceID, block)
	return &models.ToggleResult{
		Success:   true,
		ClientID:  clientID,
		ServiceID: serviceID,
		IsBlocked: block,
	}, nil
}

func (m clientMock) UpdateSafeSearch(ctx context.Context, clientID string, safeSearch models.SafeSearch) (*models.SafeSearchResult, error) {
	if err := m.p.wait(ctx); err != nil {
		return nil, err
	}
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	idx := m.p.clientIndex(clientID)
	if idx < 0 {
		return nil, api.ErrNotFound
	}
	stored := safeSearch
	m.p.clients[idx].Config.SafeSearch = &stored
	m.p.clients[idx].Config.SafeSearchEnabled = safeSearch.Enabled
	result := safeSearch
	return &models.SafeSearchResult{Success: true, ClientID: clientID, SafeSearch: &result}, nil
}
