package api

import (
	"context"
	"net/url"

	"filternet/internal/catalog"
	"filternet/internal/models"
)

type clientRepository struct {
	g *Gateway
}

func (c *clientRepository) GetAllClients(ctx context.Context) ([]models.Client, error) {
	var list models.ClientConfigList
	if err := c.g.Get(ctx, "/clients", &list); err != nil {
		return nil, err
	}
	return catalog.TransformClients(list), nil
}

func (c *clientRepository) GetClient(ctx context.Context, clientID string) (*models.RawClientConfig, error) {
	var cfg models.RawClientConfig
	if err := c.g.Get(ctx, "/clients/"+url.PathEscape(clientID), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *clientRepository) UpdateBlockedServices(ctx context.Context, clientID string, blocked []string) (*models.BlockedServicesResult, error) {
	if blocked == nil {
		blocked = []string{}
	}
	body := map[string][]string{"blocked_services": blocked}
	var result models.BlockedServicesResult
	if err := c.g.Put(ctx, "/clients/"+url.PathEscape(clientID)+"/blocked-services", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleService reads the client's current list, adds or removes serviceID
// and writes the whole list back. Two toggles racing on one client can lose
// an update; the backend offers no single-service endpoint.
func (c *clientRepository) ToggleService(ctx context.Context, clientID, serviceID string, block bool) (*models.ToggleResult, error) {
	cfg, err := c.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	next := catalog.SetMembership(cfg.BlockedServices, serviceID, block)
	if _, err := c.UpdateBlockedServices(ctx, clientID, next); err != nil {
		return nil, err
	}

	return &models.ToggleResult{
		Success:   true,
		ClientID:  clientID,
		ServiceID: serviceID,
		IsBlocked: block,
	}, nil
}

func (c *clientRepository) UpdateSafeSearch(ctx context.Context, clientID string, safeSearch models.SafeSearch) (*models.SafeSearchResult, error) {
	body := map[string]models.SafeSearch{"safe_search": safeSearch}
	var result models.SafeSearchResult
	if err := c.g.Put(ctx, "/clients/"+url.PathEscape(clientID)+"/safe-search", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
