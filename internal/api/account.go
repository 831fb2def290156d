package api

import (
	"context"
	"errors"
	"log"
	"net/url"

	"filternet/internal/models"
)

// ErrNoToken is returned when the credential exchange succeeds without a token
var ErrNoToken = errors.New("backend returned no token")

type authClient struct {
	g *Gateway
}

func (c *authClient) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.g.Get(ctx, "/user/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *authClient) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	var updated models.User
	if err := c.g.Put(ctx, "/user/profile", user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Logout tells the backend to end the session. The local session is cleared
// whether or not the backend call succeeds.
func (c *authClient) Logout(ctx context.Context) error {
	err := c.g.Post(ctx, "/auth/logout", nil, nil)
	if clearErr := c.g.Session().Clear(context.WithoutCancel(ctx)); clearErr != nil {
		log.Printf("Failed to clear session on logout: %v", clearErr)
	}
	return err
}

func (c *authClient) ExchangeGoogleCredential(ctx context.Context, credential string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := c.g.Post(ctx, "/auth/google", map[string]string{"credential": credential}, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken != "" {
		return resp.AccessToken, nil
	}
	if resp.Token != "" {
		return resp.Token, nil
	}
	return "", ErrNoToken
}

type familyClient struct {
	g *Gateway
}

func (c *familyClient) GetAllMembers(ctx context.Context) ([]models.FamilyMember, error) {
	var members []models.FamilyMember
	if err := c.g.Get(ctx, "/family/members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *familyClient) GetMember(ctx context.Context, memberID string) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := c.g.Get(ctx, "/family/members/"+url.PathEscape(memberID), &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *familyClient) AddMember(ctx context.Context, member models.FamilyMember) (*models.FamilyMember, error) {
	var created models.FamilyMember
	if err := c.g.Post(ctx, "/family/members", member, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *familyClient) UpdateMember(ctx context.Context, memberID string, member models.FamilyMember) (*models.FamilyMember, error) {
	var updated models.FamilyMember
	if err := c.g.Put(ctx, "/family/members/"+url.PathEscape(memberID), member, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *familyClient) DeleteMember(ctx context.Context, memberID string) error {
	return c.g.Delete(ctx, "/family/members/"+url.PathEscape(memberID))
}

type deviceClient struct {
	g *Gateway
}

func (c *deviceClient) GetAllDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := c.g.Get(ctx, "/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *deviceClient) GetMemberDevices(ctx context.Context, memberID string) ([]models.Device, error) {
	var devices []models.Device
	if err := c.g.Get(ctx, withQuery("/devices", "memberId", memberID), &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *deviceClient) AddDevice(ctx context.Context, device models.Device) (*models.Device, error) {
	var created models.Device
	if err := c.g.Post(ctx, "/devices", device, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *deviceClient) UpdateDevice(ctx context.Context, deviceID string, device models.Device) (*models.Device, error) {
	var updated models.Device
	if err := c.g.Put(ctx, "/devices/"+url.PathEscape(deviceID), device, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *deviceClient) RemoveDevice(ctx context.Context, deviceID string) error {
	return c.g.Delete(ctx, "/devices/"+url.PathEscape(deviceID))
}

type dashboardClient struct {
	g *Gateway
}

func (c *dashboardClient) GetOverview(ctx context.Context) (*models.Overview, error) {
	var overview models.Overview
	if err := c.g.Get(ctx, "/dashboard/overview", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *dashboardClient) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := c.g.Get(ctx, "/dashboard/alerts", &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *dashboardClient) GetRecentBlocks(ctx context.Context, limit int) ([]models.BlockEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentBlocks
	}
	var blocks []models.BlockEvent
	if err := c.g.Get(ctx, withQuery("/dashboard/recent-blocks", "limit", itoa(limit)), &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// withQuery appends key/value pairs to path. Pairs with an empty value are
// skipped, except the first which is always sent.
func withQuery(path string, pairs ...string) string {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 && pairs[i+1] == "" {
			continue
		}
		values.Add(pairs[i], pairs[i+1])
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
