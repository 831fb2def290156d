package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filternet/internal/models"
)

const clientsPayload = `[
  {"yourznag-gmail-com-1": {
    "disallowed": false,
    "safe_search": {"enabled": true, "bing": true, "duckduckgo": true, "ecosia": true, "google": true, "pixabay": true, "yandex": true, "youtube": true},
    "name": "yourznag@gmail.com||Naga_Home||45",
    "blocked_services": ["amazon_streaming", "apple_streaming", "instagram", "tiktok"],
    "ids": ["10.4.11.2", "id-45", "yourznag-gmail-com-1"],
    "filtering_enabled": true,
    "parental_enabled": false,
    "safesearch_enabled": true
  }},
  {"yourznag-gmail-com-2": {
    "disallowed": true,
    "safe_search": null,
    "name": "yourznag@gmail.com||iPhone||12",
    "blocked_services": ["instagram", "tiktok", "youtube"],
    "ids": ["id-12"]
  }},
  {"bare": {"name": "", "blocked_services": null}}
]`

func TestTransformClients(t *testing.T) {
	var list models.ClientConfigList
	require.NoError(t, json.Unmarshal([]byte(clientsPayload), &list))

	clients := TransformClients(list)
	require.Len(t, clients, 3)

	first := clients[0]
	assert.Equal(t, "yourznag-gmail-com-1", first.ID)
	assert.Equal(t, "yourznag@gmail.com", first.Email)
	assert.Equal(t, "Naga_Home", first.DeviceName)
	assert.Equal(t, "Naga_Home", first.Name)
	assert.Equal(t, "45", first.DeviceID)
	assert.Equal(t, models.DeviceActive, first.Status)
	assert.True(t, first.SafeSearch.Google)

	second := clients[1]
	assert.Equal(t, models.DeviceDisabled, second.Status)
	require.NotNil(t, second.SafeSearch)
	assert.False(t, second.SafeSearch.Enabled)

	bare := clients[2]
	assert.Equal(t, UnknownDevice, bare.DeviceName)
	assert.Equal(t, "", bare.Email)
	assert.Equal(t, []string{}, bare.BlockedServices)
	assert.Equal(t, []string{}, bare.IDs)
}

func TestTransformClientsNeverEmptyDeviceName(t *testing.T) {
	names := []string{"", "a@b.c", "a@b.c||", "a@b.c||||9", "||Tablet", "a@b.c||Laptop||1||extra"}
	for _, name := range names {
		c := TransformClient("id", models.RawClientConfig{Name: name})
		assert.NotEmpty(t, c.DeviceName, "name %q", name)
	}
}

func TestClientConfigListNonArray(t *testing.T) {
	for _, payload := range []string{`{"a": {}}`, `null`, `"x"`} {
		var list models.ClientConfigList
		require.NoError(t, json.Unmarshal([]byte(payload), &list))
		assert.Empty(t, TransformClients(list))
	}
}

func TestClientConfigKeepsUnknownFields(t *testing.T) {
	payload := `[{"kid-tablet": {
		"name": "kid@example.com||Tablet||7",
		"blocked_services": ["tiktok"],
		"whois_info": {"country": "NL"},
		"ids": ["id-7"]
	}}]`
	var list models.ClientConfigList
	require.NoError(t, json.Unmarshal([]byte(payload), &list))
	require.Len(t, list, 1)

	cfg := list[0].Config
	assert.Equal(t, []string{"tiktok"}, cfg.BlockedServices)
	assert.JSONEq(t, `{"country": "NL"}`, string(cfg.Extra["whois_info"]))
	assert.NotContains(t, cfg.Extra, "name")

	out, err := json.Marshal(list)
	require.NoError(t, err)
	var back []map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &back))
	assert.JSONEq(t, `{"country": "NL"}`, string(back[0]["kid-tablet"]["whois_info"]))
	assert.JSONEq(t, `["tiktok"]`, string(back[0]["kid-tablet"]["blocked_services"]))

	var plain models.ClientConfigList
	require.NoError(t, json.Unmarshal([]byte(clientsPayload), &plain))
	assert.Nil(t, plain[0].Config.Extra)
}

func TestServicesWithStatus(t *testing.T) {
	services := ServicesWithStatus([]string{"instagram", "tiktok", "youtube"})
	require.Len(t, services, len(Services))

	blocked := map[string]bool{}
	for _, s := range services {
		if s.IsBlocked {
			blocked[s.ID] = true
			assert.Equal(t, models.ServiceBlocked, s.Status)
		} else {
			assert.Equal(t, models.ServiceAllowed, s.Status)
		}
	}
	assert.Equal(t, map[string]bool{"instagram": true, "tiktok": true, "youtube": true}, blocked)
}

func TestServicesRoundTrip(t *testing.T) {
	input := []string{"youtube", "not_in_catalog", "instagram"}
	got := BlockedIDs(ServicesWithStatus(input))
	assert.ElementsMatch(t, []string{"youtube", "instagram"}, got)
}

func TestSetMembership(t *testing.T) {
	tests := []struct {
		name    string
		list    []string
		id      string
		present bool
		want    []string
	}{
		{name: "add", list: []string{"a"}, id: "b", present: true, want: []string{"a", "b"}},
		{name: "add existing", list: []string{"a", "b"}, id: "b", present: true, want: []string{"a", "b"}},
		{name: "remove", list: []string{"a", "b"}, id: "a", present: false, want: []string{"b"}},
		{name: "remove absent", list: []string{"a"}, id: "z", present: false, want: []string{"a"}},
		{name: "nil list", list: nil, id: "a", present: true, want: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string(nil), tt.list...)
			got := SetMembership(tt.list, tt.id, tt.present)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, original, tt.list, "input must not be modified")

			again := SetMembership(got, tt.id, tt.present)
			assert.Equal(t, got, again, "applying twice must be idempotent")
		})
	}
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(ServicesWithStatus(nil))
	require.NotEmpty(t, groups)
	assert.Equal(t, "Streaming Services", groups[0].Title)

	total := 0
	for _, g := range groups {
		assert.NotEmpty(t, g.Services)
		total += len(g.Services)
	}
	assert.Equal(t, len(Services), total)
}

func TestComputeStats(t *testing.T) {
	clients := []models.Client{
		{Email: "a@x.com", BlockedServices: []string{"instagram", "tiktok"}, Status: models.DeviceActive},
		{Email: "a@x.com", BlockedServices: []string{"youtube"}, Status: models.DeviceDisabled},
		{Email: "b@x.com", Status: models.DeviceActive},
	}
	stats := ComputeStats(clients)
	assert.Equal(t, models.OverviewStats{Devices: 3, Members: 2, TotalBlocked: 3, ActiveDevices: 2}, stats)
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Social Media", CategoryName("social"))
	assert.Equal(t, "Other Services", CategoryName("vpn"))
}
