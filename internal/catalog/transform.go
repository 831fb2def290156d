package catalog

import (
	"strings"

	"filternet/internal/models"
)

// UnknownDevice is shown when a client name carries no device part
const UnknownDevice = "Unknown Device"

// nameSeparator splits "email||deviceName||deviceId"
const nameSeparator = "||"

// ParseClientName splits a packed client name into its parts. Missing parts
// come back empty, except the device name which defaults to UnknownDevice.
func ParseClientName(name string) (email, deviceName, deviceID string) {
	var parts []string
	if name != "" {
		parts = strings.Split(name, nameSeparator)
	}
	part := func(fallback string, idx int) string {
		if idx < len(parts) && parts[idx] != "" {
			return parts[idx]
		}
		return fallback
	}
	return part("", 0), part(UnknownDevice, 1), part("", 2)
}

// TransformClient converts one backend configuration to a dashboard client
func TransformClient(id string, cfg models.RawClientConfig) models.Client {
	email, deviceName, deviceID := ParseClientName(cfg.Name)

	blocked := cfg.BlockedServices
	if blocked == nil {
		blocked = []string{}
	}
	ids := cfg.IDs
	if ids == nil {
		ids = []string{}
	}
	safeSearch := cfg.SafeSearch
	if safeSearch == nil {
		safeSearch = &models.SafeSearch{}
	}

	status := models.DeviceActive
	if cfg.Disallowed {
		status = models.DeviceDisabled
	}

	return models.Client{
		ID:                id,
		Email:             email,
		DeviceName:        deviceName,
		DeviceID:          deviceID,
		Name:              deviceName,
		BlockedServices:   blocked,
		SafeSearch:        safeSearch,
		FilteringEnabled:  cfg.FilteringEnabled,
		ParentalEnabled:   cfg.ParentalEnabled,
		SafeSearchEnabled: cfg.SafeSearchEnabled,
		IDs:               ids,
		Status:            status,
	}
}

// TransformClients converts the /clients payload, keeping response order
func TransformClients(list models.ClientConfigList) []models.Client {
	clients := make([]models.Client, 0, len(list))
	for _, entry := range list {
		clients = append(clients, TransformClient(entry.ID, entry.Config))
	}
	return clients
}

// ComputeStats derives the overview cards from the client list: device
// count, distinct account e-mails, blocked services summed over clients and
// clients that are not disabled.
func ComputeStats(clients []models.Client) models.OverviewStats {
	emails := make(map[string]struct{})
	stats := models.OverviewStats{Devices: len(clients)}
	for _, c := range clients {
		if c.Email != "" {
			emails[c.Email] = struct{}{}
		}
		stats.TotalBlocked += len(c.BlockedServices)
		if c.Status == models.DeviceActive {
			stats.ActiveDevices++
		}
	}
	stats.Members = len(emails)
	return stats
}
