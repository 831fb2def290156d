package mock

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"filternet/internal/models"
)

//go:embed fixtures/clients.json
var clientsJSON []byte

func fixtureUser() models.User {
	return models.User{
		ID:       "user_123",
		Email:    "parent@example.com",
		Name:     "Parent Account",
		FamilyID: "family_456",
	}
}

func fixtureMembers() []models.FamilyMember {
	return []models.FamilyMember{
		{ID: "member_1", Name: "Sarah", Age: 12, Profile: models.ProfileTeen, Avatar: "👧", DeviceIDs: []string{"device_1", "device_2"}},
		{ID: "member_2", Name: "Mike", Age: 8, Profile: models.ProfileChild, Avatar: "👦", DeviceIDs: []string{"device_3"}},
		{ID: "member_3", Name: "Dad", Age: 40, Profile: models.ProfileAdult, Avatar: "👨", DeviceIDs: []string{"device_4"}},
		{ID: "member_4", Name: "Mom", Age: 38, Profile: models.ProfileAdult, Avatar: "👩", DeviceIDs: []string{"device_5"}},
	}
}

func fixtureDevices() []models.Device {
	return []models.Device{
		{ID: "device_1", Name: "iPhone", Type: "phone", MemberID: "member_1", Status: models.DeviceOnline},
		{ID: "device_2", Name: "iPad", Type: "tablet", MemberID: "member_1", Status: models.DeviceOffline},
		{ID: "device_3", Name: "iPhone", Type: "phone", MemberID: "member_2", Status: models.DeviceOnline},
		{ID: "device_4", Name: "MacBook", Type: "computer", MemberID: "member_3", Status: models.DeviceOnline},
		{ID: "device_5", Name: "iPhone", Type: "phone", MemberID: "member_4", Status: models.DeviceOnline},
	}
}

func fixtureOverview() models.Overview {
	return models.Overview{
		TotalMembers:      4,
		TotalDevices:      8,
		SitesBlockedToday: 47,
		TotalScreenTime:   "3h 45m",
		RecentAlerts: []models.Alert{
			{Type: "limit_reached", Member: "Sarah", App: "Gaming Apps", Time: "2h ago"},
		},
	}
}

func fixtureBlocks() []models.BlockEvent {
	return []models.BlockEvent{
		{MemberID: "member_1", Domain: "tiktok.com", Time: "10m ago"},
		{MemberID: "member_2", Domain: "roblox.com", Time: "35m ago"},
		{MemberID: "member_1", Domain: "instagram.com", Time: "1h ago"},
	}
}

func fixtureLimits() map[string][]models.TimeLimit {
	return map[string][]models.TimeLimit{
		"member_1": {
			{ID: "limit_1", MemberID: "member_1", App: "YouTube", AppID: "youtube", LimitMinutes: 60, UsedMinutes: 27, Icon: "📺"},
			{ID: "limit_2", MemberID: "member_1", App: "Gaming Apps", AppID: "gaming", LimitMinutes: 30, UsedMinutes: 30, Icon: "🎮"},
		},
	}
}

func fixtureUsage() models.Usage {
	return models.Usage{
		Daily: models.DailyUsage{Limit: 180, Used: 135},
		Apps: []models.AppUsage{
			{App: "YouTube", Used: 27},
			{App: "Gaming Apps", Used: 30},
		},
	}
}

func fixtureApps() []models.App {
	return []models.App{
		{ID: "amazon_prime", Name: "Amazon Prime Video", Status: models.AppBlocked, Icon: "📺", Gradient: "linear-gradient(135deg, #00A8E1, #0080B3)"},
		{ID: "discord", Name: "Discord", Status: models.AppBlocked, Icon: "💬", Gradient: "linear-gradient(135deg, #5865F2, #3B4BC7)"},
		{ID: "facebook", Name: "Facebook", Status: models.AppBlocked, Icon: "📘", Gradient: "linear-gradient(135deg, #1877F2, #0C63D4)"},
		{ID: "instagram", Name: "Instagram", Status: models.AppBlocked, Icon: "📷", Gradient: "linear-gradient(135deg, #E4405F, #C13584)"},
		{ID: "snapchat", Name: "Snapchat", Status: models.AppBlocked, Icon: "👻", Gradient: "linear-gradient(135deg, #FFFC00, #FFD600)"},
		{ID: "amazon", Name: "Amazon", Status: models.AppAllowed, Icon: "📦", Gradient: "linear-gradient(135deg, #FF9900, #E68A00)"},
		{ID: "cartoon_network", Name: "Cartoon Network", Status: models.AppAllowed, Icon: "📺", Gradient: "linear-gradient(135deg, #000000, #333333)"},
		{ID: "youtube", Name: "YouTube", Status: models.AppLimited, Icon: "📺", Gradient: "linear-gradient(135deg, #FF0000, #CC0000)"},
	}
}

func fixtureCategories() []models.Category {
	return []models.Category{
		{ID: "gaming", Name: "Gaming", Description: "Online games and gaming platforms", Icon: "🎮", IsBlocked: true},
		{ID: "social", Name: "Social Media", Description: "Social networking and messaging apps", Icon: "💬", IsBlocked: true},
		{ID: "video", Name: "Video Streaming", Description: "Video content and streaming services", Icon: "🎬", IsBlocked: false},
		{ID: "adult", Name: "Adult Content", Description: "Explicit and mature content", Icon: "🔞", IsBlocked: true},
		{ID: "gambling", Name: "Gambling", Description: "Betting and gambling websites", Icon: "🎰", IsBlocked: true},
	}
}

func fixtureSchedules() map[string][]models.BedtimeSchedule {
	everyDay := func() []string { return []string{"Su", "M", "Tu", "W", "Th", "F", "Sa"} }
	return map[string][]models.BedtimeSchedule{
		"member_1": {{ID: "schedule_1", MemberID: "member_1", Days: everyDay(), StartTime: "22:00", EndTime: "07:00", IsActive: true}},
		"member_2": {{ID: "schedule_2", MemberID: "member_2", Days: everyDay(), StartTime: "22:00", EndTime: "07:00", IsActive: true}},
	}
}

func fixtureClients() (models.ClientConfigList, error) {
	var clients models.ClientConfigList
	if err := json.Unmarshal(clientsJSON, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode client fixtures: %w", err)
	}
	return clients, nil
}
