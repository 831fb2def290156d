package models

// Alert is a recent notable event shown on the overview
type Alert struct {
	Type   string `json:"type"`
	Member string `json:"member"`
	App    string `json:"app"`
	Time   string `json:"time"`
}

// Overview is the summary returned by the dashboard endpoint
type Overview struct {
	TotalMembers      int     `json:"totalMembers"`
	TotalDevices      int     `json:"totalDevices"`
	SitesBlockedToday int     `json:"sitesBlockedToday"`
	TotalScreenTime   string  `json:"totalScreenTime"`
	RecentAlerts      []Alert `json:"recentAlerts"`
}

// BlockEvent is a recently blocked request
type BlockEvent struct {
	MemberID string `json:"memberId"`
	Domain   string `json:"domain"`
	Time     string `json:"time"`
}

// OverviewStats is computed locally from the client list
type OverviewStats struct {
	Devices       int
	Members       int
	TotalBlocked  int
	ActiveDevices int
}

// ActivityEntry is one logged visit or app session
type ActivityEntry struct {
	Time     string `json:"time"`
	App      string `json:"app"`
	Domain   string `json:"domain,omitempty"`
	Category string `json:"category,omitempty"`
	Minutes  int    `json:"minutes"`
	Blocked  bool   `json:"blocked"`
}

// Activity is the activity log of a member for one day
type Activity struct {
	HasActivity bool            `json:"hasActivity"`
	Activities  []ActivityEntry `json:"activities"`
	TotalTime   int             `json:"totalTime"`
}

// ActivitySummary aggregates activity over a date range
type ActivitySummary struct {
	MemberID     string `json:"memberId"`
	Start        string `json:"start"`
	End          string `json:"end"`
	TotalMinutes int    `json:"totalMinutes"`
	BlockedCount int    `json:"blockedCount"`
}

// AppTime is screen time per app
type AppTime struct {
	App     string `json:"app"`
	Minutes int    `json:"minutes"`
}

// CategoryTime is screen time per category
type CategoryTime struct {
	Category string `json:"category"`
	Minutes  int    `json:"minutes"`
}
