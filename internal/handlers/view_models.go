package handlers

import (
	"net/url"

	"filternet/internal/catalog"
	"filternet/internal/dashboard"
	"filternet/internal/models"
)

type LoginViewData struct {
	Title            string
	AppName          string
	AppVersion       string
	GoogleClientID   string
	GoogleConfigured bool
	GoogleRedirect   bool
	DemoMode         bool
	LoginURI         string
	CSRFToken        string
	Error            string
}

type NavItem struct {
	Section string
	Label   string
	Icon    string
	Active  bool
}

var navSections = []NavItem{
	{Section: SectionOverview, Label: "Overview", Icon: "📊"},
	{Section: SectionFamily, Label: "Family", Icon: "👨‍👩‍👧"},
	{Section: SectionDevices, Label: "Devices", Icon: "📱"},
	{Section: SectionTimeLimits, Label: "Time Limits", Icon: "⏰"},
	{Section: SectionContentFilters, Label: "Content Filtering", Icon: "🛡️"},
	{Section: SectionActivity, Label: "Activity", Icon: "📈"},
	{Section: SectionBedtime, Label: "Bedtime", Icon: "🌙"},
}

func validSection(section string) bool {
	for _, n := range navSections {
		if n.Section == section {
			return true
		}
	}
	return false
}

func navFor(section string) []NavItem {
	nav := make([]NavItem, len(navSections))
	for i, n := range navSections {
		n.Active = n.Section == section
		nav[i] = n
	}
	return nav
}

// MemberCard is a family member as the family grid shows it
type MemberCard struct {
	Member      models.FamilyMember
	DeviceText  string
	TimeText    string
	StatusClass string
	StatusText  string
}

func memberCards(members []models.FamilyMember, devices []models.Device) []MemberCard {
	cards := make([]MemberCard, 0, len(members))
	for _, m := range members {
		card := MemberCard{
			Member:      m,
			DeviceText:  "No device",
			TimeText:    "Limited access",
			StatusClass: "status-safe",
			StatusText:  "Safe",
		}
		for _, d := range devices {
			if d.MemberID == m.ID {
				card.DeviceText = d.Name
				break
			}
		}
		if m.IsAdult() {
			card.TimeText = "No limits"
			card.StatusClass = "status-active"
			card.StatusText = "Active"
		}
		cards = append(cards, card)
	}
	return cards
}

// ClientCard is a filtered device as the overview grid shows it
type ClientCard struct {
	Client       models.Client
	StatusClass  string
	StatusText   string
	BlockedCount int
	Selected     bool
}

func clientCards(clients []models.Client, selected string) []ClientCard {
	cards := make([]ClientCard, 0, len(clients))
	for _, c := range clients {
		card := ClientCard{
			Client:       c,
			StatusClass:  "status-safe",
			StatusText:   "Inactive",
			BlockedCount: len(c.BlockedServices),
			Selected:     c.ID == selected,
		}
		if c.Status == models.DeviceActive {
			card.StatusClass = "status-active"
			card.StatusText = "Active"
		}
		cards = append(cards, card)
	}
	return cards
}

// DashboardViewData is everything the dashboard page renders
type DashboardViewData struct {
	Title      string
	AppName    string
	AppVersion string
	User       *models.User
	CSRFToken  string

	Section       string
	Nav           []NavItem
	Notifications []dashboard.Notification

	Snap           dashboard.Snapshot
	MemberCards    []MemberCard
	ClientCards    []ClientCard
	SelectedMember *models.FamilyMember
	SelectedClient *models.Client
	ServiceGroups  []catalog.ServiceGroup
	AppStatuses    []models.AppStatus
	ActivityDate   string

	DigestEnabled bool

	regions map[dashboard.Region]dashboard.RegionState
}

// Region returns the load status of a region by name
func (d DashboardViewData) Region(name string) dashboard.RegionState {
	if rs, ok := d.regions[dashboard.Region(name)]; ok {
		return rs
	}
	return dashboard.RegionState{Status: dashboard.StatusIdle}
}

// SectionURL links to section keeping the selected member and client
func (d DashboardViewData) SectionURL(section string) string {
	q := url.Values{}
	q.Set("section", section)
	if d.Snap.SelectedMember != "" {
		q.Set("member", d.Snap.SelectedMember)
	}
	if d.Snap.SelectedClient != "" {
		q.Set("client", d.Snap.SelectedClient)
	}
	return "/dashboard?" + q.Encode()
}

// MemberURL links to the current section for another member
func (d DashboardViewData) MemberURL(memberID string) string {
	q := url.Values{}
	q.Set("section", d.Section)
	q.Set("member", memberID)
	return "/dashboard?" + q.Encode()
}

// ClientURL opens content filtering for a client
func (d DashboardViewData) ClientURL(clientID string) string {
	q := url.Values{}
	q.Set("section", SectionContentFilters)
	q.Set("client", clientID)
	return "/dashboard?" + q.Encode()
}
