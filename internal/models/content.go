package models

// AppStatus is the filtering decision for an app
type AppStatus string

const (
	AppBlocked AppStatus = "blocked"
	AppAllowed AppStatus = "allowed"
	AppLimited AppStatus = "limited"
)

// Valid reports whether s is one of the known statuses
func (s AppStatus) Valid() bool {
	switch s {
	case AppBlocked, AppAllowed, AppLimited:
		return true
	}
	return false
}

// App is an application whose access can be blocked, allowed or limited
type App struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	Gradient string    `json:"gradient"`
	Status   AppStatus `json:"status"`
}

// Category is a content category that can be blocked as a whole
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsBlocked   bool   `json:"isBlocked"`
}

// ServiceStatus is the derived state of a catalog service for a client
type ServiceStatus string

const (
	ServiceBlocked ServiceStatus = "blocked"
	ServiceAllowed ServiceStatus = "allowed"
)

// Service is a catalog entry combined with a client's blocked list
type Service struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Icon      string        `json:"icon"`
	Gradient  string        `json:"gradient"`
	Category  string        `json:"category"`
	Status    ServiceStatus `json:"status"`
	IsBlocked bool          `json:"isBlocked"`
}

// ContentRules is the filter rule set of one member
type ContentRules struct {
	MemberID   string     `json:"memberId"`
	Profile    Profile    `json:"profile"`
	Apps       []App      `json:"apps"`
	Categories []Category `json:"categories"`
	Websites   []string   `json:"websites"`
}

// BlockedWebsite is a URL blocked for a member
type BlockedWebsite struct {
	ID       string `json:"id"`
	MemberID string `json:"memberId"`
	URL      string `json:"url"`
	Action   string `json:"action"`
}
