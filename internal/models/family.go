package models

// Profile is the age band of a family member
type Profile string

const (
	ProfileChild Profile = "child"
	ProfileTeen  Profile = "teen"
	ProfileAdult Profile = "adult"
)

// FamilyMember represents a person whose devices are managed
type FamilyMember struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Profile   Profile  `json:"profile"`
	Avatar    string   `json:"avatar"`
	DeviceIDs []string `json:"devices"`
}

// IsAdult reports whether the member has the adult profile
func (m FamilyMember) IsAdult() bool {
	return m.Profile == ProfileAdult
}

// DeviceStatus is the connection or filtering state of a device
type DeviceStatus string

const (
	DeviceOnline   DeviceStatus = "online"
	DeviceOffline  DeviceStatus = "offline"
	DeviceActive   DeviceStatus = "active"
	DeviceDisabled DeviceStatus = "disabled"
)

// Device is a phone, tablet or computer attached to a member
type Device struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	MemberID string       `json:"memberId"`
	Status   DeviceStatus `json:"status"`
}
