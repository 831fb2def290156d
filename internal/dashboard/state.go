// Package dashboard holds the state behind one signed-in dashboard: the data
// each section shows, the load status of every section and the transient
// notifications raised by user actions.
package dashboard

import (
	"maps"
	"slices"
	"sync"
	"time"

	"filternet/internal/api"
	"filternet/internal/models"
)

// Region names a section of the dashboard that loads independently
type Region string

const (
	RegionUser           Region = "user"
	RegionMembers        Region = "members"
	RegionDevices        Region = "devices"
	RegionOverview       Region = "overview"
	RegionTimeLimits     Region = "time-limits"
	RegionContentFilters Region = "content-filters"
	RegionActivity       Region = "activity"
	RegionBedtime        Region = "bedtime"
	RegionClients        Region = "clients"
	RegionServices       Region = "services"
)

// Status is the load status of a region
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// RegionState is what a region shows in place of, or next to, its data
type RegionState struct {
	Status  Status
	Message string
	Retry   bool
}

// NotificationKind is the style of a toast
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a short-lived message raised by an action
type Notification struct {
	Kind    NotificationKind
	Message string
	At      time.Time
}

// Snapshot is the data the dashboard renders. Slices held by a snapshot are
// never modified in place; updates replace them.
type Snapshot struct {
	User     *models.User
	Members  []models.FamilyMember
	Devices  []models.Device
	Overview *models.Overview

	SelectedMember string
	TimeLimits     []models.TimeLimit
	Usage          *models.Usage
	Apps           []models.App
	Categories     []models.Category
	Activity       *models.Activity
	Schedules      []models.BedtimeSchedule

	Clients        []models.Client
	Stats          models.OverviewStats
	SelectedClient string
	Services       []models.Service
}

// Client returns the client with the given id
func (s Snapshot) Client(id string) (models.Client, bool) {
	i := slices.IndexFunc(s.Clients, func(c models.Client) bool { return c.ID == id })
	if i < 0 {
		return models.Client{}, false
	}
	return s.Clients[i], true
}

// Member returns the family member with the given id
func (s Snapshot) Member(id string) (models.FamilyMember, bool) {
	i := slices.IndexFunc(s.Members, func(m models.FamilyMember) bool { return m.ID == id })
	if i < 0 {
		return models.FamilyMember{}, false
	}
	return s.Members[i], true
}

// maxNotifications bounds the toast queue of a dashboard nobody is reading
const maxNotifications = 20

// State is the dashboard of one signed-in user. All methods are safe for
// concurrent use.
type State struct {
	facades *api.Facades

	mu            sync.RWMutex
	snap          Snapshot
	regions       map[Region]RegionState
	notifications []Notification
	generation    uint64
	now           func() time.Time
}

// New creates an empty dashboard backed by facades
func New(facades *api.Facades) *State {
	return &State{
		facades: facades,
		regions: make(map[Region]RegionState),
		now:     time.Now,
	}
}

// Facades returns the backend the dashboard loads from
func (s *State) Facades() *api.Facades {
	return s.facades
}

// Snapshot returns the current data
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Update applies fn to the data under the state lock. It is the only way
// the snapshot changes.
func (s *State) Update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snap)
}

// updateIf is Update for a session that may have ended: fn only runs while
// no Reset has happened since gen was read
func (s *State) updateIf(gen uint64, fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		fn(&s.snap)
	}
}

func (s *State) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Region returns the status of r; regions never loaded are idle
func (s *State) Region(r Region) RegionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rs, ok := s.regions[r]; ok {
		return rs
	}
	return RegionState{Status: StatusIdle}
}

// Regions returns the status of every region that has been loaded
func (s *State) Regions() map[Region]RegionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.regions)
}

func (s *State) setRegion(r Region, rs RegionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[r] = rs
}

// Notify queues a notification
func (s *State) Notify(kind NotificationKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, Notification{Kind: kind, Message: message, At: s.now()})
	if n := len(s.notifications); n > maxNotifications {
		s.notifications = slices.Clone(s.notifications[n-maxNotifications:])
	}
}

// notifyIf is Notify that drops the message once the state has been reset
// after gen was read
func (s *State) notifyIf(gen uint64, kind NotificationKind, message string) {
	if s.currentGeneration() != gen {
		return
	}
	s.Notify(kind, message)
}

// TakeNotifications returns the queued notifications and empties the queue
func (s *State) TakeNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := s.notifications
	s.notifications = nil
	return taken
}

// Reset forgets all data, region status and notifications. Toggles still in
// flight no longer write to the state or raise notifications.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snap = Snapshot{}
	s.regions = make(map[Region]RegionState)
	s.notifications = nil
}
