// Package mock implements the backend facades over in-memory demo data so the
// dashboard works before a real backend exists.
package mock

import (
	"context"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"filternet/internal/api"
	"filternet/internal/models"
)

// Provider holds the demo data. Mutations are kept for the provider's
// lifetime; every method is safe for concurrent use.
type Provider struct {
	latency time.Duration
	jitter  time.Duration
	session api.Session

	mu         sync.Mutex
	user       models.User
	members    []models.FamilyMember
	devices    []models.Device
	overview   models.Overview
	blocks     []models.BlockEvent
	limits     map[string][]models.TimeLimit
	usage      map[string]models.Usage
	apps       []models.App
	categories []models.Category
	websites   map[string][]models.BlockedWebsite
	schedules  map[string][]models.BedtimeSchedule
	clients    models.ClientConfigList
}

// Option configures a Provider
type Option func(*Provider)

// WithLatency delays every call by d
func WithLatency(d time.Duration) Option {
	return func(p *Provider) { p.latency = d }
}

// WithJitter adds a random delay of up to d on top of the latency
func WithJitter(d time.Duration) Option {
	return func(p *Provider) { p.jitter = d }
}

// WithSession sets the session Logout clears
func WithSession(s api.Session) Option {
	return func(p *Provider) { p.session = s }
}

// New returns a provider loaded with the demo data
func New(opts ...Option) *Provider {
	clients, err := fixtureClients()
	if err != nil {
		panic(err)
	}

	p := &Provider{
		user:       fixtureUser(),
		members:    fixtureMembers(),
		devices:    fixtureDevices(),
		overview:   fixtureOverview(),
		blocks:     fixtureBlocks(),
		limits:     fixtureLimits(),
		usage:      make(map[string]models.Usage),
		apps:       fixtureApps(),
		categories: fixtureCategories(),
		websites:   make(map[string][]models.BlockedWebsite),
		schedules:  fixtureSchedules(),
		clients:    clients,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Facades exposes the provider through the backend interfaces
func (p *Provider) Facades() *api.Facades {
	return &api.Facades{
		Auth:          authMock{p},
		Family:        familyMock{p},
		Devices:       deviceMock{p},
		TimeLimits:    timeLimitMock{p},
		ContentFilter: contentFilterMock{p},
		Activity:      activityMock{p},
		Bedtime:       bedtimeMock{p},
		Dashboard:     dashboardMock{p},
		Clients:       clientMock{p},
	}
}

// wait simulates network latency. It returns early with the context's error
// when ctx is cancelled.
func (p *Provider) wait(ctx context.Context) error {
	d := p.latency
	if p.jitter > 0 {
		d += rand.N(p.jitter)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (p *Provider) memberIndex(id string) int {
	return slices.IndexFunc(p.members, func(m models.FamilyMember) bool { return m.ID == id })
}

func (p *Provider) deviceIndex(id string) int {
	return slices.IndexFunc(p.devices, func(d models.Device) bool { return d.ID == id })
}

func (p *Provider) clientIndex(id string) int {
	return slices.IndexFunc(p.clients, func(e models.ClientEntry) bool { return e.ID == id })
}

func cloneMember(m models.FamilyMember) models.FamilyMember {
	m.DeviceIDs = slices.Clone(m.DeviceIDs)
	return m
}

func cloneSchedule(s models.BedtimeSchedule) models.BedtimeSchedule {
	s.Days = slices.Clone(s.Days)
	return s
}

func cloneClient(cfg models.RawClientConfig) models.RawClientConfig {
	cfg.BlockedServices = slices.Clone(cfg.BlockedServices)
	cfg.IDs = slices.Clone(cfg.IDs)
	cfg.Tags = slices.Clone(cfg.Tags)
	cfg.Upstreams = slices.Clone(cfg.Upstreams)
	cfg.BlockedServicesSchedule = slices.Clone(cfg.BlockedServicesSchedule)
	cfg.Extra = maps.Clone(cfg.Extra)
	if cfg.SafeSearch != nil {
		ss := *cfg.SafeSearch
		cfg.SafeSearch = &ss
	}
	return cfg
}
