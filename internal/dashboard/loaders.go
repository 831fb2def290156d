package dashboard

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"filternet/internal/api"
	"filternet/internal/catalog"
	"filternet/internal/models"
)

// load runs fn for region r. The region is loading while fn runs and ends
// ready or in error with a retry action; it is never left loading.
func (s *State) load(ctx context.Context, r Region, fn func(ctx context.Context) error) error {
	s.setRegion(r, RegionState{Status: StatusLoading})
	if err := fn(ctx); err != nil {
		log.Printf("Failed to load %s: %v", r, err)
		s.setRegion(r, RegionState{Status: StatusError, Message: api.Message(err), Retry: true})
		return err
	}
	s.setRegion(r, RegionState{Status: StatusReady})
	return nil
}

// Initialize loads the account, family, devices and overview in parallel.
// A failing region does not cancel the others; the first error is returned.
func (s *State) Initialize(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.LoadCurrentUser(ctx) })
	g.Go(func() error { return s.LoadFamilyMembers(ctx) })
	g.Go(func() error { return s.LoadDevices(ctx) })
	g.Go(func() error { return s.LoadOverview(ctx) })
	return g.Wait()
}

func (s *State) LoadCurrentUser(ctx context.Context) error {
	return s.load(ctx, RegionUser, func(ctx context.Context) error {
		user, err := s.facades.Auth.GetCurrentUser(ctx)
		if err != nil {
			return err
		}
		s.Update(func(snap *Snapshot) { snap.User = user })
		return nil
	})
}

func (s *State) LoadFamilyMembers(ctx context.Context) error {
	return s.load(ctx, RegionMembers, func(ctx context.Context) error {
		members, err := s.facades.Family.GetAllMembers(ctx)
		if err != nil {
			return err
		}
		s.Update(func(snap *Snapshot) {
			snap.Members = members
			if snap.SelectedMember == "" && len(members) > 0 {
				snap.SelectedMember = members[0].ID
			}
		})
		return nil
	})
}

func (s *State) LoadDevices(ctx context.Context) error {
	return s.load(ctx, RegionDevices, func(ctx context.Context) error {
		devices, err := s.facades.Devices.GetAllDevices(ctx)
		if err != nil {
			return err
		}
		s.Update(func(snap *Snapshot) { snap.Devices = devices })
		return nil
	})
}

func (s *State) LoadOverview(ctx context.Context) error {
	return s.load(ctx, RegionOverview, func(ctx context.Context) error {
		overview, err := s.facades.Dashboard.GetOverview(ctx)
		if err != nil {
			return err
		}
		s.Update(func(snap *Snapshot) { snap.Overview = overview })
		return nil
	})
}

// LoadTimeLimits loads a member's limits together with today's usage. The
// region shows both or neither.
func (s *State) LoadTimeLimits(ctx context.Context, memberID string) error {
	return s.load(ctx, RegionTimeLimits, func(ctx context.Context) error {
		var limits []models.TimeLimit
		var usage *models.Usage

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			limits, err = s.facades.TimeLimits.GetLimits(gctx, memberID)
			return err
		})
		g.Go(func() error {
			var err error
			usage, err = s.facades.TimeLimits.GetCurrentUsage(gctx, memberID, "")
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		s.Update(func(snap *Snapshot) {
			snap.SelectedMember = memberID
			snap.TimeLimits = limits
			snap.Usage = usage
		})
		return nil
	})
}

// LoadContentFilters loads the app list and the categories together
func (s *State) LoadContentFilters(ctx context.Context) error {
	return s.load(ctx, RegionContentFilters, func(ctx context.Context) error {
		var apps []models.App
		var categories []models.Category

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			apps, err = s.facades.ContentFilter.GetAvailableApps(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			categories, err = s.facades.ContentFilter.GetCategories(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		s.Update(func(snap *Snapshot) {
			snap.Apps = apps
			snap.Categories = categories
		})
		return nil
	})
}

// LoadActivity loads a member's activity for date ("" for today)
func (s *State) LoadActivity(ctx context.Context, memberID, date string) error {
	return s.load(ctx, RegionActivity, func(ctx context.Context) error {
		activity, err := s.facades.Activity.GetActivity(ctx, memberID, date)
		if err != nil {
			return err
		}
		s.Update(func(snap *Snapshot) {
			snap.SelectedMember = memberID
			snap.Activity = activity
		})
		return nil
	})
}

func (s *State) LoadBedtimeSchedules(ctx context.Context, memberID string) error {
	return s.load(ctx, RegionBedtime, func(ctx context.Context) error {
		schedules, err := s.facades.Bedtime.GetSchedules(ctx, memberID)
		if err != nil {
			return err
		}
		s.Update(func(snap *Snapshot) {
			snap.SelectedMember = memberID
			snap.Schedules = schedules
		})
		return nil
	})
}

// LoadClients loads the filtered devices and recomputes the overview stats.
// The first client is selected when the current selection is gone.
func (s *State) LoadClients(ctx context.Context) error {
	return s.load(ctx, RegionClients, func(ctx context.Context) error {
		clients, err := s.facades.Clients.GetAllClients(ctx)
		if err != nil {
			return err
		}
		s.Update(func(snap *Snapshot) {
			snap.Clients = clients
			snap.Stats = catalog.ComputeStats(clients)
			if _, ok := snap.Client(snap.SelectedClient); !ok {
				snap.SelectedClient = ""
				if len(clients) > 0 {
					snap.SelectedClient = clients[0].ID
				}
			}
		})
		return nil
	})
}

// LoadClientServices selects clientID and loads its service grid
func (s *State) LoadClientServices(ctx context.Context, clientID string) error {
	return s.load(ctx, RegionServices, func(ctx context.Context) error {
		cfg, err := s.facades.Clients.GetClient(ctx, clientID)
		if err != nil {
			return err
		}
		services := catalog.ServicesWithStatus(cfg.BlockedServices)
		s.Update(func(snap *Snapshot) {
			snap.SelectedClient = clientID
			snap.Services = services
		})
		return nil
	})
}
