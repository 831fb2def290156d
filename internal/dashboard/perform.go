package dashboard

import (
	"context"
	"fmt"
	"slices"

	"filternet/internal/catalog"
	"filternet/internal/models"
)

// Perform shows next immediately through apply, then runs mutate. When
// mutate fails, current is applied again so the state is exactly what it was
// before the call, and current is returned with the error.
func Perform[T any](ctx context.Context, current, next T, apply func(T), mutate func(ctx context.Context) error) (T, error) {
	apply(next)
	if err := mutate(ctx); err != nil {
		apply(current)
		return current, err
	}
	return next, nil
}

// serviceView is the part of the snapshot a service toggle touches
type serviceView struct {
	services []models.Service
	clients  []models.Client
	stats    models.OverviewStats
}

// ToggleService blocks or allows serviceID on clientID. The service grid,
// the client list and the stats change at once and are restored if the
// backend rejects the change.
func (s *State) ToggleService(ctx context.Context, clientID, serviceID string, block bool) error {
	gen := s.currentGeneration()
	snap := s.Snapshot()
	current := serviceView{services: snap.Services, clients: snap.Clients, stats: snap.Stats}

	next := serviceView{clients: make([]models.Client, len(current.clients))}
	for i, c := range current.clients {
		if c.ID == clientID {
			c.BlockedServices = catalog.SetMembership(c.BlockedServices, serviceID, block)
		}
		next.clients[i] = c
	}
	next.stats = catalog.ComputeStats(next.clients)
	if snap.SelectedClient == clientID {
		next.services = setServiceBlocked(current.services, serviceID, block)
	} else {
		next.services = current.services
	}

	apply := func(v serviceView) {
		s.updateIf(gen, func(snap *Snapshot) {
			snap.Services = v.services
			snap.Clients = v.clients
			snap.Stats = v.stats
		})
	}

	name := serviceID
	if info, ok := catalog.Lookup(serviceID); ok {
		name = info.Name
	}

	_, err := Perform(ctx, current, next, apply, func(ctx context.Context) error {
		_, err := s.facades.Clients.ToggleService(ctx, clientID, serviceID, block)
		return err
	})
	if err != nil {
		s.notifyIf(gen, NotifyError, "Failed to update service status")
		return fmt.Errorf("failed to toggle %s on %s: %w", serviceID, clientID, err)
	}
	s.notifyIf(gen, NotifySuccess, name+" "+blockedWord(block))
	return nil
}

func setServiceBlocked(services []models.Service, serviceID string, block bool) []models.Service {
	out := slices.Clone(services)
	for i := range out {
		if out[i].ID != serviceID {
			continue
		}
		out[i].IsBlocked = block
		out[i].Status = models.ServiceAllowed
		if block {
			out[i].Status = models.ServiceBlocked
		}
	}
	return out
}

// ToggleCategory blocks or allows a content category for a member
func (s *State) ToggleCategory(ctx context.Context, memberID, categoryID string, blocked bool) error {
	gen := s.currentGeneration()
	current := s.Snapshot().Categories
	next := slices.Clone(current)
	name := categoryID
	for i := range next {
		if next[i].ID == categoryID {
			next[i].IsBlocked = blocked
			name = next[i].Name
		}
	}

	apply := func(v []models.Category) {
		s.updateIf(gen, func(snap *Snapshot) { snap.Categories = v })
	}
	_, err := Perform(ctx, current, next, apply, func(ctx context.Context) error {
		return s.facades.ContentFilter.UpdateCategoryStatus(ctx, memberID, categoryID, blocked)
	})
	if err != nil {
		s.notifyIf(gen, NotifyError, "Failed to update category")
		return fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}
	s.notifyIf(gen, NotifySuccess, name+" "+blockedWord(blocked))
	return nil
}

// ToggleBedtime switches a bedtime schedule on or off
func (s *State) ToggleBedtime(ctx context.Context, scheduleID string, active bool) error {
	gen := s.currentGeneration()
	current := s.Snapshot().Schedules
	next := slices.Clone(current)
	for i := range next {
		if next[i].ID == scheduleID {
			next[i].IsActive = active
		}
	}

	apply := func(v []models.BedtimeSchedule) {
		s.updateIf(gen, func(snap *Snapshot) { snap.Schedules = v })
	}
	_, err := Perform(ctx, current, next, apply, func(ctx context.Context) error {
		return s.facades.Bedtime.ToggleSchedule(ctx, scheduleID, active)
	})
	if err != nil {
		s.notifyIf(gen, NotifyError, "Failed to update schedule")
		return fmt.Errorf("failed to toggle schedule %s: %w", scheduleID, err)
	}
	if active {
		s.notifyIf(gen, NotifySuccess, "Bedtime schedule activated")
	} else {
		s.notifyIf(gen, NotifySuccess, "Bedtime schedule deactivated")
	}
	return nil
}

// UpdateAppStatus sets an app to blocked, allowed or limited for a member
func (s *State) UpdateAppStatus(ctx context.Context, memberID, appID string, status models.AppStatus) error {
	gen := s.currentGeneration()
	if !status.Valid() {
		s.notifyIf(gen, NotifyError, "Failed to update app status")
		return fmt.Errorf("invalid app status %q", status)
	}

	current := s.Snapshot().Apps
	next := slices.Clone(current)
	name := appID
	for i := range next {
		if next[i].ID == appID {
			next[i].Status = status
			name = next[i].Name
		}
	}

	apply := func(v []models.App) {
		s.updateIf(gen, func(snap *Snapshot) { snap.Apps = v })
	}
	_, err := Perform(ctx, current, next, apply, func(ctx context.Context) error {
		return s.facades.ContentFilter.UpdateAppStatus(ctx, memberID, appID, status)
	})
	if err != nil {
		s.notifyIf(gen, NotifyError, "Failed to update app status")
		return fmt.Errorf("failed to update app %s: %w", appID, err)
	}
	s.notifyIf(gen, NotifySuccess, fmt.Sprintf("%s is now %s", name, status))
	return nil
}

func blockedWord(blocked bool) string {
	if blocked {
		return "blocked"
	}
	return "allowed"
}

