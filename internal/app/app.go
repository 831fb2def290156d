// Package app assembles the pieces one dashboard session needs: token store,
// gateway, backend facades, dashboard state and auth service.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"filternet/internal/api"
	"filternet/internal/config"
	"filternet/internal/dashboard"
	"filternet/internal/mock"
	"filternet/internal/security"
	"filternet/internal/service"
	"filternet/internal/session"
)

// NewFacades returns the in-memory demo backend when mock mode is on and the
// HTTP client for the configured backend otherwise
func NewFacades(cfg *config.Config, gateway *api.Gateway) *api.Facades {
	if cfg.MockMode {
		return mock.New(
			mock.WithLatency(cfg.MockLatency),
			mock.WithJitter(cfg.MockLatency/2),
			mock.WithSession(gateway.Session()),
		).Facades()
	}
	return api.NewHTTPFacades(gateway)
}

// Workspace is everything behind one signed-in profile
type Workspace struct {
	ID        string
	Store     *session.Store
	Gateway   *api.Gateway
	Facades   *api.Facades
	Dashboard *dashboard.State
	Auth      *service.AuthService

	mu       sync.Mutex
	lastUsed time.Time
}

// NewWorkspace builds a workspace over store. The dashboard is reset when the
// backend rejects the session.
func NewWorkspace(cfg *config.Config, store *session.Store) *Workspace {
	ws := &Workspace{ID: store.Namespace(), Store: store, lastUsed: time.Now()}
	ws.Gateway = api.NewGateway(cfg.APIBaseURL, store,
		api.WithDebug(cfg.Debug),
		api.WithUnauthorizedHook(func(ctx context.Context) {
			if ws.Dashboard != nil {
				ws.Dashboard.Reset()
			}
		}),
	)
	ws.Facades = NewFacades(cfg, ws.Gateway)
	ws.Dashboard = dashboard.New(ws.Facades)
	ws.Auth = service.NewAuthService(store, ws.Facades.Auth, cfg.RealBackend())
	return ws
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastUsed = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Registry keeps one workspace per browser profile id. Tokens live in the
// KV store, so an evicted workspace is rebuilt signed in.
type Registry struct {
	cfg    *config.Config
	kv     session.KV
	sealer *security.Sealer

	mu         sync.Mutex
	workspaces map[string]*Workspace
	now        func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *config.Config, kv session.KV, sealer *security.Sealer) *Registry {
	return &Registry{
		cfg:        cfg,
		kv:         kv,
		sealer:     sealer,
		workspaces: make(map[string]*Workspace),
		now:        time.Now,
	}
}

// Get returns the workspace for id, creating it on first use
func (r *Registry) Get(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[id]
	if !ok {
		ws = NewWorkspace(r.cfg, session.NewStore(r.kv, id, r.sealer))
		r.workspaces[id] = ws
		if r.cfg.Debug {
			log.Printf("[DEBUG] Created workspace %s", id)
		}
	}
	ws.touch(r.now())
	return ws
}

// Len returns the number of live workspaces
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Evict drops workspaces unused for longer than idle
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, ws := range r.workspaces {
		if ws.idleSince().Before(cutoff) {
			delete(r.workspaces, id)
			evicted++
		}
	}
	return evicted
}

// Cleanup evicts idle workspaces every interval until ctx is done
func (r *Registry) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(idle); n > 0 {
				log.Printf("Evicted %d idle workspaces", n)
			}
		}
	}
}
