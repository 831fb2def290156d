package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"filternet/internal/models"
	"filternet/internal/security"
)

// Storage keys. They match the keys the browser dashboard has always used so
// exported profiles stay readable.
const (
	TokenKey = "filternet_auth_token"
	UserKey  = "filternet_user_data"
)

// KV is the persistence backing a Store
type KV interface {
	Get(ctx context.Context, namespace, name string) (string, bool, error)
	Set(ctx context.Context, namespace, name, value string) error
	Delete(ctx context.Context, namespace string, names ...string) error
}

// Store persists the token and user record of one browser profile.
// Reads report absence as empty values; a corrupt user record reads as absent.
type Store struct {
	kv        KV
	namespace string
	sealer    *security.Sealer
}

// NewStore creates a store for namespace. sealer may be nil.
func NewStore(kv KV, namespace string, sealer *security.Sealer) *Store {
	return &Store{kv: kv, namespace: namespace, sealer: sealer}
}

// Namespace returns the profile the store is bound to
func (s *Store) Namespace() string {
	return s.namespace
}

// GetToken returns the stored bearer token or "" when logged out
func (s *Store) GetToken(ctx context.Context) string {
	token, err := s.get(ctx, TokenKey)
	if err != nil {
		log.Printf("session %s: failed to read token: %v", s.namespace, err)
		return ""
	}
	return token
}

// SetToken stores the bearer token
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.set(ctx, TokenKey, token)
}

// GetUser returns the stored user or nil when absent or unreadable
func (s *Store) GetUser(ctx context.Context) *models.User {
	raw, err := s.get(ctx, UserKey)
	if err != nil {
		log.Printf("session %s: failed to read user: %v", s.namespace, err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("session %s: discarding malformed user record: %v", s.namespace, err)
		return nil
	}
	return &user
}

// SetUser stores the user record
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.set(ctx, UserKey, string(data))
}

// Clear removes both keys atomically
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.namespace, TokenKey, UserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a token is present
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.GetToken(ctx) != ""
}

// Snapshot returns the token and user together
func (s *Store) Snapshot(ctx context.Context) models.Session {
	return models.Session{Token: s.GetToken(ctx), User: s.GetUser(ctx)}
}

func (s *Store) get(ctx context.Context, name string) (string, error) {
	value, ok, err := s.kv.Get(ctx, s.namespace, name)
	if err != nil || !ok {
		return "", err
	}
	return s.sealer.Open(name, value)
}

func (s *Store) set(ctx context.Context, name, value string) error {
	sealed, err := s.sealer.Seal(name, value)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.namespace, name, sealed); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

// MemoryKV is an in-process KV used by tests and by the CLI's --ephemeral mode
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemoryKV creates an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, namespace, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[namespace][name]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, namespace, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.values[namespace]
	if !ok {
		ns = make(map[string]string)
		m.values[namespace] = ns
	}
	ns[name] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, namespace string, names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		delete(m.values[namespace], name)
	}
	return nil
}
