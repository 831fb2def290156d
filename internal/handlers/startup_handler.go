package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
)

// Startup tracks the initialization progress of the server
type Startup struct {
	mu      sync.RWMutex
	ready   bool
	current string
	steps   []StartupStep
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// NewStartup creates a tracker over the named steps
func NewStartup(steps ...string) *Startup {
	s := &Startup{current: "Initializing..."}
	for _, name := range steps {
		s.steps = append(s.steps, StartupStep{Name: name})
	}
	return s
}

// SetCurrentStep updates the current initialization step
func (s *Startup) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed
func (s *Startup) CompleteStep(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.steps {
		if s.steps[i].Name == name {
			s.steps[i].Completed = true
			break
		}
	}
}

// MarkReady marks the server as fully initialized
func (s *Startup) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = "Server ready"
	for i := range s.steps {
		s.steps[i].Completed = true
	}
}

// IsReady returns whether the server is fully initialized
func (s *Startup) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Progress returns the percentage of completed steps
func (s *Startup) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progressLocked()
}

func (s *Startup) progressLocked() int {
	if s.ready || len(s.steps) == 0 {
		return 100
	}
	completed := 0
	for _, step := range s.steps {
		if step.Completed {
			completed++
		}
	}
	return completed * 100 / len(s.steps)
}

// Health reports the startup status as JSON, with 503 until the server is ready
func (s *Startup) Health(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	status := struct {
		Ready    bool          `json:"ready"`
		Current  string        `json:"current"`
		Progress int           `json:"progress"`
		Steps    []StartupStep `json:"steps"`
	}{s.ready, s.current, s.progressLocked(), append([]StartupStep(nil), s.steps...)}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !status.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}
