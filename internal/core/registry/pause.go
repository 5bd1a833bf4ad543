// Package registry holds the session-level overrides on top of the box
// schedule: paused tasks, pinned tasks and the focus session.
package registry

import (
	"sort"

	"github.com/riordanpawley/spinquiz/internal/domain"
)

// PauseRegistry is the set of tasks withheld from selection.
// Pausing never touches a task's box.
type PauseRegistry struct {
	paused map[string]bool
}

// NewPauseRegistry creates an empty registry
func NewPauseRegistry() *PauseRegistry {
	return &PauseRegistry{paused: make(map[string]bool)}
}

// Pause withholds a task. Returns false if it was already paused.
func (r *PauseRegistry) Pause(key domain.TaskKey) bool {
	return r.PauseString(key.String())
}

// PauseString pauses a task by its persisted key
func (r *PauseRegistry) PauseString(key string) bool {
	if r.paused[key] {
		return false
	}
	r.paused[key] = true
	return true
}

// Resume releases a task. Returns false if it was not paused.
func (r *PauseRegistry) Resume(key domain.TaskKey) bool {
	k := key.String()
	if !r.paused[k] {
		return false
	}
	delete(r.paused, k)
	return true
}

// IsPaused reports whether a task is withheld
func (r *PauseRegistry) IsPaused(key domain.TaskKey) bool {
	return r.paused[key.String()]
}

// Len returns the number of paused tasks
func (r *PauseRegistry) Len() int {
	return len(r.paused)
}

// Keys returns the paused keys in sorted order
func (r *PauseRegistry) Keys() []string {
	keys := make([]string, 0, len(r.paused))
	for k := range r.paused {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset clears all pauses
func (r *PauseRegistry) Reset() {
	r.paused = make(map[string]bool)
}
