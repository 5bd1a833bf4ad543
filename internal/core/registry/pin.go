package registry

import (
	"slices"

	"github.com/riordanpawley/spinquiz/internal/domain"
)

// FocusSession serializes pinned tasks for back-to-back review
type FocusSession struct {
	Active bool
	Queue  []string
}

// PinRegistry tracks pinned tasks in pin order plus at most one focus session
type PinRegistry struct {
	order  []string
	pinned map[string]bool
	focus  FocusSession
}

// NewPinRegistry creates an empty registry
func NewPinRegistry() *PinRegistry {
	return &PinRegistry{pinned: make(map[string]bool)}
}

// Pin marks a task. Returns false if it was already pinned.
func (r *PinRegistry) Pin(key domain.TaskKey) bool {
	return r.PinString(key.String())
}

// PinString pins a task by its persisted key
func (r *PinRegistry) PinString(key string) bool {
	if r.pinned[key] {
		return false
	}
	r.pinned[key] = true
	r.order = append(r.order, key)
	return true
}

// Unpin clears the mark. Returns false if the task was not pinned.
// A running focus session keeps its snapshot.
func (r *PinRegistry) Unpin(key domain.TaskKey) bool {
	k := key.String()
	if !r.pinned[k] {
		return false
	}
	delete(r.pinned, k)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == k })
	return true
}

// IsPinned reports whether a task is pinned
func (r *PinRegistry) IsPinned(key domain.TaskKey) bool {
	return r.pinned[key.String()]
}

// PinnedCount returns the number of pinned tasks
func (r *PinRegistry) PinnedCount() int {
	return len(r.order)
}

// Pinned returns pinned keys in the order they were pinned
func (r *PinRegistry) Pinned() []string {
	return slices.Clone(r.order)
}

// StartFocusNow activates a focus session over the current pins.
// While a session is active it is returned unchanged. With no pins the
// returned session is inactive.
func (r *PinRegistry) StartFocusNow() FocusSession {
	if r.focus.Active {
		return r.Focus()
	}
	if len(r.order) == 0 {
		return FocusSession{}
	}
	r.focus = FocusSession{Active: true, Queue: slices.Clone(r.order)}
	return r.Focus()
}

// Focus returns a copy of the current session
func (r *PinRegistry) Focus() FocusSession {
	return FocusSession{Active: r.focus.Active, Queue: slices.Clone(r.focus.Queue)}
}

// IsFocusActive reports whether a focus session is running
func (r *PinRegistry) IsFocusActive() bool {
	return r.focus.Active
}

// PeekFocus returns the next queued key without consuming it
func (r *PinRegistry) PeekFocus() (string, bool) {
	if !r.focus.Active || len(r.focus.Queue) == 0 {
		return "", false
	}
	return r.focus.Queue[0], true
}

// AdvanceFocus pops the next queued key. Popping the last key ends the
// session; afterwards it returns false.
func (r *PinRegistry) AdvanceFocus() (string, bool) {
	if !r.focus.Active || len(r.focus.Queue) == 0 {
		r.focus = FocusSession{}
		return "", false
	}
	next := r.focus.Queue[0]
	r.focus.Queue = r.focus.Queue[1:]
	if len(r.focus.Queue) == 0 {
		r.focus = FocusSession{}
	}
	return next, true
}

// StopFocus cancels the session regardless of remaining items
func (r *PinRegistry) StopFocus() {
	r.focus = FocusSession{}
}

// RestoreFocus reinstates a persisted queue. A nil or empty queue leaves
// the session inactive.
func (r *PinRegistry) RestoreFocus(queue []string) {
	if len(queue) == 0 {
		r.focus = FocusSession{}
		return
	}
	r.focus = FocusSession{Active: true, Queue: slices.Clone(queue)}
}

// Reset clears pins and the focus session
func (r *PinRegistry) Reset() {
	r.order = nil
	r.pinned = make(map[string]bool)
	r.focus = FocusSession{}
}
