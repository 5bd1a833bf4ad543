package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrEmptyPool         = errors.New("no selectable tasks")
	ErrNoPlayers         = errors.New("no players")
)

// TransitionError describes a rejected game phase transition
type TransitionError struct {
	Action string // Action that was attempted: "spin", "rate", etc.
	Phase  string // Phase the machine was in
	Reason string // Optional extra context
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s not allowed in %s: %s", e.Action, e.Phase, e.Reason)
	}
	return fmt.Sprintf("%s not allowed in %s", e.Action, e.Phase)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// StoreError represents a failure in the persistence layer
type StoreError struct {
	Op     string // Operation: "load", "save", "open"
	Driver string // Storage driver name
	Err    error
}

func (e *StoreError) Error() string {
	if e.Driver != "" {
		return fmt.Sprintf("store %s [%s]: %v", e.Op, e.Driver, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CatalogueError represents a failure loading or parsing the task catalogue
type CatalogueError struct {
	Op      string
	Path    string
	Message string
	Err     error
}

func (e *CatalogueError) Error() string {
	if e.Path != "" && e.Message != "" {
		return fmt.Sprintf("catalogue %s [%s]: %s", e.Op, e.Path, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("catalogue %s [%s]: %v", e.Op, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("catalogue %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("catalogue %s: %v", e.Op, e.Err)
}

func (e *CatalogueError) Unwrap() error {
	return e.Err
}
