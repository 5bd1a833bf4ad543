// Package types contains shared types used across the application.
package types

import "time"

// Toast represents a notification message
type Toast struct {
	Level   ToastLevel
	Message string
	Expires time.Time
}

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// NoticeKind is the kind of a scheduling notice
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message raised by a scheduling action
type Notice struct {
	Message   string
	Kind      NoticeKind
	TimeoutMs int
}

// Toast converts the notice into a toast expiring relative to now
func (n Notice) Toast(now time.Time) Toast {
	level := ToastSuccess
	if n.Kind == NoticeError {
		level = ToastError
	}
	return Toast{
		Level:   level,
		Message: n.Message,
		Expires: now.Add(time.Duration(n.TimeoutMs) * time.Millisecond),
	}
}
