package domain

import "time"

// Task is a single quiz task from the catalogue
type Task struct {
	MainCategory string        `json:"main_category"`
	Category     string        `json:"category"`
	Text         string        `json:"text"`
	Points       int           `json:"points,omitempty"`
	TimeLimit    time.Duration `json:"time_limit,omitempty"`
	Partner      bool          `json:"partner,omitempty"`
}

// Category groups tasks under a main category
type Category struct {
	Main  string `json:"main"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// DefaultPoints is awarded for a fully correct task without explicit points
const DefaultPoints = 10

// Worth returns the points for a full-success rating
func (t Task) Worth() int {
	if t.Points > 0 {
		return t.Points
	}
	return DefaultPoints
}

// Key derives the scheduling key for this task
func (t Task) Key() TaskKey {
	return DeriveKey(t)
}

// Rating is the outcome of an assessment
type Rating int

const (
	RatingSuccess Rating = iota
	RatingPartial
	RatingFail
)

// String returns the label shown on the rating buttons
func (r Rating) String() string {
	switch r {
	case RatingSuccess:
		return "Heel Goed"
	case RatingPartial:
		return "Redelijk"
	case RatingFail:
		return "Niet Goed"
	default:
		return "unknown"
	}
}

// Award returns the points earned for a task with the given rating
func (r Rating) Award(task Task) int {
	switch r {
	case RatingSuccess:
		return task.Worth()
	case RatingPartial:
		return task.Worth() / 2
	default:
		return 0
	}
}

// Player is a participant in one game session
type Player struct {
	Name       string `json:"name"`
	ExtraSpins int    `json:"extra_spins"`
	Score      int    `json:"score"`
}
