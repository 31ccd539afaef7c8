package model

import "time"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Label is the human-readable form, resolved at the presentation
// boundary. Only the raw variant name is ever serialized.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High priority"
	case PriorityMedium:
		return "Medium priority"
	case PriorityLow:
		return "Low priority"
	default:
		return string(p)
	}
}

type Category string

const (
	CategoryWork          Category = "Work"
	CategoryHome          Category = "Home"
	CategoryLearning      Category = "Learning"
	CategoryEntertainment Category = "Entertainment"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryHome, CategoryLearning, CategoryEntertainment:
		return true
	default:
		return false
	}
}

func (c Category) Label() string {
	switch c {
	case CategoryWork:
		return "Work"
	case CategoryHome:
		return "Home"
	case CategoryLearning:
		return "Learning"
	case CategoryEntertainment:
		return "Entertainment"
	default:
		return string(c)
	}
}

// Task is a single to-do entry with a time window, a priority, a
// category, and two independent status flags. The JSON field names are
// the persisted wire contract and must stay stable across releases.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Details     string    `json:"details"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsCompleted bool      `json:"isCompleted"`
	IsFavorite  bool      `json:"isFavorite"`
	Priority    Priority  `json:"priority"`
	Category    Category  `json:"category"`
}

// ReminderTime is the task's start date truncated to minute precision
// in its own location. Reminders never carry seconds.
func (t Task) ReminderTime() time.Time {
	year, month, day := t.StartDate.Date()
	return time.Date(year, month, day, t.StartDate.Hour(), t.StartDate.Minute(), 0, 0, t.StartDate.Location())
}
