package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is how Describe renders a task's creation time.
const TimestampLayout = "Mon Jan 02 15:04:05 MST 2006"

// Task is a single to-do item. It is not modified after creation.
type Task struct {
	ID          string
	Description string
	CreatedAt   time.Time
	Priority    bool // informational only, queue position is decided on insert
}

// NewTask creates a task stamped with createdAt and a fresh ID.
func NewTask(description string, priority bool, createdAt time.Time) Task {
	return Task{
		ID:          uuid.New().String(),
		Description: description,
		CreatedAt:   createdAt,
		Priority:    priority,
	}
}

// Describe returns the display line for the task.
func (t Task) Describe() string {
	s := t.Description + " (Created: " + t.CreatedAt.Format(TimestampLayout) + ")"
	if t.Priority {
		return "[PRIORITY] " + s
	}
	return s
}
