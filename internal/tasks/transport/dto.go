// Package transport defines request DTOs for the tasks HTTP API.
package transport

import "time"

// CreateTaskRequest adds a manual checklist item to a deal.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=4000"`
	DueAt       *time.Time `json:"dueAt"`
}

// SetDoneRequest toggles a task's completion flag.
type SetDoneRequest struct {
	Done bool `json:"done"`
}
