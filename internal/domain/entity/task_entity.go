package entity

import "time"

// Task is owned by exactly one User through Owner.
type Task struct {
	ID          string
	Description string
	Completed   bool
	Owner       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
