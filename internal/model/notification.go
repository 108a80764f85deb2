package model

import "time"

// Notification is a portal notification shown to students.
type Notification struct {
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
