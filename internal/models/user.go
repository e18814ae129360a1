package models

import "time"

// User owns every log, report and appointment in the store
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	APIToken  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
