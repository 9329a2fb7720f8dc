// Package model defines domain entities for the application.
package model

// User represents a stored user record.
// The ID is assigned by the database on insert and never changes.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
