package domain

import "time"

// AdminRole enumerates console operator roles.
type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "ADMIN"
	AdminRoleViewer AdminRole = "VIEWER"
)

// Admin models a console operator account.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AdminRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
