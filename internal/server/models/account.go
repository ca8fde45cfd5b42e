// Package models defines server-side data models shared by the stores,
// services and transports.
package models

import "time"

// Role is the coarse permission class of an account.
type Role string

const (
	// RoleOps may upload documents.
	RoleOps Role = "ops"
	// RoleClient may list and download documents.
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOps || r == RoleClient
}

// Account is a registered user.
type Account struct {
	// Email is the unique identifier and token subject.
	Email string
	// PasswordHash is a bcrypt hash.
	PasswordHash string
	Role         Role
	// Verified flips to true once a verification token is redeemed.
	Verified  bool
	CreatedAt time.Time
}
