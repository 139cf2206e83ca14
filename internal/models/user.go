// Package models contains the domain structures of the rental marketplace:
// users, owner profiles, cars and bookings, together with the wire-exact
// enumerations they carry.
package models

import "time"

// Roles a user account can hold. Stored and serialized exactly as spelled.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User represents a registered account. PasswordHash is nil for accounts
// created without credentials (seeded fleet owners); such accounts cannot
// log in.
type User struct {
	UUID         string
	Name         *string
	Email        string
	PasswordHash *string
	Role         string
	CreatedAt    time.Time
}

// OwnerProfile represents the operating company or an individual host.
// At most one profile per user.
type OwnerProfile struct {
	UUID        string
	UserUID     string
	DisplayName string
	Bio         string
	City        string
	IsCompany   bool
}
