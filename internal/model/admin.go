package model

import "time"

// Admin represents a moderator account in the `admins` table.  Admins are
// seeded out-of-band (cmd/create-admin or the startup default); there is no
// registration or deletion surface for them.
type Admin struct {
	ID           uint64    // admins.id
	Email        string    // admins.email
	PasswordHash string    // admins.password_hash
	Name         string    // admins.name
	CreatedAt    time.Time // admins.created_at
}
