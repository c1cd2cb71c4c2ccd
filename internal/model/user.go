package model

import "time"

// User represents a registered member as stored in the `users` table.
//
// Fields:
//  ID           – primary key, strictly monotonic (AUTO_INCREMENT).
//  MemberID     – external, human-shareable identifier used for message
//                 partner lookup; distinct from ID on purpose.
//  Name         – display name supplied at registration.
//  Phone        – contact number supplied at registration.
//  Email        – unique login email, stored lower-cased and trimmed.
//  PasswordHash – bcrypt hash; the plain password is never persisted.
//  Balance      – account balance, only ever mutated by payment approval.
//  CreatedAt    – registration timestamp (UTC).
type User struct {
	ID           uint64    // users.id
	MemberID     string    // users.member_id
	Name         string    // users.name
	Phone        string    // users.phone
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Balance      int64     // users.balance
	CreatedAt    time.Time // users.created_at
}
