package model

import "time"

// Role values stored in users.role and carried in the JWT "role" claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the `users` table. The points column is the user's
// redeemable balance; it is only ever changed through the ledger
// methods on UserRepo so the non-negative invariant is enforced in
// one place.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Points       int64     `json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
