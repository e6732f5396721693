package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User rows never expose the stored hash; PasswordHash stays out of JSON.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPatch supports partial updates via field presence.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}
