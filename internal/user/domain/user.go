package domain

import (
	"errors"
	"time"
)

// User is the core user entity. HashedPassword never holds a plaintext
// password; only the bcrypt hash is ever stored.
type User struct {
	ID             int64
	Email          string
	FullName       string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.HashedPassword == "" {
		return errors.New("hashed password is required")
	}
	return nil
}
