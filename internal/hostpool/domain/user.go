package domain

import "time"

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

// User mirrors an identity from the token issuer. Only the status is owned
// locally; the sweep tears down hostnames of users that are not active.
type User struct {
	ID        string // JWT subject
	Username  string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsActive() bool { return u.Status == UserActive }
