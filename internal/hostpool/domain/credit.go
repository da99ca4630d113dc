package domain

import "time"

type CreditStatus string

const (
	CreditActive  CreditStatus = "active"
	CreditExpired CreditStatus = "expired"
)

// Credit is one allocatable unit of hostname-creation right. A used credit is
// bound to exactly one Hostname.
type Credit struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	Status    CreditStatus
	Used      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allocatable reports whether the credit can be bound to a new hostname at now.
func (c Credit) Allocatable(now time.Time) bool {
	return c.Status == CreditActive && !c.Used && c.ExpiresAt.After(now)
}

// CreditStats summarises the active, unexpired credits of a user.
type CreditStats struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Available int `json:"available"`
}
