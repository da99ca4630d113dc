package domain

import "time"

type DomainStatus string

const (
	DomainActive   DomainStatus = "active"
	DomainInactive DomainStatus = "inactive"
)

const (
	DefaultMaxHostnames = 100
	MaxHostnamesCeiling = 10000
)

// PooledDomain is a shared zone that user hostnames are provisioned under.
type PooledDomain struct {
	ID                   string
	Name                 string
	ProviderEmail        string
	ProviderKeyEncrypted []byte // sealed with cryptox.SecretBox
	MaxHostnames         int
	Status               DomainStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (d PooledDomain) IsActive() bool { return d.Status == DomainActive }

// DomainUsage pairs a domain with its live hostname count.
type DomainUsage struct {
	PooledDomain
	Hostnames int
}

// Free returns the number of hostnames that can still be provisioned.
func (u DomainUsage) Free() int {
	return max(u.MaxHostnames-u.Hostnames, 0)
}
