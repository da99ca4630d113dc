package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by conditional updates whose precondition no
	// longer holds (card already used, credit already taken).
	ErrConflict = errors.New("store: conflicting update")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement it through sqlstore. Sub-repositories are methods so a Tx-scoped
// store hands out repositories bound to the same transaction.
type Store interface {
	Users() Users
	Domains() Domains
	Cards() Cards
	Credits() Credits
	Hostnames() Hostnames

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. A nil return commits, anything
	// else rolls back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUser(ctx context.Context, id string) (domain.User, error)

	// UpsertUser inserts the user or refreshes its username. Status is kept.
	UpsertUser(ctx context.Context, u domain.User) (domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus, now time.Time) error
}

type Domains interface {
	// CreateDomain returns ErrAlreadyExists when the name is taken.
	CreateDomain(ctx context.Context, d domain.PooledDomain) error
	GetDomain(ctx context.Context, id string) (domain.PooledDomain, error)

	// ListDomains returns every domain with the number of hostnames holding a
	// slot under its ceiling.
	ListDomains(ctx context.Context) ([]domain.DomainUsage, error)

	// ListActiveDomains is ListDomains restricted to status active.
	ListActiveDomains(ctx context.Context) ([]domain.DomainUsage, error)

	UpdateDomainStatus(ctx context.Context, id string, status domain.DomainStatus, now time.Time) error
	DeleteDomain(ctx context.Context, id string) error

	// CountHostnames counts the domain's hostnames that hold a ceiling slot:
	// every row except failed provisions left without a credit.
	CountHostnames(ctx context.Context, domainID string) (int, error)
}

type Cards interface {
	// CreateCard returns ErrAlreadyExists on a code collision.
	CreateCard(ctx context.Context, c domain.Card) error

	// GetCardByCode matches the code case-insensitively.
	GetCardByCode(ctx context.Context, code string) (domain.Card, error)

	ListCards(ctx context.Context) ([]domain.Card, error)

	// MarkCardUsed flips an unused card to used. ErrConflict when the card
	// was not unused anymore.
	MarkCardUsed(ctx context.Context, id, userID string, at time.Time) error

	DeleteCard(ctx context.Context, id string) error
}

type Credits interface {
	CreateCredit(ctx context.Context, c domain.Credit) error
	GetCredit(ctx context.Context, id string) (domain.Credit, error)

	// ListCreditsByUser returns every credit of the user ordered by expiry.
	ListCreditsByUser(ctx context.Context, userID string) ([]domain.Credit, error)

	// FirstAllocatable returns the unused, active credit with the earliest
	// expiry after now, skipping excludeID when set.
	FirstAllocatable(ctx context.Context, userID string, now time.Time, excludeID string) (domain.Credit, error)

	// SetCreditUsed flips the used flag. Setting used=true on a credit that is
	// already used returns ErrConflict.
	SetCreditUsed(ctx context.Context, id string, used bool, now time.Time) error

	UpdateCreditExpiry(ctx context.Context, id string, expiresAt, now time.Time) error

	// ExpireStale marks every active credit past now as expired and clears
	// the used flag of expired credits no hostname references. Returns rows
	// touched.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)

	DeleteCredit(ctx context.Context, id string) error
}

// HostnameUpdate is a partial update. Nil fields are left unchanged.
type HostnameUpdate struct {
	Status              *domain.HostnameStatus
	LastError           *string
	TargetAddress       *string
	DNSRecordID         *string
	CustomHostnameID    *string
	CertValidation      *domain.TXTRecord
	OwnershipValidation *domain.TXTRecord
}

type Hostnames interface {
	// CreateHostname returns ErrAlreadyExists when the hostname or the
	// domain/prefix pair is taken.
	CreateHostname(ctx context.Context, h domain.Hostname) error
	GetHostname(ctx context.Context, id string) (domain.Hostname, error)

	ListHostnames(ctx context.Context) ([]domain.Hostname, error)
	ListHostnamesByUser(ctx context.Context, userID string) ([]domain.Hostname, error)
	ListHostnamesByDomain(ctx context.Context, domainID string) ([]domain.Hostname, error)
	ListHostnamesByCredit(ctx context.Context, creditID string) ([]domain.Hostname, error)

	PrefixExists(ctx context.Context, domainID, prefix string) (bool, error)
	HostnameExists(ctx context.Context, hostname string) (bool, error)

	UpdateHostname(ctx context.Context, id string, u HostnameUpdate, now time.Time) error

	// BindCredit points the hostname at creditID and mirrors its expiry.
	BindCredit(ctx context.Context, id, creditID string, expiresAt, now time.Time) error
	UnbindCredit(ctx context.Context, id string, now time.Time) error

	// SyncExpiryForCredit copies expiresAt onto every hostname bound to creditID.
	SyncExpiryForCredit(ctx context.Context, creditID string, expiresAt, now time.Time) error

	// DeleteHostname returns ErrNotFound when no row was deleted.
	DeleteHostname(ctx context.Context, id string) error

	// Sweep predicates.
	ListWithExpiredCredit(ctx context.Context, now time.Time) ([]domain.Hostname, error)
	ListExpired(ctx context.Context, now time.Time) ([]domain.Hostname, error)
	ListOfInactiveUsers(ctx context.Context) ([]domain.Hostname, error)
}
