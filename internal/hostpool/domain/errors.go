package domain

import (
	"errors"
	"fmt"
	"time"
)

// Category sentinels. Every typed error below matches exactly one of them
// with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrExpired           = errors.New("expired")
	ErrCapacityExhausted = errors.New("capacity exhausted")
)

// ValidationError is malformed input rejected before any state change.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Code: "invalid_request", Message: message}
}

// NotProvisioned rejects remote operations on a record that lacks the remote
// resource they act on.
func NotProvisioned(resource string) error {
	return &ValidationError{
		Field:   "hostname",
		Code:    "not_provisioned",
		Message: "hostname has no " + resource + " yet",
	}
}

// NotFoundError reports an absent card, credit, hostname, domain or user.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type ConflictCode string

const (
	ConflictCardUsed        ConflictCode = "card_already_used"
	ConflictCreditInUse     ConflictCode = "credit_in_use"
	ConflictDomainInactive  ConflictCode = "domain_inactive"
	ConflictDomainFull      ConflictCode = "domain_full"
	ConflictDomainExists    ConflictCode = "domain_exists"
	ConflictHostnameTaken   ConflictCode = "hostname_taken"
	ConflictDuplicatePrefix ConflictCode = "duplicate_subdomain"
	ConflictPrefixExhausted ConflictCode = "prefix_exhausted"
)

// ConflictError is a request that is well formed but collides with current
// state.
type ConflictError struct {
	Code    ConflictCode
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func Conflict(code ConflictCode, format string, args ...any) error {
	return &ConflictError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ExpiredError is a card or credit used past its expiry.
type ExpiredError struct {
	Entity    string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("%s expired at %s", e.Entity, e.ExpiredAt.UTC().Format(time.RFC3339))
}

func (e *ExpiredError) Is(target error) bool { return target == ErrExpired }

type CapacityReason string

const (
	CapacityNoCredits  CapacityReason = "no_credits"
	CapacityAllExpired CapacityReason = "all_expired"
	CapacityAllInUse   CapacityReason = "all_in_use"
)

// CapacityExhaustedError means the owner has no allocatable credit. Reason
// tells the caller which message to show.
type CapacityExhaustedError struct {
	Reason CapacityReason
}

func (e *CapacityExhaustedError) Error() string {
	switch e.Reason {
	case CapacityNoCredits:
		return "no credits: redeem a card to obtain hostname credits"
	case CapacityAllExpired:
		return "all credits have expired: redeem a new card"
	default:
		return "all credits are in use: release a hostname or redeem a new card"
	}
}

func (e *CapacityExhaustedError) Is(target error) bool { return target == ErrCapacityExhausted }
