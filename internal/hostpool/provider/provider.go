// Package provider talks to the DNS/TLS edge provider that backs every
// hostname: one proxied DNS record plus one custom hostname per record.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrProvider matches every *Error with errors.Is.
var ErrProvider = errors.New("provider error")

// Error is a failed remote call. Status is the HTTP status, zero for
// transport failures.
type Error struct {
	Op       string
	Status   int
	Messages []string
	Timeout  bool
}

func (e *Error) Error() string {
	msg := strings.Join(e.Messages, ", ")
	switch {
	case e.Timeout:
		return fmt.Sprintf("provider %s: timed out", e.Op)
	case e.Status == 0:
		return fmt.Sprintf("provider %s: %s", e.Op, msg)
	default:
		return fmt.Sprintf("provider %s: %s (status %d)", e.Op, msg, e.Status)
	}
}

func (e *Error) Is(target error) bool { return target == ErrProvider }

// Zone identifies a pooled domain and the account credentials that manage it.
type Zone struct {
	Name   string
	Email  string
	APIKey string
}

// TXTRecord is a validation token the customer publishes in their own DNS.
type TXTRecord struct {
	Name  string
	Value string
}

// CustomHostname is the provider's view of a customer hostname. Validation
// records are nil when the provider did not return them.
type CustomHostname struct {
	ID                  string
	Hostname            string
	SSLStatus           string
	CertValidation      *TXTRecord
	OwnershipValidation *TXTRecord
	ValidationErrors    []string
}

// SSLActive is the certificate status meaning the hostname is fully live.
const SSLActive = "active"

// Client is everything the hostname workflows need from the provider.
type Client interface {
	CreateDNSRecord(ctx context.Context, zone Zone, name, address, recordType string) (string, error)
	UpdateDNSRecord(ctx context.Context, zone Zone, recordID, address string) error
	DeleteDNSRecord(ctx context.Context, zone Zone, recordID string) error

	CreateCustomHostname(ctx context.Context, zone Zone, hostname, origin string) (CustomHostname, error)
	GetCustomHostname(ctx context.Context, zone Zone, customHostnameID string) (CustomHostname, error)
	DeleteCustomHostname(ctx context.Context, zone Zone, customHostnameID string) error
}
