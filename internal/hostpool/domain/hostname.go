package domain

import "time"

type HostnameStatus string

const (
	HostnamePending HostnameStatus = "pending"
	HostnameActive  HostnameStatus = "active"
	HostnameError   HostnameStatus = "error"
)

type RecordType string

const (
	RecordA    RecordType = "A"
	RecordAAAA RecordType = "AAAA"
)

// TXTRecord is a DNS TXT name/value pair the customer must publish.
type TXTRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (t TXTRecord) IsZero() bool { return t.Name == "" && t.Value == "" }

// Hostname is a customer hostname mapped onto a pooled domain subdomain.
type Hostname struct {
	ID                  string
	UserID              string
	DomainID            string
	DomainName          string // joined from pooled_domains on reads
	Hostname            string
	SubdomainPrefix     string
	Subdomain           string
	TargetAddress       string
	RecordType          RecordType
	DNSRecordID         string
	CustomHostnameID    string
	CertValidation      TXTRecord
	OwnershipValidation TXTRecord
	Status              HostnameStatus
	LastError           string
	ExpiresAt           time.Time
	CreditID            string // empty when unbound
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (h Hostname) IsBound() bool { return h.CreditID != "" }

// NeedsRemote reports whether the DNS record or custom hostname is missing.
func (h Hostname) NeedsRemote() bool { return h.DNSRecordID == "" || h.CustomHostnameID == "" }
