package poolsdk

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a machine readable code, e.g. "not_found", "all_in_use"
	Error string `json:"error"`

	// ErrorDescription is a human readable message
	ErrorDescription string `json:"error_description"`

	// Field names the offending request field for validation errors
	Field string `json:"field,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks holds per-dependency readiness (only for /readyz).
type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// ============================================================================
// Credits and cards
// ============================================================================

type Credit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

type CreditStats struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Available int `json:"available"`
}

type CreditsResponse struct {
	Credits []Credit    `json:"credits"`
	Stats   CreditStats `json:"stats"`
}

type RedeemRequest struct {
	Code string `json:"code"`
}

// RedeemResponse describes what a card turned into. A create card lists the
// new credits; a renew card reports how many credits it extended.
type RedeemResponse struct {
	Kind      string     `json:"kind"`
	Credits   []Credit   `json:"credits,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Extended  int        `json:"extended,omitempty"`
}

type Card struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Kind         string     `json:"kind"`
	Units        int        `json:"units"`
	ValidityDays int        `json:"validity_days"`
	Status       string     `json:"status"`
	UsedBy       string     `json:"used_by,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type GenerateCardsRequest struct {
	Kind         string     `json:"kind"`
	Units        int        `json:"units,omitempty"`
	ValidityDays int        `json:"validity_days"`
	Count        int        `json:"count"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

type GrantCreditsRequest struct {
	Units        int `json:"units"`
	ValidityDays int `json:"validity_days"`
}

type Migration struct {
	HostnameID string `json:"hostname_id"`
	FromCredit string `json:"from_credit"`
	ToCredit   string `json:"to_credit"`
}

// RemoveCreditResponse lists what happened to the hostnames bound to a
// removed credit.
type RemoveCreditResponse struct {
	Migrated []Migration `json:"migrated"`
	Deleted  []string    `json:"deleted"`
}

// ============================================================================
// Domains
// ============================================================================

// Domain is the user view of a pooled domain.
type Domain struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Free int    `json:"free"`
}

// AdminDomain is the administrator view. The provider key is never returned.
type AdminDomain struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ProviderEmail string    `json:"provider_email"`
	MaxHostnames  int       `json:"max_hostnames"`
	Hostnames     int       `json:"hostnames"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateDomainRequest struct {
	Name          string `json:"name"`
	ProviderEmail string `json:"provider_email"`
	ProviderKey   string `json:"provider_key"`
	MaxHostnames  int    `json:"max_hostnames,omitempty"`
}

type UpdateDomainRequest struct {
	Status string `json:"status"`
}

type DeleteDomainResponse struct {
	HostnamesRemoved int `json:"hostnames_removed"`
}

// ============================================================================
// Hostnames
// ============================================================================

type TXTRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Hostname struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	DomainID            string     `json:"domain_id"`
	Hostname            string     `json:"hostname"`
	Subdomain           string     `json:"subdomain"`
	TargetAddress       string     `json:"target_address"`
	RecordType          string     `json:"record_type"`
	Status              string     `json:"status"`
	LastError           string     `json:"last_error,omitempty"`
	CertValidation      *TXTRecord `json:"cert_validation,omitempty"`
	OwnershipValidation *TXTRecord `json:"ownership_validation,omitempty"`
	CreditID            string     `json:"credit_id,omitempty"`
	ExpiresAt           time.Time  `json:"expires_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

type CreateHostnameRequest struct {
	DomainID      string `json:"domain_id"`
	Hostname      string `json:"hostname"`
	TargetAddress string `json:"target_address"`
	RecordType    string `json:"record_type,omitempty"`
}

type UpdateHostnameRequest struct {
	TargetAddress string `json:"target_address"`
}

type RenewRequest struct {
	Code string `json:"code"`
}

type RefreshResponse struct {
	Hostname         Hostname `json:"hostname"`
	SSLStatus        string   `json:"ssl_status"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

type RepairResponse struct {
	Hostname Hostname `json:"hostname"`
	Actions  []string `json:"actions"`
}

// ============================================================================
// Users and sweep
// ============================================================================

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateUserRequest struct {
	Status string `json:"status"`
}

type CategoryReport struct {
	Found          int `json:"found"`
	TornDown       int `json:"torn_down"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
	RemoteFailures int `json:"remote_failures"`
}

type SweepReport struct {
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	ExpiredCredits CategoryReport `json:"expired_credits"`
	ExpiredRecords CategoryReport `json:"expired_records"`
	InactiveUsers  CategoryReport `json:"inactive_users"`
	CreditsExpired int64          `json:"credits_expired"`
}
