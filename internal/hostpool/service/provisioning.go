package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/cryptox"
	"github.com/aussiebroadwan/hostpool/pkg/idx"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

const (
	prefixLength   = 6
	prefixAttempts = 100
)

// ProvisionRequest is a user's request for a new custom hostname.
type ProvisionRequest struct {
	DomainID      string            `json:"domain_id" validate:"required"`
	Hostname      string            `json:"hostname" validate:"required,fqdn"`
	TargetAddress string            `json:"target_address" validate:"required,ip"`
	RecordType    domain.RecordType `json:"record_type" validate:"omitempty,oneof=A AAAA"`
}

// RefreshResult is a hostname after re-reading its certificate state.
type RefreshResult struct {
	Hostname         domain.Hostname
	SSLStatus        string
	ValidationErrors []string
}

// ProvisioningService creates, inspects and tears down hostnames. Provider
// calls never run inside a store transaction.
type ProvisioningService struct {
	Store    store.Store
	Provider provider.Client
	Secrets  Secrets
	Ledger   *LedgerService
	Clock    Clock

	// Prefix generates subdomain labels. Defaults to 6 random lower case letters.
	Prefix func() (string, error)
}

func (s *ProvisioningService) newPrefix() (string, error) {
	if s.Prefix != nil {
		return s.Prefix()
	}
	return cryptox.RandomLetters(prefixLength)
}

// Provision allocates a credit, records the hostname and creates its remote
// DNS record and custom hostname. When the provider rejects either step the
// record is kept in error state, unbound, and the credit goes back to the pool.
func (s *ProvisioningService) Provision(ctx context.Context, owner string, req ProvisionRequest) (domain.Hostname, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	req, err := normaliseProvisionRequest(req)
	if err != nil {
		return domain.Hostname{}, err
	}

	// 2. Capacity check
	if err := s.Ledger.CheckCapacity(ctx, owner); err != nil {
		return domain.Hostname{}, err
	}

	// 3. Pooled domain must be usable and the hostname free
	pd, zone, err := s.activeDomain(ctx, req.DomainID)
	if err != nil {
		return domain.Hostname{}, err
	}
	taken, err := s.Store.Hostnames().HostnameExists(ctx, req.Hostname)
	if err != nil {
		return domain.Hostname{}, err
	}
	if taken {
		return domain.Hostname{}, domain.Conflict(domain.ConflictHostnameTaken, "hostname %s is already registered", req.Hostname)
	}

	// 4. Pick a free subdomain prefix
	prefix, err := s.freePrefix(ctx, pd.ID)
	if err != nil {
		return domain.Hostname{}, err
	}

	// 5. Allocate a credit and insert the pending record in one transaction
	now := s.Clock.now()
	h := domain.Hostname{
		ID:              idx.New().String(),
		UserID:          owner,
		DomainID:        pd.ID,
		DomainName:      pd.Name,
		Hostname:        req.Hostname,
		SubdomainPrefix: prefix,
		Subdomain:       prefix + "." + pd.Name,
		TargetAddress:   req.TargetAddress,
		RecordType:      req.RecordType,
		Status:          domain.HostnamePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		credit, err := s.Ledger.allocate(ctx, tx, owner, now)
		if err != nil {
			return err
		}
		h.CreditID = credit.ID
		h.ExpiresAt = credit.ExpiresAt

		if err := tx.Hostnames().CreateHostname(ctx, h); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.Conflict(domain.ConflictDuplicatePrefix, "hostname %s or subdomain %s is already registered", h.Hostname, h.Subdomain)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Hostname{}, err
	}

	// 6. Remote: DNS record first, then the custom hostname pointing at it
	dnsID, err := s.Provider.CreateDNSRecord(ctx, zone, h.Subdomain, h.TargetAddress, string(h.RecordType))
	if err != nil {
		return s.failProvision(ctx, h, "", err)
	}
	ch, err := s.Provider.CreateCustomHostname(ctx, zone, h.Hostname, h.Subdomain)
	if err != nil {
		return s.failProvision(ctx, h, dnsID, err)
	}

	// 7. Persist remote identifiers and tokens
	h.DNSRecordID = dnsID
	h.CustomHostnameID = ch.ID
	h.Status = statusFromSSL(ch.SSLStatus)
	applyTokens(&h, ch)

	upd := store.HostnameUpdate{
		Status:              &h.Status,
		DNSRecordID:         &h.DNSRecordID,
		CustomHostnameID:    &h.CustomHostnameID,
		CertValidation:      &h.CertValidation,
		OwnershipValidation: &h.OwnershipValidation,
	}
	if err := s.Store.Hostnames().UpdateHostname(ctx, h.ID, upd, s.Clock.now()); err != nil {
		log.Error("failed to persist provisioned hostname",
			slog.String("hostname_id", h.ID),
			slog.String("dns_record_id", dnsID),
			slog.String("custom_hostname_id", ch.ID),
			slog.Any("error", err),
		)
		return domain.Hostname{}, err
	}

	log.Info("hostname provisioned",
		slog.String("hostname_id", h.ID),
		slog.String("hostname", h.Hostname),
		slog.String("subdomain", h.Subdomain),
		slog.String("user_id", owner),
		slog.String("credit_id", h.CreditID),
	)
	return s.Store.Hostnames().GetHostname(ctx, h.ID)
}

// failProvision marks the record as failed, keeps whatever remote id was
// created, unbinds it and frees its credit. The provider error is returned.
func (s *ProvisioningService) failProvision(ctx context.Context, h domain.Hostname, dnsID string, cause error) (domain.Hostname, error) {
	log := slogx.FromContext(ctx)
	log.Warn("provisioning failed at provider",
		slog.String("hostname_id", h.ID),
		slog.String("hostname", h.Hostname),
		slog.Any("error", cause),
	)

	status := domain.HostnameError
	lastErr := cause.Error()
	upd := store.HostnameUpdate{Status: &status, LastError: &lastErr}
	if dnsID != "" {
		upd.DNSRecordID = &dnsID
	}

	now := s.Clock.now()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Hostnames().UpdateHostname(ctx, h.ID, upd, now); err != nil {
			return err
		}
		if err := tx.Hostnames().UnbindCredit(ctx, h.ID, now); err != nil {
			return err
		}
		return s.Ledger.release(ctx, tx, h.CreditID, now)
	})
	if err != nil {
		log.Error("failed to roll back credit after provider failure",
			slog.String("hostname_id", h.ID),
			slog.String("credit_id", h.CreditID),
			slog.Any("error", err),
		)
	}
	return domain.Hostname{}, cause
}

func normaliseProvisionRequest(req ProvisionRequest) (ProvisionRequest, error) {
	req.DomainID = strings.TrimSpace(req.DomainID)
	req.Hostname = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(req.Hostname)), ".")
	req.TargetAddress = strings.TrimSpace(req.TargetAddress)
	req.RecordType = domain.RecordType(strings.ToUpper(strings.TrimSpace(string(req.RecordType))))
	if req.RecordType == "" {
		req.RecordType = domain.RecordA
	}

	if err := validateStruct(req); err != nil {
		return req, err
	}
	if err := checkAddressFamily(req.TargetAddress, req.RecordType); err != nil {
		return req, err
	}
	return req, nil
}

// checkAddressFamily requires an IPv4 address for A records and IPv6 for AAAA.
func checkAddressFamily(address string, rt domain.RecordType) error {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return domain.Invalid("target_address", "must be an IPv4 or IPv6 address")
	}
	switch rt {
	case domain.RecordA:
		if !addr.Is4() {
			return domain.Invalid("target_address", "A records need an IPv4 address")
		}
	case domain.RecordAAAA:
		if !addr.Is6() || addr.Is4In6() {
			return domain.Invalid("target_address", "AAAA records need an IPv6 address")
		}
	default:
		return domain.Invalid("record_type", "must be one of: A AAAA")
	}
	return nil
}

// activeDomain loads a pooled domain that can take one more hostname and
// resolves its provider credentials.
func (s *ProvisioningService) activeDomain(ctx context.Context, domainID string) (domain.PooledDomain, provider.Zone, error) {
	pd, err := s.Store.Domains().GetDomain(ctx, domainID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.PooledDomain{}, provider.Zone{}, domain.NotFound("domain", domainID)
	}
	if err != nil {
		return domain.PooledDomain{}, provider.Zone{}, err
	}
	if !pd.IsActive() {
		return domain.PooledDomain{}, provider.Zone{}, domain.Conflict(domain.ConflictDomainInactive, "domain %s is not accepting new hostnames", pd.Name)
	}

	if err := s.checkCeiling(ctx, pd); err != nil {
		return domain.PooledDomain{}, provider.Zone{}, err
	}

	zone, err := s.zone(pd)
	if err != nil {
		return domain.PooledDomain{}, provider.Zone{}, err
	}
	return pd, zone, nil
}

// checkCeiling returns ConflictDomainFull when pd has no slot left. Best
// effort: two concurrent requests can both pass it.
func (s *ProvisioningService) checkCeiling(ctx context.Context, pd domain.PooledDomain) error {
	count, err := s.Store.Domains().CountHostnames(ctx, pd.ID)
	if err != nil {
		return err
	}
	if count >= pd.MaxHostnames {
		return domain.Conflict(domain.ConflictDomainFull, "domain %s has reached its limit of %d hostnames", pd.Name, pd.MaxHostnames)
	}
	return nil
}

func (s *ProvisioningService) zone(pd domain.PooledDomain) (provider.Zone, error) {
	key, err := s.Secrets.Open(pd.ProviderKeyEncrypted)
	if err != nil {
		return provider.Zone{}, fmt.Errorf("open provider key for %s: %w", pd.Name, err)
	}
	return provider.Zone{Name: pd.Name, Email: pd.ProviderEmail, APIKey: string(key)}, nil
}

// zoneByID resolves credentials for any domain, active or not.
func (s *ProvisioningService) zoneByID(ctx context.Context, domainID string) (provider.Zone, error) {
	pd, err := s.Store.Domains().GetDomain(ctx, domainID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return provider.Zone{}, domain.NotFound("domain", domainID)
		}
		return provider.Zone{}, err
	}
	return s.zone(pd)
}

func (s *ProvisioningService) freePrefix(ctx context.Context, domainID string) (string, error) {
	for range prefixAttempts {
		p, err := s.newPrefix()
		if err != nil {
			return "", err
		}
		exists, err := s.Store.Hostnames().PrefixExists(ctx, domainID, p)
		if err != nil {
			return "", err
		}
		if !exists {
			return p, nil
		}
	}
	return "", domain.Conflict(domain.ConflictPrefixExhausted, "could not find a free subdomain after %d attempts", prefixAttempts)
}

// statusFromSSL maps the certificate status onto the record status. Every
// state other than active, known or not, counts as still pending.
func statusFromSSL(ssl string) domain.HostnameStatus {
	if ssl == provider.SSLActive {
		return domain.HostnameActive
	}
	return domain.HostnamePending
}

// applyTokens overwrites tokens the provider returned and keeps the rest.
func applyTokens(h *domain.Hostname, ch provider.CustomHostname) {
	if ch.CertValidation != nil {
		h.CertValidation = domain.TXTRecord{Name: ch.CertValidation.Name, Value: ch.CertValidation.Value}
	}
	if ch.OwnershipValidation != nil {
		h.OwnershipValidation = domain.TXTRecord{Name: ch.OwnershipValidation.Name, Value: ch.OwnershipValidation.Value}
	}
}

// Get returns a hostname. A non-empty owner must match, otherwise the record
// is reported missing.
func (s *ProvisioningService) Get(ctx context.Context, owner, id string) (domain.Hostname, error) {
	h, err := s.Store.Hostnames().GetHostname(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && owner != "" && h.UserID != owner) {
		return domain.Hostname{}, domain.NotFound("hostname", id)
	}
	return h, err
}

func (s *ProvisioningService) ListByOwner(ctx context.Context, owner string) ([]domain.Hostname, error) {
	return s.Store.Hostnames().ListHostnamesByUser(ctx, owner)
}

func (s *ProvisioningService) ListAll(ctx context.Context) ([]domain.Hostname, error) {
	return s.Store.Hostnames().ListHostnames(ctx)
}

// RefreshStatus re-reads the custom hostname and folds its certificate state
// into the record.
func (s *ProvisioningService) RefreshStatus(ctx context.Context, owner, id string) (RefreshResult, error) {
	h, err := s.Get(ctx, owner, id)
	if err != nil {
		return RefreshResult{}, err
	}
	if h.CustomHostnameID == "" {
		return RefreshResult{}, domain.NotProvisioned("custom hostname")
	}

	zone, err := s.zoneByID(ctx, h.DomainID)
	if err != nil {
		return RefreshResult{}, err
	}
	ch, err := s.Provider.GetCustomHostname(ctx, zone, h.CustomHostnameID)
	if err != nil {
		return RefreshResult{}, err
	}

	h.Status = statusFromSSL(ch.SSLStatus)
	applyTokens(&h, ch)
	upd := store.HostnameUpdate{
		Status:              &h.Status,
		CertValidation:      &h.CertValidation,
		OwnershipValidation: &h.OwnershipValidation,
	}
	if err := s.Store.Hostnames().UpdateHostname(ctx, h.ID, upd, s.Clock.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RefreshResult{}, domain.NotFound("hostname", id)
		}
		return RefreshResult{}, err
	}

	h, err = s.Store.Hostnames().GetHostname(ctx, h.ID)
	if err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{Hostname: h, SSLStatus: ch.SSLStatus, ValidationErrors: ch.ValidationErrors}, nil
}

// EditTargetAddress points the hostname's DNS record at a new address.
func (s *ProvisioningService) EditTargetAddress(ctx context.Context, owner, id, address string) (domain.Hostname, error) {
	h, err := s.Get(ctx, owner, id)
	if err != nil {
		return domain.Hostname{}, err
	}

	address = strings.TrimSpace(address)
	if err := checkAddressFamily(address, h.RecordType); err != nil {
		return domain.Hostname{}, err
	}
	if h.DNSRecordID == "" {
		return domain.Hostname{}, domain.NotProvisioned("DNS record")
	}

	zone, err := s.zoneByID(ctx, h.DomainID)
	if err != nil {
		return domain.Hostname{}, err
	}
	if err := s.Provider.UpdateDNSRecord(ctx, zone, h.DNSRecordID, address); err != nil {
		return domain.Hostname{}, err
	}

	if err := s.Store.Hostnames().UpdateHostname(ctx, h.ID, store.HostnameUpdate{TargetAddress: &address}, s.Clock.now()); err != nil {
		return domain.Hostname{}, err
	}

	slogx.FromContext(ctx).Info("hostname target updated",
		slog.String("hostname_id", h.ID),
		slog.String("from", h.TargetAddress),
		slog.String("to", address),
	)
	return s.Store.Hostnames().GetHostname(ctx, h.ID)
}
