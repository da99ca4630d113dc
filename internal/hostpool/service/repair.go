package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

const (
	RepairCreatedDNS    = "created_dns_record"
	RepairCreatedCustom = "created_custom_hostname"
)

type RepairResult struct {
	Hostname domain.Hostname
	Actions  []string
}

// Repair recreates whichever remote resource a record is missing, DNS record
// first. Progress made before a provider failure is persisted.
//
// A record left unbound by a failed provision needs a ceiling slot and the
// owner's next free credit before anything is created remotely. The credit
// goes back when the provider fails again.
func (s *ProvisioningService) Repair(ctx context.Context, id string) (RepairResult, error) {
	log := slogx.FromContext(ctx)

	h, err := s.Get(ctx, "", id)
	if err != nil {
		return RepairResult{}, err
	}
	pd, err := s.Store.Domains().GetDomain(ctx, h.DomainID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RepairResult{}, domain.NotFound("domain", h.DomainID)
		}
		return RepairResult{}, err
	}
	zone, err := s.zone(pd)
	if err != nil {
		return RepairResult{}, err
	}

	var (
		res   RepairResult
		upd   store.HostnameUpdate
		bound bool
	)

	if h.NeedsRemote() && !h.IsBound() {
		// An unbound failure gave up its slot; take it back first.
		if err := s.checkCeiling(ctx, pd); err != nil {
			return RepairResult{}, err
		}
		if err := s.bindFreeCredit(ctx, &h); err != nil {
			return RepairResult{}, err
		}
		bound = true
	}

	fail := func(cause error) (RepairResult, error) {
		status := domain.HostnameError
		msg := cause.Error()
		upd.Status, upd.LastError = &status, &msg
		now := s.Clock.now()
		err := s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Hostnames().UpdateHostname(ctx, h.ID, upd, now); err != nil {
				return err
			}
			if !bound {
				return nil
			}
			if err := tx.Hostnames().UnbindCredit(ctx, h.ID, now); err != nil {
				return err
			}
			return s.Ledger.release(ctx, tx, h.CreditID, now)
		})
		if err != nil {
			log.Error("failed to record repair failure", slog.String("hostname_id", h.ID), slog.Any("error", err))
		}
		return RepairResult{}, cause
	}

	if h.DNSRecordID == "" {
		dnsID, err := s.Provider.CreateDNSRecord(ctx, zone, h.Subdomain, h.TargetAddress, string(h.RecordType))
		if err != nil {
			return fail(err)
		}
		h.DNSRecordID = dnsID
		upd.DNSRecordID = &h.DNSRecordID
		res.Actions = append(res.Actions, RepairCreatedDNS)
	}

	if h.CustomHostnameID == "" {
		ch, err := s.Provider.CreateCustomHostname(ctx, zone, h.Hostname, h.Subdomain)
		if err != nil {
			return fail(err)
		}
		h.CustomHostnameID = ch.ID
		h.Status = statusFromSSL(ch.SSLStatus)
		applyTokens(&h, ch)
		upd.CustomHostnameID = &h.CustomHostnameID
		upd.CertValidation = &h.CertValidation
		upd.OwnershipValidation = &h.OwnershipValidation
		res.Actions = append(res.Actions, RepairCreatedCustom)
	}

	if len(res.Actions) > 0 {
		if h.Status == domain.HostnameError {
			h.Status = domain.HostnamePending
		}
		cleared := ""
		upd.Status, upd.LastError = &h.Status, &cleared
		if err := s.Store.Hostnames().UpdateHostname(ctx, h.ID, upd, s.Clock.now()); err != nil {
			return RepairResult{}, err
		}
		log.Info("hostname repaired", slog.String("hostname_id", h.ID), slog.Any("actions", res.Actions))
	}

	res.Hostname, err = s.Store.Hostnames().GetHostname(ctx, h.ID)
	return res, err
}

// bindFreeCredit allocates the owner's next free credit to h and mirrors its
// expiry. Capacity errors come back unchanged.
func (s *ProvisioningService) bindFreeCredit(ctx context.Context, h *domain.Hostname) error {
	now := s.Clock.now()
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		credit, err := s.Ledger.allocate(ctx, tx, h.UserID, now)
		if err != nil {
			return err
		}
		if err := tx.Hostnames().BindCredit(ctx, h.ID, credit.ID, credit.ExpiresAt, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NotFound("hostname", h.ID)
			}
			return err
		}
		h.CreditID = credit.ID
		h.ExpiresAt = credit.ExpiresAt
		slogx.FromContext(ctx).Info("credit bound during repair",
			slog.String("hostname_id", h.ID),
			slog.String("credit_id", credit.ID),
		)
		return nil
	})
}
