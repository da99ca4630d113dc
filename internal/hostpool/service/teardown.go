package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

// TeardownResult collects remote deletion failures. They never stop the local
// delete.
type TeardownResult struct {
	DNSError            error
	CustomHostnameError error
}

// Err joins the remote failures, nil when both deletes succeeded.
func (r TeardownResult) Err() error {
	return errors.Join(r.DNSError, r.CustomHostnameError)
}

// Teardown removes a hostname everywhere: both remote resources (concurrently,
// best effort), then the local row, then optionally frees its credit.
// Returns a NotFoundError when the row was already gone.
func (s *ProvisioningService) Teardown(ctx context.Context, h domain.Hostname, releaseCredit bool) (TeardownResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Remote resources
	res := s.deleteRemote(ctx, h)

	// 2. Local row
	if err := s.Store.Hostnames().DeleteHostname(ctx, h.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return res, domain.NotFound("hostname", h.ID)
		}
		log.Error("failed to delete hostname record",
			slog.String("hostname_id", h.ID),
			slog.Any("error", err),
		)
		return res, err
	}

	// 3. Credit
	if releaseCredit && h.CreditID != "" {
		if err := s.Ledger.Release(ctx, h.CreditID); err != nil {
			log.Error("failed to release credit after teardown",
				slog.String("hostname_id", h.ID),
				slog.String("credit_id", h.CreditID),
				slog.Any("error", err),
			)
		}
	}

	log.Info("hostname torn down",
		slog.String("hostname_id", h.ID),
		slog.String("hostname", h.Hostname),
		slog.Bool("released", releaseCredit && h.CreditID != ""),
		slog.Bool("remote_clean", res.Err() == nil),
	)
	return res, nil
}

// Delete tears a hostname down on behalf of owner (empty for admins) and
// returns its credit to the pool.
func (s *ProvisioningService) Delete(ctx context.Context, owner, id string) (TeardownResult, error) {
	h, err := s.Get(ctx, owner, id)
	if err != nil {
		return TeardownResult{}, err
	}
	return s.Teardown(ctx, h, true)
}

// deleteRemote issues both provider deletes in parallel and records their
// outcome. Resources that were never created are skipped.
func (s *ProvisioningService) deleteRemote(ctx context.Context, h domain.Hostname) TeardownResult {
	log := slogx.FromContext(ctx)

	var res TeardownResult
	if h.DNSRecordID == "" && h.CustomHostnameID == "" {
		return res
	}

	zone, err := s.zoneByID(ctx, h.DomainID)
	if err != nil {
		log.Error("cannot resolve zone for teardown",
			slog.String("hostname_id", h.ID),
			slog.Any("error", err),
		)
		if h.DNSRecordID != "" {
			res.DNSError = err
		}
		if h.CustomHostnameID != "" {
			res.CustomHostnameError = err
		}
		return res
	}

	var g errgroup.Group
	if h.DNSRecordID != "" {
		g.Go(func() error {
			res.DNSError = s.Provider.DeleteDNSRecord(ctx, zone, h.DNSRecordID)
			return nil
		})
	}
	if h.CustomHostnameID != "" {
		g.Go(func() error {
			res.CustomHostnameError = s.Provider.DeleteCustomHostname(ctx, zone, h.CustomHostnameID)
			return nil
		})
	}
	_ = g.Wait()

	if err := res.Err(); err != nil {
		log.Warn("remote teardown incomplete",
			slog.String("hostname_id", h.ID),
			slog.String("dns_record_id", h.DNSRecordID),
			slog.String("custom_hostname_id", h.CustomHostnameID),
			slog.Any("error", err),
		)
	}
	return res
}
