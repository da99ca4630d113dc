package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

// CategoryReport counts what one sweep category did.
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

// SweepService periodically tears down hostnames whose credit expired, whose
// own expiry passed, or whose owner was disabled, and expires stale credits.
type SweepService struct {
	Store        store.Store
	Provisioning *ProvisioningService
	Ledger       *LedgerService
	Logger       *slog.Logger
	Interval     time.Duration
	Clock        Clock

	mu     sync.Mutex // one run at a time
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSweepService creates a sweep. If interval is 0 or negative, defaults
// to 1 hour.
func NewSweepService(st store.Store, provisioning *ProvisioningService, ledger *LedgerService, logger *slog.Logger, interval time.Duration) *SweepService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweepService{
		Store:        st,
		Provisioning: provisioning,
		Ledger:       ledger,
		Logger:       logger,
		Interval:     interval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start runs the sweep immediately and then on every tick. Non-blocking.
func (s *SweepService) Start() {
	go s.run()
	s.Logger.Info("sweep service started", slog.Duration("interval", s.Interval))
}

// Stop ends the background loop, waiting for an in-flight run to finish.
func (s *SweepService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("sweep service stopped")
}

func (s *SweepService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *SweepService) tick() {
	if _, err := s.RunOnce(context.Background()); err != nil {
		s.Logger.Error("sweep finished with errors", slog.Any("error", err))
	}
}

type sweepCategory struct {
	name    string
	release bool
	list    func(ctx context.Context, now time.Time) ([]domain.Hostname, error)
	matches func(ctx context.Context, h domain.Hostname, now time.Time) (bool, error)
	report  *CategoryReport
}

// RunOnce performs one full pass. Per-record failures are logged and
// counted; only failed category queries are returned, joined.
func (s *SweepService) RunOnce(ctx context.Context) (SweepReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = slogx.WithContext(ctx, s.Logger.With(slog.String("component", "sweep")))
	now := s.Clock.now()
	report := SweepReport{StartedAt: now}
	seen := make(map[string]struct{})
	var errs []error

	hostnames := s.Store.Hostnames()
	categories := []sweepCategory{
		{
			name:    "expired_credit",
			list:    hostnames.ListWithExpiredCredit,
			matches: s.creditExpired,
			report:  &report.ExpiredCredits,
		},
		{
			name:    "expired_record",
			release: true,
			list:    hostnames.ListExpired,
			matches: recordExpired,
			report:  &report.ExpiredRecords,
		},
		{
			name:    "inactive_user",
			release: true,
			list: func(ctx context.Context, _ time.Time) ([]domain.Hostname, error) {
				return hostnames.ListOfInactiveUsers(ctx)
			},
			matches: s.ownerInactive,
			report:  &report.InactiveUsers,
		},
	}

	for i, cat := range categories {
		if err := s.sweepCategory(ctx, cat, now, seen); err != nil {
			errs = append(errs, err)
		}

		// Credits whose hostnames are now gone can be expired and freed.
		if i == 0 {
			n, err := s.Ledger.ExpireStale(ctx)
			if err != nil {
				s.Logger.Error("failed to expire stale credits", slog.Any("error", err))
				errs = append(errs, fmt.Errorf("expire stale credits: %w", err))
			}
			report.CreditsExpired = n
		}
	}

	report.FinishedAt = s.Clock.now()
	s.Logger.Info("sweep completed",
		slog.Int("expired_credit_torn_down", report.ExpiredCredits.TornDown),
		slog.Int("expired_record_torn_down", report.ExpiredRecords.TornDown),
		slog.Int("inactive_user_torn_down", report.InactiveUsers.TornDown),
		slog.Int64("credits_expired", report.CreditsExpired),
	)
	return report, errors.Join(errs...)
}

func (s *SweepService) sweepCategory(ctx context.Context, cat sweepCategory, now time.Time, seen map[string]struct{}) error {
	log := s.Logger.With(slog.String("category", cat.name))

	candidates, err := cat.list(ctx, now)
	if err != nil {
		log.Error("sweep query failed", slog.Any("error", err))
		return fmt.Errorf("sweep %s: %w", cat.name, err)
	}
	cat.report.Found = len(candidates)

	for _, c := range candidates {
		if _, ok := seen[c.ID]; ok {
			cat.report.Skipped++
			continue
		}
		seen[c.ID] = struct{}{}

		// Re-read: a user may have deleted or renewed it since the query.
		h, err := s.Store.Hostnames().GetHostname(ctx, c.ID)
		if errors.Is(err, store.ErrNotFound) {
			cat.report.Skipped++
			continue
		}
		if err != nil {
			log.Error("failed to reload hostname", slog.String("hostname_id", c.ID), slog.Any("error", err))
			cat.report.Failed++
			continue
		}
		ok, err := cat.matches(ctx, h, now)
		if err != nil {
			log.Error("failed to recheck hostname", slog.String("hostname_id", h.ID), slog.Any("error", err))
			cat.report.Failed++
			continue
		}
		if !ok {
			cat.report.Skipped++
			continue
		}

		res, err := s.Provisioning.Teardown(ctx, h, cat.release)
		if errors.Is(err, domain.ErrNotFound) {
			cat.report.Skipped++
			continue
		}
		if err != nil {
			log.Error("teardown failed", slog.String("hostname_id", h.ID), slog.Any("error", err))
			cat.report.Failed++
			continue
		}
		if res.Err() != nil {
			cat.report.RemoteFailures++
		}
		cat.report.TornDown++
	}
	return nil
}

func (s *SweepService) creditExpired(ctx context.Context, h domain.Hostname, now time.Time) (bool, error) {
	if !h.IsBound() {
		return false, nil
	}
	c, err := s.Store.Credits().GetCredit(ctx, h.CreditID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !c.ExpiresAt.After(now), nil
}

func recordExpired(_ context.Context, h domain.Hostname, now time.Time) (bool, error) {
	return !h.ExpiresAt.After(now), nil
}

func (s *SweepService) ownerInactive(ctx context.Context, h domain.Hostname, _ time.Time) (bool, error) {
	u, err := s.Store.Users().GetUser(ctx, h.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !u.IsActive(), nil
}
