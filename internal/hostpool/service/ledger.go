package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/idx"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

// ErrNothingToExtend is returned by Extend when the owner holds no active,
// unexpired credit.
var ErrNothingToExtend error = &domain.NotFoundError{Entity: "active credit"}

// LedgerService owns the permission credits. Exported methods run in their
// own transaction; the lower case variants take a tx so other workflows can
// compose them atomically.
type LedgerService struct {
	Store store.Store
	Clock Clock
}

// Grant creates units independent one-unit credits expiring after validity.
func (s *LedgerService) Grant(ctx context.Context, owner string, units int, validity time.Duration) ([]domain.Credit, error) {
	var credits []domain.Credit
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		credits, err = s.grant(ctx, tx, owner, units, validity, s.Clock.now())
		return err
	})
	return credits, err
}

func (s *LedgerService) grant(ctx context.Context, tx store.Store, owner string, units int, validity time.Duration, now time.Time) ([]domain.Credit, error) {
	log := slogx.FromContext(ctx)

	if units < 1 {
		return nil, domain.Invalid("units", "must be at least 1")
	}
	if validity <= 0 {
		return nil, domain.Invalid("validity_days", "must be at least 1")
	}
	if _, err := tx.Users().GetUser(ctx, owner); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.NotFound("user", owner)
		}
		return nil, err
	}

	expiresAt := now.Add(validity)
	credits := make([]domain.Credit, 0, units)
	for range units {
		c := domain.Credit{
			ID:        idx.New().String(),
			UserID:    owner,
			ExpiresAt: expiresAt,
			Status:    domain.CreditActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Credits().CreateCredit(ctx, c); err != nil {
			log.Error("failed to create credit", slog.String("user_id", owner), slog.Any("error", err))
			return nil, err
		}
		credits = append(credits, c)
	}

	log.Info("credits granted",
		slog.String("user_id", owner),
		slog.Int("units", units),
		slog.Time("expires_at", expiresAt),
	)
	return credits, nil
}

// Allocate binds the owner's earliest-expiring free credit and returns it.
func (s *LedgerService) Allocate(ctx context.Context, owner string) (domain.Credit, error) {
	var c domain.Credit
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		c, err = s.allocate(ctx, tx, owner, s.Clock.now())
		return err
	})
	return c, err
}

// allocateAttempts bounds how often allocate moves on to the next free credit
// after losing one to a concurrent allocation.
const allocateAttempts = 5

func (s *LedgerService) allocate(ctx context.Context, tx store.Store, owner string, now time.Time) (domain.Credit, error) {
	var lost string
	for range allocateAttempts {
		c, err := tx.Credits().FirstAllocatable(ctx, owner, now, lost)
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credit{}, s.exhausted(ctx, tx, owner, now)
		}
		if err != nil {
			return domain.Credit{}, err
		}

		// Conditional flip: a concurrent allocation of the same row loses here.
		err = tx.Credits().SetCreditUsed(ctx, c.ID, true, now)
		if errors.Is(err, store.ErrConflict) {
			slogx.FromContext(ctx).Debug("credit taken concurrently, trying the next one",
				slog.String("credit_id", c.ID),
				slog.String("user_id", owner),
			)
			lost = c.ID
			continue
		}
		if err != nil {
			return domain.Credit{}, err
		}

		c.Used = true
		c.UpdatedAt = now
		return c, nil
	}
	return domain.Credit{}, domain.Conflict(domain.ConflictCreditInUse, "credits of %s kept being allocated concurrently", owner)
}

// CheckCapacity returns nil when the owner could allocate a credit right now,
// otherwise the CapacityExhaustedError explaining why not. Nothing is mutated.
func (s *LedgerService) CheckCapacity(ctx context.Context, owner string) error {
	now := s.Clock.now()
	_, err := s.Store.Credits().FirstAllocatable(ctx, owner, now, "")
	if errors.Is(err, store.ErrNotFound) {
		return s.exhausted(ctx, s.Store, owner, now)
	}
	return err
}

func (s *LedgerService) exhausted(ctx context.Context, q store.Store, owner string, now time.Time) error {
	credits, err := q.Credits().ListCreditsByUser(ctx, owner)
	if err != nil {
		return err
	}
	return &domain.CapacityExhaustedError{Reason: capacityReason(credits, now)}
}

// capacityReason partitions an owner's credits for the "why can't I" message.
func capacityReason(credits []domain.Credit, now time.Time) domain.CapacityReason {
	if len(credits) == 0 {
		return domain.CapacityNoCredits
	}
	for _, c := range credits {
		if c.Status == domain.CreditActive && c.ExpiresAt.After(now) {
			return domain.CapacityAllInUse
		}
	}
	return domain.CapacityAllExpired
}

// Release frees a credit. Missing or already free credits are not an error.
func (s *LedgerService) Release(ctx context.Context, creditID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return s.release(ctx, tx, creditID, s.Clock.now())
	})
}

func (s *LedgerService) release(ctx context.Context, tx store.Store, creditID string, now time.Time) error {
	log := slogx.FromContext(ctx)

	c, err := tx.Credits().GetCredit(ctx, creditID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("release of unknown credit ignored", slog.String("credit_id", creditID))
		return nil
	}
	if err != nil {
		return err
	}
	if !c.Used {
		log.Debug("credit already free", slog.String("credit_id", creditID))
		return nil
	}

	if err := tx.Credits().SetCreditUsed(ctx, creditID, false, now); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	log.Debug("credit released", slog.String("credit_id", creditID))
	return nil
}

// Extend pushes the expiry of every active, unexpired credit of owner by d,
// used or not, and mirrors the new expiry onto bound hostnames.
func (s *LedgerService) Extend(ctx context.Context, owner string, d time.Duration) (int, error) {
	var n int
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		n, err = s.extend(ctx, tx, owner, d, s.Clock.now())
		return err
	})
	return n, err
}

func (s *LedgerService) extend(ctx context.Context, tx store.Store, owner string, d time.Duration, now time.Time) (int, error) {
	log := slogx.FromContext(ctx)

	if d <= 0 {
		return 0, domain.Invalid("validity_days", "must be at least 1")
	}

	credits, err := tx.Credits().ListCreditsByUser(ctx, owner)
	if err != nil {
		return 0, err
	}

	var n int
	for _, c := range credits {
		// Expiry is terminal: an expired credit cannot be revived by renewal.
		if c.Status != domain.CreditActive || !c.ExpiresAt.After(now) {
			continue
		}
		expiresAt := c.ExpiresAt.Add(d)
		if err := tx.Credits().UpdateCreditExpiry(ctx, c.ID, expiresAt, now); err != nil {
			return 0, err
		}
		if err := tx.Hostnames().SyncExpiryForCredit(ctx, c.ID, expiresAt, now); err != nil {
			return 0, err
		}
		n++
	}

	if n == 0 {
		return 0, ErrNothingToExtend
	}

	log.Info("credits extended",
		slog.String("user_id", owner),
		slog.Int("count", n),
		slog.Duration("by", d),
	)
	return n, nil
}

// ExpireStale marks every active credit past its expiry as expired.
func (s *LedgerService) ExpireStale(ctx context.Context) (int64, error) {
	return s.Store.Credits().ExpireStale(ctx, s.Clock.now())
}

// Credits lists every credit of the owner, earliest expiry first.
func (s *LedgerService) Credits(ctx context.Context, owner string) ([]domain.Credit, error) {
	return s.Store.Credits().ListCreditsByUser(ctx, owner)
}

// Stats counts the owner's active, unexpired credits.
func (s *LedgerService) Stats(ctx context.Context, owner string) (domain.CreditStats, error) {
	credits, err := s.Credits(ctx, owner)
	if err != nil {
		return domain.CreditStats{}, err
	}
	return creditStats(credits, s.Clock.now()), nil
}

func creditStats(credits []domain.Credit, now time.Time) domain.CreditStats {
	var st domain.CreditStats
	for _, c := range credits {
		if c.Status != domain.CreditActive || !c.ExpiresAt.After(now) {
			continue
		}
		st.Total++
		if c.Used {
			st.Used++
		}
	}
	st.Available = st.Total - st.Used
	return st
}
