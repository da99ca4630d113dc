package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

// Migration records a hostname moved from a removed credit to a free one.
type Migration struct {
	HostnameID string `json:"hostname_id"`
	FromCredit string `json:"from_credit"`
	ToCredit   string `json:"to_credit"`
}

type RemovalResult struct {
	Migrated []Migration      `json:"migrated"`
	Deleted  []domain.Hostname `json:"-"`
}

// RemovalService deletes credits administratively without stranding the
// hostnames bound to them.
type RemovalService struct {
	Store        store.Store
	Provisioning *ProvisioningService
	Clock        Clock
}

// RemoveCredit deletes a credit. Each hostname bound to it is moved to the
// owner's earliest-expiring free credit when one exists, otherwise deleted.
// Remote resources of deleted hostnames are removed after commit.
func (s *RemovalService) RemoveCredit(ctx context.Context, creditID string) (RemovalResult, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.now()

	var res RemovalResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. The credit must exist
		credit, err := tx.Credits().GetCredit(ctx, creditID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NotFound("credit", creditID)
			}
			return err
		}

		// 2. Migrate or delete every bound hostname
		bound, err := tx.Hostnames().ListHostnamesByCredit(ctx, credit.ID)
		if err != nil {
			return err
		}
		for _, h := range bound {
			free, err := tx.Credits().FirstAllocatable(ctx, credit.UserID, now, credit.ID)
			switch {
			case err == nil:
				if err := tx.Credits().SetCreditUsed(ctx, free.ID, true, now); err != nil {
					return err
				}
				if err := tx.Hostnames().BindCredit(ctx, h.ID, free.ID, free.ExpiresAt, now); err != nil {
					return err
				}
				res.Migrated = append(res.Migrated, Migration{HostnameID: h.ID, FromCredit: credit.ID, ToCredit: free.ID})
			case errors.Is(err, store.ErrNotFound):
				if err := tx.Hostnames().DeleteHostname(ctx, h.ID); err != nil {
					return err
				}
				res.Deleted = append(res.Deleted, h)
			default:
				return err
			}
		}

		// 3. Drop the credit itself
		return tx.Credits().DeleteCredit(ctx, credit.ID)
	})
	if err != nil {
		return RemovalResult{}, err
	}

	// 4. Remote cleanup for the hostnames that had nowhere to go
	for _, h := range res.Deleted {
		if rr := s.Provisioning.deleteRemote(ctx, h); rr.Err() != nil {
			log.Error("remote cleanup failed after credit removal",
				slog.String("hostname_id", h.ID),
				slog.String("credit_id", creditID),
				slog.Any("error", rr.Err()),
			)
		}
	}

	log.Info("credit removed",
		slog.String("credit_id", creditID),
		slog.Int("migrated", len(res.Migrated)),
		slog.Int("deleted", len(res.Deleted)),
	)
	return res, nil
}
