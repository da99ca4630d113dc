package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

// RedeemResult describes what a card turned into.
type RedeemResult struct {
	Kind domain.CardKind `json:"kind"`

	// Credits is set for create cards.
	Credits []domain.Credit `json:"-"`

	// ExpiresAt is the shared expiry of new credits (create) or unset (renew).
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	// Extended is the number of credits a renew card pushed out.
	Extended int `json:"extended,omitempty"`
}

type RedemptionService struct {
	Store  store.Store
	Ledger *LedgerService
	Clock  Clock
}

// Redeem consumes a card on behalf of owner. A create card grants credits, a
// renew card extends the owner's active credits by the card validity.
//
// The card flip and the ledger change share one transaction; a renew card
// with nothing to extend leaves the card unused.
func (s *RedemptionService) Redeem(ctx context.Context, code, owner string) (RedeemResult, error) {
	card, err := s.lookup(ctx, code)
	if err != nil {
		return RedeemResult{}, err
	}
	return s.redeem(ctx, card, owner)
}

// RedeemForRenewal redeems a renew card from a specific hostname's page. The
// hostname must belong to owner.
func (s *RedemptionService) RedeemForRenewal(ctx context.Context, code, hostnameID, owner string) (RedeemResult, error) {
	log := slogx.FromContext(ctx)

	// 1. The hostname must exist and be the caller's
	h, err := s.Store.Hostnames().GetHostname(ctx, hostnameID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return RedeemResult{}, err
	}
	if err != nil || h.UserID != owner {
		log.Warn("renewal attempted for foreign or missing hostname",
			slog.String("hostname_id", hostnameID),
			slog.String("user_id", owner),
		)
		return RedeemResult{}, domain.NotFound("hostname", hostnameID)
	}

	// 2. Status and expiry come before the kind, so a spent create card
	// reports that it is spent
	card, err := s.lookup(ctx, code)
	if err != nil {
		return RedeemResult{}, err
	}
	if err := s.checkRedeemable(ctx, card); err != nil {
		return RedeemResult{}, err
	}

	// 3. Only renew cards are accepted here
	if card.Kind != domain.CardRenew {
		return RedeemResult{}, &domain.ValidationError{
			Field:   "code",
			Code:    "invalid_card_type",
			Message: "only renew cards can be used to renew a hostname",
		}
	}

	return s.redeem(ctx, card, owner)
}

func (s *RedemptionService) lookup(ctx context.Context, code string) (domain.Card, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Card{}, domain.Invalid("code", "is required")
	}

	card, err := s.Store.Cards().GetCardByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("redemption attempted with unknown card code")
		return domain.Card{}, domain.NotFound("card", "")
	}
	return card, err
}

func (s *RedemptionService) redeem(ctx context.Context, card domain.Card, owner string) (RedeemResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Reject used or expired cards
	if err := s.checkRedeemable(ctx, card); err != nil {
		return RedeemResult{}, err
	}

	// 2. Flip the card and apply it atomically
	now := s.Clock.now()
	res := RedeemResult{Kind: card.Kind}
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Cards().MarkCardUsed(ctx, card.ID, owner, now); err != nil {
			if errors.Is(err, store.ErrConflict) {
				used := now
				card.UsedAt = &used
				return cardUsedError(card)
			}
			return err
		}

		switch card.Kind {
		case domain.CardCreate:
			credits, err := s.Ledger.grant(ctx, tx, owner, card.Units, card.Validity(), now)
			if err != nil {
				return err
			}
			res.Credits = credits
			res.ExpiresAt = now.Add(card.Validity())
		case domain.CardRenew:
			n, err := s.Ledger.extend(ctx, tx, owner, card.Validity(), now)
			if err != nil {
				return err
			}
			res.Extended = n
		default:
			return domain.Invalid("code", "card has an unknown kind")
		}
		return nil
	})
	if err != nil {
		return RedeemResult{}, err
	}

	log.Info("card redeemed",
		slog.String("card_id", card.ID),
		slog.String("kind", string(card.Kind)),
		slog.String("user_id", owner),
	)
	return res, nil
}

// checkRedeemable rejects used cards, naming when and by whom, then expired
// ones.
func (s *RedemptionService) checkRedeemable(ctx context.Context, card domain.Card) error {
	if card.Status == domain.CardUsed {
		slogx.FromContext(ctx).Warn("redemption attempted with used card",
			slog.String("card_id", card.ID),
			slog.String("used_by", card.UsedBy),
		)
		return cardUsedError(card)
	}
	if !s.Clock.now().Before(card.ExpiresAt) {
		return &domain.ExpiredError{Entity: "card", ExpiredAt: card.ExpiresAt}
	}
	return nil
}

func cardUsedError(card domain.Card) error {
	if card.UsedAt == nil {
		return domain.Conflict(domain.ConflictCardUsed, "card has already been used")
	}
	if card.UsedBy == "" {
		return domain.Conflict(domain.ConflictCardUsed, "card was already used at %s",
			card.UsedAt.UTC().Format(time.RFC3339))
	}
	return domain.Conflict(domain.ConflictCardUsed, "card was already used at %s by %s",
		card.UsedAt.UTC().Format(time.RFC3339), card.UsedBy)
}
