package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/cryptox"
	"github.com/aussiebroadwan/hostpool/pkg/idx"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

const (
	DefaultCardTTL = 30 * 24 * time.Hour

	// codeAttempts bounds retries on the (astronomically rare) code collision.
	codeAttempts = 3
)

type GenerateCardsRequest struct {
	Kind         domain.CardKind `json:"kind" validate:"required,oneof=create renew"`
	Units        int             `json:"units" validate:"omitempty,min=1,max=1000"`
	ValidityDays int             `json:"validity_days" validate:"required,min=1,max=3650"`
	Count        int             `json:"count" validate:"required,min=1,max=100"`

	// ExpiresAt overrides the default card lifetime.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CardService is the admin side of cards: minting, listing and deleting.
type CardService struct {
	Store store.Store
	Clock Clock
	TTL   time.Duration
}

// Generate mints Count cards in one transaction and returns them with codes.
func (s *CardService) Generate(ctx context.Context, req GenerateCardsRequest) ([]domain.Card, error) {
	log := slogx.FromContext(ctx)

	if req.Units == 0 {
		req.Units = 1
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := s.Clock.now()
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultCardTTL
	}
	expiresAt := now.Add(ttl)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return nil, domain.Invalid("expires_at", "must be in the future")
		}
		expiresAt = req.ExpiresAt.UTC()
	}

	cards := make([]domain.Card, 0, req.Count)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for range req.Count {
			card, err := s.mint(ctx, tx, req, expiresAt, now)
			if err != nil {
				return err
			}
			cards = append(cards, card)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to generate cards", slog.Any("error", err))
		return nil, err
	}

	log.Info("cards generated",
		slog.String("kind", string(req.Kind)),
		slog.Int("count", req.Count),
		slog.Int("units", req.Units),
		slog.Int("validity_days", req.ValidityDays),
	)
	return cards, nil
}

func (s *CardService) mint(ctx context.Context, tx store.Store, req GenerateCardsRequest, expiresAt, now time.Time) (domain.Card, error) {
	for range codeAttempts {
		code, err := cryptox.GenerateCardCode()
		if err != nil {
			return domain.Card{}, err
		}
		card := domain.Card{
			ID:           idx.New().String(),
			Code:         code,
			Kind:         req.Kind,
			Units:        req.Units,
			ValidityDays: req.ValidityDays,
			Status:       domain.CardUnused,
			ExpiresAt:    expiresAt,
			CreatedAt:    now,
		}
		err = tx.Cards().CreateCard(ctx, card)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		return card, err
	}
	return domain.Card{}, errors.New("could not generate a unique card code")
}

func (s *CardService) List(ctx context.Context) ([]domain.Card, error) {
	return s.Store.Cards().ListCards(ctx)
}

func (s *CardService) Delete(ctx context.Context, id string) error {
	err := s.Store.Cards().DeleteCard(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound("card", id)
	}
	return err
}
