package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

// UserService mirrors token identities locally. Only status is owned here.
type UserService struct {
	Store store.Store
	Clock Clock
}

// Ensure records the token subject, refreshing its username, and returns the
// stored user including its status.
func (s *UserService) Ensure(ctx context.Context, id, username string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.Invalid("sub", "is required")
	}
	if username == "" {
		username = id
	}
	now := s.Clock.now()
	return s.Store.Users().UpsertUser(ctx, domain.User{
		ID:        id,
		Username:  username,
		Status:    domain.UserActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.NotFound("user", id)
	}
	return u, err
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// SetStatus enables or disables a user. Hostnames of disabled users are
// removed by the next sweep.
func (s *UserService) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	if status != domain.UserActive && status != domain.UserDisabled {
		return domain.Invalid("status", "must be one of: active disabled")
	}
	err := s.Store.Users().UpdateUserStatus(ctx, id, status, s.Clock.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound("user", id)
	}
	if err == nil {
		slogx.FromContext(ctx).Info("user status changed",
			slog.String("user_id", id),
			slog.String("status", string(status)),
		)
	}
	return err
}
