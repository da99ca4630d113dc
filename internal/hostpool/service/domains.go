package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/idx"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

type CreateDomainRequest struct {
	Name          string `json:"name" validate:"required,fqdn"`
	ProviderEmail string `json:"provider_email" validate:"required,email"`
	ProviderKey   string `json:"provider_key" validate:"required"`
	MaxHostnames  int    `json:"max_hostnames" validate:"omitempty,min=1,max=10000"`
}

// DomainService manages the pool of shared domains.
type DomainService struct {
	Store        store.Store
	Secrets      Secrets
	Provisioning *ProvisioningService
	Clock        Clock
}

// Create registers a pooled domain. The provider key is sealed before it is
// stored.
func (s *DomainService) Create(ctx context.Context, req CreateDomainRequest) (domain.PooledDomain, error) {
	log := slogx.FromContext(ctx)

	req.Name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(req.Name)), ".")
	req.ProviderEmail = strings.TrimSpace(req.ProviderEmail)
	if req.MaxHostnames == 0 {
		req.MaxHostnames = domain.DefaultMaxHostnames
	}
	if err := validateStruct(req); err != nil {
		return domain.PooledDomain{}, err
	}

	sealed, err := s.Secrets.Seal([]byte(req.ProviderKey))
	if err != nil {
		return domain.PooledDomain{}, fmt.Errorf("seal provider key: %w", err)
	}

	now := s.Clock.now()
	d := domain.PooledDomain{
		ID:                   idx.New().String(),
		Name:                 req.Name,
		ProviderEmail:        req.ProviderEmail,
		ProviderKeyEncrypted: sealed,
		MaxHostnames:         req.MaxHostnames,
		Status:               domain.DomainActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.Store.Domains().CreateDomain(ctx, d); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.PooledDomain{}, domain.Conflict(domain.ConflictDomainExists, "domain %s already exists", d.Name)
		}
		return domain.PooledDomain{}, err
	}

	log.Info("pooled domain created", slog.String("domain_id", d.ID), slog.String("name", d.Name))
	return d, nil
}

// List returns every domain with its usage, for admins.
func (s *DomainService) List(ctx context.Context) ([]domain.DomainUsage, error) {
	return s.Store.Domains().ListDomains(ctx)
}

// ListActive returns the domains users can provision under.
func (s *DomainService) ListActive(ctx context.Context) ([]domain.DomainUsage, error) {
	return s.Store.Domains().ListActiveDomains(ctx)
}

func (s *DomainService) SetStatus(ctx context.Context, id string, status domain.DomainStatus) error {
	if status != domain.DomainActive && status != domain.DomainInactive {
		return domain.Invalid("status", "must be one of: active inactive")
	}
	err := s.Store.Domains().UpdateDomainStatus(ctx, id, status, s.Clock.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound("domain", id)
	}
	if err == nil {
		slogx.FromContext(ctx).Info("pooled domain status changed",
			slog.String("domain_id", id),
			slog.String("status", string(status)),
		)
	}
	return err
}

// Delete tears down every hostname under the domain, returning their credits,
// then removes the domain.
func (s *DomainService) Delete(ctx context.Context, id string) (int, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Domains().GetDomain(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, domain.NotFound("domain", id)
		}
		return 0, err
	}

	hostnames, err := s.Store.Hostnames().ListHostnamesByDomain(ctx, id)
	if err != nil {
		return 0, err
	}

	var removed int
	for _, h := range hostnames {
		_, err := s.Provisioning.Teardown(ctx, h, true)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return removed, fmt.Errorf("tear down %s: %w", h.Hostname, err)
		}
		removed++
	}

	if err := s.Store.Domains().DeleteDomain(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return removed, domain.NotFound("domain", id)
		}
		return removed, err
	}

	log.Info("pooled domain deleted", slog.String("domain_id", id), slog.Int("hostnames_removed", removed))
	return removed, nil
}
