package service

import (
	"testing"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateDomain(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	d, err := env.domains.Create(env.ctx, CreateDomainRequest{
		Name: " Pool.Example.COM. ", ProviderEmail: "ops@example.com", ProviderKey: "cf-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "pool.example.com", d.Name)
	require.Equal(t, domain.DefaultMaxHostnames, d.MaxHostnames)
	require.Equal(t, domain.DomainActive, d.Status)
	require.NotContains(t, string(d.ProviderKeyEncrypted), "cf-secret")

	key, err := env.secrets.Open(d.ProviderKeyEncrypted)
	require.NoError(t, err)
	require.Equal(t, "cf-secret", string(key))

	_, err = env.domains.Create(env.ctx, CreateDomainRequest{
		Name: "pool.example.com", ProviderEmail: "ops@example.com", ProviderKey: "other",
	})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, domain.ConflictDomainExists, conflict.Code)
}

func TestCreateDomainValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		req   CreateDomainRequest
		field string
	}{
		{"bad name", CreateDomainRequest{Name: "not a domain", ProviderEmail: "ops@example.com", ProviderKey: "k"}, "name"},
		{"bad email", CreateDomainRequest{Name: "pool.example.com", ProviderEmail: "ops", ProviderKey: "k"}, "provider_email"},
		{"no key", CreateDomainRequest{Name: "pool.example.com", ProviderEmail: "ops@example.com"}, "provider_key"},
		{"over ceiling", CreateDomainRequest{Name: "pool.example.com", ProviderEmail: "ops@example.com", ProviderKey: "k", MaxHostnames: domain.MaxHostnamesCeiling + 1}, "max_hostnames"},
	}

	env := newTestEnv(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.domains.Create(env.ctx, tc.req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestDomainStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	a := env.pooledDomain(t, "a.example.com", 10)
	b := env.pooledDomain(t, "b.example.com", 10)

	require.NoError(t, env.domains.SetStatus(env.ctx, a.ID, domain.DomainInactive))
	require.ErrorIs(t, env.domains.SetStatus(env.ctx, a.ID, "paused"), domain.ErrValidation)
	require.ErrorIs(t, env.domains.SetStatus(env.ctx, "missing", domain.DomainActive), domain.ErrNotFound)

	active, err := env.domains.ListActive(env.ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, b.ID, active[0].ID)

	all, err := env.domains.List(env.ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDomainUsage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := env.user(t, "alice")
	pd := env.pooledDomain(t, "pool.example.com", 3)
	env.grant(t, u.ID, 2, day)
	env.provision(t, u.ID, pd.ID, "a.customer.test")
	env.provision(t, u.ID, pd.ID, "b.customer.test")

	all, err := env.domains.List(env.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 2, all[0].Hostnames)
	require.Equal(t, 1, all[0].Free())
}

func TestDeleteDomain(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := env.user(t, "alice")
	pd := env.pooledDomain(t, "pool.example.com", 10)
	env.grant(t, u.ID, 2, day)
	env.provision(t, u.ID, pd.ID, "a.customer.test")
	env.provision(t, u.ID, pd.ID, "b.customer.test")

	removed, err := env.domains.Delete(env.ctx, pd.ID)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	dns, custom := env.provider.Counts()
	require.Zero(t, dns)
	require.Zero(t, custom)
	require.Equal(t, domain.CreditStats{Total: 2, Available: 2}, env.stats(t, u.ID))

	all, err := env.domains.List(env.ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = env.domains.Delete(env.ctx, pd.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
