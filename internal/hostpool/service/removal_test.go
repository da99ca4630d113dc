package service

import (
	"testing"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/stretchr/testify/require"
)

func TestRemoveCredit(t *testing.T) {
	t.Parallel()

	t.Run("migrates to a free credit", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		first := env.grant(t, u.ID, 1, 5*day)[0]
		spare := env.grant(t, u.ID, 1, 10*day)[0]
		h := env.provision(t, u.ID, pd.ID, "a.customer.test")
		require.Equal(t, first.ID, h.CreditID)

		res, err := env.removal.RemoveCredit(env.ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, []Migration{{HostnameID: h.ID, FromCredit: first.ID, ToCredit: spare.ID}}, res.Migrated)
		require.Empty(t, res.Deleted)

		got, err := env.provisioning.Get(env.ctx, u.ID, h.ID)
		require.NoError(t, err)
		require.Equal(t, spare.ID, got.CreditID)
		require.True(t, got.ExpiresAt.Equal(spare.ExpiresAt))

		_, err = env.store.Credits().GetCredit(env.ctx, first.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.True(t, env.credit(t, spare.ID).Used)

		dns, custom := env.provider.Counts()
		require.Equal(t, 1, dns)
		require.Equal(t, 1, custom)
		env.requireConsistent(t, u.ID)
	})

	t.Run("deletes when nothing is free", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		only := env.grant(t, u.ID, 1, 5*day)[0]
		h := env.provision(t, u.ID, pd.ID, "a.customer.test")

		res, err := env.removal.RemoveCredit(env.ctx, only.ID)
		require.NoError(t, err)
		require.Empty(t, res.Migrated)
		require.Len(t, res.Deleted, 1)
		require.Equal(t, h.ID, res.Deleted[0].ID)

		_, err = env.provisioning.Get(env.ctx, "", h.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		dns, custom := env.provider.Counts()
		require.Zero(t, dns)
		require.Zero(t, custom)
		require.Equal(t, domain.CreditStats{}, env.stats(t, u.ID))
	})

	t.Run("free credit", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		c := env.grant(t, u.ID, 1, day)[0]

		res, err := env.removal.RemoveCredit(env.ctx, c.ID)
		require.NoError(t, err)
		require.Empty(t, res.Migrated)
		require.Empty(t, res.Deleted)
		require.Equal(t, domain.CreditStats{}, env.stats(t, u.ID))
	})

	t.Run("unknown credit", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		_, err := env.removal.RemoveCredit(env.ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
