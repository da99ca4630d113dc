package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store/drivers/sqlite"
	"github.com/aussiebroadwan/hostpool/pkg/idx"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, status domain.UserStatus) domain.User {
	t.Helper()

	u, err := s.Users().UpsertUser(context.Background(), domain.User{
		ID: idx.New().String(), Username: "user-" + idx.New().String()[20:],
		Status: status, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return u
}

func seedDomain(t *testing.T, s store.Store, name string) domain.PooledDomain {
	t.Helper()

	d := domain.PooledDomain{
		ID: idx.New().String(), Name: name, ProviderEmail: "ops@" + name,
		ProviderKeyEncrypted: []byte{1, 2, 3}, MaxHostnames: 10,
		Status: domain.DomainActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Domains().CreateDomain(context.Background(), d))
	return d
}

func seedCredit(t *testing.T, s store.Store, userID string, expiresAt time.Time, used bool) domain.Credit {
	t.Helper()

	c := domain.Credit{
		ID: idx.New().String(), UserID: userID, ExpiresAt: expiresAt,
		Status: domain.CreditActive, Used: used, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Credits().CreateCredit(context.Background(), c))
	return c
}

func seedHostname(t *testing.T, s store.Store, userID, domainID, host, prefix, creditID string, expiresAt time.Time) domain.Hostname {
	t.Helper()

	h := domain.Hostname{
		ID: idx.New().String(), UserID: userID, DomainID: domainID,
		Hostname: host, SubdomainPrefix: prefix, Subdomain: prefix + ".pool.test",
		TargetAddress: "192.0.2.10", RecordType: domain.RecordA,
		Status: domain.HostnamePending, ExpiresAt: expiresAt, CreditID: creditID,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Hostnames().CreateHostname(context.Background(), h))
	return h
}

func TestUsersUpsertKeepsStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	u := seedUser(t, s, domain.UserActive)
	require.NoError(t, s.Users().UpdateUserStatus(ctx, u.ID, domain.UserDisabled, now))

	got, err := s.Users().UpsertUser(ctx, domain.User{
		ID: u.ID, Username: "renamed", Status: domain.UserActive,
		CreatedAt: now.Add(time.Hour), UpdatedAt: now.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Username)
	require.Equal(t, domain.UserDisabled, got.Status)
	require.True(t, got.CreatedAt.Equal(now))

	err = s.Users().UpdateUserStatus(ctx, "missing", domain.UserActive, now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDomainsUniqueNameAndUsage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	d := seedDomain(t, s, "pool.test")
	err := s.Domains().CreateDomain(ctx, domain.PooledDomain{
		ID: idx.New().String(), Name: "pool.test", ProviderKeyEncrypted: []byte{9},
		MaxHostnames: 5, Status: domain.DomainActive, CreatedAt: now, UpdatedAt: now,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	inactive := seedDomain(t, s, "other.test")
	require.NoError(t, s.Domains().UpdateDomainStatus(ctx, inactive.ID, domain.DomainInactive, now))

	u := seedUser(t, s, domain.UserActive)
	seedHostname(t, s, u.ID, d.ID, "a.example.com", "abcdef", "", now.Add(time.Hour))

	all, err := s.Domains().ListDomains(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	active, err := s.Domains().ListActiveDomains(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, d.ID, active[0].ID)
	require.Equal(t, 1, active[0].Hostnames)
	require.Equal(t, 9, active[0].Free())
	require.Equal(t, []byte{1, 2, 3}, active[0].ProviderKeyEncrypted)
}

func TestDomainsCountSkipsReleasedFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	d := seedDomain(t, s, "pool.test")
	u := seedUser(t, s, domain.UserActive)
	pending := seedHostname(t, s, u.ID, d.ID, "a.example.com", "aaaaaa", "", now.Add(time.Hour))
	failed := seedHostname(t, s, u.ID, d.ID, "b.example.com", "bbbbbb", "", now.Add(time.Hour))

	status := domain.HostnameError
	require.NoError(t, s.Hostnames().UpdateHostname(ctx, failed.ID, store.HostnameUpdate{Status: &status}, now))

	n, err := s.Domains().CountHostnames(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n, "only %s holds a slot", pending.Hostname)

	usage, err := s.Domains().ListDomains(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, usage[0].Hostnames)
}

func TestCardsMarkUsedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	card := domain.Card{
		ID: idx.New().String(), Code: "abcdef0123456789abcdef0123456789",
		Kind: domain.CardCreate, Units: 2, ValidityDays: 30,
		Status: domain.CardUnused, ExpiresAt: now.Add(24 * time.Hour), CreatedAt: now,
	}
	require.NoError(t, s.Cards().CreateCard(ctx, card))

	got, err := s.Cards().GetCardByCode(ctx, " ABCDEF0123456789abcdef0123456789 ")
	require.NoError(t, err)
	require.Equal(t, card.ID, got.ID)
	require.Nil(t, got.UsedAt)

	require.NoError(t, s.Cards().MarkCardUsed(ctx, card.ID, "user-1", now))
	require.ErrorIs(t, s.Cards().MarkCardUsed(ctx, card.ID, "user-2", now), store.ErrConflict)
	require.ErrorIs(t, s.Cards().MarkCardUsed(ctx, "missing", "user-2", now), store.ErrNotFound)

	got, err = s.Cards().GetCardByCode(ctx, card.Code)
	require.NoError(t, err)
	require.Equal(t, domain.CardUsed, got.Status)
	require.Equal(t, "user-1", got.UsedBy)
	require.NotNil(t, got.UsedAt)
	require.True(t, got.UsedAt.Equal(now))
}

func TestCreditsFirstAllocatable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, domain.UserActive)

	_, err := s.Credits().FirstAllocatable(ctx, u.ID, now, "")
	require.ErrorIs(t, err, store.ErrNotFound)

	seedCredit(t, s, u.ID, now.Add(-time.Hour), false) // expired
	seedCredit(t, s, u.ID, now.Add(2*time.Hour), true) // in use
	later := seedCredit(t, s, u.ID, now.Add(10*time.Hour), false)
	sooner := seedCredit(t, s, u.ID, now.Add(5*time.Hour), false)

	got, err := s.Credits().FirstAllocatable(ctx, u.ID, now, "")
	require.NoError(t, err)
	require.Equal(t, sooner.ID, got.ID)

	got, err = s.Credits().FirstAllocatable(ctx, u.ID, now, sooner.ID)
	require.NoError(t, err)
	require.Equal(t, later.ID, got.ID)

	require.NoError(t, s.Credits().SetCreditUsed(ctx, sooner.ID, true, now))
	require.ErrorIs(t, s.Credits().SetCreditUsed(ctx, sooner.ID, true, now), store.ErrConflict)
	require.NoError(t, s.Credits().SetCreditUsed(ctx, sooner.ID, false, now))
	require.NoError(t, s.Credits().SetCreditUsed(ctx, sooner.ID, false, now))
	require.ErrorIs(t, s.Credits().SetCreditUsed(ctx, "missing", true, now), store.ErrNotFound)
}

func TestCreditsExpireStale(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, domain.UserActive)
	d := seedDomain(t, s, "pool.test")

	bound := seedCredit(t, s, u.ID, now.Add(-time.Hour), true)
	seedHostname(t, s, u.ID, d.ID, "a.example.com", "aaaaaa", bound.ID, bound.ExpiresAt)
	orphan := seedCredit(t, s, u.ID, now.Add(-time.Minute), true)
	fresh := seedCredit(t, s, u.ID, now.Add(time.Hour), false)

	n, err := s.Credits().ExpireStale(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	got, err := s.Credits().GetCredit(ctx, bound.ID)
	require.NoError(t, err)
	require.Equal(t, domain.CreditExpired, got.Status)
	require.True(t, got.Used)

	got, err = s.Credits().GetCredit(ctx, orphan.ID)
	require.NoError(t, err)
	require.Equal(t, domain.CreditExpired, got.Status)
	require.False(t, got.Used)

	got, err = s.Credits().GetCredit(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, domain.CreditActive, got.Status)

	n, err = s.Credits().ExpireStale(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestHostnamesPartialUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, domain.UserActive)
	d := seedDomain(t, s, "pool.test")
	c := seedCredit(t, s, u.ID, now.Add(time.Hour), true)
	h := seedHostname(t, s, u.ID, d.ID, "a.example.com", "qwerty", c.ID, c.ExpiresAt)

	status := domain.HostnameActive
	dnsID := "dns-1"
	err := s.Hostnames().UpdateHostname(ctx, h.ID, store.HostnameUpdate{
		Status:         &status,
		DNSRecordID:    &dnsID,
		CertValidation: &domain.TXTRecord{Name: "_acme", Value: "token"},
	}, now.Add(time.Minute))
	require.NoError(t, err)

	got, err := s.Hostnames().GetHostname(ctx, h.ID)
	require.NoError(t, err)
	require.Equal(t, domain.HostnameActive, got.Status)
	require.Equal(t, "dns-1", got.DNSRecordID)
	require.Empty(t, got.CustomHostnameID)
	require.Equal(t, "_acme", got.CertValidation.Name)
	require.True(t, got.OwnershipValidation.IsZero())
	require.Equal(t, "192.0.2.10", got.TargetAddress)
	require.Equal(t, "pool.test", got.DomainName)
	require.Equal(t, c.ID, got.CreditID)

	require.NoError(t, s.Hostnames().UnbindCredit(ctx, h.ID, now))
	got, err = s.Hostnames().GetHostname(ctx, h.ID)
	require.NoError(t, err)
	require.False(t, got.IsBound())

	err = s.Hostnames().UpdateHostname(ctx, "missing", store.HostnameUpdate{}, now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHostnamesUniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, domain.UserActive)
	d := seedDomain(t, s, "pool.test")
	seedHostname(t, s, u.ID, d.ID, "a.example.com", "prefix", "", now)

	dup := domain.Hostname{
		ID: idx.New().String(), UserID: u.ID, DomainID: d.ID,
		Hostname: "b.example.com", SubdomainPrefix: "prefix", Subdomain: "prefix.pool.test",
		TargetAddress: "192.0.2.1", RecordType: domain.RecordA, Status: domain.HostnamePending,
		ExpiresAt: now, CreatedAt: now, UpdatedAt: now,
	}
	require.ErrorIs(t, s.Hostnames().CreateHostname(ctx, dup), store.ErrAlreadyExists)

	exists, err := s.Hostnames().PrefixExists(ctx, d.ID, "prefix")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Hostnames().HostnameExists(ctx, "b.example.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestHostnamesSweepPredicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	active := seedUser(t, s, domain.UserActive)
	disabled := seedUser(t, s, domain.UserDisabled)
	d := seedDomain(t, s, "pool.test")

	expiredCredit := seedCredit(t, s, active.ID, now.Add(-24*time.Hour), true)
	a := seedHostname(t, s, active.ID, d.ID, "a.example.com", "aaaaaa", expiredCredit.ID, now.Add(time.Hour))
	b := seedHostname(t, s, active.ID, d.ID, "b.example.com", "bbbbbb", "", now.Add(-time.Hour))
	c := seedHostname(t, s, disabled.ID, d.ID, "c.example.com", "cccccc", "", now.Add(time.Hour))

	got, err := s.Hostnames().ListWithExpiredCredit(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, a.ID, got[0].ID)

	got, err = s.Hostnames().ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, b.ID, got[0].ID)

	got, err = s.Hostnames().ListOfInactiveUsers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, c.ID, got[0].ID)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, domain.UserActive)
	c := seedCredit(t, s, u.ID, now.Add(time.Hour), false)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Credits().SetCreditUsed(ctx, c.ID, true, now))
		return store.ErrConflict
	})
	require.ErrorIs(t, err, store.ErrConflict)

	got, err := s.Credits().GetCredit(ctx, c.ID)
	require.NoError(t, err)
	require.False(t, got.Used)
}
