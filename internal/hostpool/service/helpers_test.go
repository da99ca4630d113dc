package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider/providertest"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store/drivers/sqlite"
	"github.com/aussiebroadwan/hostpool/pkg/cryptox"
	"github.com/aussiebroadwan/hostpool/pkg/idx"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type testEnv struct {
	ctx      context.Context
	store    store.Store
	provider *providertest.Fake
	clock    *testClock
	secrets  *cryptox.SecretBox

	ledger       *LedgerService
	redemption   *RedemptionService
	provisioning *ProvisioningService
	removal      *RemovalService
	sweep        *SweepService
	cards        *CardService
	domains      *DomainService
	users        *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, ":memory:")
}

// newFileTestEnv backs the services with an on-disk database so concurrent
// callers contend for the real write lock.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, "file:"+filepath.Join(t.TempDir(), "hostpool.db"))
}

func newTestEnvAt(t *testing.T, dsn string) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secrets, err := cryptox.NewSecretBox([]byte("service-test-master-key"))
	require.NoError(t, err)

	clk := &testClock{now: epoch}
	fake := providertest.New()

	env := &testEnv{
		ctx:      context.Background(),
		store:    st,
		provider: fake,
		clock:    clk,
		secrets:  secrets,
	}
	env.ledger = &LedgerService{Store: st, Clock: clk.Now}
	env.redemption = &RedemptionService{Store: st, Ledger: env.ledger, Clock: clk.Now}
	env.provisioning = &ProvisioningService{
		Store: st, Provider: fake, Secrets: secrets, Ledger: env.ledger, Clock: clk.Now,
	}
	env.removal = &RemovalService{Store: st, Provisioning: env.provisioning, Clock: clk.Now}
	env.sweep = NewSweepService(st, env.provisioning, env.ledger, discardLogger(), time.Hour)
	env.sweep.Clock = clk.Now
	env.cards = &CardService{Store: st, Clock: clk.Now}
	env.domains = &DomainService{Store: st, Secrets: secrets, Provisioning: env.provisioning, Clock: clk.Now}
	env.users = &UserService{Store: st, Clock: clk.Now}
	return env
}

func (e *testEnv) user(t *testing.T, name string) domain.User {
	t.Helper()
	u, err := e.users.Ensure(e.ctx, idx.New().String(), name)
	require.NoError(t, err)
	return u
}

func (e *testEnv) pooledDomain(t *testing.T, name string, limit int) domain.PooledDomain {
	t.Helper()
	d, err := e.domains.Create(e.ctx, CreateDomainRequest{
		Name: name, ProviderEmail: "ops@" + name, ProviderKey: "key-" + name, MaxHostnames: limit,
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) grant(t *testing.T, owner string, units int, validity time.Duration) []domain.Credit {
	t.Helper()
	credits, err := e.ledger.Grant(e.ctx, owner, units, validity)
	require.NoError(t, err)
	return credits
}

func (e *testEnv) provision(t *testing.T, owner, domainID, host string) domain.Hostname {
	t.Helper()
	h, err := e.provisioning.Provision(e.ctx, owner, ProvisionRequest{
		DomainID: domainID, Hostname: host, TargetAddress: "192.0.2.10",
	})
	require.NoError(t, err)
	return h
}

func (e *testEnv) credit(t *testing.T, id string) domain.Credit {
	t.Helper()
	c, err := e.store.Credits().GetCredit(e.ctx, id)
	require.NoError(t, err)
	return c
}

func (e *testEnv) stats(t *testing.T, owner string) domain.CreditStats {
	t.Helper()
	st, err := e.ledger.Stats(e.ctx, owner)
	require.NoError(t, err)
	return st
}

// requireConsistent checks that used credits and bindings agree for owner.
func (e *testEnv) requireConsistent(t *testing.T, owner string) {
	t.Helper()

	credits, err := e.store.Credits().ListCreditsByUser(e.ctx, owner)
	require.NoError(t, err)
	for _, c := range credits {
		bound, err := e.store.Hostnames().ListHostnamesByCredit(e.ctx, c.ID)
		require.NoError(t, err)
		require.LessOrEqual(t, len(bound), 1, "credit %s bound more than once", c.ID)
		require.Equal(t, c.Used, len(bound) == 1, "credit %s used=%v with %d bindings", c.ID, c.Used, len(bound))
		for _, h := range bound {
			require.Equal(t, c.UserID, h.UserID)
			require.True(t, h.ExpiresAt.Equal(c.ExpiresAt), "hostname expiry must mirror credit")
		}
	}
}
