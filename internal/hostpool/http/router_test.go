package http_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	hostpoolhttp "github.com/aussiebroadwan/hostpool/internal/hostpool/http"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider/providertest"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store/drivers/sqlite"
	"github.com/aussiebroadwan/hostpool/pkg/cryptox"
	"github.com/aussiebroadwan/hostpool/pkg/idx"
	"github.com/aussiebroadwan/hostpool/pkg/jwtx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://id.test"
	testAudience = "hostpool"
)

type testServer struct {
	srv      *httptest.Server
	provider *providertest.Fake
	signer   *jwtx.EdDSASigner
	admin    *poolsdk.Client
}

func newTestServer(t *testing.T, keys *jwtx.KeySet) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secrets, err := cryptox.NewSecretBox([]byte("router-test-master-key"))
	require.NoError(t, err)

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)
	if keys == nil {
		keys = jwtx.NewKeySet()
		require.NoError(t, keys.AddSigner(signer))
	}
	verifier := jwtx.NewKeySetVerifier(keys, jwtx.VerifyOptions{
		Issuer:   testIssuer,
		Audience: []string{testAudience},
		Leeway:   time.Minute,
	})

	fake := providertest.New()
	logger := discardLogger()

	ledger := &service.LedgerService{Store: st}
	provisioning := &service.ProvisioningService{Store: st, Provider: fake, Secrets: secrets, Ledger: ledger}

	r := hostpoolhttp.NewRouter(keys, verifier, "test", st, logger)
	r.LedgerService = ledger
	r.ProvisioningService = provisioning
	r.RedemptionService = &service.RedemptionService{Store: st, Ledger: ledger}
	r.RemovalService = &service.RemovalService{Store: st, Provisioning: provisioning}
	r.SweepService = service.NewSweepService(st, provisioning, ledger, logger, time.Hour)
	r.CardService = &service.CardService{Store: st}
	r.DomainService = &service.DomainService{Store: st, Secrets: secrets, Provisioning: provisioning}
	r.UserService = &service.UserService{Store: st}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ts := &testServer{srv: srv, provider: fake, signer: signer}
	ts.admin = ts.client(t, "admin-1", "admin", hostpoolhttp.ScopeAdminRead, hostpoolhttp.ScopeAdminWrite)
	return ts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func (s *testServer) token(t *testing.T, sub, username string, scopes ...string) string {
	t.Helper()
	claims := jwtx.NewAccessClaims(sub, username, scopes, jwtx.DefaultAccessTokenTTL,
		testIssuer, []string{testAudience}, time.Now())
	tok, err := s.signer.Sign(claims)
	require.NoError(t, err)
	return tok
}

func (s *testServer) client(t *testing.T, sub, username string, scopes ...string) *poolsdk.Client {
	t.Helper()
	return poolsdk.NewClient(s.srv.URL, s.token(t, sub, username, scopes...))
}

// member returns a client for a fresh user holding both hostname scopes.
func (s *testServer) member(t *testing.T) (*poolsdk.Client, string) {
	t.Helper()
	sub := idx.New().String()
	return s.client(t, sub, "user-"+sub[len(sub)-6:],
		hostpoolhttp.ScopeHostnamesRead, hostpoolhttp.ScopeHostnamesWrite), sub
}

func (s *testServer) pooledDomain(t *testing.T, name string) poolsdk.AdminDomain {
	t.Helper()
	d, err := s.admin.AdminCreateDomain(context.Background(), poolsdk.CreateDomainRequest{
		Name: name, ProviderEmail: "ops@" + name, ProviderKey: "key-" + name,
	})
	require.NoError(t, err)
	return *d
}

func (s *testServer) card(t *testing.T, kind string, units int) poolsdk.Card {
	t.Helper()
	cards, err := s.admin.AdminGenerateCards(context.Background(), poolsdk.GenerateCardsRequest{
		Kind: kind, Units: units, ValidityDays: 30, Count: 1,
	})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	return cards[0]
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, poolsdk.IsStatus(err, status), "want status %d, got %v", status, err)
	require.True(t, poolsdk.IsCode(err, code), "want code %q, got %v", code, err)
}

func TestSystemRoutes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, nil)
		c := poolsdk.NewClient(ts.srv.URL, "")

		live, err := c.GetLiveness(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", live.Status)
		require.Equal(t, "test", live.Version)

		ready, err := c.GetReadiness(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", ready.Checks.Database)
		require.Equal(t, "ok", ready.Checks.Keys)
	})

	t.Run("degraded without keys", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, jwtx.NewKeySet())

		resp, err := http.Get(ts.srv.URL + "/readyz")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("request id echoed", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, nil)

		req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/livez", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "trace-123")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, "trace-123", resp.Header.Get("X-Request-ID"))
	})
}

func TestAuthorization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t, nil)

	t.Run("missing token", func(t *testing.T) {
		_, err := poolsdk.NewClient(ts.srv.URL, "").GetCredits(ctx)
		requireAPIError(t, err, http.StatusUnauthorized, poolsdk.ErrorCodeInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := poolsdk.NewClient(ts.srv.URL, "not.a.jwt").ListHostnames(ctx)
		requireAPIError(t, err, http.StatusUnauthorized, poolsdk.ErrorCodeInvalidToken)
	})

	t.Run("read scope cannot write", func(t *testing.T) {
		c := ts.client(t, "reader", "reader", hostpoolhttp.ScopeHostnamesRead)

		_, err := c.GetCredits(ctx)
		require.NoError(t, err)

		_, err = c.RedeemCard(ctx, "ANYTHING")
		requireAPIError(t, err, http.StatusForbidden, poolsdk.ErrorCodeInsufficientScope)
	})

	t.Run("members cannot reach admin routes", func(t *testing.T) {
		c, _ := ts.member(t)
		_, err := c.AdminListDomains(ctx)
		requireAPIError(t, err, http.StatusForbidden, poolsdk.ErrorCodeInsufficientScope)
	})

	t.Run("admin read cannot write", func(t *testing.T) {
		c := ts.client(t, "auditor", "auditor", hostpoolhttp.ScopeAdminRead)

		_, err := c.AdminListCards(ctx)
		require.NoError(t, err)

		_, err = c.AdminRunSweep(ctx)
		requireAPIError(t, err, http.StatusForbidden, poolsdk.ErrorCodeInsufficientScope)
	})
}

func TestHostnameLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t, nil)

	pd := ts.pooledDomain(t, "pool.example")
	user, _ := ts.member(t)

	redeemed, err := user.RedeemCard(ctx, strings.ToLower(ts.card(t, "create", 2).Code))
	require.NoError(t, err)
	require.Equal(t, "create", redeemed.Kind)
	require.Len(t, redeemed.Credits, 2)

	domains, err := user.ListDomains(ctx)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	require.Equal(t, pd.ID, domains[0].ID)

	h, err := user.CreateHostname(ctx, poolsdk.CreateHostnameRequest{
		DomainID: pd.ID, Hostname: "shop.customer.example", TargetAddress: "192.0.2.10",
	})
	require.NoError(t, err)
	require.Equal(t, "A", h.RecordType)
	require.NotEmpty(t, h.CreditID)
	require.True(t, strings.HasSuffix(h.Subdomain, ".pool.example"))
	require.NotEqual(t, "error", h.Status)

	credits, err := user.GetCredits(ctx)
	require.NoError(t, err)
	require.Equal(t, poolsdk.CreditStats{Total: 2, Used: 1, Available: 1}, credits.Stats)

	t.Run("refresh", func(t *testing.T) {
		res, err := user.RefreshHostname(ctx, h.ID)
		require.NoError(t, err)
		require.Equal(t, h.ID, res.Hostname.ID)
		require.NotEmpty(t, res.SSLStatus)
	})

	t.Run("edit target", func(t *testing.T) {
		updated, err := user.UpdateHostname(ctx, h.ID, "192.0.2.99")
		require.NoError(t, err)
		require.Equal(t, "192.0.2.99", updated.TargetAddress)

		_, err = user.UpdateHostname(ctx, h.ID, "2001:db8::1")
		requireAPIError(t, err, http.StatusBadRequest, poolsdk.ErrorCodeInvalidRequest)
	})

	t.Run("hidden from other users", func(t *testing.T) {
		other, _ := ts.member(t)
		_, err := other.RefreshHostname(ctx, h.ID)
		requireAPIError(t, err, http.StatusNotFound, poolsdk.ErrorCodeNotFound)

		err = other.DeleteHostname(ctx, h.ID)
		requireAPIError(t, err, http.StatusNotFound, poolsdk.ErrorCodeNotFound)
	})

	t.Run("renew", func(t *testing.T) {
		res, err := user.RenewHostname(ctx, h.ID, ts.card(t, "renew", 0).Code)
		require.NoError(t, err)
		require.Equal(t, "renew", res.Kind)
		require.Equal(t, 2, res.Extended)

		_, err = user.RenewHostname(ctx, h.ID, ts.card(t, "create", 1).Code)
		require.Error(t, err)
		require.True(t, poolsdk.IsStatus(err, http.StatusBadRequest))
	})

	t.Run("delete frees the credit", func(t *testing.T) {
		require.NoError(t, user.DeleteHostname(ctx, h.ID))

		list, err := user.ListHostnames(ctx)
		require.NoError(t, err)
		require.Empty(t, list)

		credits, err := user.GetCredits(ctx)
		require.NoError(t, err)
		require.Zero(t, credits.Stats.Used)

		dns, custom := ts.provider.Counts()
		require.Zero(t, dns)
		require.Zero(t, custom)
	})
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t, nil)
	pd := ts.pooledDomain(t, "errors.example")

	t.Run("no credits", func(t *testing.T) {
		user, _ := ts.member(t)
		_, err := user.CreateHostname(ctx, poolsdk.CreateHostnameRequest{
			DomainID: pd.ID, Hostname: "a.customer.example", TargetAddress: "192.0.2.1",
		})
		requireAPIError(t, err, http.StatusUnprocessableEntity, "no_credits")
	})

	t.Run("unknown card", func(t *testing.T) {
		user, _ := ts.member(t)
		_, err := user.RedeemCard(ctx, "NOPE")
		requireAPIError(t, err, http.StatusNotFound, poolsdk.ErrorCodeNotFound)
	})

	t.Run("card used twice", func(t *testing.T) {
		user, _ := ts.member(t)
		code := ts.card(t, "create", 1).Code

		_, err := user.RedeemCard(ctx, code)
		require.NoError(t, err)
		_, err = user.RedeemCard(ctx, code)
		requireAPIError(t, err, http.StatusConflict, "card_already_used")
	})

	t.Run("provider failure", func(t *testing.T) {
		user, _ := ts.member(t)
		_, err := user.RedeemCard(ctx, ts.card(t, "create", 1).Code)
		require.NoError(t, err)

		ts.provider.SetFailures(func(f *providertest.Fake) {
			f.FailCreateDNS = providertest.APIError("create dns record", "zone locked")
		})
		t.Cleanup(func() { ts.provider.SetFailures(func(f *providertest.Fake) { f.FailCreateDNS = nil }) })

		_, err = user.CreateHostname(ctx, poolsdk.CreateHostnameRequest{
			DomainID: pd.ID, Hostname: "b.customer.example", TargetAddress: "192.0.2.2",
		})
		requireAPIError(t, err, http.StatusBadGateway, poolsdk.ErrorCodeProviderError)

		credits, err := user.GetCredits(ctx)
		require.NoError(t, err)
		require.Zero(t, credits.Stats.Used)
	})

	t.Run("malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/v1/cards/redeem", strings.NewReader(`{"code":`))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+ts.token(t, "malformed", "malformed", hostpoolhttp.ScopeHostnamesWrite))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAdminUsersAndCredits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t, nil)
	pd := ts.pooledDomain(t, "admin.example")

	user, sub := ts.member(t)
	_, err := user.GetCredits(ctx)
	require.NoError(t, err)

	granted, err := ts.admin.AdminGrantCredits(ctx, sub, poolsdk.GrantCreditsRequest{Units: 2, ValidityDays: 10})
	require.NoError(t, err)
	require.Len(t, granted, 2)

	h, err := user.CreateHostname(ctx, poolsdk.CreateHostnameRequest{
		DomainID: pd.ID, Hostname: "app.customer.example", TargetAddress: "192.0.2.20",
	})
	require.NoError(t, err)

	t.Run("remove bound credit migrates", func(t *testing.T) {
		res, err := ts.admin.AdminRemoveCredit(ctx, h.CreditID)
		require.NoError(t, err)
		require.Len(t, res.Migrated, 1)
		require.Equal(t, h.ID, res.Migrated[0].HostnameID)
		require.Empty(t, res.Deleted)

		credits, err := ts.admin.AdminListCredits(ctx, sub)
		require.NoError(t, err)
		require.Equal(t, 1, credits.Stats.Total)
		require.Equal(t, 1, credits.Stats.Used)
	})

	t.Run("disabled users are locked out and swept", func(t *testing.T) {
		require.NoError(t, ts.admin.AdminSetUserStatus(ctx, sub, "disabled"))

		_, err := user.ListHostnames(ctx)
		requireAPIError(t, err, http.StatusForbidden, poolsdk.ErrorCodeAccessDenied)

		report, err := ts.admin.AdminRunSweep(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, report.InactiveUsers.TornDown)

		all, err := ts.admin.AdminListHostnames(ctx)
		require.NoError(t, err)
		require.Empty(t, all)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := ts.admin.AdminListCredits(ctx, "nobody")
		requireAPIError(t, err, http.StatusNotFound, poolsdk.ErrorCodeNotFound)

		err = ts.admin.AdminSetUserStatus(ctx, sub, "banned")
		require.True(t, poolsdk.IsStatus(err, http.StatusBadRequest))
	})

	users, err := ts.admin.AdminListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestAdminDomainsAndHostnames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t, nil)
	pd := ts.pooledDomain(t, "repair.example")

	_, err := ts.admin.AdminCreateDomain(ctx, poolsdk.CreateDomainRequest{
		Name: "repair.example", ProviderEmail: "ops@repair.example", ProviderKey: "k",
	})
	requireAPIError(t, err, http.StatusConflict, "domain_exists")

	user, sub := ts.member(t)
	_, err = user.GetCredits(ctx)
	require.NoError(t, err)
	_, err = ts.admin.AdminGrantCredits(ctx, sub, poolsdk.GrantCreditsRequest{Units: 1, ValidityDays: 5})
	require.NoError(t, err)

	h, err := user.CreateHostname(ctx, poolsdk.CreateHostnameRequest{
		DomainID: pd.ID, Hostname: "fix.customer.example", TargetAddress: "192.0.2.30",
	})
	require.NoError(t, err)

	t.Run("repair of a complete record does nothing", func(t *testing.T) {
		res, err := ts.admin.AdminRepairHostname(ctx, h.ID)
		require.NoError(t, err)
		require.Equal(t, h.ID, res.Hostname.ID)
		require.Empty(t, res.Actions)

		dns, custom := ts.provider.Counts()
		require.Equal(t, 1, dns)
		require.Equal(t, 1, custom)
	})

	t.Run("inactive domain hidden from users", func(t *testing.T) {
		require.NoError(t, ts.admin.AdminSetDomainStatus(ctx, pd.ID, "inactive"))

		domains, err := user.ListDomains(ctx)
		require.NoError(t, err)
		require.Empty(t, domains)

		admin, err := ts.admin.AdminListDomains(ctx)
		require.NoError(t, err)
		require.Len(t, admin, 1)
		require.Equal(t, 1, admin[0].Hostnames)
	})

	t.Run("delete domain tears down hostnames", func(t *testing.T) {
		res, err := ts.admin.AdminDeleteDomain(ctx, pd.ID)
		require.NoError(t, err)
		require.Equal(t, 1, res.HostnamesRemoved)

		credits, err := user.GetCredits(ctx)
		require.NoError(t, err)
		require.Zero(t, credits.Stats.Used)
	})

	t.Run("cards", func(t *testing.T) {
		c := ts.card(t, "create", 1)
		require.NoError(t, ts.admin.AdminDeleteCard(ctx, c.ID))

		err := ts.admin.AdminDeleteCard(ctx, c.ID)
		requireAPIError(t, err, http.StatusNotFound, poolsdk.ErrorCodeNotFound)

		_, err = ts.admin.AdminGenerateCards(ctx, poolsdk.GenerateCardsRequest{Kind: "create", ValidityDays: 1, Count: 101})
		require.True(t, poolsdk.IsStatus(err, http.StatusBadRequest))
	})
}
