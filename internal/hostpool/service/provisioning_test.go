package service

import (
	"testing"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider/providertest"
	"github.com/stretchr/testify/require"
)

func TestProvision(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := env.user(t, "alice")
	pd := env.pooledDomain(t, "pool.example.com", 10)
	credit := env.grant(t, u.ID, 1, 5*day)[0]

	h, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
		DomainID:      pd.ID,
		Hostname:      " Shop.Customer.Test. ",
		TargetAddress: "192.0.2.10",
	})
	require.NoError(t, err)

	require.Equal(t, "shop.customer.test", h.Hostname)
	require.Equal(t, u.ID, h.UserID)
	require.Equal(t, pd.Name, h.DomainName)
	require.Len(t, h.SubdomainPrefix, prefixLength)
	require.Equal(t, h.SubdomainPrefix+".pool.example.com", h.Subdomain)
	require.Equal(t, domain.RecordA, h.RecordType)
	require.Equal(t, domain.HostnamePending, h.Status)
	require.Equal(t, credit.ID, h.CreditID)
	require.True(t, h.ExpiresAt.Equal(epoch.Add(5*day)))
	require.Equal(t, "dns-1", h.DNSRecordID)
	require.Equal(t, "ch-2", h.CustomHostnameID)
	require.Equal(t, domain.TXTRecord{Name: "_acme-challenge.shop.customer.test", Value: "cert-ch-2"}, h.CertValidation)
	require.Equal(t, domain.TXTRecord{Name: "_cf-custom-hostname.shop.customer.test", Value: "own-ch-2"}, h.OwnershipValidation)
	require.Empty(t, h.LastError)

	require.Equal(t, providertest.DNSRecord{
		Zone: "pool.example.com", Name: h.Subdomain, Address: "192.0.2.10", Type: "A",
	}, env.provider.DNS["dns-1"])
	require.Equal(t, domain.CreditStats{Total: 1, Used: 1}, env.stats(t, u.ID))
	env.requireConsistent(t, u.ID)

	_, err = env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
		DomainID: pd.ID, Hostname: "blog.customer.test", TargetAddress: "192.0.2.11",
	})
	var capErr *domain.CapacityExhaustedError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, domain.CapacityAllInUse, capErr.Reason)
}

func TestProvisionAAAA(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := env.user(t, "alice")
	pd := env.pooledDomain(t, "pool.example.com", 10)
	env.grant(t, u.ID, 1, day)

	h, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
		DomainID: pd.ID, Hostname: "v6.customer.test", TargetAddress: "2001:db8::1", RecordType: "aaaa",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RecordAAAA, h.RecordType)
	require.Equal(t, "AAAA", env.provider.DNS[h.DNSRecordID].Type)
}

func TestProvisionValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := env.user(t, "alice")
	pd := env.pooledDomain(t, "pool.example.com", 10)
	env.grant(t, u.ID, 1, day)

	cases := []struct {
		name  string
		req   ProvisionRequest
		field string
	}{
		{"missing domain", ProvisionRequest{Hostname: "a.customer.test", TargetAddress: "192.0.2.1"}, "domain_id"},
		{"missing hostname", ProvisionRequest{DomainID: pd.ID, TargetAddress: "192.0.2.1"}, "hostname"},
		{"malformed hostname", ProvisionRequest{DomainID: pd.ID, Hostname: "not a host", TargetAddress: "192.0.2.1"}, "hostname"},
		{"malformed address", ProvisionRequest{DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "999.1.1.1"}, "target_address"},
		{"A with IPv6", ProvisionRequest{DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "2001:db8::1"}, "target_address"},
		{"AAAA with IPv4", ProvisionRequest{DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1", RecordType: "AAAA"}, "target_address"},
		{"unsupported type", ProvisionRequest{DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1", RecordType: "CNAME"}, "record_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.provisioning.Provision(env.ctx, u.ID, tc.req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
		})
	}

	require.Empty(t, env.provider.Calls)
	require.Equal(t, 1, env.stats(t, u.ID).Available)
}

func TestProvisionRejections(t *testing.T) {
	t.Parallel()

	conflictCode := func(t *testing.T, err error) domain.ConflictCode {
		t.Helper()
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		return conflict.Code
	}

	t.Run("unknown domain", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		env.grant(t, u.ID, 1, day)

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: "missing", Hostname: "a.customer.test", TargetAddress: "192.0.2.1",
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no credits", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1",
		})
		require.ErrorIs(t, err, domain.ErrCapacityExhausted)
		require.Empty(t, env.provider.Calls)
	})

	t.Run("inactive domain", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 1, day)
		require.NoError(t, env.domains.SetStatus(env.ctx, pd.ID, domain.DomainInactive))

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1",
		})
		require.Equal(t, domain.ConflictDomainInactive, conflictCode(t, err))
		require.Equal(t, 1, env.stats(t, u.ID).Available)
	})

	t.Run("domain full", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 1)
		env.grant(t, u.ID, 2, day)
		env.provision(t, u.ID, pd.ID, "a.customer.test")

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "b.customer.test", TargetAddress: "192.0.2.1",
		})
		require.Equal(t, domain.ConflictDomainFull, conflictCode(t, err))
		require.Equal(t, 1, env.stats(t, u.ID).Available)
	})

	t.Run("failed provision gives its slot back", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 1)
		env.grant(t, u.ID, 2, day)
		env.provider.FailCreateCustom = providertest.APIError("create custom hostname", "busy")
		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1",
		})
		require.ErrorIs(t, err, provider.ErrProvider)
		failed, err := env.provisioning.ListByOwner(env.ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, failed, 1)

		usage, err := env.domains.ListActive(env.ctx)
		require.NoError(t, err)
		require.Equal(t, 0, usage[0].Hostnames)

		env.provider.SetFailures(func(f *providertest.Fake) { f.FailCreateCustom = nil })
		env.provision(t, u.ID, pd.ID, "b.customer.test")

		// The slot is taken now, so the failed record cannot come back.
		calls := len(env.provider.Calls)
		_, err = env.provisioning.Repair(env.ctx, failed[0].ID)
		require.Equal(t, domain.ConflictDomainFull, conflictCode(t, err))
		require.Len(t, env.provider.Calls, calls)
		require.Equal(t, 1, env.stats(t, u.ID).Available)
		env.requireConsistent(t, u.ID)
	})

	t.Run("hostname taken", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 2, day)
		env.provision(t, u.ID, pd.ID, "a.customer.test")

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "A.customer.test", TargetAddress: "192.0.2.1",
		})
		require.Equal(t, domain.ConflictHostnameTaken, conflictCode(t, err))
		require.Equal(t, 1, env.stats(t, u.ID).Available)
	})

	t.Run("prefixes exhausted", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.provisioning.Prefix = func() (string, error) { return "aaaaaa", nil }
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 2, day)
		h := env.provision(t, u.ID, pd.ID, "a.customer.test")
		require.Equal(t, "aaaaaa.pool.example.com", h.Subdomain)

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "b.customer.test", TargetAddress: "192.0.2.1",
		})
		require.Equal(t, domain.ConflictPrefixExhausted, conflictCode(t, err))
		require.Equal(t, 1, env.stats(t, u.ID).Available)
	})
}

func TestProvisionProviderFailure(t *testing.T) {
	t.Parallel()

	t.Run("dns record rejected", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 1, day)
		env.provider.FailCreateDNS = providertest.APIError("create dns record", "zone locked")

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1",
		})
		require.ErrorIs(t, err, provider.ErrProvider)

		list, err := env.provisioning.ListByOwner(env.ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		h := list[0]
		require.Equal(t, domain.HostnameError, h.Status)
		require.Contains(t, h.LastError, "zone locked")
		require.False(t, h.IsBound())
		require.Empty(t, h.DNSRecordID)
		require.Empty(t, h.CustomHostnameID)

		require.Equal(t, domain.CreditStats{Total: 1, Available: 1}, env.stats(t, u.ID))
		env.requireConsistent(t, u.ID)
	})

	t.Run("custom hostname rejected keeps the dns id", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 1, day)
		env.provider.FailCreateCustom = providertest.APIError("create custom hostname", "hostname blocked")

		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1",
		})
		require.ErrorIs(t, err, provider.ErrProvider)

		list, err := env.provisioning.ListByOwner(env.ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, domain.HostnameError, list[0].Status)
		require.Equal(t, "dns-1", list[0].DNSRecordID)
		require.Empty(t, list[0].CustomHostnameID)
		require.Equal(t, 1, env.stats(t, u.ID).Available)
		env.requireConsistent(t, u.ID)
	})
}

func TestProvisioningGet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	pd := env.pooledDomain(t, "pool.example.com", 10)
	env.grant(t, alice.ID, 1, day)
	h := env.provision(t, alice.ID, pd.ID, "a.customer.test")

	_, err := env.provisioning.Get(env.ctx, alice.ID, h.ID)
	require.NoError(t, err)

	_, err = env.provisioning.Get(env.ctx, bob.ID, h.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.provisioning.Get(env.ctx, "", h.ID)
	require.NoError(t, err, "admins see every record")

	list, err := env.provisioning.ListByOwner(env.ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, list)

	all, err := env.provisioning.ListAll(env.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestRefreshStatus(t *testing.T) {
	t.Parallel()

	t.Run("active certificate keeps omitted tokens", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 1, day)
		h := env.provision(t, u.ID, pd.ID, "a.customer.test")

		env.provider.SetFailures(func(f *providertest.Fake) {
			f.SSLStatus = provider.SSLActive
			f.OmitTokens = true
		})

		res, err := env.provisioning.RefreshStatus(env.ctx, u.ID, h.ID)
		require.NoError(t, err)
		require.Equal(t, provider.SSLActive, res.SSLStatus)
		require.Equal(t, domain.HostnameActive, res.Hostname.Status)
		require.Equal(t, h.CertValidation, res.Hostname.CertValidation)
		require.Equal(t, h.OwnershipValidation, res.Hostname.OwnershipValidation)
	})

	t.Run("unknown ssl state stays pending", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 1, day)
		h := env.provision(t, u.ID, pd.ID, "a.customer.test")
		env.provider.SSLStatus = "some_new_state"

		res, err := env.provisioning.RefreshStatus(env.ctx, u.ID, h.ID)
		require.NoError(t, err)
		require.Equal(t, domain.HostnamePending, res.Hostname.Status)
	})

	t.Run("not provisioned", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		u := env.user(t, "alice")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, u.ID, 1, day)
		env.provider.FailCreateDNS = providertest.APIError("create dns record", "nope")
		_, err := env.provisioning.Provision(env.ctx, u.ID, ProvisionRequest{
			DomainID: pd.ID, Hostname: "a.customer.test", TargetAddress: "192.0.2.1",
		})
		require.Error(t, err)
		list, err := env.provisioning.ListByOwner(env.ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		_, err = env.provisioning.RefreshStatus(env.ctx, u.ID, list[0].ID)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "not_provisioned", verr.Code)
	})

	t.Run("foreign record", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		alice := env.user(t, "alice")
		bob := env.user(t, "bob")
		pd := env.pooledDomain(t, "pool.example.com", 10)
		env.grant(t, alice.ID, 1, day)
		h := env.provision(t, alice.ID, pd.ID, "a.customer.test")

		_, err := env.provisioning.RefreshStatus(env.ctx, bob.ID, h.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEditTargetAddress(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	pd := env.pooledDomain(t, "pool.example.com", 10)
	env.grant(t, alice.ID, 1, day)
	h := env.provision(t, alice.ID, pd.ID, "a.customer.test")

	t.Run("foreign record", func(t *testing.T) {
		_, err := env.provisioning.EditTargetAddress(env.ctx, bob.ID, h.ID, "192.0.2.99")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wrong family", func(t *testing.T) {
		_, err := env.provisioning.EditTargetAddress(env.ctx, alice.ID, h.ID, "2001:db8::1")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("provider failure leaves the record alone", func(t *testing.T) {
		env.provider.SetFailures(func(f *providertest.Fake) {
			f.FailUpdateDNS = providertest.APIError("update dns record", "rate limited")
		})
		defer env.provider.SetFailures(func(f *providertest.Fake) { f.FailUpdateDNS = nil })

		_, err := env.provisioning.EditTargetAddress(env.ctx, alice.ID, h.ID, "192.0.2.99")
		require.ErrorIs(t, err, provider.ErrProvider)

		got, err := env.provisioning.Get(env.ctx, alice.ID, h.ID)
		require.NoError(t, err)
		require.Equal(t, "192.0.2.10", got.TargetAddress)
	})

	t.Run("updates remote and local", func(t *testing.T) {
		got, err := env.provisioning.EditTargetAddress(env.ctx, alice.ID, h.ID, " 192.0.2.99 ")
		require.NoError(t, err)
		require.Equal(t, "192.0.2.99", got.TargetAddress)
		require.Equal(t, "192.0.2.99", env.provider.DNS[h.DNSRecordID].Address)
	})
}
