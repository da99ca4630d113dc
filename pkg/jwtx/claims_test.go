package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/hostpool/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	t.Parallel()

	c := jwtx.NewAccessClaims("sub", "alice", []string{"a", "b"}, time.Hour, "iss", []string{"aud"}, issuedAt)
	require.Equal(t, "sub", c.Subject)
	require.Equal(t, "iss", c.Issuer)
	require.Equal(t, issuedAt.Add(time.Hour), c.ExpiresAt.Time)
	require.Equal(t, issuedAt, c.NotBefore.Time)
	require.NotEmpty(t, c.ID)
	require.NotEqual(t, c.ID, jwtx.NewJTI())
}

func TestClaimsValidation(t *testing.T) {
	t.Parallel()

	c := jwtx.NewAccessClaims("sub", "", nil, time.Hour, "iss", []string{"a", "b"}, issuedAt)

	require.NoError(t, c.ValidateIssuer(""))
	require.NoError(t, c.ValidateIssuer("iss"))
	require.ErrorIs(t, c.ValidateIssuer("other"), jwtx.ErrIssuer)

	require.NoError(t, c.ValidateAudience(nil))
	require.NoError(t, c.ValidateAudience([]string{"x", "b"}))
	require.ErrorIs(t, c.ValidateAudience([]string{"x"}), jwtx.ErrAudience)

	require.NoError(t, c.ValidateExpiry(issuedAt.Add(30*time.Minute), 0))
	require.ErrorIs(t, c.ValidateExpiry(issuedAt.Add(2*time.Hour), time.Minute), jwtx.ErrExpired)
	require.NoError(t, c.ValidateExpiry(issuedAt.Add(time.Hour+30*time.Second), time.Minute))
	require.ErrorIs(t, c.ValidateExpiry(issuedAt.Add(-time.Hour), time.Minute), jwtx.ErrNotYetValid)
}

func TestClaimsScopes(t *testing.T) {
	t.Parallel()

	c := jwtx.Claims{Scopes: []string{"hostnames:read"}, Scope: "hostnames:write  hostnames:read admin:read"}
	require.Equal(t, []string{"hostnames:read", "hostnames:write", "admin:read"}, c.AllScopes())
	require.True(t, c.HasScope("admin:read"))
	require.False(t, c.HasScope("admin:write"))

	plain := jwtx.Claims{Scopes: []string{"a"}}
	require.Equal(t, []string{"a"}, plain.AllScopes())
}
