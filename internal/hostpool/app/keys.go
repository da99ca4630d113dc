package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/hostpool/pkg/jwtx"
)

// InitVerifier loads the token verification keys and builds the verifier.
//
// Key sources:
//   - HOSTPOOL_JWKS_FILE: a static JWKS document read once at startup.
//   - HOSTPOOL_JWKS_URL: the identity provider's JWKS endpoint, fetched at
//     startup and refreshed every JWKSRefresh by the returned fetcher.
//
// The fetcher is nil for file sources. A failed first fetch is logged, not
// fatal; /readyz reports the missing keys until a refresh succeeds.
func InitVerifier(ctx context.Context, cfg Config, logger *slog.Logger) (*jwtx.KeySet, jwtx.Verifier, *jwtx.JWKSFetcher, error) {
	keys := jwtx.NewKeySet()
	verifier := jwtx.NewKeySetVerifier(keys, jwtx.VerifyOptions{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Leeway:   30 * time.Second,
	})

	if cfg.JWKSFile != "" {
		jwks, err := jwtx.LoadJWKSFile(cfg.JWKSFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load JWKS file: %w", err)
		}
		n, err := keys.ResetFromJWKS(jwks)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load JWKS file %s: %w", cfg.JWKSFile, err)
		}
		logger.Info("verification keys loaded", "source", cfg.JWKSFile, "num_keys", n)
		return keys, verifier, nil, nil
	}

	fetcher := jwtx.NewJWKSFetcher(cfg.JWKSURL, keys, cfg.JWKSRefresh, logger)
	if err := fetcher.Fetch(ctx); err != nil {
		logger.Warn("initial JWKS fetch failed", "url", cfg.JWKSURL, "error", err)
	} else {
		logger.Info("verification keys fetched", "url", cfg.JWKSURL)
	}
	return keys, verifier, fetcher, nil
}
