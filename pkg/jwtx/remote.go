package jwtx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxJWKSBytes bounds how much of a JWKS response we read.
const maxJWKSBytes = 1 << 20

// JWKSFetcher keeps a KeySet in sync with a remote JWKS endpoint.
type JWKSFetcher struct {
	URL        string
	HTTPClient *http.Client
	Keys       *KeySet
	Interval   time.Duration
	Logger     *slog.Logger

	stop chan struct{}
	done chan struct{}
}

func NewJWKSFetcher(url string, keys *KeySet, interval time.Duration, logger *slog.Logger) *JWKSFetcher {
	return &JWKSFetcher{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Keys:       keys,
		Interval:   interval,
		Logger:     logger,
	}
}

// Fetch downloads the JWKS once and swaps it into the KeySet. On failure the
// previous keys stay in place.
func (f *JWKSFetcher) Fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("jwtx: build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("jwtx: fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwtx: fetch jwks: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return fmt.Errorf("jwtx: read jwks: %w", err)
	}
	jwks, err := ParseJWKS(body)
	if err != nil {
		return err
	}
	if _, err := f.Keys.ResetFromJWKS(jwks); err != nil {
		return err
	}
	return nil
}

// Start refreshes the KeySet every Interval until Stop is called.
func (f *JWKSFetcher) Start() {
	f.stop = make(chan struct{})
	f.done = make(chan struct{})
	go f.run()
}

func (f *JWKSFetcher) Stop() {
	if f.stop == nil {
		return
	}
	close(f.stop)
	<-f.done
}

func (f *JWKSFetcher) run() {
	defer close(f.done)

	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), f.Interval)
			if err := f.Fetch(ctx); err != nil && f.Logger != nil {
				f.Logger.Warn("jwks refresh failed", slog.String("url", f.URL), slog.Any("error", err))
			}
			cancel()
		}
	}
}
