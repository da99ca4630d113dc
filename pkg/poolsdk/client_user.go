package poolsdk

import (
	"context"
	"net/http"
)

// GetCredits lists the caller's credits with summary stats.
func (c *Client) GetCredits(ctx context.Context) (*CreditsResponse, error) {
	return call[CreditsResponse](ctx, c, http.MethodGet, "/v1/credits", nil, http.StatusOK)
}

// RedeemCard consumes a card for the caller.
func (c *Client) RedeemCard(ctx context.Context, code string) (*RedeemResponse, error) {
	return call[RedeemResponse](ctx, c, http.MethodPost, "/v1/cards/redeem", RedeemRequest{Code: code}, http.StatusOK)
}

// ListDomains lists active pooled domains the caller can provision under.
func (c *Client) ListDomains(ctx context.Context) ([]Domain, error) {
	out, err := call[[]Domain](ctx, c, http.MethodGet, "/v1/domains", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) ListHostnames(ctx context.Context) ([]Hostname, error) {
	out, err := call[[]Hostname](ctx, c, http.MethodGet, "/v1/hostnames", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// CreateHostname provisions a hostname. It consumes one credit.
func (c *Client) CreateHostname(ctx context.Context, req CreateHostnameRequest) (*Hostname, error) {
	return call[Hostname](ctx, c, http.MethodPost, "/v1/hostnames", req, http.StatusCreated)
}

func (c *Client) RefreshHostname(ctx context.Context, id string) (*RefreshResponse, error) {
	return call[RefreshResponse](ctx, c, http.MethodPost, "/v1/hostnames/"+pathID(id)+"/refresh", nil, http.StatusOK)
}

// RenewHostname redeems a renew card against the credit of hostname id.
func (c *Client) RenewHostname(ctx context.Context, id, code string) (*RedeemResponse, error) {
	return call[RedeemResponse](ctx, c, http.MethodPost, "/v1/hostnames/"+pathID(id)+"/renew", RenewRequest{Code: code}, http.StatusOK)
}

func (c *Client) UpdateHostname(ctx context.Context, id, targetAddress string) (*Hostname, error) {
	return call[Hostname](ctx, c, http.MethodPatch, "/v1/hostnames/"+pathID(id), UpdateHostnameRequest{TargetAddress: targetAddress}, http.StatusOK)
}

// DeleteHostname tears down the hostname and frees its credit.
func (c *Client) DeleteHostname(ctx context.Context, id string) error {
	return callNoContent(ctx, c, http.MethodDelete, "/v1/hostnames/"+pathID(id), nil)
}
