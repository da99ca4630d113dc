package poolsdk

import (
	"context"
	"net/http"
)

// The methods below need an admin:read or admin:write token.

func (c *Client) AdminListDomains(ctx context.Context) ([]AdminDomain, error) {
	out, err := call[[]AdminDomain](ctx, c, http.MethodGet, "/v1/admin/domains", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) AdminCreateDomain(ctx context.Context, req CreateDomainRequest) (*AdminDomain, error) {
	return call[AdminDomain](ctx, c, http.MethodPost, "/v1/admin/domains", req, http.StatusCreated)
}

// AdminSetDomainStatus activates or deactivates a pooled domain.
func (c *Client) AdminSetDomainStatus(ctx context.Context, id, status string) error {
	return callNoContent(ctx, c, http.MethodPatch, "/v1/admin/domains/"+pathID(id), UpdateDomainRequest{Status: status})
}

// AdminDeleteDomain tears down every hostname under the domain, then removes it.
func (c *Client) AdminDeleteDomain(ctx context.Context, id string) (*DeleteDomainResponse, error) {
	return call[DeleteDomainResponse](ctx, c, http.MethodDelete, "/v1/admin/domains/"+pathID(id), nil, http.StatusOK)
}

func (c *Client) AdminListCards(ctx context.Context) ([]Card, error) {
	out, err := call[[]Card](ctx, c, http.MethodGet, "/v1/admin/cards", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) AdminGenerateCards(ctx context.Context, req GenerateCardsRequest) ([]Card, error) {
	out, err := call[[]Card](ctx, c, http.MethodPost, "/v1/admin/cards", req, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) AdminDeleteCard(ctx context.Context, id string) error {
	return callNoContent(ctx, c, http.MethodDelete, "/v1/admin/cards/"+pathID(id), nil)
}

func (c *Client) AdminListHostnames(ctx context.Context) ([]Hostname, error) {
	out, err := call[[]Hostname](ctx, c, http.MethodGet, "/v1/admin/hostnames", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) AdminDeleteHostname(ctx context.Context, id string) error {
	return callNoContent(ctx, c, http.MethodDelete, "/v1/admin/hostnames/"+pathID(id), nil)
}

// AdminRepairHostname recreates whichever remote resource the record lacks.
func (c *Client) AdminRepairHostname(ctx context.Context, id string) (*RepairResponse, error) {
	return call[RepairResponse](ctx, c, http.MethodPost, "/v1/admin/hostnames/"+pathID(id)+"/repair", nil, http.StatusOK)
}

func (c *Client) AdminListUsers(ctx context.Context) ([]User, error) {
	out, err := call[[]User](ctx, c, http.MethodGet, "/v1/admin/users", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// AdminSetUserStatus enables or disables a user. Hostnames of disabled users
// are torn down by the next sweep.
func (c *Client) AdminSetUserStatus(ctx context.Context, id, status string) error {
	return callNoContent(ctx, c, http.MethodPatch, "/v1/admin/users/"+pathID(id), UpdateUserRequest{Status: status})
}

func (c *Client) AdminListCredits(ctx context.Context, userID string) (*CreditsResponse, error) {
	return call[CreditsResponse](ctx, c, http.MethodGet, "/v1/admin/users/"+pathID(userID)+"/credits", nil, http.StatusOK)
}

func (c *Client) AdminGrantCredits(ctx context.Context, userID string, req GrantCreditsRequest) ([]Credit, error) {
	out, err := call[[]Credit](ctx, c, http.MethodPost, "/v1/admin/users/"+pathID(userID)+"/credits", req, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// AdminRemoveCredit deletes a credit, migrating or deleting the hostnames
// bound to it.
func (c *Client) AdminRemoveCredit(ctx context.Context, id string) (*RemoveCreditResponse, error) {
	return call[RemoveCreditResponse](ctx, c, http.MethodDelete, "/v1/admin/credits/"+pathID(id), nil, http.StatusOK)
}

// AdminRunSweep runs one reconciliation pass and returns its report.
func (c *Client) AdminRunSweep(ctx context.Context) (*SweepReport, error) {
	return call[SweepReport](ctx, c, http.MethodPost, "/v1/admin/sweep", nil, http.StatusOK)
}
