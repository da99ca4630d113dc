package poolsdk

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the hostpool API with a bearer access token issued by the
// identity provider. Token may be empty for the health endpoints.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Token: token,
	}
}

// WithToken returns a copy of the client that sends token instead.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

func pathID(id string) string {
	return url.PathEscape(id)
}
