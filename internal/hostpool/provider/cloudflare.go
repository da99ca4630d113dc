package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Cloudflare implements Client against the Cloudflare v4 API using global
// API key authentication. The zone id is looked up on every call.
type Cloudflare struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewCloudflare builds a client with a per-request timeout. An empty baseURL
// selects the public API.
func NewCloudflare(baseURL string, timeout time.Duration) *Cloudflare {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Cloudflare{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the common response wrapper of the v4 API.
type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiMessage    `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// do sends one request and decodes result into out (when non-nil).
func (c *Cloudflare) do(ctx context.Context, op string, zone Zone, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("X-Auth-Email", zone.Email)
	req.Header.Set("X-Auth-Key", zone.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(op, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !env.Success {
		msgs := make([]string, 0, len(env.Errors))
		for _, m := range env.Errors {
			msgs = append(msgs, m.Message)
		}
		if len(msgs) == 0 && decodeErr != nil {
			msgs = append(msgs, "malformed response body")
		}
		if len(msgs) == 0 {
			msgs = append(msgs, http.StatusText(resp.StatusCode))
		}
		return &Error{Op: op, Status: resp.StatusCode, Messages: msgs}
	}

	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Messages: []string{"malformed result: " + err.Error()}}
	}
	return nil
}

func transportError(op string, err error) error {
	var netErr interface{ Timeout() bool }
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return &Error{Op: op, Messages: []string{err.Error()}, Timeout: timeout}
}

func (c *Cloudflare) zoneID(ctx context.Context, zone Zone) (string, error) {
	var zones []struct {
		ID string `json:"id"`
	}
	path := "/zones?name=" + url.QueryEscape(zone.Name)
	if err := c.do(ctx, "zone lookup", zone, http.MethodGet, path, nil, &zones); err != nil {
		return "", err
	}
	if len(zones) == 0 {
		return "", &Error{Op: "zone lookup", Status: http.StatusNotFound,
			Messages: []string{fmt.Sprintf("zone %s does not exist or is not accessible", zone.Name)}}
	}
	return zones[0].ID, nil
}

func (c *Cloudflare) CreateDNSRecord(ctx context.Context, zone Zone, name, address, recordType string) (string, error) {
	zid, err := c.zoneID(ctx, zone)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"type":    recordType,
		"name":    name,
		"content": address,
		"ttl":     1, // automatic
		"proxied": true,
	}
	var rec struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "create dns record", zone, http.MethodPost, "/zones/"+zid+"/dns_records", body, &rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (c *Cloudflare) UpdateDNSRecord(ctx context.Context, zone Zone, recordID, address string) error {
	zid, err := c.zoneID(ctx, zone)
	if err != nil {
		return err
	}
	path := "/zones/" + zid + "/dns_records/" + url.PathEscape(recordID)
	return c.do(ctx, "update dns record", zone, http.MethodPatch, path, map[string]any{"content": address}, nil)
}

func (c *Cloudflare) DeleteDNSRecord(ctx context.Context, zone Zone, recordID string) error {
	zid, err := c.zoneID(ctx, zone)
	if err != nil {
		return err
	}
	path := "/zones/" + zid + "/dns_records/" + url.PathEscape(recordID)
	return c.do(ctx, "delete dns record", zone, http.MethodDelete, path, nil, nil)
}

func (c *Cloudflare) CreateCustomHostname(ctx context.Context, zone Zone, hostname, origin string) (CustomHostname, error) {
	zid, err := c.zoneID(ctx, zone)
	if err != nil {
		return CustomHostname{}, err
	}

	body := map[string]any{
		"hostname": hostname,
		"ssl": map[string]any{
			"method":   "txt",
			"type":     "dv",
			"settings": map[string]any{"min_tls_version": "1.2"},
		},
		"custom_origin_server": origin,
	}
	var res customHostnameResult
	if err := c.do(ctx, "create custom hostname", zone, http.MethodPost, "/zones/"+zid+"/custom_hostnames", body, &res); err != nil {
		return CustomHostname{}, err
	}
	return res.toCustomHostname(), nil
}

func (c *Cloudflare) GetCustomHostname(ctx context.Context, zone Zone, customHostnameID string) (CustomHostname, error) {
	zid, err := c.zoneID(ctx, zone)
	if err != nil {
		return CustomHostname{}, err
	}

	var res customHostnameResult
	path := "/zones/" + zid + "/custom_hostnames/" + url.PathEscape(customHostnameID)
	if err := c.do(ctx, "get custom hostname", zone, http.MethodGet, path, nil, &res); err != nil {
		return CustomHostname{}, err
	}
	return res.toCustomHostname(), nil
}

func (c *Cloudflare) DeleteCustomHostname(ctx context.Context, zone Zone, customHostnameID string) error {
	zid, err := c.zoneID(ctx, zone)
	if err != nil {
		return err
	}
	path := "/zones/" + zid + "/custom_hostnames/" + url.PathEscape(customHostnameID)
	return c.do(ctx, "delete custom hostname", zone, http.MethodDelete, path, nil, nil)
}
