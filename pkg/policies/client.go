// Package policies retrieves Secure Cloud Access and Secure Infrastructure
// Access policy listings from the CyberArk platform APIs.
package policies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Endpoint describes one policy listing API. The request URL is
// https://{subdomain}.{service}.cyberark.cloud{path} unless BaseURL is set.
type Endpoint struct {
	Name    string
	Service string
	Path    string

	// BaseURL overrides the derived scheme and host; used by tests against
	// local servers.
	BaseURL string
}

// The two policy domains queried, in fetch order.
var (
	SCA = Endpoint{Name: "SCA", Service: "sca", Path: "/api/policies"}
	SIA = Endpoint{Name: "SIA", Service: "uap", Path: "/api/policies"}
)

// Host returns the service host without the tenant subdomain, as shown in
// report section headers.
func (e Endpoint) Host() string {
	return e.Service + ".cyberark.cloud"
}

// URL builds the request URL for the given subdomain.
func (e Endpoint) URL(subdomain string) string {
	if e.BaseURL != "" {
		return e.BaseURL + e.Path
	}
	return fmt.Sprintf("https://%s.%s.cyberark.cloud%s", subdomain, e.Service, e.Path)
}

// FetchError reports a failed policy retrieval. StatusCode and Body are zero
// when the failure happened before a response was received.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s policy retrieval failed: status %d: %s", e.Endpoint, e.StatusCode, strings.TrimSpace(e.Body))
	}
	return fmt.Sprintf("%s policy retrieval failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client issues authenticated listing requests. All requests of one run share
// a correlation id.
type Client struct {
	subdomain  string
	httpClient *http.Client
	requestID  string
}

// NewClient builds a client for the given tenant subdomain. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(subdomain string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		subdomain:  subdomain,
		httpClient: httpClient,
		requestID:  uuid.NewString(),
	}
}

// RequestID returns the correlation id attached to every request of this
// client.
func (c *Client) RequestID() string { return c.requestID }

// Fetch issues one authenticated GET against the endpoint and decodes the
// JSON response into out. Non-2xx responses and undecodable bodies yield a
// FetchError. One attempt, no retry.
func (c *Client) Fetch(ctx context.Context, ep Endpoint, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL(c.subdomain), nil)
	if err != nil {
		return &FetchError{Endpoint: ep.Name, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", c.requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Endpoint: ep.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &FetchError{Endpoint: ep.Name, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Endpoint: ep.Name, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Endpoint: ep.Name, StatusCode: resp.StatusCode, Body: string(body), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
