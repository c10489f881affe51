/*
Copyright The FSxOps Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ontap is a minimal client for the ONTAP REST API covering the
// operations this toolkit needs: volume and LUN lookup and resize, and
// cluster/SVM peering. It is not a general-purpose ONTAP client.
package ontap

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultTimeout = 60 * time.Second

	// readRetryAttempts bounds the retry of idempotent GET calls.
	// Mutating calls are never retried.
	readRetryAttempts = 3
	readRetryDelay    = 2 * time.Second
)

// ErrNotFound reports that a named object (volume, LUN, peer) does not
// exist on the cluster.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the ONTAP REST API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ONTAP API error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("ONTAP API error: %s", e.Status)
}

// errorEnvelope is the ONTAP REST error body.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Client talks to a single ONTAP cluster management endpoint using HTTP
// Basic authentication.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithInsecureTLS disables certificate verification. FSx for ONTAP
// management endpoints present certificates that rarely match the
// address operators dial.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. Intended for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the cluster reachable at host, which may
// be a bare address or an https:// URL.
func NewClient(host, username, password string, opts ...Option) *Client {
	baseURL := host
	if u, err := url.Parse(host); err != nil || u.Scheme == "" {
		baseURL = "https://" + host
	}

	c := &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// do performs a single request and decodes the JSON answer into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response from %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
		var envelope errorEnvelope
		if unmarshalErr := json.Unmarshal(payload, &envelope); unmarshalErr == nil {
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
		}
	}

	return nil
}

// get performs an idempotent read with bounded retry. Client errors
// (4xx) are terminal; transport failures and server errors retry.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return retry.Do(
		func() error {
			return c.do(ctx, http.MethodGet, path, query, nil, out)
		},
		retry.Context(ctx),
		retry.Attempts(readRetryAttempts),
		retry.Delay(readRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
}

// isRetryable reports whether a failed read is worth retrying.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return true
}
