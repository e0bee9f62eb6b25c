// Package client sends signed payin and payout messages to the Shinkansen
// API and decodes the synchronous HTTP responses.
package client

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shinkansenfinance/shinkansen-go/internal/config"
	"github.com/shinkansenfinance/shinkansen-go/internal/jws"
	"github.com/shinkansenfinance/shinkansen-go/internal/message"
)

// DefaultBaseURL is the production Shinkansen API endpoint.
const DefaultBaseURL = "https://api.shinkansen.finance/v1"

// Headers sent with every message.
const (
	HeaderAPIKey       = "Shinkansen-Api-Key"
	HeaderJWSSignature = "Shinkansen-JWS-Signature"
)

// Client posts signed messages to the Shinkansen API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Useful for sandbox environments
// and tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client for the production API with the given API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConfig creates a Client from environment configuration.
func NewClientFromConfig(cfg *config.ClientEnvironment) (*Client, error) {
	return NewClient(cfg.APIKey,
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
}

// SendPayinMessage posts a previously signed payin message.
//
// The signature must have been computed over the exact bytes produced by
// msg.ToJSON(); the same bytes are posted here.
func (c *Client) SendPayinMessage(ctx context.Context, msg *message.PayinMessage, signature string) (*PayinHTTPResponse, error) {
	body, err := msg.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payin message: %w", err)
	}

	resp, err := c.post(ctx, "/messages/payins", body, signature)
	if err != nil {
		return nil, err
	}
	return parsePayinHTTPResponse(resp.statusCode, resp.body), nil
}

// SignAndSendPayinMessage signs the payin message and posts it. Returns the
// detached JWS signature alongside the parsed response, so callers can store
// it for non-repudiation.
func (c *Client) SignAndSendPayinMessage(ctx context.Context, msg *message.PayinMessage, key *rsa.PrivateKey, certificate *x509.Certificate) (string, *PayinHTTPResponse, error) {
	body, err := msg.ToJSON()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize payin message: %w", err)
	}

	signature, err := jws.Sign(body, key, certificate)
	if err != nil {
		return "", nil, err
	}

	resp, err := c.post(ctx, "/messages/payins", body, signature)
	if err != nil {
		return "", nil, err
	}
	return signature, parsePayinHTTPResponse(resp.statusCode, resp.body), nil
}

// SendPayoutMessage posts a previously signed payout message.
func (c *Client) SendPayoutMessage(ctx context.Context, msg *message.PayoutMessage, signature string) (*PayoutHTTPResponse, error) {
	body, err := msg.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payout message: %w", err)
	}

	resp, err := c.post(ctx, "/messages/payouts", body, signature)
	if err != nil {
		return nil, err
	}
	return parsePayoutHTTPResponse(resp.statusCode, resp.body), nil
}

// SignAndSendPayoutMessage signs the payout message and posts it. Returns
// the detached JWS signature alongside the parsed response.
func (c *Client) SignAndSendPayoutMessage(ctx context.Context, msg *message.PayoutMessage, key *rsa.PrivateKey, certificate *x509.Certificate) (string, *PayoutHTTPResponse, error) {
	body, err := msg.ToJSON()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize payout message: %w", err)
	}

	signature, err := jws.Sign(body, key, certificate)
	if err != nil {
		return "", nil, err
	}

	resp, err := c.post(ctx, "/messages/payouts", body, signature)
	if err != nil {
		return "", nil, err
	}
	return signature, parsePayoutHTTPResponse(resp.statusCode, resp.body), nil
}

type httpResult struct {
	statusCode int
	body       []byte
}

func (c *Client) post(ctx context.Context, path string, body []byte, signature string) (*httpResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set(HeaderJWSSignature, signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &httpResult{statusCode: resp.StatusCode, body: respBody}, nil
}
