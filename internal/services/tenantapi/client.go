// Package tenantapi provides the client for the tenant-side authentication
// and loan-data REST APIs.
package tenantapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
)

// SecretHeader carries the shared secret attached to every tenant-API call.
const SecretHeader = "X-Service-Secret"

// AuthResult is the payload of a successful authentication call.
type AuthResult struct {
	// OTP is the one-time passcode the tenant delivered to the member
	// out-of-band; the service compares the member's entry against it.
	OTP string
	// Token authorizes subsequent loan-data calls.
	Token string
}

// Client defines the tenant API boundary.
type Client interface {
	// Authenticate verifies a member's credentials with their cooperative.
	// Failures carry an UPSTREAM_AUTH_ERROR domain error with kind
	// invalid_credentials (401), not_found (404) or unknown.
	Authenticate(ctx context.Context, email, employeeNumber, tenant string) (*AuthResult, error)

	// FetchLoanInfo retrieves the member's loan records. Failures carry an
	// UPSTREAM_DATA_ERROR domain error with kind unauthorized (401/403,
	// token presumed invalid) or unknown.
	FetchLoanInfo(ctx context.Context, tenant, employeeNumber, token string) (models.LoanData, error)
}

// ClientConfig holds the configuration for the tenant API client.
type ClientConfig struct {
	BaseURL      string
	SharedSecret string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// client implements the Client interface.
type client struct {
	baseURL      string
	sharedSecret string
	httpClient   *http.Client
}

// NewClient creates a new tenant API client.
func NewClient(cfg *ClientConfig) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &client{
		baseURL:      cfg.BaseURL,
		sharedSecret: cfg.SharedSecret,
		httpClient:   httpClient,
	}, nil
}

// authenticateRequest is the wire body for the authentication call.
type authenticateRequest struct {
	Email          string `json:"email"`
	EmployeeNumber string `json:"employee_number"`
	Tenant         string `json:"tenant"`
}

// authenticateResponse is the expected 2xx body.
type authenticateResponse struct {
	Data struct {
		OTP   string `json:"otp"`
		Token string `json:"token"`
	} `json:"data"`
}

// Authenticate issues POST /authenticate-client.
func (c *client) Authenticate(ctx context.Context, email, employeeNumber, tenant string) (*AuthResult, error) {
	body, err := json.Marshal(authenticateRequest{
		Email:          email,
		EmployeeNumber: employeeNumber,
		Tenant:         tenant,
	})
	if err != nil {
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/authenticate-client", bytes.NewReader(body))
	if err != nil {
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindUnknown, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindUnknown, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindInvalidCredentials, nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindNotFound, nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindUnknown,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	var payload authenticateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindUnknown,
			fmt.Errorf("decode response: %w", err))
	}

	// A 2xx missing either secret is malformed upstream, not a success.
	if payload.Data.OTP == "" || payload.Data.Token == "" {
		return nil, domainerrors.NewUpstreamAuthError(domainerrors.KindUnknown,
			fmt.Errorf("response missing otp or token"))
	}

	return &AuthResult{OTP: payload.Data.OTP, Token: payload.Data.Token}, nil
}

// FetchLoanInfo issues GET /client-loan-info.
func (c *client) FetchLoanInfo(ctx context.Context, tenant, employeeNumber, token string) (models.LoanData, error) {
	q := url.Values{}
	q.Set("tenant", tenant)
	q.Set("employee_number", employeeNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/client-loan-info?"+q.Encode(), nil)
	if err != nil {
		return models.LoanData{}, domainerrors.NewUpstreamDataError(domainerrors.KindUnknown, err)
	}
	c.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.LoanData{}, domainerrors.NewUpstreamDataError(domainerrors.KindUnknown, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.LoanData{}, domainerrors.NewUpstreamDataError(domainerrors.KindUnauthorized, nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return models.LoanData{}, domainerrors.NewUpstreamDataError(domainerrors.KindUnknown,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.LoanData{}, domainerrors.NewUpstreamDataError(domainerrors.KindUnknown, err)
	}

	var data models.LoanData
	if err := json.Unmarshal(body, &data); err != nil {
		return models.LoanData{}, domainerrors.NewUpstreamDataError(domainerrors.KindUnknown,
			fmt.Errorf("decode loan payload: %w", err))
	}

	return data, nil
}

// setHeaders sets the headers required on every tenant-API request.
func (c *client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.sharedSecret != "" {
		req.Header.Set(SecretHeader, c.sharedSecret)
	}
}
