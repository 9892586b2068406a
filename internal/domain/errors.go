package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter is returned when a required request parameter is absent or malformed
	ErrMissingParameter = errors.New("missing parameter")

	// ErrInvalidShop is returned when the shop parameter is not a myshopify.com domain
	ErrInvalidShop = errors.New("invalid shop domain")

	// ErrAuthenticationFailed is returned when no valid session exists for the request
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrOAuthFailed is returned when the OAuth callback cannot be completed
	ErrOAuthFailed = errors.New("oauth failed")

	// ErrInvalidUpstreamResponse is returned when an upstream call succeeds but its body lacks expected fields
	ErrInvalidUpstreamResponse = errors.New("invalid upstream response")
)

// UpstreamError is a transport failure or non-2xx reply from an external API.
// StatusCode is zero when no response was received.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
