package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the accounts service.
// It provides access to public operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// Validate runs the same field checks the server does before sending a
	// request. Disable it in tests that exercise server-side validation.
	// Default: true
	Validate bool
}

// NewSDKClient creates a new accounts service client with request
// validation enabled.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Validate: true,
	}
}

// NewSession wraps a token obtained earlier (e.g., from a stored sign-in).
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}
