package feedsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every outbound call to the feed server.
const DefaultTimeout = 30 * time.Second

// SDKClient talks to the feed server. It performs single requests and never
// retries; token caching lives in Session.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// AdminSecret is sent as X-Admin-Secret on registration when set.
	AdminSecret string
}

// NewSDKClient creates a client for the feed server at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}
