package clients

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewHTTPClient creates the outbound HTTP client used for key set fetches.
// Retries are disabled: a failed fetch fails the request that triggered it.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
}
