package tmdb

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the root of the TMDB v3 API
const DefaultBaseURL = "https://api.themoviedb.org/3"

// DefaultTimeout bounds every request unless overridden
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL          string
	authorizationURL string
	timeout          time.Duration
	httpClient       *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:          DefaultBaseURL,
		authorizationURL: DefaultAuthorizationURL,
		timeout:          DefaultTimeout,
	}
}

// WithBaseURL overrides the API root, mainly for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithAuthorizationURL overrides the page used to approve request tokens.
func WithAuthorizationURL(authURL string) Option {
	return func(o *clientOptions) {
		if authURL != "" {
			o.authorizationURL = authURL
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
