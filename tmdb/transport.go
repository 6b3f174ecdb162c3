package tmdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// API endpoints, relative to the base URL
const (
	pathTokenNew        = "/authentication/token/new"
	pathSessionNew      = "/authentication/session/new"
	pathSession         = "/authentication/session"
	pathAccount         = "/account"
	pathFavoriteMovies  = "/account/{id}/favorite/movies"
	pathWatchlistMovies = "/account/{id}/watchlist/movies"
	pathFavorite        = "/account/{id}/favorite"
	pathWatchlist       = "/account/{id}/watchlist"
	pathSearchMovie     = "/search/movie"
	pathConfiguration   = "/configuration"
)

// Query parameter names
const (
	paramAPIKey       = "api_key"
	paramRequestToken = "request_token"
	paramSessionID    = "session_id"
	paramQuery        = "query"
)

// Request describes a single API call. Path may contain {key} placeholders
// that are filled from PathParams.
type Request struct {
	Method     string
	Path       string
	PathParams map[string]string
	Query      map[string]string
	Body       []byte
}

// Transport issues API requests, attaching the API key and mapping failures
// onto the package error taxonomy.
type Transport struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewTransport creates a transport for the API rooted at baseURL
func NewTransport(baseURL, apiKey string, httpClient *http.Client, timeout time.Duration, logger zerolog.Logger) (*Transport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Transport{
		baseURL:    u,
		apiKey:     apiKey,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// Do performs the request and returns the raw JSON body of a successful response
func (t *Transport) Do(ctx context.Context, r Request) ([]byte, error) {
	u, err := t.buildURL(r)
	if err != nil {
		return nil, err
	}

	t.logger.Debug().
		Str("method", r.Method).
		Str("path", u.Path).
		Str("query", redactedQuery(u.Query())).
		Msg("Making TMDB API request")

	body, err := t.send(ctx, r.Method, u.String(), r.Body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrDecode
	}
	return body, nil
}

// Get fetches an absolute URL without attaching the API key
func (t *Transport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	t.logger.Debug().Str("url", rawURL).Msg("Fetching resource")
	return t.send(ctx, http.MethodGet, rawURL, nil)
}

// send performs one round trip; every return is exactly one terminal outcome
func (t *Transport) send(ctx context.Context, method, rawURL string, payload []byte) ([]byte, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Debug().Int("status", resp.StatusCode).Str("method", method).Msg("TMDB request returned non-2xx status")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}

// buildURL joins the base URL, expanded path and query. The API key is set
// last so a descriptor can never override it.
func (t *Transport) buildURL(r Request) (*url.URL, error) {
	path, rawPath, err := expandPath(r.Path, r.PathParams)
	if err != nil {
		return nil, err
	}

	u := *t.baseURL
	u.Path = t.baseURL.Path + path
	u.RawPath = t.baseURL.EscapedPath() + rawPath

	q := url.Values{}
	for k, v := range r.Query {
		q.Set(k, v)
	}
	q.Set(paramAPIKey, t.apiKey)
	u.RawQuery = q.Encode()

	return &u, nil
}

// expandPath substitutes {key} placeholders in template. It returns the
// decoded path and its escaped form; each value is escaped as a single
// segment, so a "/" inside a value cannot add segments.
func expandPath(template string, params map[string]string) (string, string, error) {
	var decoded, escaped, blank []string
	for k, v := range params {
		placeholder := "{" + k + "}"
		decoded = append(decoded, placeholder, v)
		escaped = append(escaped, placeholder, url.PathEscape(v))
		blank = append(blank, placeholder, "")
	}
	if strings.ContainsAny(strings.NewReplacer(blank...).Replace(template), "{}") {
		return "", "", fmt.Errorf("unresolved placeholder in path %q", template)
	}

	path := strings.NewReplacer(decoded...).Replace(template)
	rawPath := strings.NewReplacer(escaped...).Replace(template)
	if !strings.HasPrefix(template, "/") {
		path = "/" + path
		rawPath = "/" + rawPath
	}
	return path, rawPath, nil
}

func redactedQuery(q url.Values) string {
	if q.Has(paramAPIKey) {
		q.Set(paramAPIKey, "REDACTED")
	}
	if q.Has(paramSessionID) {
		q.Set(paramSessionID, "REDACTED")
	}
	return q.Encode()
}
