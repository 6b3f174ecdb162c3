package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// Client represents a TMDB API client bound to one user session
type Client struct {
	transport        Requester
	session          *Session
	auth             *Authenticator
	authorizationURL string
	logger           zerolog.Logger

	mu     sync.RWMutex
	config Config
}

// NewClient creates a new TMDB client. No request is made until an
// operation is called.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	transport, err := NewTransport(o.baseURL, apiKey, o.httpClient, o.timeout, logger)
	if err != nil {
		return nil, err
	}

	session := &Session{}
	return &Client{
		transport:        transport,
		session:          session,
		auth:             NewAuthenticator(transport, session, logger),
		authorizationURL: o.authorizationURL,
		logger:           logger,
		config:           DefaultConfig(),
	}, nil
}

// Authenticate runs the session handshake; see Authenticator.Authenticate
func (c *Client) Authenticate(ctx context.Context, authorizer Authorizer) error {
	return c.auth.Authenticate(ctx, authorizer)
}

// AuthState returns the state reached by the most recent authentication
func (c *Client) AuthState() AuthState {
	return c.auth.State()
}

// AuthorizationURL returns the page where the user approves requestToken
func (c *Client) AuthorizationURL(requestToken string) string {
	return AuthorizationURL(c.authorizationURL, requestToken)
}

// Credentials returns a snapshot of the session state
func (c *Client) Credentials() Credentials {
	return c.session.Credentials()
}

// Logout deletes the remote session and clears local credentials. Local
// state is cleared even if the remote call fails. Logout and Authenticate
// exclude each other; whichever starts second returns ErrAlreadyInProgress.
func (c *Client) Logout(ctx context.Context) error {
	if !c.auth.acquire() {
		return ErrAlreadyInProgress
	}
	defer c.auth.release()

	creds := c.session.Credentials()
	if creds.SessionID == "" {
		return ErrNotAuthenticated
	}
	defer c.session.reset()

	payload, err := sessionBody(creds.SessionID)
	if err != nil {
		return fmt.Errorf("failed to encode logout body: %w", err)
	}

	_, err = c.transport.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   pathSession,
		Body:   payload,
	})
	if err != nil {
		return err
	}

	c.logger.Info().Msg("Logged out of TMDB")
	return nil
}

// SearchMovies searches movies matching query
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	body, err := c.transport.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   pathSearchMovie,
		Query:  map[string]string{paramQuery: query},
	})
	if err != nil {
		return nil, err
	}

	movies, err := decodeMovies(body, "search movies")
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("query", query).Int("count", len(movies)).Msg("Searched TMDB movies")
	return movies, nil
}

// Favorites lists the account's favorite movies
func (c *Client) Favorites(ctx context.Context) ([]Movie, error) {
	return c.listMovies(ctx, "favorite movies", pathFavoriteMovies)
}

// Watchlist lists the movies on the account's watchlist
func (c *Client) Watchlist(ctx context.Context) ([]Movie, error) {
	return c.listMovies(ctx, "watchlist movies", pathWatchlistMovies)
}

func (c *Client) listMovies(ctx context.Context, operation, path string) ([]Movie, error) {
	creds, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	body, err := c.transport.Do(ctx, Request{
		Method:     http.MethodGet,
		Path:       path,
		PathParams: userPathParams(creds),
		Query:      map[string]string{paramSessionID: creds.SessionID},
	})
	if err != nil {
		return nil, err
	}

	movies, err := decodeMovies(body, operation)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("list", operation).Int("count", len(movies)).Msg("Retrieved account movies")
	return movies, nil
}

// FetchConfig fetches the image configuration and makes it the active one.
// On any failure the previous configuration stays in place.
func (c *Client) FetchConfig(ctx context.Context) error {
	body, err := c.transport.Do(ctx, Request{Method: http.MethodGet, Path: pathConfiguration})
	if err != nil {
		return err
	}

	cfg, err := decodeConfig(body)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()

	c.logger.Debug().Str("base_url", cfg.SecureBaseImageURL).Msg("Updated TMDB configuration")
	return nil
}

// Config returns a copy of the active image configuration
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.clone()
}

// SetFavorite marks or unmarks movie as a favorite and returns the API status code
func (c *Client) SetFavorite(ctx context.Context, movie Movie, favorite bool) (int, error) {
	return c.mark(ctx, "favorite", pathFavorite, "favorite", movie, favorite)
}

// SetWatchlist adds or removes movie from the watchlist and returns the API status code
func (c *Client) SetWatchlist(ctx context.Context, movie Movie, watchlist bool) (int, error) {
	return c.mark(ctx, "watchlist", pathWatchlist, "watchlist", movie, watchlist)
}

func (c *Client) mark(ctx context.Context, operation, path, flagKey string, movie Movie, flag bool) (int, error) {
	creds, err := c.requireSession()
	if err != nil {
		return 0, err
	}

	payload, err := markBody(movie.ID, flagKey, flag)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s body: %w", operation, err)
	}

	body, err := c.transport.Do(ctx, Request{
		Method:     http.MethodPost,
		Path:       path,
		PathParams: userPathParams(creds),
		Query:      map[string]string{paramSessionID: creds.SessionID},
		Body:       payload,
	})
	if err != nil {
		return 0, err
	}

	code, err := intField(body, operation, fieldStatusCode)
	if err != nil {
		return 0, err
	}

	c.logger.Debug().
		Int64("movie_id", movie.ID).
		Str("list", operation).
		Bool("value", flag).
		Int64("status_code", code).
		Msg("Updated movie")
	return int(code), nil
}

// requireSession fails fast before any request is sent
func (c *Client) requireSession() (Credentials, error) {
	creds := c.session.Credentials()
	if !creds.Authenticated() {
		return creds, ErrNotAuthenticated
	}
	return creds, nil
}

func userPathParams(creds Credentials) map[string]string {
	return map[string]string{"id": strconv.FormatInt(creds.UserID, 10)}
}
