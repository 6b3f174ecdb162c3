package tmdb

import (
	"context"
)

// Requester performs API round trips. Transport is the production implementation.
type Requester interface {
	// Do performs an API request and returns the raw JSON body
	Do(ctx context.Context, req Request) ([]byte, error)

	// Get fetches an absolute URL without the API key
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// API defines the interface for TMDB account and catalog operations
type API interface {
	// Authenticate establishes a session using the given authorizer
	Authenticate(ctx context.Context, authorizer Authorizer) error

	// Logout deletes the current session
	Logout(ctx context.Context) error

	// SearchMovies searches movies by title
	SearchMovies(ctx context.Context, query string) ([]Movie, error)

	// Favorites lists the account's favorite movies
	Favorites(ctx context.Context) ([]Movie, error)

	// Watchlist lists the account's watchlist
	Watchlist(ctx context.Context) ([]Movie, error)

	// FetchConfig replaces the active image configuration
	FetchConfig(ctx context.Context) error

	// SetFavorite marks or unmarks a movie as favorite
	SetFavorite(ctx context.Context, movie Movie, favorite bool) (int, error)

	// SetWatchlist adds or removes a movie from the watchlist
	SetWatchlist(ctx context.Context, movie Movie, watchlist bool) (int, error)
}

var (
	_ API       = (*Client)(nil)
	_ Requester = (*Transport)(nil)
)
