package tmdb

import (
	"fmt"
	"slices"
	"strconv"
)

// AuthState represents the position of the authentication flow
type AuthState int

const (
	// StateStart is the state before any step has run
	StateStart AuthState = iota
	// StateTokenObtained indicates a request token was issued
	StateTokenObtained
	// StateTokenValidated indicates the user authorized the request token
	StateTokenValidated
	// StateSessionCreated indicates a session id was issued
	StateSessionCreated
	// StateAuthenticated indicates the account id is known and the session is usable
	StateAuthenticated
	// StateFailed indicates the flow stopped at a failing step
	StateFailed
)

// String returns the string representation of an AuthState
func (s AuthState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateTokenObtained:
		return "TOKEN_OBTAINED"
	case StateTokenValidated:
		return "TOKEN_VALIDATED"
	case StateSessionCreated:
		return "SESSION_CREATED"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// MediaType represents the type of media sent in account mutations
type MediaType string

const (
	// MediaTypeMovie represents a movie
	MediaTypeMovie MediaType = "movie"
)

// Movie represents a movie entry from a results list
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// HasPoster reports whether the movie carries a poster path
func (m Movie) HasPoster() bool {
	return m.PosterPath != ""
}

// ReleaseYear returns the year of the release date, or 0 when unknown
func (m Movie) ReleaseYear() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Config holds the server-provided image configuration
type Config struct {
	BaseImageURL       string
	SecureBaseImageURL string
	PosterSizes        []string
	ProfileSizes       []string
}

// DefaultConfig returns the image configuration used until one is fetched
func DefaultConfig() Config {
	return Config{
		BaseImageURL:       "http://image.tmdb.org/t/p/",
		SecureBaseImageURL: "https://image.tmdb.org/t/p/",
		PosterSizes:        []string{"w92", "w154", "w185", "w342", "w500", "w780", "original"},
		ProfileSizes:       []string{"w45", "w185", "h632", "original"},
	}
}

// HasSize reports whether size is a known poster or profile size
func (c Config) HasSize(size string) bool {
	return slices.Contains(c.PosterSizes, size) || slices.Contains(c.ProfileSizes, size)
}

func (c Config) clone() Config {
	return Config{
		BaseImageURL:       c.BaseImageURL,
		SecureBaseImageURL: c.SecureBaseImageURL,
		PosterSizes:        slices.Clone(c.PosterSizes),
		ProfileSizes:       slices.Clone(c.ProfileSizes),
	}
}

// Credentials is a point-in-time copy of the session state
type Credentials struct {
	RequestToken string
	SessionID    string
	UserID       int64
	HasUserID    bool
}

// Authenticated reports whether user-scoped calls can be made
func (c Credentials) Authenticated() bool {
	return c.SessionID != "" && c.HasUserID
}

// Library groups the account's movie lists
type Library struct {
	Favorites []Movie
	Watchlist []Movie
}

// BatchResult contains the results of a batch mutation
type BatchResult struct {
	Requested  int
	Successful []int64
	Failed     []MarkError
}

// MarkError contains information about a failed favorite/watchlist mutation
type MarkError struct {
	MovieID    int64
	MovieTitle string
	Err        error
}

// Error implements the error interface
func (e MarkError) Error() string {
	return fmt.Sprintf("failed to update movie %s (ID: %d): %v", e.MovieTitle, e.MovieID, e.Err)
}

// Unwrap returns the underlying error
func (e MarkError) Unwrap() error {
	return e.Err
}
