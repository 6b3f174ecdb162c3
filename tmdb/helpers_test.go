package tmdb

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

// apiServer is a fake TMDB API rooted at /3 that counts hits per path
type apiServer struct {
	*httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	routes map[string]http.HandlerFunc
}

func newAPIServer(t *testing.T, routes map[string]http.HandlerFunc) *apiServer {
	t.Helper()

	s := &apiServer{
		hits:   make(map[string]int),
		routes: routes,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/3")

		s.mu.Lock()
		s.hits[path]++
		s.mu.Unlock()

		assert.Equal(t, testAPIKey, r.URL.Query().Get("api_key"))

		handler, ok := s.routes[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *apiServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *apiServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func jsonResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

func statusResponse(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, `{"status_code":7,"status_message":"Invalid API key"}`)
	}
}

func newTestClient(t *testing.T, srv *apiServer, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithBaseURL(srv.URL + "/3")}, opts...)
	client, err := NewClient(testAPIKey, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

// loggedIn puts the client in the state a successful handshake leaves behind
func loggedIn(c *Client, sessionID string, userID int64) {
	c.session.begin("tok1")
	c.session.setSessionID(sessionID)
	c.session.setUserID(userID)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// stubHTTPClient answers every request with the given status and body
func stubHTTPClient(status int, body string) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	})}
}
