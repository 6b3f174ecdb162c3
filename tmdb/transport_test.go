package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubTransport(t *testing.T, status int, body string) *Transport {
	t.Helper()
	transport, err := NewTransport("https://api.example.test/3", testAPIKey, stubHTTPClient(status, body), time.Second, zerolog.Nop())
	require.NoError(t, err)
	return transport
}

func TestNewTransport(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		errMsg  string
	}{
		{name: "valid config", baseURL: DefaultBaseURL, apiKey: testAPIKey},
		{name: "trailing slash", baseURL: DefaultBaseURL + "/", apiKey: testAPIKey},
		{name: "missing API key", baseURL: DefaultBaseURL, errMsg: "API key is required"},
		{name: "relative URL", baseURL: "api.themoviedb.org/3", apiKey: testAPIKey, errMsg: "invalid base URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport, err := NewTransport(tt.baseURL, tt.apiKey, nil, 0, zerolog.Nop())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "/3", transport.baseURL.Path)
		})
	}
}

func TestBuildURL(t *testing.T) {
	transport := newStubTransport(t, 200, "{}")

	t.Run("api key and query", func(t *testing.T) {
		u, err := transport.buildURL(Request{
			Method: http.MethodGet,
			Path:   pathSearchMovie,
			Query:  map[string]string{"query": "alien"},
		})
		require.NoError(t, err)
		assert.Equal(t, "https", u.Scheme)
		assert.Equal(t, "api.example.test", u.Host)
		assert.Equal(t, "/3/search/movie", u.Path)
		assert.Equal(t, "alien", u.Query().Get("query"))
		assert.Equal(t, testAPIKey, u.Query().Get("api_key"))
	})

	t.Run("api key cannot be overridden", func(t *testing.T) {
		u, err := transport.buildURL(Request{
			Path:  pathConfiguration,
			Query: map[string]string{"api_key": "other"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{testAPIKey}, u.Query()["api_key"])
	})

	t.Run("path template", func(t *testing.T) {
		u, err := transport.buildURL(Request{
			Path:       pathFavoriteMovies,
			PathParams: map[string]string{"id": "42"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/3/account/42/favorite/movies", u.Path)
	})

	t.Run("path values escaped once", func(t *testing.T) {
		u, err := transport.buildURL(Request{
			Path:       pathFavoriteMovies,
			PathParams: map[string]string{"id": "a b/{c}%"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/3/account/a b/{c}%/favorite/movies", u.Path)
		assert.Equal(t, "/3/account/a%20b%2F%7Bc%7D%25/favorite/movies", u.EscapedPath())
		assert.Contains(t, u.String(), "/3/account/a%20b%2F%7Bc%7D%25/favorite/movies?")
	})

	t.Run("escaped path reaches the server", func(t *testing.T) {
		var gotRawPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRawPath = r.URL.EscapedPath()
			w.Write([]byte(`{}`))
		}))
		t.Cleanup(srv.Close)

		live, err := NewTransport(srv.URL+"/3", testAPIKey, srv.Client(), time.Second, zerolog.Nop())
		require.NoError(t, err)
		_, err = live.Do(context.Background(), Request{
			Method:     http.MethodGet,
			Path:       pathFavoriteMovies,
			PathParams: map[string]string{"id": "{x}"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/3/account/%7Bx%7D/favorite/movies", gotRawPath)
	})

	t.Run("unresolved placeholder", func(t *testing.T) {
		_, err := transport.buildURL(Request{Path: pathFavoriteMovies})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unresolved placeholder")
	})
}

func TestTransportStatusBoundaries(t *testing.T) {
	tests := []struct {
		status  int
		wantErr bool
	}{
		{199, true},
		{200, false},
		{204, false},
		{299, false},
		{300, true},
		{404, true},
		{500, true},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			transport := newStubTransport(t, tt.status, `{"ok":true}`)

			body, err := transport.Do(context.Background(), Request{Method: http.MethodGet, Path: pathConfiguration})
			if !tt.wantErr {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(body))
				return
			}

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, `{"ok":true}`, statusErr.Body)
		})
	}
}

func TestTransportBodyErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "whitespace body", body: " \n", wantErr: ErrEmptyBody},
		{name: "not json", body: "<html>oops</html>", wantErr: ErrDecode},
		{name: "truncated json", body: `{"request_token":`, wantErr: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := newStubTransport(t, http.StatusOK, tt.body)
			_, err := transport.Do(context.Background(), Request{Method: http.MethodGet, Path: pathTokenNew})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransportNetworkError(t *testing.T) {
	failing := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset by peer")
	})}
	transport, err := NewTransport(DefaultBaseURL, testAPIKey, failing, 0, zerolog.Nop())
	require.NoError(t, err)

	_, err = transport.Do(context.Background(), Request{Method: http.MethodGet, Path: pathTokenNew})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "connection reset by peer")
}

func TestTransportTimeout(t *testing.T) {
	srv := newAPIServer(t, map[string]http.HandlerFunc{
		pathTokenNew: func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	})

	transport, err := NewTransport(srv.URL+"/3", testAPIKey, nil, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)

	_, err = transport.Do(context.Background(), Request{Method: http.MethodGet, Path: pathTokenNew})
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestTransportCanceledContext(t *testing.T) {
	srv := newAPIServer(t, map[string]http.HandlerFunc{
		pathTokenNew: jsonResponse(`{"request_token":"tok1"}`),
	})
	transport, err := NewTransport(srv.URL+"/3", testAPIKey, nil, time.Second, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = transport.Do(ctx, Request{Method: http.MethodGet, Path: pathTokenNew})
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, srv.Hits(pathTokenNew))
}

func TestTransportPostHeaders(t *testing.T) {
	var (
		gotMethod string
		gotBody   string
		gotHeader http.Header
	)
	srv := newAPIServer(t, map[string]http.HandlerFunc{
		"/account/42/favorite": func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotHeader = r.Header.Clone()
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			jsonResponse(`{"status_code":1}`)(w, r)
		},
	})

	transport, err := NewTransport(srv.URL+"/3", testAPIKey, nil, time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = transport.Do(context.Background(), Request{
		Method:     http.MethodPost,
		Path:       pathFavorite,
		PathParams: map[string]string{"id": "42"},
		Body:       []byte(`{"media_id":1}`),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, `{"media_id":1}`, gotBody)
}

func TestRedactedQuery(t *testing.T) {
	transport := newStubTransport(t, 200, "{}")
	u, err := transport.buildURL(Request{Path: pathAccount, Query: map[string]string{"session_id": "secret"}})
	require.NoError(t, err)

	redacted := redactedQuery(u.Query())
	assert.NotContains(t, redacted, testAPIKey)
	assert.NotContains(t, redacted, "secret")
	assert.Equal(t, testAPIKey, u.Query().Get("api_key"))
}
