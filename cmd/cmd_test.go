package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/moviemanager/config"
	"github.com/s0up4200/moviemanager/tmdb"
)

func testAuthorizer(input io.Reader, out io.Writer, interactive bool) *terminalAuthorizer {
	return &terminalAuthorizer{
		in:          input,
		out:         out,
		interactive: interactive,
		urlFor: func(token string) string {
			return tmdb.AuthorizationURL("", token)
		},
	}
}

func TestTerminalAuthorizer(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		wantErr     string
	}{
		{name: "approved", input: "\n", interactive: true},
		{name: "cancelled", input: "n\n", interactive: true, wantErr: "authorization cancelled"},
		{name: "input closed", input: "", interactive: true, wantErr: "no confirmation received"},
		{name: "not a terminal", input: "\n", wantErr: "interactive terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			a := testAuthorizer(strings.NewReader(tt.input), &out, tt.interactive)

			err := a.Authorize(context.Background(), "tok1")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "https://www.themoviedb.org/authenticate/tok1")
		})
	}
}

func TestTerminalAuthorizerCanceled(t *testing.T) {
	// a pipe with no writer blocks the read until the context ends
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testAuthorizer(r, io.Discard, true).Authorize(ctx, "tok1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseMovieIDs(t *testing.T) {
	movies, err := parseMovieIDs([]string{"550", " 603 "})
	require.NoError(t, err)
	assert.Equal(t, []tmdb.Movie{{ID: 550}, {ID: 603}}, movies)

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		_, err := parseMovieIDs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestSetupLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			setupLogger(config.LoggingConfig{Level: tt.level, Format: "json"})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestFormatMovieList(t *testing.T) {
	movies := []tmdb.Movie{
		{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", PosterPath: "/fc.jpg", VoteAverage: 8.4, Overview: strings.Repeat("x", 150)},
		{ID: 999, Title: "Untitled"},
	}

	t.Run("compact", func(t *testing.T) {
		out := ConsoleFormatter{}.FormatMovieList("Results", movies, FormatOptions{})
		assert.Contains(t, out, "Results (2):")
		assert.Contains(t, out, "├── Fight Club (1999) [550]")
		assert.Contains(t, out, "╰── Untitled [999]")
		assert.NotContains(t, out, "Rating")
	})

	t.Run("details", func(t *testing.T) {
		out := ConsoleFormatter{}.FormatMovieList("Results", movies, FormatOptions{
			ShowDetails: true,
			ImageBase:   "https://image.tmdb.org/t/p/w500",
		})
		assert.Contains(t, out, "│   Rating: 8.4")
		assert.Contains(t, out, "│   Poster: https://image.tmdb.org/t/p/w500/fc.jpg")
		assert.Contains(t, out, strings.Repeat("x", 97)+"...")
		assert.NotContains(t, out, strings.Repeat("x", 98))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "Watchlist: no movies found\n", ConsoleFormatter{}.FormatMovieList("Watchlist", nil, FormatOptions{}))
	})
}
