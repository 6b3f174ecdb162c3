package cmd

import (
	"fmt"
	"strings"

	"github.com/s0up4200/moviemanager/tmdb"
)

// overviewWidth caps the overview shown under a movie
const overviewWidth = 100

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	ImageBase   string
}

// ConsoleFormatter renders movie lists as a tree for the terminal
type ConsoleFormatter struct{}

// FormatMovieList formats a titled list of movies for console display
func (f ConsoleFormatter) FormatMovieList(title string, movies []tmdb.Movie, options FormatOptions) string {
	if len(movies) == 0 {
		return fmt.Sprintf("%s: no movies found\n", title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", title, len(movies))

	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatMovie(&sb, movie, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	return sb.String()
}

func (f ConsoleFormatter) formatMovie(sb *strings.Builder, movie tmdb.Movie, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	if year := movie.ReleaseYear(); year > 0 {
		fmt.Fprintf(sb, "%s── %s (%d) [%d]\n", prefix, movie.Title, year, movie.ID)
	} else {
		fmt.Fprintf(sb, "%s── %s [%d]\n", prefix, movie.Title, movie.ID)
	}

	if !options.ShowDetails {
		return
	}

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if movie.VoteAverage > 0 {
		fmt.Fprintf(sb, "%sRating: %.1f\n", indent, movie.VoteAverage)
	}
	if movie.HasPoster() && options.ImageBase != "" {
		fmt.Fprintf(sb, "%sPoster: %s%s\n", indent, options.ImageBase, movie.PosterPath)
	}
	if movie.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, truncate(movie.Overview, overviewWidth))
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
