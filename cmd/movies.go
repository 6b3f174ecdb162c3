package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviemanager/tmdb"
)

var (
	filterExpr  string
	remove      bool
	showDetails bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search TMDB for movies",
	Long: `Search TMDB for movies matching the query. Results can be narrowed with
--filter, which takes either a preset name from the config or an expression
such as 'ReleaseYear >= 2000 and VoteAverage > 7'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List your favorite movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), "Favorites", client.Favorites)
	},
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "List the movies on your watchlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), "Watchlist", client.Watchlist)
	},
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List both your favorites and your watchlist",
	Args:  cobra.NoArgs,
	RunE:  runLibrary,
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <movie-id>...",
	Short: "Mark movies as favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMark(cmd.Context(), args, "favorites", client.SetFavorites)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <movie-id>...",
	Short: "Add movies to your watchlist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMark(cmd.Context(), args, "watchlist", client.SetWatchlists)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter preset or expression")
	libraryCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter preset or expression")
	favoriteCmd.Flags().BoolVar(&remove, "remove", false, "remove instead of add")
	watchCmd.Flags().BoolVar(&remove, "remove", false, "remove instead of add")

	for _, c := range []*cobra.Command{searchCmd, favoritesCmd, watchlistCmd, libraryCmd} {
		c.Flags().BoolVar(&showDetails, "details", false, "show rating, poster URL and overview")
	}

	rootCmd.AddCommand(searchCmd, favoritesCmd, watchlistCmd, libraryCmd, favoriteCmd, watchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	logger.Info().Str("query", query).Msg("Searching movies")

	movies, err := client.SearchMovies(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	movies, err = applyFilter(ctx, movies)
	if err != nil {
		return err
	}

	printMovies("Results", movies)
	return nil
}

func runList(ctx context.Context, title string, list func(context.Context) ([]tmdb.Movie, error)) error {
	return withSession(ctx, func(ctx context.Context) error {
		movies, err := list(ctx)
		if err != nil {
			return err
		}
		printMovies(title, movies)
		return nil
	})
}

func runLibrary(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(ctx context.Context) error {
		lib, err := client.Library(ctx)
		if err != nil {
			return err
		}

		favorites, err := applyFilter(ctx, lib.Favorites)
		if err != nil {
			return err
		}
		watchlist, err := applyFilter(ctx, lib.Watchlist)
		if err != nil {
			return err
		}

		printMovies("Favorites", favorites)
		printMovies("Watchlist", watchlist)
		return nil
	})
}

type batchFunc func(ctx context.Context, movies []tmdb.Movie, flag bool) (tmdb.BatchResult, error)

func runMark(ctx context.Context, args []string, list string, mark batchFunc) error {
	movies, err := parseMovieIDs(args)
	if err != nil {
		return err
	}

	return withSession(ctx, func(ctx context.Context) error {
		result, err := mark(ctx, movies, !remove)
		if err != nil {
			return err
		}

		action := "Added to"
		if remove {
			action = "Removed from"
		}
		for _, id := range result.Successful {
			fmt.Printf("✓ %s %s: %d\n", action, list, id)
		}
		for _, failure := range result.Failed {
			fmt.Printf("✗ %d: %v\n", failure.MovieID, failure.Err)
		}

		if len(result.Failed) > 0 {
			return fmt.Errorf("%d of %d movies could not be updated", len(result.Failed), result.Requested)
		}
		return nil
	})
}

// parseMovieIDs turns positive integer arguments into movies
func parseMovieIDs(args []string) ([]tmdb.Movie, error) {
	movies := make([]tmdb.Movie, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid movie id: %q", arg)
		}
		movies = append(movies, tmdb.Movie{ID: id})
	}
	return movies, nil
}

func applyFilter(ctx context.Context, movies []tmdb.Movie) ([]tmdb.Movie, error) {
	if filterExpr == "" {
		return movies, nil
	}

	matches, err := filters.Apply(ctx, filterExpr, movies)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().Str("filter", filterExpr).Int("matches", len(matches)).Int("total", len(movies)).Msg("Applied filter")
	return matches, nil
}

func printMovies(title string, movies []tmdb.Movie) {
	options := FormatOptions{ShowDetails: showDetails}
	if showDetails {
		if base, err := client.ImageURL(posterSize, "/"); err == nil {
			options.ImageBase = strings.TrimSuffix(base, "/")
		}
	}
	fmt.Print(ConsoleFormatter{}.FormatMovieList(title, movies, options))
}
