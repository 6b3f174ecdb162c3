package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	posterSize string
	posterOut  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the TMDB image configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var posterCmd = &cobra.Command{
	Use:   "poster <query>",
	Short: "Download the poster of the best matching movie",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPoster,
}

func init() {
	posterCmd.Flags().StringVar(&posterSize, "size", "w500", "poster size, see 'config' for the available sizes")
	posterCmd.Flags().StringVarP(&posterOut, "output", "o", "", "output file (default is <movie-id><ext>)")

	rootCmd.AddCommand(configCmd, posterCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := client.FetchConfig(cmd.Context()); err != nil {
		return fmt.Errorf("failed to fetch configuration: %w", err)
	}

	c := client.Config()
	fmt.Printf("Image base URL:        %s\n", c.BaseImageURL)
	fmt.Printf("Secure image base URL: %s\n", c.SecureBaseImageURL)
	fmt.Printf("Poster sizes:          %s\n", strings.Join(c.PosterSizes, ", "))
	fmt.Printf("Profile sizes:         %s\n", strings.Join(c.ProfileSizes, ", "))
	return nil
}

func runPoster(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	// Sizes come from the server; the defaults stay in place if this fails
	if err := client.FetchConfig(ctx); err != nil {
		logger.Warn().Err(err).Msg("Using default image configuration")
	}

	movies, err := client.SearchMovies(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, movie := range movies {
		if !movie.HasPoster() {
			continue
		}

		data, err := client.FetchPoster(ctx, movie, posterSize)
		if err != nil {
			return fmt.Errorf("failed to download poster for %s: %w", movie.Title, err)
		}

		out := posterOut
		if out == "" {
			out = fmt.Sprintf("%d%s", movie.ID, filepath.Ext(movie.PosterPath))
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write poster: %w", err)
		}

		fmt.Printf("✓ Saved poster for %s (%d bytes) to %s\n", movie.Title, len(data), out)
		return nil
	}

	return fmt.Errorf("no movie with a poster matches %q", query)
}
