package tmdb

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MaxBatchConcurrency limits concurrent account mutations
const MaxBatchConcurrency = 5

// Library fetches favorites and watchlist concurrently. Both calls only read
// the session, so they may overlap.
func (c *Client) Library(ctx context.Context) (*Library, error) {
	if _, err := c.requireSession(); err != nil {
		return nil, err
	}

	var lib Library
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		movies, err := c.Favorites(ctx)
		if err != nil {
			return err
		}
		lib.Favorites = movies
		return nil
	})

	g.Go(func() error {
		movies, err := c.Watchlist(ctx)
		if err != nil {
			return err
		}
		lib.Watchlist = movies
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// SetFavorites marks or unmarks several movies as favorites
func (c *Client) SetFavorites(ctx context.Context, movies []Movie, favorite bool) (BatchResult, error) {
	return c.batchMark(ctx, movies, favorite, c.SetFavorite)
}

// SetWatchlists adds or removes several movies from the watchlist
func (c *Client) SetWatchlists(ctx context.Context, movies []Movie, watchlist bool) (BatchResult, error) {
	return c.batchMark(ctx, movies, watchlist, c.SetWatchlist)
}

type markFunc func(ctx context.Context, movie Movie, flag bool) (int, error)

// batchMark applies mark to each movie with bounded concurrency. Individual
// failures are collected, not fatal.
func (c *Client) batchMark(ctx context.Context, movies []Movie, flag bool, mark markFunc) (BatchResult, error) {
	result := BatchResult{
		Requested: len(movies),
	}

	if len(movies) == 0 {
		return result, nil
	}
	if _, err := c.requireSession(); err != nil {
		return result, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxBatchConcurrency)

	successChan := make(chan int64, len(movies))
	errorChan := make(chan MarkError, len(movies))

	for _, movie := range movies {
		g.Go(func() error {
			if _, err := mark(ctx, movie, flag); err != nil {
				errorChan <- MarkError{
					MovieID:    movie.ID,
					MovieTitle: movie.Title,
					Err:        err,
				}
			} else {
				successChan <- movie.ID
			}
			return nil
		})
	}

	_ = g.Wait()
	close(successChan)
	close(errorChan)

	for id := range successChan {
		result.Successful = append(result.Successful, id)
	}
	for err := range errorChan {
		c.logger.Warn().Err(err.Err).Int64("movie_id", err.MovieID).Msg("Failed to update movie")
		result.Failed = append(result.Failed, err)
	}

	return result, nil
}
