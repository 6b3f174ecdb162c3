package tmdb

import (
	"context"
	"fmt"
	"strings"
)

// ImageURL builds the URL of an image at the given size using the active
// configuration's secure base URL
func (c *Client) ImageURL(size, filePath string) (string, error) {
	cfg := c.Config()
	if !cfg.HasSize(size) {
		return "", fmt.Errorf("unknown image size %q", size)
	}
	if filePath == "" {
		return "", fmt.Errorf("image path is required")
	}

	base := strings.TrimRight(cfg.SecureBaseImageURL, "/")
	return base + "/" + size + "/" + strings.TrimLeft(filePath, "/"), nil
}

// FetchImage downloads an image. Failures map the same way as API calls,
// except the body is returned as-is rather than validated as JSON.
func (c *Client) FetchImage(ctx context.Context, size, filePath string) ([]byte, error) {
	imageURL, err := c.ImageURL(size, filePath)
	if err != nil {
		return nil, err
	}
	return c.transport.Get(ctx, imageURL)
}

// FetchPoster downloads the movie's poster at the given size
func (c *Client) FetchPoster(ctx context.Context, movie Movie, size string) ([]byte, error) {
	if !movie.HasPoster() {
		return nil, fmt.Errorf("movie %d has no poster", movie.ID)
	}
	return c.FetchImage(ctx, size, movie.PosterPath)
}
