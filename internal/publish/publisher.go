package publish

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited indicates the platform rejected the post with HTTP 429.
	// Surfaced distinctly so the caller can report it; there is no retry.
	ErrRateLimited = errors.New("publish rate limit exceeded")
)

// Publisher posts a text-plus-image update to a social platform. The image is
// read from the transient artifact at imagePath; the caller owns the artifact
// lifecycle and deletes it after Publish returns.
type Publisher interface {
	Publish(ctx context.Context, text string, imagePath string) error
}
