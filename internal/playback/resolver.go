package playback

import (
	"context"

	"github.com/lmorel/chorus/internal/catalog"
)

// Resolver is the slice of the catalog client the service needs.
type Resolver interface {
	ResolveURL(ctx context.Context, trackID, quality string) (*catalog.Resolution, error)
	FetchLyric(ctx context.Context, trackID string) (*catalog.Lyric, error)
}

// Verify the catalog client satisfies Resolver at compile time.
var _ Resolver = (*catalog.Client)(nil)
