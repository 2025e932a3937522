// Package music finds tracks to attach to a memory, either through the Spotify Web
// API or, when no credentials are configured, through a small built-in catalog.
package music

import (
	"context"
	"errors"

	"memorybook/internal/model"
)

// ErrProviderUnavailable wraps failures talking to the upstream provider.
var ErrProviderUnavailable = errors.New("music provider unavailable")

// Searcher looks tracks up by free text. limit is already clamped by the caller.
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error)
}

const trackURLPrefix = "https://open.spotify.com/track/"

// TrackURL is the public web link of a track id.
func TrackURL(id string) string {
	return trackURLPrefix + id
}
