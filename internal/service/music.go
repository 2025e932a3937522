package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"memorybook/internal/logging"
	"memorybook/internal/model"
	"memorybook/internal/music"
	"memorybook/internal/repository"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
	minQueryLength     = 2
)

// MusicService searches tracks for the memory form. It never fails: provider
// problems degrade to an empty result.
type MusicService interface {
	Search(ctx context.Context, query string, limit int) []model.Track
}

type musicService struct {
	searcher music.Searcher
	cache    repository.TrackCache
	ttl      time.Duration
	log      *slog.Logger
}

// NewMusicService constructs a MusicService. cache may be nil to disable caching.
func NewMusicService(searcher music.Searcher, cache repository.TrackCache, ttl time.Duration, log *slog.Logger) MusicService {
	if log == nil {
		log = logging.Nop()
	}
	return &musicService{searcher: searcher, cache: cache, ttl: ttl, log: log}
}

// ClampLimit bounds limit to [1, MaxSearchLimit].
func ClampLimit(limit int) int {
	return max(1, min(MaxSearchLimit, limit))
}

func (s *musicService) Search(ctx context.Context, query string, limit int) []model.Track {
	ctx, span := tracer.Start(ctx, "music.Search")
	defer span.End()

	q := music.Normalize(query)
	if utf8.RuneCountInString(q) < minQueryLength {
		return []model.Track{}
	}
	limit = ClampLimit(limit)
	key := q + "|" + strconv.Itoa(limit)

	if s.cache != nil {
		tracks, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.WarnContext(ctx, "music_cache_get_failed", "error", err.Error())
		} else if ok {
			return tracks
		}
	}

	tracks, err := s.searcher.SearchTracks(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		s.log.ErrorContext(ctx, "spotify_search_error", "error", err.Error())
		return []model.Track{}
	}
	if tracks == nil {
		tracks = []model.Track{}
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, tracks, s.ttl); err != nil {
			s.log.WarnContext(ctx, "music_cache_set_failed", "error", err.Error())
		}
	}
	return tracks
}
