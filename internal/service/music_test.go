package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memorybook/internal/model"
	"memorybook/internal/music"
	repoMocks "memorybook/internal/repository/mocks"
)

type stubSearcher struct {
	tracks  []model.Track
	err     error
	calls   int
	lastQ   string
	lastLim int
}

func (s *stubSearcher) SearchTracks(_ context.Context, q string, limit int) ([]model.Track, error) {
	s.calls++
	s.lastQ, s.lastLim = q, limit
	return s.tracks, s.err
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 25, ClampLimit(25))
	assert.Equal(t, 50, ClampLimit(500))
}

func TestMusicService_ShortQuery(t *testing.T) {
	s := &stubSearcher{}
	svc := NewMusicService(s, nil, 0, nil)

	for _, q := range []string{"", " ", "a", " é "} {
		res := svc.Search(context.Background(), q, 10)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	}
	assert.Zero(t, s.calls)
}

func TestMusicService_PassesTrimmedQueryAndClampedLimit(t *testing.T) {
	s := &stubSearcher{tracks: []model.Track{{ID: "1"}}}
	svc := NewMusicService(s, nil, 0, nil)

	res := svc.Search(context.Background(), "  Evidências ", 99)
	assert.Len(t, res, 1)
	assert.Equal(t, "Evidências", s.lastQ)
	assert.Equal(t, 50, s.lastLim)
}

func TestMusicService_ProviderErrorIsEmpty(t *testing.T) {
	s := &stubSearcher{err: music.ErrProviderUnavailable}
	svc := NewMusicService(s, nil, 0, nil)

	res := svc.Search(context.Background(), "imagine", 10)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestMusicService_WithCatalog(t *testing.T) {
	svc := NewMusicService(music.NewCatalog(), nil, 0, nil)

	res := svc.Search(context.Background(), "QUEEN", 10)
	require.Len(t, res, 1)
	assert.Equal(t, "Bohemian Rhapsody", res[0].Name)
	assert.Equal(t, "https://open.spotify.com/track/1AhDOtG9vPSomsx4M8R6rw", res[0].ExternalURL)
}

func TestMusicService_CacheHit(t *testing.T) {
	s := &stubSearcher{}
	cache := new(repoMocks.MockTrackCache)
	cached := []model.Track{{ID: "cached"}}
	cache.On("Get", mock.Anything, "imagine|10").Return(cached, true, nil)

	svc := NewMusicService(s, cache, time.Minute, nil)
	res := svc.Search(context.Background(), "Imagine", 10)

	assert.Equal(t, cached, res)
	assert.Zero(t, s.calls)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMusicService_CacheMissStores(t *testing.T) {
	tracks := []model.Track{{ID: "fresh"}}
	s := &stubSearcher{tracks: tracks}
	cache := new(repoMocks.MockTrackCache)
	cache.On("Get", mock.Anything, "garota de ipanema|5").Return(nil, false, nil)
	cache.On("Set", mock.Anything, "garota de ipanema|5", tracks, time.Minute).Return(nil)

	svc := NewMusicService(s, cache, time.Minute, nil)
	res := svc.Search(context.Background(), "Garota de Ipanema", 5)

	assert.Equal(t, tracks, res)
	cache.AssertExpectations(t)
}

func TestMusicService_CacheErrorsIgnored(t *testing.T) {
	tracks := []model.Track{{ID: "x"}}
	s := &stubSearcher{tracks: tracks}
	cache := new(repoMocks.MockTrackCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("redis down"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := NewMusicService(s, cache, time.Minute, nil)
	assert.Equal(t, tracks, svc.Search(context.Background(), "havana", 10))
	assert.Equal(t, 1, s.calls)
}

func TestMusicService_ProviderErrorNotCached(t *testing.T) {
	s := &stubSearcher{err: errors.New("timeout")}
	cache := new(repoMocks.MockTrackCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)

	svc := NewMusicService(s, cache, time.Minute, nil)
	svc.Search(context.Background(), "havana", 10)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
