package repository

import (
	"context"
	"time"

	"memorybook/internal/model"
)

// TrackCache stores music search results. A miss is reported as (nil, false, nil).
type TrackCache interface {
	Get(ctx context.Context, key string) ([]model.Track, bool, error)
	Set(ctx context.Context, key string, tracks []model.Track, ttl time.Duration) error
}
