package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"memorybook/internal/model"
	"memorybook/internal/repository"
)

const trackSearchKeyPrefix = "music:search:"

// TrackCache implements repository.TrackCache on Redis. Values are JSON-encoded track lists.
type TrackCache struct {
	client goredis.Cmdable
}

func NewTrackCache(client goredis.Cmdable) *TrackCache {
	return &TrackCache{client: client}
}

var _ repository.TrackCache = (*TrackCache)(nil)

func (c *TrackCache) Get(ctx context.Context, key string) ([]model.Track, bool, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", trackSearchKeyPrefix+key)),
	)
	defer span.End()

	data, err := c.client.Get(ctx, trackSearchKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return nil, false, nil
		}
		span.RecordError(err)
		return nil, false, fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	var tracks []model.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		span.RecordError(err)
		return nil, false, fmt.Errorf("unmarshal cached tracks: %w", err)
	}
	return tracks, true, nil
}

func (c *TrackCache) Set(ctx context.Context, key string, tracks []model.Track, ttl time.Duration) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", trackSearchKeyPrefix+key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	if tracks == nil {
		tracks = []model.Track{}
	}
	data, err := json.Marshal(tracks)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal tracks: %w", err)
	}
	if err := c.client.Set(ctx, trackSearchKeyPrefix+key, data, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}
