package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/cart/internal/otel"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
)

// Redis stores cart documents as plain string values. A zero ttl keeps them
// until deleted.
type Redis struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewRedis(cache *redis.Client, ttl time.Duration) *Redis {
	return &Redis{cache: cache, ttl: ttl}
}

func (r *Redis) Load(c context.Context, key string) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "storage Redis Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storage Redis Load").
		Str(log.KeyCacheKey, key).
		Str(log.KeyProcess, "getting value from cache").
		Logger()

	logger.Trace().Msg("getting value from cache")
	value, err := r.cache.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Trace().Msg("value not found in cache")
		return nil, ErrNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed getting key=%s from cache with error=%w", key, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("got value from cache")

	return value, nil
}

func (r *Redis) Save(c context.Context, key string, value []byte) error {
	c, span := otel.Tracer.Start(c, "storage Redis Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storage Redis Save").
		Str(log.KeyCacheKey, key).
		Str(log.KeyProcess, "setting value to cache").
		Logger()

	logger.Trace().Msg("setting value to cache")
	if err := r.cache.Set(c, key, value, r.ttl).Err(); err != nil {
		err = fmt.Errorf("failed setting key=%s to cache with error=%w", key, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("set value to cache")

	return nil
}

func (r *Redis) Delete(c context.Context, keys ...string) error {
	c, span := otel.Tracer.Start(c, "storage Redis Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storage Redis Delete").
		Strs(log.KeyCacheKey, keys).
		Str(log.KeyProcess, "deleting keys from cache").
		Logger()

	if len(keys) == 0 {
		return nil
	}

	logger.Trace().Msg("deleting keys from cache")
	if err := r.cache.Del(c, keys...).Err(); err != nil {
		err = fmt.Errorf("failed deleting keys=%v from cache with error=%w", keys, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("deleted keys from cache")

	return nil
}
