package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkravets/aerobook/config"
	"github.com/mkravets/aerobook/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops the cached flight list after an inventory write.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// AcquireFlightLock serializes booking creation per flight across instances.
// The guarded decrement in the booking transaction remains the correctness
// backstop when the lock cannot be taken.
func (c *RedisCache) AcquireFlightLock(ctx context.Context, flightID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, flightLockKey(flightID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseFlightLock(ctx context.Context, flightID string) error {
	return c.client.Del(ctx, flightLockKey(flightID)).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func flightLockKey(flightID string) string {
	return fmt.Sprintf("lock:flight:%s", flightID)
}
