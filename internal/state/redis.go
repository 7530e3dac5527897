package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces the state keys in Redis.
const keyPrefix = "ghauth:state:"

// Redis is a Store backed by Redis. It allows the redirect and the callback to hit different instances.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis returns a Redis store over the given client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// ConnectRedis creates a Redis client and verifies connectivity.
func ConnectRedis(ctx context.Context, addr, password string, db int) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the client to prevent resource leak.
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (r *Redis) Put(ctx context.Context, id string, value Value, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error in json.Marshal call: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("error in redis SET call: %w", err)
	}

	return nil
}

func (r *Redis) Consume(ctx context.Context, id string) (Value, error) {
	// GETDEL makes sure that only one callback can consume the state.
	data, err := r.client.GetDel(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Value{}, ErrNotFound
		}
		return Value{}, fmt.Errorf("error in redis GETDEL call: %w", err)
	}

	var value Value
	if err := json.Unmarshal(data, &value); err != nil {
		return Value{}, fmt.Errorf("error in json.Unmarshal call: %w", err)
	}

	return value, nil
}
