package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	redisKeyPrefix = "barber:mirror:"
	redisChannel   = "barber:mirror:changes"
)

// redisCmdable is the part of *redis.Client the key operations use.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisBackend shares one mirror between several processes. Every write
// publishes the key so the other processes can raise a storage event.
type RedisBackend struct {
	client *redis.Client
	cmd    redisCmdable
	origin string
	log    zerolog.Logger
}

func NewRedisBackend(ctx context.Context, url string, log zerolog.Logger) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisBackend{
		client: client,
		cmd:    client,
		origin: uuid.NewString(),
		log:    log.With().Str("component", "mirror_redis").Logger(),
	}, nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.cmd.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.cmd.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	b.announce(ctx, key)
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.cmd.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	b.announce(ctx, key)
	return nil
}

// announce tells the other processes about a write that already landed.
// A failed publish is logged only.
func (b *RedisBackend) announce(ctx context.Context, key string) {
	if err := b.cmd.Publish(ctx, redisChannel, encodeSignal(b.origin, key)).Err(); err != nil {
		b.log.Warn().Err(err).Str("key", key).Msg("change signal not published")
	}
}

// Watch yields keys written by other processes. Our own publishes are
// filtered out by origin.
func (b *RedisBackend) Watch(ctx context.Context) (<-chan string, error) {
	pubsub := b.client.Subscribe(ctx, redisChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", redisChannel, err)
	}

	out := make(chan string, 16)
	go func() {
		defer func() {
			_ = pubsub.Close()
			close(out)
		}()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				origin, key, ok := decodeSignal(msg.Payload)
				if !ok || origin == b.origin {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (b *RedisBackend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

func encodeSignal(origin, key string) string {
	return origin + "|" + key
}

func decodeSignal(payload string) (origin, key string, ok bool) {
	origin, key, ok = strings.Cut(payload, "|")
	if !ok || origin == "" || key == "" {
		return "", "", false
	}
	return origin, key, true
}
