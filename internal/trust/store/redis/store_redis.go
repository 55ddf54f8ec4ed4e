// Package redis implements the trust store on Redis for deployments that
// already run Redis. Scores live in one hash per key; the clamped delta runs
// as a Lua script so the read-modify-write is atomic on the server.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"medtrust/internal/trust"
)

const keyPrefix = "medtrust:trust:"

// applyDeltaScript performs the clamped read-modify-write server-side.
// KEYS[1] = hash key, ARGV = delta, default, min, max, timestamp.
var applyDeltaScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'score')
if not cur then cur = ARGV[2] end
local new = tonumber(cur) + tonumber(ARGV[1])
if new < tonumber(ARGV[3]) then new = tonumber(ARGV[3]) end
if new > tonumber(ARGV[4]) then new = tonumber(ARGV[4]) end
redis.call('HSET', KEYS[1], 'score', new, 'last_updated', ARGV[5])
return tostring(new)
`)

// RedisStore persists trust scores in Redis hashes.
type RedisStore struct {
	client       redis.Cmdable
	defaultScore float64
}

// NewRedis constructs a Redis-backed trust store with the injected default
// score for unseen keys.
func NewRedis(client redis.Cmdable, defaultScore float64) *RedisStore {
	return &RedisStore{client: client, defaultScore: trust.Clamp(defaultScore)}
}

func (s *RedisStore) Score(ctx context.Context, key trust.Key) (float64, error) {
	val, err := s.client.HGet(ctx, keyPrefix+key.String(), "score").Result()
	if err == redis.Nil {
		return s.defaultScore, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get trust score: %w", err)
	}

	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parse trust score %q: %w", val, err)
	}
	return score, nil
}

func (s *RedisStore) ApplyDelta(ctx context.Context, key trust.Key, delta float64) (float64, error) {
	val, err := applyDeltaScript.Run(ctx, s.client,
		[]string{keyPrefix + key.String()},
		delta,
		s.defaultScore,
		trust.MinScore,
		trust.MaxScore,
		time.Now().UTC().Format(time.RFC3339Nano),
	).Text()
	if err != nil {
		return 0, fmt.Errorf("apply trust delta: %w", err)
	}

	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parse trust delta result %q: %w", val, err)
	}
	return score, nil
}

func (s *RedisStore) SetFactors(ctx context.Context, key trust.Key, factors map[string]any) error {
	fields := make(map[string]any, len(factors))
	for k, v := range factors {
		fields["factor:"+k] = fmt.Sprint(v)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, keyPrefix+key.String(), fields).Err(); err != nil {
		return fmt.Errorf("set trust factors: %w", err)
	}
	return nil
}
