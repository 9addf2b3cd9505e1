package talentsnapshot

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/talent-api/internal/redis"
)

const (
	// KeyPrefix prefixes every snapshot key: talent_snapshot:{class}.
	KeyPrefix  = "talent_snapshot:"
	defaultTTL = 7 * 24 * time.Hour

	// unfiltered payloads are stored under this class key
	allClasses = "all"

	errSnapshotNil = "snapshot cannot be nil"
	errPayloadNil  = "snapshot payload cannot be nil"
)

// Config holds the Redis repository dependencies.
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	TTL    time.Duration
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	if c.TTL < 0 {
		return errors.InvalidArgument("ttl must not be negative")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository returns a Redis backed snapshot repository.
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &redisRepository{client: cfg.Client, clock: cfg.Clock, ttl: ttl}, nil
}

var _ Repository = (*redisRepository)(nil)

// Key returns the Redis key of a class snapshot.
func Key(class string) string {
	class = strings.ToLower(strings.TrimSpace(class))
	if class == "" {
		class = allClasses
	}
	return KeyPrefix + class
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	snap := input.Snapshot
	if snap == nil {
		return nil, errors.InvalidArgument(errSnapshotNil)
	}
	if snap.Payload == nil {
		return nil, errors.InvalidArgument(errPayloadNil)
	}
	if snap.Payload.Error != "" {
		return nil, errors.FailedPrecondition("refusing to store a failed payload")
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = r.ttl
	}
	now := r.clock.Now()
	stored := *snap
	if stored.FetchedAt.IsZero() {
		stored.FetchedAt = now
	}
	stored.ExpiresAt = now.Add(ttl)

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal snapshot")
	}
	if err := r.client.Set(ctx, Key(stored.Class), data, ttl).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store snapshot in Redis")
	}

	return &PutOutput{Snapshot: &stored}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	key := Key(input.Class)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no snapshot for %s", key)
		}
		return nil, errors.Wrap(err, "failed to get snapshot from Redis")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeDataLoss, "corrupt snapshot at %s", key)
	}
	if snap.Payload == nil {
		return nil, errors.DataLossf("snapshot at %s has no payload", key)
	}
	if !snap.ExpiresAt.IsZero() && r.clock.Now().After(snap.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFoundf("snapshot for %s has expired", key)
	}

	return &GetOutput{Snapshot: &snap}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	n, err := r.client.Del(ctx, Key(input.Class)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete snapshot from Redis")
	}
	return &DeleteOutput{Deleted: n > 0}, nil
}
