package saves

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/wyrmgate/engine/internal/errors"
)

const (
	saveKeyPrefix = "save:"
	saveIndexKey  = "saves"
)

// RedisRepoConfig holds configuration for the Redis repository.
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// redisRepository implements Repository using Redis. Saves never
// expire; a save game that silently vanishes is worse than a stale one.
type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed save repository.
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}
	return &redisRepository{client: cfg.Client}
}

func (r *redisRepository) Put(ctx context.Context, name string, save *Save) error {
	if save == nil {
		return errors.InvalidArgument("save cannot be nil")
	}
	if err := validName(name); err != nil {
		return err
	}

	data, err := json.Marshal(save)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "serializing save")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, saveKeyPrefix+name, data, 0)
	pipe.SAdd(ctx, saveIndexKey, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeIO, "writing save "+name)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, name string) (*Save, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, saveKeyPrefix+name).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("save %q not found", name)
		}
		return nil, errors.WrapWithCode(err, errors.CodeIO, "reading save "+name)
	}

	var save Save
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "parsing save "+name)
	}
	return &save, nil
}

func (r *redisRepository) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, saveIndexKey).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeIO, "listing saves")
	}
	sort.Strings(names)
	return names, nil
}

func (r *redisRepository) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}

	removed, err := r.client.Del(ctx, saveKeyPrefix+name).Result()
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeIO, "deleting save "+name)
	}
	if removed == 0 {
		return errors.NotFoundf("save %q not found", name)
	}
	return r.client.SRem(ctx, saveIndexKey, name).Err()
}
