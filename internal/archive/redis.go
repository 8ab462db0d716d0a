package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

const (
	digestListKey    = "widget:digests"
	sessionKeyPrefix = "widget:digest:session:"
)

// redisStore keeps digests in a capped Redis list, newest at the head.
type redisStore struct {
	client   *redis.Client
	ttl      time.Duration
	capacity int
}

// Save implements Store.
func (s *redisStore) Save(ctx context.Context, d *model.SessionDigest) error {
	if d.SessionID != "" {
		ok, err := s.client.SetNX(ctx, sessionKeyPrefix+d.SessionID, d.ID, s.ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to mark session archived: %w", err)
		}
		if !ok {
			return ErrDuplicate
		}
	}

	val, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal digest: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, digestListKey, val)
		pipe.LTrim(ctx, digestListKey, 0, int64(s.capacity-1))
		pipe.Expire(ctx, digestListKey, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to archive digest: %w", err)
	}
	return nil
}

// Recent implements Store.
func (s *redisStore) Recent(ctx context.Context, limit int) ([]model.SessionDigest, error) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	vals, err := s.client.LRange(ctx, digestListKey, 0, int64(limit-1)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	out := make([]model.SessionDigest, 0, len(vals))
	for _, v := range vals {
		var d model.SessionDigest
		if err := json.Unmarshal([]byte(v), &d); err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
