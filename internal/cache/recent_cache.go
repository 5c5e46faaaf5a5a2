package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"methodquiz/internal/model"
)

// ErrStalePrime means a submission was stored after the caller read its
// version, so the list it loaded may be missing that submission.
var ErrStalePrime = errors.New("recent list changed while priming")

// RecentCache keeps a bounded, newest-first list of submissions per quiz type.
// Writers invalidate; readers refill from the store under a version guard.
type RecentCache interface {
	// Invalidate drops the cached list and bumps the type's version
	Invalidate(ctx context.Context, quizType string) error
	// Recent returns nil, nil on a cache miss
	Recent(ctx context.Context, quizType string) ([]model.Submission, error)
	// Version must be read before loading the list that is handed to Prime
	Version(ctx context.Context, quizType string) (string, error)
	Prime(ctx context.Context, quizType, version string, subs []model.Submission) error
}

type recentCache struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

// NewRecentCache creates a recent-submissions cache holding up to limit entries per type
func NewRecentCache(client *redis.Client, limit int) RecentCache {
	return &recentCache{
		client: client,
		limit:  limit,
		ttl:    24 * time.Hour,
	}
}

func recentKey(quizType string) string {
	return fmt.Sprintf("submissions:%s:recent", quizType)
}

func versionKey(quizType string) string {
	return fmt.Sprintf("submissions:%s:version", quizType)
}

func (c *recentCache) Invalidate(ctx context.Context, quizType string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// the version key never expires so a token cannot come back around
		pipe.Incr(ctx, versionKey(quizType))
		pipe.Del(ctx, recentKey(quizType))
		return nil
	})
	return err
}

func (c *recentCache) Recent(ctx context.Context, quizType string) ([]model.Submission, error) {
	items, err := c.client.LRange(ctx, recentKey(quizType), 0, int64(c.limit-1)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	subs := make([]model.Submission, 0, len(items))
	for _, item := range items {
		var sub model.Submission
		if err := json.Unmarshal([]byte(item), &sub); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (c *recentCache) Version(ctx context.Context, quizType string) (string, error) {
	v, err := c.client.Get(ctx, versionKey(quizType)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

// Prime replaces the cached list with subs, which must be newest first. It
// returns ErrStalePrime and writes nothing when the version moved on.
func (c *recentCache) Prime(ctx context.Context, quizType, version string, subs []model.Submission) error {
	key := recentKey(quizType)
	vkey := versionKey(quizType)
	values := make([]interface{}, 0, len(subs))
	for i := range subs {
		data, err := json.Marshal(&subs[i])
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vkey).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != version {
			return ErrStalePrime
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			if len(values) > 0 {
				pipe.RPush(ctx, key, values...)
				pipe.LTrim(ctx, key, 0, int64(c.limit-1))
				pipe.Expire(ctx, key, c.ttl)
			}
			return nil
		})
		return err
	}, vkey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStalePrime
	}
	return err
}
