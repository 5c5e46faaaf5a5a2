package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"methodquiz/internal/model"
)

const studiesKey = "studies:all"

// StudyCache holds the published study set
type StudyCache interface {
	Set(ctx context.Context, studies []model.Study) error
	Get(ctx context.Context) ([]model.Study, error)
	Delete(ctx context.Context) error
}

type studyCache struct {
	client *redis.Client
}

func NewStudyCache(client *redis.Client) StudyCache {
	return &studyCache{
		client: client,
	}
}

func (c *studyCache) Set(ctx context.Context, studies []model.Study) error {
	data, err := json.Marshal(studies)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, studiesKey, data, 10*time.Minute).Err()
}

func (c *studyCache) Get(ctx context.Context) ([]model.Study, error) {
	data, err := c.client.Get(ctx, studiesKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var studies []model.Study
	err = json.Unmarshal([]byte(data), &studies)
	return studies, err
}

func (c *studyCache) Delete(ctx context.Context) error {
	return c.client.Del(ctx, studiesKey).Err()
}
