package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"methodquiz/internal/model"
)

func TestStudyCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewStudyCache(client)
	ctx := context.Background()

	got, err := c.Get(ctx)
	if err != nil || got != nil {
		t.Fatalf("Get on empty cache = %+v, %v", got, err)
	}

	if err := c.Set(ctx, []model.Study{{Title: "Sleep and recall"}}); err != nil {
		t.Fatal(err)
	}
	got, err = c.Get(ctx)
	if err != nil || len(got) != 1 || got[0].Title != "Sleep and recall" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if err := c.Delete(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Get(ctx); got != nil {
		t.Errorf("Get after Delete = %+v", got)
	}
}
