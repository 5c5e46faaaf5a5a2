package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"methodquiz/internal/app"
	"methodquiz/internal/cache"
	"methodquiz/internal/config"
	"methodquiz/internal/quiz"
	"methodquiz/internal/service"
)

func main() {
	cfg := config.Load()

	file := flag.String("file", cfg.StudiesPath, "prepared study JSON (output of cmd/convert)")
	strict := flag.Bool("strict", false, "refuse to publish when the study set has authoring warnings")
	flag.Parse()

	store, err := quiz.LoadStore(*file)
	if err != nil {
		log.Fatalf("Failed to read studies: %v", err)
	}
	if store.Len() == 0 {
		log.Fatalf("%s holds no studies", *file)
	}

	warnings := quiz.Audit(store.All())
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if *strict && len(warnings) > 0 {
		log.Fatalf("Refusing to publish: %d warnings", len(warnings))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer stores.Close()

	var studyCache cache.StudyCache
	if cfg.RedisURI != "" {
		opts, err := redis.ParseURL(cfg.RedisURI)
		if err != nil {
			opts = &redis.Options{Addr: cfg.RedisURI}
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		studyCache = cache.NewStudyCache(rdb)
	}

	studySvc := service.NewStudyService(stores.StudyRepo, studyCache)
	if _, err := studySvc.Publish(ctx, store.All()); err != nil {
		log.Fatalf("Failed to publish studies: %v", err)
	}

	fmt.Printf("Published %d studies from %s\n", store.Len(), *file)
}
