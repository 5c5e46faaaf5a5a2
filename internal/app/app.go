package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"methodquiz/internal/config"
	"methodquiz/internal/repository"
)

// App bundles the stores selected by STORE_DRIVER
type App struct {
	SubmissionRepo repository.SubmissionRepo
	StudyRepo      repository.StudyRepo

	closers []func() error
}

// Open connects the configured store backend.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	switch cfg.StoreDriver {
	case "sqlite":
		db, err := repository.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.SubmissionRepo = repository.NewSQLiteSubmissionRepo(db)
		a.StudyRepo = repository.NewSQLiteStudyRepo(db)
		log.Printf("[App] Using SQLite store at %s", cfg.SQLitePath)

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, func() error {
			return client.Disconnect(context.Background())
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		log.Println("[App] Connected to MongoDB")

		db := client.Database(cfg.MongoDB)
		if err := repository.EnsureSubmissionIndexes(ctx, db); err != nil {
			log.Printf("[App] Warning: failed to create submission indexes: %v", err)
		}
		a.SubmissionRepo = repository.NewSubmissionRepo(db)
		a.StudyRepo = repository.NewStudyRepo(db)

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want mongo or sqlite)", cfg.StoreDriver)
	}

	return a, nil
}

// Close releases every store connection.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
