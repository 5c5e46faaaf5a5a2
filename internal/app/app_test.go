package app

import (
	"context"
	"path/filepath"
	"testing"

	"methodquiz/internal/config"
	"methodquiz/internal/model"
)

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StoreDriver: "sqlite",
		SQLitePath:  "file:" + filepath.Join(t.TempDir(), "app.db"),
	}

	a, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if err := a.StudyRepo.ReplaceAll(ctx, []model.Study{{Title: "Caffeine"}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	studies, err := a.StudyRepo.List(ctx)
	if err != nil || len(studies) != 1 {
		t.Errorf("List = %+v, %v", studies, err)
	}
	if err := a.SubmissionRepo.Create(ctx, &model.Submission{ID: "s-1", Type: "classic"}); err != nil {
		t.Errorf("Create: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{StoreDriver: "postgres"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
