package service

import (
	"context"
	"errors"
	"testing"

	"methodquiz/internal/model"
)

func TestStudyService(t *testing.T) {
	repo := &memStudyRepo{}
	studyCache := &memStudyCache{}
	svc := NewStudyService(repo, studyCache)
	ctx := context.Background()

	warnings, err := svc.Publish(ctx, []model.Study{
		{Title: "good", Methods: []model.Method{{IsCorrect: true, Fixes: [model.FixCount]model.Fix{{IsCorrect: true}}}}},
		{Title: "no methods"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v", warnings)
	}

	for i := 0; i < 3; i++ {
		studies, err := svc.List(ctx)
		if err != nil || len(studies) != 2 {
			t.Fatalf("List = %d, %v", len(studies), err)
		}
	}
	if repo.lists != 1 {
		t.Errorf("store lists = %d, want 1", repo.lists)
	}

	if _, err := svc.Publish(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if studyCache.studies != nil {
		t.Error("cache not invalidated on publish")
	}

	if _, err := svc.Get(ctx, 0); !errors.Is(err, ErrStudyNotFound) {
		t.Errorf("Get after clearing: err = %v", err)
	}
	if _, err := svc.Get(ctx, -1); !errors.Is(err, ErrStudyNotFound) {
		t.Errorf("Get(-1): err = %v", err)
	}
}
