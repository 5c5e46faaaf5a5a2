package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"methodquiz/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteSubmissionRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteSubmissionRepo(openTestDB(t))

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	subs := []model.Submission{
		{ID: "a", Type: "peer-review", Timestamp: base},
		{ID: "b", Type: "peer-review", Timestamp: base.Add(time.Minute)},
		{ID: "c", Type: "classic", Timestamp: base.Add(2 * time.Minute)},
		{ID: "d", Type: "peer-review", Timestamp: base.Add(3 * time.Minute), LearnerID: "l-1",
			Responses: []model.Response{{QuestionIndex: 1, SelectedMethodIndex: 2, Reasoning: "blinding",
				Question: model.Study{Title: "T", Methods: []model.Method{{Text: "m", IsCorrect: true}}}}}},
	}
	for i := range subs {
		if err := repo.Create(ctx, &subs[i]); err != nil {
			t.Fatalf("Create(%s): %v", subs[i].ID, err)
		}
	}

	recent, err := repo.Recent(ctx, "peer-review", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "d" || recent[1].ID != "b" {
		t.Fatalf("Recent = %+v", recent)
	}
	r := recent[0].Responses
	if len(r) != 1 || r[0].Reasoning != "blinding" || !r[0].Question.Methods[0].IsCorrect {
		t.Errorf("responses = %+v", r)
	}
	if !recent[0].Timestamp.Equal(subs[3].Timestamp) || recent[0].LearnerID != "l-1" {
		t.Errorf("submission = %+v", recent[0])
	}

	all, err := repo.Recent(ctx, "", 10)
	if err != nil || len(all) != 4 {
		t.Errorf("Recent(all) = %d, %v", len(all), err)
	}

	got, err := repo.GetByID(ctx, "c")
	if err != nil || got == nil || got.Type != "classic" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
	missing, err := repo.GetByID(ctx, "zzz")
	if err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %+v, %v", missing, err)
	}

	if err := repo.Create(ctx, &model.Submission{ID: "a", Type: "classic"}); !errors.Is(err, ErrDuplicateSubmission) {
		t.Errorf("duplicate id: err = %v, want ErrDuplicateSubmission", err)
	}
	first, _ := repo.GetByID(ctx, "a")
	if first == nil || first.Type != "peer-review" {
		t.Errorf("duplicate overwrote the stored submission: %+v", first)
	}
}

func TestSQLiteStudyRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteStudyRepo(openTestDB(t))

	studies := []model.Study{
		{Title: "first", DependentVariable: "dv", Methods: []model.Method{{Text: "m", IsCorrect: true,
			Fixes: [model.FixCount]model.Fix{{Text: "f", IsCorrect: true}}}}},
		{Title: "second"},
	}
	if err := repo.ReplaceAll(ctx, studies); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := repo.ReplaceAll(ctx, studies); err != nil {
		t.Fatalf("ReplaceAll twice: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 2 || list[1].Title != "second" {
		t.Fatalf("List = %+v, %v", list, err)
	}
	s, err := repo.GetByIndex(ctx, 0)
	if err != nil || s == nil || !s.Methods[0].Fixes[0].IsCorrect {
		t.Errorf("GetByIndex(0) = %+v, %v", s, err)
	}
	if s, err := repo.GetByIndex(ctx, 5); err != nil || s != nil {
		t.Errorf("GetByIndex(5) = %+v, %v", s, err)
	}
}
