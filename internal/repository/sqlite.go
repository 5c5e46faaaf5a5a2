package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"methodquiz/internal/model"
)

// OpenSQLite opens the embedded store and ensures the schema exists.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = "file:methodquiz.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// single writer
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  learner_id TEXT NOT NULL DEFAULT '',
  responses_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS submissions_type_created ON submissions(type, created_at DESC);

CREATE TABLE IF NOT EXISTS studies (
  idx INTEGER PRIMARY KEY,
  study_json TEXT NOT NULL
);
`

type sqliteSubmissionRepo struct {
	db *sql.DB
}

// NewSQLiteSubmissionRepo creates a submission repository on the embedded store
func NewSQLiteSubmissionRepo(db *sql.DB) SubmissionRepo {
	return &sqliteSubmissionRepo{db: db}
}

func (r *sqliteSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if sub.Timestamp.IsZero() {
		sub.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(sub.Responses)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, type, learner_id, responses_json, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		sub.ID, sub.Type, sub.LearnerID, string(data), sub.Timestamp.UnixNano())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSubmission, sub.ID)
	}
	return nil
}

func (r *sqliteSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, type, learner_id, responses_json, created_at FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *sqliteSubmissionRepo) Recent(ctx context.Context, quizType string, limit int) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, learner_id, responses_json, created_at FROM submissions
		WHERE (? = '' OR type = ?)
		ORDER BY created_at DESC
		LIMIT ?`, quizType, quizType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (*model.Submission, error) {
	var (
		sub       model.Submission
		responses string
		created   int64
	)
	if err := s.Scan(&sub.ID, &sub.Type, &sub.LearnerID, &responses, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(responses), &sub.Responses); err != nil {
		return nil, err
	}
	sub.Timestamp = time.Unix(0, created).UTC()
	return &sub, nil
}

type sqliteStudyRepo struct {
	db *sql.DB
}

// NewSQLiteStudyRepo creates a study repository on the embedded store
func NewSQLiteStudyRepo(db *sql.DB) StudyRepo {
	return &sqliteStudyRepo{db: db}
}

func (r *sqliteStudyRepo) ReplaceAll(ctx context.Context, studies []model.Study) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM studies`); err != nil {
		return err
	}
	for i, s := range studies {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO studies (idx, study_json) VALUES (?, ?)`, i, string(data)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *sqliteStudyRepo) List(ctx context.Context) ([]model.Study, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT study_json FROM studies ORDER BY idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	studies := []model.Study{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var s model.Study
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, err
		}
		studies = append(studies, s)
	}
	return studies, rows.Err()
}

func (r *sqliteStudyRepo) GetByIndex(ctx context.Context, index int) (*model.Study, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT study_json FROM studies WHERE idx = ?`, index).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s model.Study
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
