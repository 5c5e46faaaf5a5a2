package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"methodquiz/internal/model"
)

// ErrDuplicateSubmission is returned by Create when the ID is already stored.
var ErrDuplicateSubmission = errors.New("submission already stored")

// SubmissionRepo stores finished quiz sessions
type SubmissionRepo interface {
	// Create fails with ErrDuplicateSubmission when sub.ID exists
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	// Recent returns up to limit submissions, newest first. An empty
	// quizType matches every type.
	Recent(ctx context.Context, quizType string, limit int) ([]model.Submission, error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a MongoDB submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

// EnsureSubmissionIndexes creates the index backing Recent.
func EnsureSubmissionIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("submissions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if sub.Timestamp.IsZero() {
		sub.Timestamp = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, sub)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateSubmission, sub.ID)
	}
	return err
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) Recent(ctx context.Context, quizType string, limit int) ([]model.Submission, error) {
	filter := bson.M{}
	if quizType != "" {
		filter["type"] = quizType
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []model.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
