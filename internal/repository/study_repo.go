package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"methodquiz/internal/model"
)

// StudyRepo holds the published study set. Studies are addressed by position.
type StudyRepo interface {
	ReplaceAll(ctx context.Context, studies []model.Study) error
	List(ctx context.Context) ([]model.Study, error)
	GetByIndex(ctx context.Context, index int) (*model.Study, error)
}

type studyDoc struct {
	Index       int `bson:"_id"`
	model.Study `bson:",inline"`
}

type studyRepo struct {
	collection *mongo.Collection
}

// NewStudyRepo creates a MongoDB study repository
func NewStudyRepo(db *mongo.Database) StudyRepo {
	return &studyRepo{
		collection: db.Collection("studies"),
	}
}

func (r *studyRepo) ReplaceAll(ctx context.Context, studies []model.Study) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(studies) == 0 {
		return nil
	}
	docs := make([]interface{}, len(studies))
	for i, s := range studies {
		docs[i] = studyDoc{Index: i, Study: s}
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *studyRepo) List(ctx context.Context) ([]model.Study, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []studyDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	studies := make([]model.Study, len(docs))
	for i, d := range docs {
		studies[i] = d.Study
	}
	return studies, nil
}

func (r *studyRepo) GetByIndex(ctx context.Context, index int) (*model.Study, error) {
	var doc studyDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": index}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Study, nil
}
