package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trivia-service/internal/models"
)

// HistoryRepository stores one quizHistory document per user holding the
// append-only entries array.
type HistoryRepository struct {
	Col *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{Col: db.Collection("quizHistory")}
}

func (r *HistoryRepository) Entries(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	var doc models.QuizHistory
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Entries == nil {
		return []models.HistoryEntry{}, nil
	}
	return doc.Entries, nil
}

// AppendUnique adds one entry with $addToSet: the append is atomic at the
// document level, so concurrent completions from two devices both land
// without a read-modify-write race, and retrying the identical entry
// stores it once.
func (r *HistoryRepository) AppendUnique(ctx context.Context, userID string, entry models.HistoryEntry) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"entries": entry}},
		options.Update().SetUpsert(true),
	)
	return err
}
