package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trivia-service/internal/models"
)

// UserRepository stores profile documents in the users collection, keyed by
// the identity provider's opaque user id.
type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	_, err := r.Col.ReplaceOne(ctx,
		bson.M{"_id": profile.UserID},
		profile,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *UserRepository) UpdateUsername(ctx context.Context, userID, username string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"username": username}},
	)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
