package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trivia-service/internal/models"
)

// SessionRepository stores in-progress quiz sessions in the quizSessions
// collection, one document per (user, topic) pair under the composite key
// "<userID>_<topicID>". Mongo serializes writes per document, which is all
// the locking the engine relies on.
type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("quizSessions")}
}

type sessionDoc struct {
	ID                 string `bson:"_id"`
	models.QuizSession `bson:",inline"`
}

func sessionDocID(userID, topicID string) string {
	return userID + "_" + topicID
}

func (r *SessionRepository) Get(ctx context.Context, userID, topicID string) (*models.QuizSession, error) {
	var doc sessionDoc
	err := r.Col.FindOne(ctx, bson.M{"_id": sessionDocID(userID, topicID)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.QuizSession, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *models.QuizSession) error {
	doc := sessionDoc{
		ID:          sessionDocID(session.UserID, session.TopicID),
		QuizSession: *session,
	}
	_, err := r.Col.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Reset overwrites the stored session with the zeroed document so a later
// initialization starts fresh instead of resuming a completed run.
func (r *SessionRepository) Reset(ctx context.Context, userID, topicID string) error {
	doc := sessionDoc{
		ID: sessionDocID(userID, topicID),
		QuizSession: models.QuizSession{
			UserID:      userID,
			TopicID:     topicID,
			Questions:   []models.Question{},
			LastUpdated: time.Now(),
		},
	}
	_, err := r.Col.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
