package transcriptRepo

import (
	"context"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type TranscriptRepository interface {
	SaveTurn(ctx context.Context, entry models.TranscriptEntry) error
	SaveCallEvent(ctx context.Context, event models.CallEvent) error
	GetBySessionID(ctx context.Context, sessionID string) ([]models.TranscriptEntry, error)
	GetCallEvents(ctx context.Context, callID string) ([]models.CallEvent, error)
}

type mongoTranscriptRepo struct {
	turns  *mongo.Collection
	events *mongo.Collection
}

// NewMongoTranscriptRepo returns a TranscriptRepository backed by MongoDB.
// Returns nil when no database connection is available.
func NewMongoTranscriptRepo() TranscriptRepository {
	if database.MongoClient == nil {
		return nil
	}
	db := database.MongoClient.Database("bookline")
	return &mongoTranscriptRepo{
		turns:  db.Collection("transcript_turns"),
		events: db.Collection("call_events"),
	}
}
