package transcriptRepo

import (
	"context"
	"time"

	"bookline/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveTurn inserts one transcript entry.
func (r *mongoTranscriptRepo) SaveTurn(ctx context.Context, entry models.TranscriptEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	_, err := r.turns.InsertOne(ctx, entry)
	return err
}

// SaveCallEvent inserts one call status transition.
func (r *mongoTranscriptRepo) SaveCallEvent(ctx context.Context, event models.CallEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.events.InsertOne(ctx, event)
	return err
}

// GetBySessionID returns a session's transcript in chronological order.
func (r *mongoTranscriptRepo) GetBySessionID(ctx context.Context, sessionID string) ([]models.TranscriptEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.turns.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.TranscriptEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetCallEvents returns a call's status transitions in chronological order.
func (r *mongoTranscriptRepo) GetCallEvents(ctx context.Context, callID string) ([]models.CallEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.events.Find(ctx, bson.M{"callId": callID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.CallEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
