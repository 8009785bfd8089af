// File: services/agent/interface.go
package agent

import (
	"context"

	"bookline/models"
)

// Service is the conversation orchestrator: it owns session lifecycle and
// turns user utterances into replies, dispatching model-requested function
// calls along the way.
type Service interface {
	// StartConversation creates a session and returns its id and the
	// agent's opening greeting.
	StartConversation(ctx context.Context, cfg models.SessionConfig) (sessionID, greeting string, err error)

	// HandleMessage processes one user utterance within a session.
	HandleMessage(ctx context.Context, sessionID, text string) (models.Reply, error)

	// EndSession discards a session.
	EndSession(ctx context.Context, sessionID string) error
}

// TranscriptSink records conversation turns for analytics, best effort.
type TranscriptSink interface {
	SaveTurn(ctx context.Context, entry models.TranscriptEntry) error
}
