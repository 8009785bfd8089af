package telephony

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookline/models"
	"bookline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Responder produces the agent's reply for an inbound voice utterance. The
// boolean result reports whether the conversation should end after the reply.
type Responder interface {
	Respond(ctx context.Context, sessionID, text string) (string, bool, error)
}

// SessionReleaser removes a conversation session once its call ends.
type SessionReleaser interface {
	Delete(ctx context.Context, sessionID string) error
}

// CallEventSink records call status transitions for analytics, best effort.
type CallEventSink interface {
	SaveCallEvent(ctx context.Context, event models.CallEvent) error
}

// CallRegistry is the in-memory map of live calls keyed by call identifier.
type CallRegistry struct {
	mu    sync.RWMutex
	calls map[string]*models.CallState
}

// NewCallRegistry creates an empty registry.
func NewCallRegistry() *CallRegistry {
	return &CallRegistry{calls: make(map[string]*models.CallState)}
}

// Create registers a new call.
func (r *CallRegistry) Create(call *models.CallState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	call.StartedAt = now
	call.UpdatedAt = now
	r.calls[call.ID] = call
}

// Get returns a copy of the call state, if tracked.
func (r *CallRegistry) Get(callID string) (models.CallState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	call, ok := r.calls[callID]
	if !ok {
		return models.CallState{}, false
	}
	return *call, true
}

// SetStatus updates a call's status and returns the updated copy.
func (r *CallRegistry) SetStatus(callID string, status models.CallStatus) (models.CallState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	call, ok := r.calls[callID]
	if !ok {
		return models.CallState{}, false
	}
	call.Status = status
	call.UpdatedAt = time.Now().UTC()
	return *call, true
}

// Remove drops a call from the registry.
func (r *CallRegistry) Remove(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, callID)
}

// Lifecycle is the webhook-driven state machine for voice calls. Status
// webhooks move CallState through its lifecycle; speech webhooks turn
// recognized text into orchestrator turns and orchestrator replies into
// voice markup.
type Lifecycle struct {
	Registry *CallRegistry
	Agent    Responder
	Sessions SessionReleaser
	Events   CallEventSink

	// WebhookBaseURL is the externally reachable prefix for the voice
	// webhook routes.
	WebhookBaseURL string
}

func (l *Lifecycle) speechURL(callID string) string {
	return fmt.Sprintf("%s/webhooks/voice/speech/%s", l.WebhookBaseURL, callID)
}

// HandleAnswer emits the greeting markup when the provider reports the call
// was picked up.
func (l *Lifecycle) HandleAnswer(ctx context.Context, callID string) string {
	logger := utils.GetLogger()

	call, ok := l.Registry.Get(callID)
	if !ok {
		logger.Warn("answer webhook for unknown call", zap.String("callId", callID))
		return SayAndHangup("I'm sorry, I can't find this call. Goodbye.")
	}

	l.Registry.SetStatus(callID, models.CallAnswered)
	l.recordEvent(ctx, call, models.CallAnswered)

	greeting := call.Greeting
	if greeting == "" {
		greeting = "Hello! How can I help you today?"
	}
	return SayAndGather(greeting, l.speechURL(callID))
}

// HandleSpeech processes a speech-recognition webhook. Terminal calls get a
// hangup response without an orchestrator turn; empty speech gets a
// re-prompt; anything else becomes an orchestrator turn whose reply is
// spoken back with a fresh gather.
func (l *Lifecycle) HandleSpeech(ctx context.Context, callID, speech string) string {
	logger := utils.GetLogger()

	call, ok := l.Registry.Get(callID)
	if !ok || call.Status.IsTerminal() {
		if ok {
			l.release(ctx, call)
		}
		return Hangup()
	}

	if speech == "" {
		return Reprompt(l.speechURL(callID))
	}

	reply, endCall, err := l.Agent.Respond(ctx, call.SessionID, speech)
	if err != nil {
		logger.Error("agent failed to respond on voice turn",
			zap.String("callId", callID), zap.Error(err))
		return SayAndGather("I'm sorry, I had trouble with that. Could you try again?", l.speechURL(callID))
	}

	if endCall {
		l.Registry.SetStatus(callID, models.CallCompleted)
		updated, _ := l.Registry.Get(callID)
		l.recordEvent(ctx, updated, models.CallCompleted)
		l.release(ctx, updated)
		return SayAndHangup(reply)
	}

	return SayAndGather(reply, l.speechURL(callID))
}

// HandleStatus maps a provider-reported status onto the call state. Terminal
// statuses release the associated conversation session.
func (l *Lifecycle) HandleStatus(ctx context.Context, callID, providerStatus string) {
	status := normalizeStatus(providerStatus)
	call, ok := l.Registry.SetStatus(callID, status)
	if !ok {
		return
	}
	l.recordEvent(ctx, call, status)
	if status.IsTerminal() {
		l.release(ctx, call)
	}
}

func (l *Lifecycle) release(ctx context.Context, call models.CallState) {
	l.Registry.Remove(call.ID)
	if l.Sessions != nil && call.SessionID != "" {
		if err := l.Sessions.Delete(ctx, call.SessionID); err != nil {
			utils.GetLogger().Warn("failed to release session for ended call",
				zap.String("callId", call.ID),
				zap.String("sessionId", call.SessionID),
				zap.Error(err))
		}
	}
}

func (l *Lifecycle) recordEvent(ctx context.Context, call models.CallState, status models.CallStatus) {
	if l.Events == nil {
		return
	}
	event := models.CallEvent{
		ID:        uuid.New().String(),
		CallID:    call.ID,
		SessionID: call.SessionID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.Events.SaveCallEvent(ctx, event); err != nil {
		utils.GetLogger().Debug("failed to record call event",
			zap.String("callId", call.ID), zap.Error(err))
	}
}

// normalizeStatus maps the provider's status vocabulary onto CallStatus.
func normalizeStatus(providerStatus string) models.CallStatus {
	switch providerStatus {
	case "queued", "initiated":
		return models.CallInitiated
	case "ringing":
		return models.CallRinging
	case "in-progress", "answered":
		return models.CallAnswered
	case "completed":
		return models.CallCompleted
	case "busy":
		return models.CallBusy
	case "no-answer":
		return models.CallNoAnswer
	default:
		return models.CallFailed
	}
}
