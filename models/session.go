package models

import (
	"encoding/json"
	"time"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
)

// Conversation steps tracked in SessionContext.CurrentStep.
const (
	StepIntro        = "intro"
	StepAvailability = "availability"
	StepBooking      = "booking"
)

// Turn is a single entry in a conversation. Assistant turns that requested a
// function call carry the function name and raw arguments; function turns
// carry the structured result that was fed back to the model.
type Turn struct {
	Role           Role            `json:"role"`
	Content        string          `json:"content,omitempty"`
	FunctionName   string          `json:"functionName,omitempty"`
	FunctionArgs   json.RawMessage `json:"functionArgs,omitempty"`
	FunctionResult json.RawMessage `json:"functionResult,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// SessionContext holds the heuristic flags collected over a conversation.
// They inform the voice flow and are never used to gate which functions the
// model is offered.
type SessionContext struct {
	HasName          bool   `json:"hasName"`
	HasEmail         bool   `json:"hasEmail"`
	HasPreferredTime bool   `json:"hasPreferredTime"`
	IsBooking        bool   `json:"isBooking"`
	CurrentStep      string `json:"currentStep"`
}

// SchedulingCredentials are the per-session scheduling provider credentials.
// The core never stores them outside the session.
type SchedulingCredentials struct {
	APIKey      string `json:"apiKey"`
	EventTypeID int    `json:"eventTypeId"`
}

// ConversationSession is one logical conversation, chat or voice.
type ConversationSession struct {
	ID           string                 `json:"id"`
	AgentName    string                 `json:"agentName"`
	Persona      string                 `json:"persona"`
	CustomerName string                 `json:"customerName,omitempty"`
	Turns        []Turn                 `json:"turns"`
	Context      SessionContext         `json:"context"`
	Scheduling   *SchedulingCredentials `json:"scheduling,omitempty"`
	CallID       string                 `json:"callId,omitempty"`
	PhoneNumber  string                 `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// AppendTurn adds a turn with the current timestamp.
func (s *ConversationSession) AppendTurn(t Turn) {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	s.Turns = append(s.Turns, t)
	s.UpdatedAt = t.Timestamp
}
