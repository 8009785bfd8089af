package models

import "encoding/json"

// ParameterSpec describes one parameter of a callable function.
type ParameterSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// FunctionDescriptor describes one callable function offered to the language
// model. The set is rebuilt per turn from the session's capabilities.
type FunctionDescriptor struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  map[string]ParameterSpec `json:"parameters"`
}

// FunctionCall is a structured request from the model naming one of the
// enumerated functions.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// FunctionResult is what a dispatched function hands back: a user-facing
// message plus a structured payload replayed to the model on later turns.
type FunctionResult struct {
	Success     bool           `json:"success"`
	UserMessage string         `json:"userMessage"`
	Data        map[string]any `json:"data,omitempty"`
}

// Raw marshals the result for storage on a function turn.
func (r FunctionResult) Raw() json.RawMessage {
	b, err := json.Marshal(r)
	if err != nil {
		return json.RawMessage(`{"success":false}`)
	}
	return b
}

// SessionConfig is the operator-supplied configuration for a new conversation.
type SessionConfig struct {
	AgentName    string                 `json:"agentName,omitempty"`
	Persona      string                 `json:"persona,omitempty"`
	Scheduling   *SchedulingCredentials `json:"scheduling,omitempty"`
	PhoneNumber  string                 `json:"phoneNumber,omitempty"`
	CustomerName string                 `json:"customerName,omitempty"`
}

// Reply is the orchestrator's answer for one inbound utterance.
type Reply struct {
	Text            string `json:"text"`
	EndConversation bool   `json:"endConversation"`
}

// TranscriptEntry is a best-effort analytics record of one turn.
type TranscriptEntry struct {
	ID           string `bson:"id" json:"id"`
	SessionID    string `bson:"sessionId" json:"sessionId"`
	Role         Role   `bson:"role" json:"role"`
	Content      string `bson:"content" json:"content"`
	FunctionName string `bson:"functionName,omitempty" json:"functionName,omitempty"`
	CreatedAt    int64  `bson:"createdAt" json:"createdAt"`
}
