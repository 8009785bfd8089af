package models

import "time"

// CallStatus is the telephony-provider-reported lifecycle status of a call.
type CallStatus string

const (
	CallInitiated CallStatus = "initiated"
	CallRinging   CallStatus = "ringing"
	CallAnswered  CallStatus = "answered"
	CallCompleted CallStatus = "completed"
	CallBusy      CallStatus = "busy"
	CallNoAnswer  CallStatus = "no-answer"
	CallFailed    CallStatus = "failed"
)

// IsTerminal reports whether the status ends the call lifecycle.
func (s CallStatus) IsTerminal() bool {
	switch s {
	case CallCompleted, CallBusy, CallNoAnswer, CallFailed:
		return true
	}
	return false
}

// CallState tracks one telephony-provider voice connection and the
// conversation session that drives it.
type CallState struct {
	ID          string     `json:"id"`
	Status      CallStatus `json:"status"`
	SessionID   string     `json:"sessionId"`
	PhoneNumber string     `json:"phoneNumber"`
	Greeting    string     `json:"greeting,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CallEvent is a best-effort analytics record of a call status transition.
type CallEvent struct {
	ID        string     `bson:"id" json:"id"`
	CallID    string     `bson:"callId" json:"callId"`
	SessionID string     `bson:"sessionId" json:"sessionId"`
	Status    CallStatus `bson:"status" json:"status"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
}
