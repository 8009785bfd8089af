package models

import "time"

// Profile is the scheduling provider account holder.
type Profile struct {
	Username string `json:"username"`
	TimeZone string `json:"timeZone"`
}

// EventType describes a bookable meeting type.
type EventType struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"length"`
}

// ScheduleRule is one working-hours rule: which weekdays it covers and the
// local start/end clock times.
type ScheduleRule struct {
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

// BusyInterval is a half-open [Start, End) interval during which the account
// holder is unavailable.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Slot is a discrete bookable interval offered by the provider.
type Slot struct {
	Start time.Time `json:"time"`
}

// AvailabilityQuery is a customer's availability question: a date and an
// optional free-form local time such as "3 pm" or "15:00".
type AvailabilityQuery struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

// BookingRequest carries everything needed to create a booking.
type BookingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Title string `json:"title,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// BookingFailure classifies a provider booking error.
type BookingFailure string

const (
	FailureSlotTaken       BookingFailure = "slot_taken"
	FailureMinimumNotice   BookingFailure = "minimum_notice"
	FailureInvalidDuration BookingFailure = "invalid_duration"
	FailureUnknown         BookingFailure = "unknown"
)

// BookingResult is the outcome of a booking attempt.
type BookingResult struct {
	Success         bool           `json:"success"`
	BookingID       int            `json:"bookingId,omitempty"`
	ConfirmationUID string         `json:"confirmationUid,omitempty"`
	Failure         BookingFailure `json:"failure,omitempty"`
	RawError        string         `json:"rawError,omitempty"`
}
