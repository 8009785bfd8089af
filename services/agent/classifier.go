// File: services/agent/classifier.go
package agent

import (
	"regexp"
	"strings"

	"bookline/models"
)

// ContextClassifier updates the session's heuristic flags from one user
// utterance. The flags steer prompts and analytics only; they never gate
// which functions the model may call.
type ContextClassifier interface {
	Classify(text string, sc *models.SessionContext)
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	clockPattern = regexp.MustCompile(`\b\d{1,2}:\d{2}\b|\b\d{1,2}\s*(am|pm|a\.m\.?|p\.m\.?)\b`)
)

var namePhrases = []string{
	"my name is",
	"i'm ",
	"i am ",
	"this is ",
	"call me ",
}

var temporalPhrases = []string{
	"today",
	"tomorrow",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
	"morning",
	"afternoon",
	"evening",
	"next week",
	"o'clock",
}

var bookingPhrases = []string{
	"book",
	"schedule",
	"reserve",
	"appointment",
	"confirm",
	"yes, please",
	"go ahead",
	"sounds good",
	"that works",
}

// KeywordClassifier matches on simple keyword and pattern heuristics. Flags
// only ever flip on; a later off-topic message never un-learns a fact.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(text string, sc *models.SessionContext) {
	lower := strings.ToLower(text)

	if !sc.HasName && containsAny(lower, namePhrases) {
		sc.HasName = true
	}
	if !sc.HasEmail && emailPattern.MatchString(text) {
		sc.HasEmail = true
	}
	if !sc.HasPreferredTime && (containsAny(lower, temporalPhrases) || clockPattern.MatchString(lower)) {
		sc.HasPreferredTime = true
		if sc.CurrentStep == "" || sc.CurrentStep == models.StepIntro {
			sc.CurrentStep = models.StepAvailability
		}
	}
	if !sc.IsBooking && containsAny(lower, bookingPhrases) {
		sc.IsBooking = true
		sc.CurrentStep = models.StepBooking
	}
	if sc.CurrentStep == "" {
		sc.CurrentStep = models.StepIntro
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
