package scheduling

import (
	"strings"

	"bookline/models"
)

// ClassifyBookingError maps raw provider error text onto the known failure
// causes by substring matching against the provider's error phrases.
func ClassifyBookingError(raw string) models.BookingFailure {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "no_available_users_found"):
		return models.FailureSlotTaken
	case strings.Contains(lower, "minimum_booking_notice"):
		return models.FailureMinimumNotice
	case strings.Contains(lower, "invalid_event_length"):
		return models.FailureInvalidDuration
	default:
		return models.FailureUnknown
	}
}
