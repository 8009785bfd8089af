// File: services/agent/dispatch.go
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookline/models"
	"bookline/services/scheduling"
	"bookline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// executeFunction dispatches one model-requested function call. Provider
// hiccups on read paths degrade optimistically so the conversation keeps
// moving; booking never fakes success.
func (s *DefaultAgentService) executeFunction(ctx context.Context, session *models.ConversationSession, call models.FunctionCall) models.FunctionResult {
	switch call.Name {
	case FnCheckAvailability, FnGetSlots, FnBookAppointment:
		if session.Scheduling == nil || session.Scheduling.APIKey == "" {
			return models.FunctionResult{
				Success:     false,
				UserMessage: "I don't have calendar access for this conversation, so I can't check or book times.",
			}
		}
		switch call.Name {
		case FnCheckAvailability:
			return s.checkAvailability(ctx, session, call.Args)
		case FnGetSlots:
			return s.getSlots(ctx, session, call.Args)
		default:
			return s.bookAppointment(ctx, session, call.Args)
		}
	case FnInitiateVoiceCall:
		return s.initiateVoiceCall(ctx, session, call.Args)
	case FnEndConversation:
		return models.FunctionResult{
			Success:     true,
			UserMessage: "Thank you for chatting with us. Have a great day, goodbye!",
		}
	default:
		utils.GetLogger().Warn("model requested unknown function",
			zap.String("function", call.Name))
		return models.FunctionResult{
			Success:     false,
			UserMessage: "I'm sorry, I can't do that. Is there anything else I can help with?",
		}
	}
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

const optimisticFallback = "I couldn't double-check the calendar just now, but let's keep going and I'll confirm everything when we book."

func (s *DefaultAgentService) checkAvailability(ctx context.Context, session *models.ConversationSession, args map[string]any) models.FunctionResult {
	logger := utils.GetLogger()
	creds := session.Scheduling

	date := scheduling.ParseRelativeDate(argString(args, "date"))
	timeText := argString(args, "time")

	profile, err := s.Calendar.GetProfile(ctx, creds.APIKey)
	if err != nil {
		logger.Warn("availability check degraded, profile fetch failed", zap.Error(err))
		return models.FunctionResult{Success: true, UserMessage: optimisticFallback, Data: map[string]any{"date": date}}
	}
	eventType, err := s.Calendar.GetEventType(ctx, creds.APIKey, creds.EventTypeID)
	if err != nil {
		logger.Warn("availability check degraded, event type fetch failed", zap.Error(err))
		return models.FunctionResult{Success: true, UserMessage: optimisticFallback, Data: map[string]any{"date": date}}
	}

	if timeText == "" {
		return s.summarizeWorkingHours(ctx, creds.APIKey, date)
	}

	clock := scheduling.To24Hour(timeText)
	startUTC, endUTC := scheduling.LocalToUTC(date, clock, profile.TimeZone, eventType.DurationMinutes)

	busy, err := s.Calendar.GetBusyTimes(ctx, creds.APIKey, creds.EventTypeID, profile.Username, date, profile.TimeZone)
	if err != nil {
		logger.Warn("availability check degraded, busy times fetch failed", zap.Error(err))
		return models.FunctionResult{Success: true, UserMessage: optimisticFallback, Data: map[string]any{"date": date}}
	}

	for _, b := range busy {
		if scheduling.Overlaps(startUTC, endUTC, b.Start, b.End) {
			alternatives := s.alternativeTimes(ctx, session, date, profile.TimeZone)
			msg := fmt.Sprintf("I'm sorry, %s on %s is already taken.", timeText, date)
			if len(alternatives) > 0 {
				msg += " How about " + strings.Join(alternatives, " or ") + "?"
			} else {
				msg += " Would another time work for you?"
			}
			return models.FunctionResult{
				Success:     false,
				UserMessage: msg,
				Data: map[string]any{
					"date":         date,
					"available":    false,
					"alternatives": alternatives,
				},
			}
		}
	}

	return models.FunctionResult{
		Success:     true,
		UserMessage: fmt.Sprintf("Good news, %s on %s is open. Would you like me to book it?", timeText, date),
		Data: map[string]any{
			"date":      date,
			"time":      clock,
			"available": true,
		},
	}
}

// summarizeWorkingHours answers a date-only availability question with the
// account's working-hour rules.
func (s *DefaultAgentService) summarizeWorkingHours(ctx context.Context, apiKey, date string) models.FunctionResult {
	rules, err := s.Calendar.GetSchedules(ctx, apiKey)
	if err != nil || len(rules) == 0 {
		if err != nil {
			utils.GetLogger().Warn("schedule fetch failed", zap.Error(err))
		}
		return models.FunctionResult{
			Success:     true,
			UserMessage: optimisticFallback,
			Data:        map[string]any{"date": date},
		}
	}

	var parts []string
	for _, r := range rules {
		parts = append(parts, fmt.Sprintf("%s from %s to %s", strings.Join(r.Days, ", "), r.StartTime, r.EndTime))
	}
	return models.FunctionResult{
		Success:     true,
		UserMessage: fmt.Sprintf("We're generally available %s. What time on %s works for you?", strings.Join(parts, "; "), date),
		Data: map[string]any{
			"date":      date,
			"schedules": rules,
		},
	}
}

// alternativeTimes returns up to three open slot clock times for the date,
// best effort; a provider failure just yields none.
func (s *DefaultAgentService) alternativeTimes(ctx context.Context, session *models.ConversationSession, date, timezone string) []string {
	creds := session.Scheduling
	dayStart, dayEnd := scheduling.LocalToUTC(date, "00:00", timezone, 24*60)
	slots, err := s.Calendar.ListSlots(ctx, creds.APIKey, creds.EventTypeID, dayStart, dayEnd)
	if err != nil {
		utils.GetLogger().Debug("alternative slot lookup failed", zap.Error(err))
		return nil
	}
	var times []string
	for _, slot := range slots {
		times = append(times, scheduling.FormatLocalClock(slot.Start, timezone))
		if len(times) == 3 {
			break
		}
	}
	return times
}

// slotWindow resolves the interval to list slots over. An explicit RFC 3339
// startTime/endTime pair wins; a lone startTime covers the following 24
// hours; otherwise the date argument selects a full local day.
func slotWindow(args map[string]any, timezone string) (time.Time, time.Time, string) {
	start, startErr := time.Parse(time.RFC3339, argString(args, "startTime"))
	end, endErr := time.Parse(time.RFC3339, argString(args, "endTime"))
	switch {
	case startErr == nil && endErr == nil && start.Before(end):
		return start.UTC(), end.UTC(), start.UTC().Format("2006-01-02")
	case startErr == nil:
		start = start.UTC()
		return start, start.Add(24 * time.Hour), start.Format("2006-01-02")
	default:
		date := scheduling.ParseRelativeDate(argString(args, "date"))
		dayStart, dayEnd := scheduling.LocalToUTC(date, "00:00", timezone, 24*60)
		return dayStart, dayEnd, date
	}
}

func (s *DefaultAgentService) getSlots(ctx context.Context, session *models.ConversationSession, args map[string]any) models.FunctionResult {
	logger := utils.GetLogger()
	creds := session.Scheduling

	profile, err := s.Calendar.GetProfile(ctx, creds.APIKey)
	timezone := "UTC"
	if err == nil {
		timezone = profile.TimeZone
	}

	windowStart, windowEnd, date := slotWindow(args, timezone)
	slots, err := s.Calendar.ListSlots(ctx, creds.APIKey, creds.EventTypeID, windowStart, windowEnd)
	if err != nil {
		logger.Warn("slot listing failed", zap.Error(err))
		return models.FunctionResult{
			Success:     true,
			UserMessage: "I couldn't pull up the open slots just now, but I'm still happy to help you book. What time were you thinking?",
			Data:        map[string]any{"date": date},
		}
	}
	if len(slots) == 0 {
		return models.FunctionResult{
			Success:     false,
			UserMessage: fmt.Sprintf("It looks like %s is fully booked. Would another day work?", date),
			Data:        map[string]any{"date": date, "slots": []string{}},
		}
	}

	var times []string
	for i, slot := range slots {
		if i >= 5 {
			break
		}
		times = append(times, scheduling.FormatLocalClock(slot.Start, timezone))
	}
	return models.FunctionResult{
		Success:     true,
		UserMessage: fmt.Sprintf("On %s I have %s open. Which one works for you?", date, strings.Join(times, ", ")),
		Data: map[string]any{
			"date":  date,
			"slots": times,
		},
	}
}

func (s *DefaultAgentService) bookAppointment(ctx context.Context, session *models.ConversationSession, args map[string]any) models.FunctionResult {
	logger := utils.GetLogger()
	creds := session.Scheduling

	name := argString(args, "name")
	email := argString(args, "email")
	dateText := argString(args, "date")
	timeText := argString(args, "time")

	var missing []string
	if name == "" {
		missing = append(missing, "your name")
	}
	if email == "" {
		missing = append(missing, "your email address")
	}
	if dateText == "" {
		missing = append(missing, "the date")
	}
	if timeText == "" {
		missing = append(missing, "the time")
	}
	if len(missing) > 0 {
		return models.FunctionResult{
			Success:     false,
			UserMessage: "Before I can book that, I still need " + strings.Join(missing, " and ") + ".",
			Data:        map[string]any{"missing": missing},
		}
	}

	profile, err := s.Calendar.GetProfile(ctx, creds.APIKey)
	if err != nil {
		logger.Error("booking aborted, profile fetch failed", zap.Error(err))
		return models.FunctionResult{
			Success:     false,
			UserMessage: "I'm having trouble reaching the calendar right now. Could we try that again in a moment?",
		}
	}
	eventType, err := s.Calendar.GetEventType(ctx, creds.APIKey, creds.EventTypeID)
	if err != nil {
		logger.Error("booking aborted, event type fetch failed", zap.Error(err))
		return models.FunctionResult{
			Success:     false,
			UserMessage: "I'm having trouble reaching the calendar right now. Could we try that again in a moment?",
		}
	}

	date := scheduling.ParseRelativeDate(dateText)
	clock := scheduling.To24Hour(timeText)
	start, end := scheduling.LocalToUTC(date, clock, profile.TimeZone, eventType.DurationMinutes)

	title := argString(args, "title")
	if title == "" {
		title = eventType.Title
	}

	result, err := s.Calendar.CreateBooking(ctx, creds.APIKey, scheduling.BookingPayload{
		EventTypeID: creds.EventTypeID,
		Start:       start,
		End:         end,
		TimeZone:    profile.TimeZone,
		Language:    "en",
		Name:        name,
		Email:       email,
		Title:       title,
		Description: argString(args, "notes"),
	})
	if err != nil {
		logger.Error("booking request failed", zap.Error(err))
		return models.FunctionResult{
			Success:     false,
			UserMessage: "Something went wrong while booking. Could we try that again in a moment?",
		}
	}

	if result.Success {
		session.Context.IsBooking = true
		session.Context.CurrentStep = models.StepBooking
		return models.FunctionResult{
			Success:     true,
			UserMessage: fmt.Sprintf("You're all set, %s! I've booked %s on %s at %s. Your confirmation code is %s.", name, title, date, timeText, result.ConfirmationUID),
			Data: map[string]any{
				"bookingId":       result.BookingID,
				"confirmationUid": result.ConfirmationUID,
				"date":            date,
				"time":            clock,
			},
		}
	}

	switch result.Failure {
	case models.FailureSlotTaken:
		return models.FunctionResult{
			Success:     false,
			UserMessage: fmt.Sprintf("I'm sorry, %s on %s was just taken. Would another time work for you?", timeText, date),
			Data:        map[string]any{"failure": string(result.Failure)},
		}
	case models.FailureMinimumNotice:
		return models.FunctionResult{
			Success:     false,
			UserMessage: "That time is too soon to book. Could you pick a time a bit further out?",
			Data:        map[string]any{"failure": string(result.Failure)},
		}
	case models.FailureInvalidDuration:
		return models.FunctionResult{
			Success:     false,
			UserMessage: "That appointment length isn't available. Let me know a time and I'll try again with the standard duration.",
			Data:        map[string]any{"failure": string(result.Failure)},
		}
	default:
		logger.Warn("booking rejected with unclassified error", zap.String("error", result.RawError))
		return models.FunctionResult{
			Success:     false,
			UserMessage: "I wasn't able to complete the booking. Would you like to try a different time?",
			Data: map[string]any{
				"failure": string(result.Failure),
				"error":   result.RawError,
			},
		}
	}
}

// buildCallGreeting composes the first thing the agent says when an outbound
// call is answered. Name and reason are woven in when known.
func buildCallGreeting(agentName, customerName, reason string) string {
	greeting := fmt.Sprintf("Hello! This is %s.", agentName)
	if customerName != "" {
		greeting = fmt.Sprintf("Hello %s! This is %s.", customerName, agentName)
	}
	if reason != "" {
		greeting += fmt.Sprintf(" I'm calling about %s.", reason)
	} else {
		greeting += " Let's continue setting up your appointment."
	}
	return greeting + " How can I help?"
}

func (s *DefaultAgentService) initiateVoiceCall(ctx context.Context, session *models.ConversationSession, args map[string]any) models.FunctionResult {
	logger := utils.GetLogger()

	if !s.Telephony.IsConfigured() {
		return models.FunctionResult{
			Success:     false,
			UserMessage: "I'm sorry, voice calling is unavailable right now. We can keep going here in chat.",
		}
	}

	phone := argString(args, "phoneNumber")
	if phone == "" {
		phone = session.PhoneNumber
	}
	if phone == "" {
		return models.FunctionResult{
			Success:     false,
			UserMessage: "What phone number should I call you on?",
		}
	}

	customer := argString(args, "customerName")
	if customer == "" {
		customer = session.CustomerName
	}
	greeting := buildCallGreeting(session.AgentName, customer, argString(args, "reason"))

	callID := uuid.New().String()
	s.Registry.Create(&models.CallState{
		ID:          callID,
		Status:      models.CallInitiated,
		SessionID:   session.ID,
		PhoneNumber: phone,
		Greeting:    greeting,
	})

	answerURL := fmt.Sprintf("%s/webhooks/voice/answer/%s", s.WebhookBaseURL, callID)
	statusURL := fmt.Sprintf("%s/webhooks/voice/status/%s", s.WebhookBaseURL, callID)

	resp, err := s.Telephony.PlaceCall(ctx, phone, answerURL, statusURL)
	if err != nil {
		s.Registry.Remove(callID)
		logger.Error("failed to place outbound call",
			zap.String("phone", phone), zap.Error(err))
		return models.FunctionResult{
			Success:     false,
			UserMessage: "I couldn't place the call just now. We can keep going here, or I can try again in a moment.",
		}
	}

	session.CallID = callID
	session.PhoneNumber = phone
	return models.FunctionResult{
		Success:     true,
		UserMessage: fmt.Sprintf("I'm calling you now at %s.", phone),
		Data: map[string]any{
			"callId":         callID,
			"providerCallId": resp.ID,
			"status":         resp.Status,
		},
	}
}
