// File: services/agent/functions.go
package agent

import (
	"bookline/models"
)

// Function names offered to the language model.
const (
	FnCheckAvailability = "check_availability"
	FnGetSlots          = "get_slots"
	FnBookAppointment   = "book_appointment"
	FnInitiateVoiceCall = "initiate_voice_call"
	FnEndConversation   = "end_conversation"
)

// buildFunctionCatalog assembles the functions available to the model for one
// turn. Scheduling functions require the session to carry provider
// credentials; outbound calling requires a configured telephony client.
func (s *DefaultAgentService) buildFunctionCatalog(session *models.ConversationSession) []models.FunctionDescriptor {
	var fns []models.FunctionDescriptor

	if session.Scheduling != nil && session.Scheduling.APIKey != "" {
		fns = append(fns,
			models.FunctionDescriptor{
				Name:        FnCheckAvailability,
				Description: "Check whether the host is free at a requested date and optional time. Use whenever the customer asks about availability.",
				Parameters: map[string]models.ParameterSpec{
					"date": {
						Type:        "string",
						Description: "Requested date in the customer's words, e.g. 'tomorrow' or '2026-09-02'.",
						Required:    true,
					},
					"time": {
						Type:        "string",
						Description: "Requested local time in the customer's words, e.g. '3 pm'. Omit if none was given.",
					},
				},
			},
			models.FunctionDescriptor{
				Name:        FnGetSlots,
				Description: "List open appointment slots so the customer can pick one. Pass the exact window when the customer gave one, otherwise just the date.",
				Parameters: map[string]models.ParameterSpec{
					"startTime": {
						Type:        "string",
						Description: "Window start in RFC 3339 UTC, e.g. '2026-09-02T14:00:00Z'.",
					},
					"endTime": {
						Type:        "string",
						Description: "Window end in RFC 3339 UTC, e.g. '2026-09-02T17:00:00Z'.",
					},
					"date": {
						Type:        "string",
						Description: "Date to list slots for when no window was given, e.g. 'tomorrow' or '2026-09-02'.",
					},
				},
			},
			models.FunctionDescriptor{
				Name:        FnBookAppointment,
				Description: "Create the appointment once the customer has confirmed name, email, date and time.",
				Parameters: map[string]models.ParameterSpec{
					"name": {
						Type:        "string",
						Description: "Customer's full name.",
						Required:    true,
					},
					"email": {
						Type:        "string",
						Description: "Customer's email address.",
						Required:    true,
					},
					"date": {
						Type:        "string",
						Description: "Appointment date, e.g. 'tomorrow' or '2026-09-02'.",
						Required:    true,
					},
					"time": {
						Type:        "string",
						Description: "Appointment local time, e.g. '3 pm' or '15:00'.",
						Required:    true,
					},
					"title": {
						Type:        "string",
						Description: "Appointment title. Omit to use the event type's standard title.",
					},
					"notes": {
						Type:        "string",
						Description: "Anything the customer wants the host to know.",
					},
				},
			},
		)
	}

	if s.Telephony.IsConfigured() {
		fns = append(fns, models.FunctionDescriptor{
			Name:        FnInitiateVoiceCall,
			Description: "Place an outbound phone call to the customer and continue this conversation by voice.",
			Parameters: map[string]models.ParameterSpec{
				"phoneNumber": {
					Type:        "string",
					Description: "Customer's phone number in E.164 format, e.g. +14155550123.",
					Required:    true,
				},
				"customerName": {
					Type:        "string",
					Description: "Customer's name, spoken in the call greeting.",
				},
				"reason": {
					Type:        "string",
					Description: "Short reason for the call, mentioned in the greeting.",
				},
			},
		})
	}

	fns = append(fns, models.FunctionDescriptor{
		Name:        FnEndConversation,
		Description: "End the conversation politely once the customer is done.",
		Parameters: map[string]models.ParameterSpec{
			"reason": {
				Type:        "string",
				Description: "Short reason the conversation ended.",
			},
		},
	})

	return fns
}
