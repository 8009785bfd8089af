// File: services/agent/service.go
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookline/models"
	"bookline/services/scheduling"
	"bookline/services/telephony"
	"bookline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultAgentService is the production orchestrator implementation.
type DefaultAgentService struct {
	Completion  CompletionClient
	Store       SessionStore
	Classifier  ContextClassifier
	Calendar    *scheduling.Client
	Telephony   *telephony.Client
	Registry    *telephony.CallRegistry
	Transcripts TranscriptSink

	// WebhookBaseURL is the externally reachable prefix used when building
	// voice webhook URLs for outbound calls.
	WebhookBaseURL string

	// DefaultAgentName and DefaultPersona apply when the session config
	// leaves them blank.
	DefaultAgentName string
	DefaultPersona   string
}

func (s *DefaultAgentService) StartConversation(ctx context.Context, cfg models.SessionConfig) (string, string, error) {
	agentName := cfg.AgentName
	if agentName == "" {
		agentName = s.DefaultAgentName
	}
	persona := cfg.Persona
	if persona == "" {
		persona = s.DefaultPersona
	}

	now := time.Now().UTC()
	session := &models.ConversationSession{
		ID:           uuid.New().String(),
		AgentName:    agentName,
		Persona:      persona,
		CustomerName: cfg.CustomerName,
		Scheduling:   cfg.Scheduling,
		PhoneNumber:  cfg.PhoneNumber,
		Context:      models.SessionContext{CurrentStep: models.StepIntro},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	greeting := fmt.Sprintf("Hi! I'm %s. How can I help you schedule an appointment today?", agentName)
	if cfg.CustomerName != "" {
		greeting = fmt.Sprintf("Hi %s! I'm %s. How can I help you schedule an appointment today?", cfg.CustomerName, agentName)
		session.Context.HasName = true
	}

	session.AppendTurn(models.Turn{Role: models.RoleAssistant, Content: greeting})
	if err := s.Store.Put(ctx, session); err != nil {
		return "", "", fmt.Errorf("failed to create session: %w", err)
	}
	s.saveTranscript(ctx, session.ID, models.RoleAssistant, greeting, "")

	return session.ID, greeting, nil
}

func (s *DefaultAgentService) HandleMessage(ctx context.Context, sessionID, text string) (models.Reply, error) {
	logger := utils.GetLogger()

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return models.Reply{}, err
	}

	s.Classifier.Classify(text, &session.Context)

	history := append([]models.Turn(nil), session.Turns...)
	session.AppendTurn(models.Turn{Role: models.RoleUser, Content: text})
	s.saveTranscript(ctx, session.ID, models.RoleUser, text, "")

	result, err := s.Completion.Complete(ctx, CompletionRequest{
		SystemInstruction: s.systemInstruction(session),
		History:           history,
		Tools:             s.buildFunctionCatalog(session),
		Input:             text,
	})
	if err != nil {
		if putErr := s.Store.Put(ctx, session); putErr != nil {
			logger.Warn("failed to persist session after model error", zap.Error(putErr))
		}
		return models.Reply{}, fmt.Errorf("model completion failed: %w", err)
	}

	var reply models.Reply
	if result.FunctionCall != nil {
		reply, err = s.handleFunctionCall(ctx, session, *result.FunctionCall)
		if err != nil {
			if putErr := s.Store.Put(ctx, session); putErr != nil {
				logger.Warn("failed to persist session after dispatch error", zap.Error(putErr))
			}
			return models.Reply{}, err
		}
	} else {
		reply = models.Reply{Text: result.Text}
		session.AppendTurn(models.Turn{Role: models.RoleAssistant, Content: result.Text})
		s.saveTranscript(ctx, session.ID, models.RoleAssistant, result.Text, "")
	}

	if err := s.Store.Put(ctx, session); err != nil {
		return models.Reply{}, fmt.Errorf("failed to persist session: %w", err)
	}
	return reply, nil
}

func (s *DefaultAgentService) handleFunctionCall(ctx context.Context, session *models.ConversationSession, call models.FunctionCall) (models.Reply, error) {
	args, err := json.Marshal(call.Args)
	if err != nil {
		return models.Reply{}, fmt.Errorf("malformed arguments for %s: %w", call.Name, err)
	}
	if call.Name == "" {
		return models.Reply{}, fmt.Errorf("model requested a function call without a name")
	}

	session.AppendTurn(models.Turn{
		Role:         models.RoleAssistant,
		FunctionName: call.Name,
		FunctionArgs: args,
	})

	result := s.executeFunction(ctx, session, call)

	session.AppendTurn(models.Turn{
		Role:           models.RoleFunction,
		FunctionName:   call.Name,
		FunctionResult: result.Raw(),
	})
	s.saveTranscript(ctx, session.ID, models.RoleFunction, result.UserMessage, call.Name)

	return models.Reply{
		Text:            result.UserMessage,
		EndConversation: call.Name == FnEndConversation,
	}, nil
}

func (s *DefaultAgentService) EndSession(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

// Respond adapts HandleMessage for the voice lifecycle, which needs plain
// text plus an end-of-call signal.
func (s *DefaultAgentService) Respond(ctx context.Context, sessionID, text string) (string, bool, error) {
	reply, err := s.HandleMessage(ctx, sessionID, text)
	if err != nil {
		return "", false, err
	}
	return reply.Text, reply.EndConversation, nil
}

// Delete satisfies the voice lifecycle's session releaser.
func (s *DefaultAgentService) Delete(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

func (s *DefaultAgentService) systemInstruction(session *models.ConversationSession) string {
	persona := session.Persona
	if persona == "" {
		persona = "a friendly, efficient scheduling assistant"
	}
	return fmt.Sprintf(
		"You are %s, %s. Today's date is %s. "+
			"Help the customer find a time and book an appointment. "+
			"Use the provided functions for anything involving the calendar; never invent availability or confirmation codes. "+
			"Collect the customer's name and email before booking. "+
			"Keep replies short and conversational, one question at a time.",
		session.AgentName, persona, time.Now().Format("Monday, January 2, 2006"))
}

func (s *DefaultAgentService) saveTranscript(ctx context.Context, sessionID string, role models.Role, content, functionName string) {
	if s.Transcripts == nil {
		return
	}
	entry := models.TranscriptEntry{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Role:         role,
		Content:      content,
		FunctionName: functionName,
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.Transcripts.SaveTurn(ctx, entry); err != nil {
		utils.GetLogger().Debug("failed to save transcript entry",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
}
