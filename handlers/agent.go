package handlers

import (
	"errors"
	"net/http"

	"bookline/models"
	"bookline/services/agent"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatRequest is one user message within an existing conversation.
type ChatRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse carries the agent's reply for one message.
type ChatResponse struct {
	SessionID       string `json:"sessionId"`
	Reply           string `json:"reply"`
	EndConversation bool   `json:"endConversation"`
}

// StartConversationHandler creates a new conversation session.
func StartConversationHandler(svc agent.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		var cfg models.SessionConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			logger.Error("Invalid start conversation request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sessionID, greeting, err := svc.StartConversation(c.Request.Context(), cfg)
		if err != nil {
			logger.Error("Failed to start conversation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start conversation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"sessionId": sessionID,
			"greeting":  greeting,
		})
	}
}

// ChatHandler processes one user message and returns the agent's reply.
func ChatHandler(svc agent.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid chat request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		reply, err := svc.HandleMessage(c.Request.Context(), req.SessionID, req.Message)
		if err != nil {
			if errors.Is(err, agent.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
				return
			}
			logger.Error("Failed to handle message",
				zap.String("sessionId", req.SessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
			return
		}

		c.JSON(http.StatusOK, ChatResponse{
			SessionID:       req.SessionID,
			Reply:           reply.Text,
			EndConversation: reply.EndConversation,
		})
	}
}

// EndConversationHandler discards a conversation session.
func EndConversationHandler(svc agent.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		if err := svc.EndSession(c.Request.Context(), sessionID); err != nil {
			utils.GetLogger().Error("Failed to end session",
				zap.String("sessionId", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "ended": true})
	}
}
