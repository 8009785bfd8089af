// File: bookline/handlers/handlerBundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	// Conversation endpoints
	StartConversationHandler gin.HandlerFunc
	ChatHandler              gin.HandlerFunc
	EndConversationHandler   gin.HandlerFunc
	SpeechChatHandler        gin.HandlerFunc

	// Voice webhook endpoints
	VoiceAnswerHandler gin.HandlerFunc
	VoiceSpeechHandler gin.HandlerFunc
	VoiceStatusHandler gin.HandlerFunc
	GetCallHandler     gin.HandlerFunc
}
