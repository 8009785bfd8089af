package handlers

import (
	"net/http"

	"bookline/services/telephony"
	"bookline/utils"

	"github.com/gin-gonic/gin"
)

const xmlContentType = "application/xml; charset=utf-8"

// VoiceAnswerHandler handles the provider's answer webhook and returns the
// greeting markup.
func VoiceAnswerHandler(lc *telephony.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		callID := c.Param("callID")
		markup := lc.HandleAnswer(c.Request.Context(), callID)
		c.Data(http.StatusOK, xmlContentType, []byte(markup))
	}
}

// VoiceSpeechHandler handles the provider's speech-recognition webhook. The
// recognized text arrives as the SpeechResult form field.
func VoiceSpeechHandler(lc *telephony.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		callID := c.Param("callID")
		speech := c.PostForm("SpeechResult")
		markup := lc.HandleSpeech(c.Request.Context(), callID, speech)
		c.Data(http.StatusOK, xmlContentType, []byte(markup))
	}
}

// VoiceStatusHandler handles the provider's call status callback.
func VoiceStatusHandler(lc *telephony.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		callID := c.Param("callID")
		status := c.PostForm("CallStatus")
		if status == "" {
			status = c.Query("CallStatus")
		}
		lc.HandleStatus(c.Request.Context(), callID, status)
		c.Status(http.StatusNoContent)
	}
}

// GetCallHandler returns the tracked state of a live call.
func GetCallHandler(registry *telephony.CallRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		callID := c.Param("callID")
		call, ok := registry.Get(callID)
		if !ok {
			utils.JSONError(c, http.StatusNotFound, "Call not found", callID)
			return
		}
		c.JSON(http.StatusOK, call)
	}
}
