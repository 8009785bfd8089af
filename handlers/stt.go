package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"bookline/config"
	"bookline/services/agent"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

const (
	MaxFileSize      = 5 * 1024 * 1024 // 5MB (conservative buffer)
	AllowedExtension = ".wav"
)

func convertAudio(inputPath, outputPath string) error {
	_, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found in system PATH: %v", err)
	}

	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", inputPath,
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %s", stderr.String())
	}
	return nil
}

func transcribe(c *gin.Context, audioData []byte, language string) (string, error) {
	ctx := c.Request.Context()
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(config.AppConfig.GoogleServiceAccountFile))
	if err != nil {
		return "", fmt.Errorf("failed to initialize speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   16000,
			LanguageCode:      language,
			AudioChannelCount: 1, // Mono
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audioData,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}
	return strings.TrimSpace(transcript.String()), nil
}

// SpeechChatHandler accepts a WAV recording of one user utterance, runs it
// through speech recognition, and feeds the transcript into the conversation
// like any typed message.
func SpeechChatHandler(svc agent.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.PostForm("sessionId")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
			return
		}
		language := c.DefaultPostForm("language", "en-US")

		file, header, err := c.Request.FormFile("audio")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "audio file is required",
				"details": err.Error(),
			})
			return
		}
		defer file.Close()

		if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != AllowedExtension {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid file type",
				"details": fmt.Sprintf("expected %s, got %s", AllowedExtension, ext),
			})
			return
		}

		tempInput, err := os.CreateTemp("", "audio-*.wav")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create temp file"})
			return
		}
		defer os.Remove(tempInput.Name())
		defer tempInput.Close()

		if _, err := io.Copy(tempInput, io.LimitReader(file, MaxFileSize)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save audio file"})
			return
		}

		tempOutput, err := os.CreateTemp("", "converted-*.wav")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create output temp file"})
			return
		}
		defer os.Remove(tempOutput.Name())
		defer tempOutput.Close()

		if err := convertAudio(tempInput.Name(), tempOutput.Name()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "audio conversion failed",
				"details": err.Error(),
			})
			return
		}

		audioData, err := os.ReadFile(tempOutput.Name())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read converted audio"})
			return
		}

		transcript, err := transcribe(c, audioData, language)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "transcription failed",
				"details": err.Error(),
			})
			return
		}
		if transcript == "" {
			c.JSON(http.StatusOK, gin.H{
				"transcription": "",
				"reply":         "I'm sorry, I didn't catch that. Could you say that again?",
			})
			return
		}

		reply, err := svc.HandleMessage(c.Request.Context(), sessionID, transcript)
		if err != nil {
			if errors.Is(err, agent.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"transcription":   transcript,
			"reply":           reply.Text,
			"endConversation": reply.EndConversation,
		})
	}
}
