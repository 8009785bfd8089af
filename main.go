// File: bookline/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookline/config"
	"bookline/database"
	transcriptRepo "bookline/database/repository/transcript"
	"bookline/handlers"
	"bookline/routes"
	"bookline/services/agent"
	"bookline/services/scheduling"
	"bookline/services/telephony"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.StartHealthMonitor([]*redis.Client{utils.GetSessionCacheClient()}, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Language model client.
	completion, err := agent.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
	}
	defer completion.Close()

	// Repositories and stores.
	transcripts := transcriptRepo.NewMongoTranscriptRepo()
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionStore := agent.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)

	// Domain clients.
	calendarClient := scheduling.NewClient(config.AppConfig.CalBaseURL)
	telephonyClient := telephony.NewClient(
		config.AppConfig.TelephonyBaseURL,
		config.AppConfig.TelephonyAccountSID,
		config.AppConfig.TelephonyAuthToken,
		config.AppConfig.TelephonyFromNumber,
	)
	callRegistry := telephony.NewCallRegistry()

	// Services.
	agentService := &agent.DefaultAgentService{
		Completion:       completion,
		Store:            sessionStore,
		Classifier:       agent.NewKeywordClassifier(),
		Calendar:         calendarClient,
		Telephony:        telephonyClient,
		Registry:         callRegistry,
		WebhookBaseURL:   config.AppConfig.WebhookBaseURL,
		DefaultAgentName: config.AppConfig.AgentName,
		DefaultPersona:   config.AppConfig.AgentPersona,
	}
	if transcripts != nil {
		agentService.Transcripts = transcripts
	}

	lifecycle := &telephony.Lifecycle{
		Registry:       callRegistry,
		Agent:          agentService,
		Sessions:       agentService,
		WebhookBaseURL: config.AppConfig.WebhookBaseURL,
	}
	if transcripts != nil {
		lifecycle.Events = transcripts
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		StartConversationHandler: handlers.StartConversationHandler(agentService),
		ChatHandler:              handlers.ChatHandler(agentService),
		EndConversationHandler:   handlers.EndConversationHandler(agentService),
		SpeechChatHandler:        handlers.SpeechChatHandler(agentService),

		VoiceAnswerHandler: handlers.VoiceAnswerHandler(lifecycle),
		VoiceSpeechHandler: handlers.VoiceSpeechHandler(lifecycle),
		VoiceStatusHandler: handlers.VoiceStatusHandler(lifecycle),
		GetCallHandler:     handlers.GetCallHandler(callRegistry),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
