package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marta/config"
	"marta/cron"
	"marta/database"
	clientRepo "marta/database/repository/client"
	"marta/handlers"
	"marta/middleware"
	"marta/routes"
	"marta/services/assistant"
	"marta/services/calendar"
	"marta/services/crm"
	"marta/services/intelligence"
	"marta/services/mail"
	"marta/services/notification"
	"marta/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitContextCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	clientsRepo := clientRepo.NewMongoClientRepo()

	// services.
	mailService := mail.NewGmailService()
	calendarService := calendar.NewGoogleCalendarService()
	crmService := crm.NewDefaultCRMService(clientsRepo)

	contextStore := assistant.NewRedisContextStore(
		utils.GetContextCacheClient(),
		time.Duration(config.AppConfig.ContextTTLMinutes)*time.Minute,
	)
	assistantService := assistant.NewDefaultAssistantService(mailService, calendarService, contextStore)

	if key := config.AppConfig.GeminiAPIKey; key != "" {
		composer, err := intelligence.NewGeminiComposer(context.Background(), key)
		if err != nil {
			logger.Sugar().Warnf("main: gemini composer unavailable, using fixed drafts: %v", err)
		} else {
			defer composer.Close()
			assistantService.Composer = composer
		}
	}

	notifier := notification.NewAsynqNotificationService()
	defer notifier.Close()
	assistantService.Notifier = notifier

	cron.InitNotificationWorker(mailService)

	hb := &handlers.HandlerBundle{
		ChatHandler: handlers.ChatHandler(assistantService),

		ListInboxHandler:    handlers.ListInboxHandler(mailService),
		GetEmailHandler:     handlers.GetEmailHandler(mailService),
		SendEmailHandler:    handlers.SendEmailHandler(mailService),
		SuggestReplyHandler: handlers.SuggestReplyHandler(mailService, assistantService.Composer),

		ListEventsHandler:  handlers.ListEventsHandler(calendarService),
		CreateEventHandler: handlers.CreateEventHandler(calendarService),

		RegisterClientHandler: handlers.RegisterClientHandler(crmService),
		GetClientHandler:      handlers.GetClientHandler(crmService),
		LookupClientHandler:   handlers.LookupClientHandler(crmService),
		ListClientsHandler:    handlers.ListClientsHandler(crmService),
		UpdateClientHandler:   handlers.UpdateClientHandler(crmService),
		DeleteClientHandler:   handlers.DeleteClientHandler(crmService),
	}
	routes.RegisterRoutes(router, hb)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Marta listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Info("server exited")
}
