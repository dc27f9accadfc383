package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tradepost/internal/adapter/api"
	"tradepost/internal/adapter/api/handler"
	apimiddleware "tradepost/internal/adapter/api/middleware"
	"tradepost/internal/adapter/api/router"
	"tradepost/internal/adapter/repository"
	"tradepost/internal/infrastructure/hub"
	"tradepost/internal/infrastructure/scheduler"
	"tradepost/internal/infrastructure/session"
	"tradepost/internal/usecase"
	"tradepost/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	sess := session.New()
	eventHub := hub.New()
	eventHub.Start(ctx)

	backendClient := repository.NewClient(cfg.BackendURL, cfg.HTTPTimeout, sess)

	messageRepo := repository.NewRestMessageRepository(backendClient)
	conversationRepo := repository.NewRestConversationRepository(backendClient)
	notificationRepo := repository.NewRestNotificationRepository(backendClient)
	middlemanRepo := repository.NewRestMiddlemanRepository(backendClient)
	broadcastRepo := repository.NewRestBroadcastRepository(backendClient)
	dashboardRepo := repository.NewRestDashboardRepository(backendClient)
	bridgeRepo := repository.NewRestBridgeRepository(cfg.BridgeURL, cfg.HTTPTimeout, sess)

	directoryUseCase := usecase.NewDirectoryUseCase(conversationRepo, eventHub)
	reconcilerUseCase := usecase.NewReconcilerUseCase(notificationRepo, eventHub)
	engineUseCase := usecase.NewMessageSyncUseCase(messageRepo, bridgeRepo, sess, eventHub, directoryUseCase, reconcilerUseCase)
	middlemanUseCase := usecase.NewMiddlemanUseCase(middlemanRepo, eventHub, cfg.MiddlemanCooldown)
	broadcastUseCase := usecase.NewBroadcastUseCase(broadcastRepo, eventHub)
	dashboardUseCase := usecase.NewDashboardUseCase(dashboardRepo, eventHub)

	sched := scheduler.New()
	surfaceUseCase := usecase.NewSurfaceUseCase(
		sched,
		sess,
		engineUseCase,
		directoryUseCase,
		reconcilerUseCase,
		middlemanUseCase,
		broadcastUseCase,
		dashboardUseCase,
		eventHub,
	)
	surfaceUseCase.RegisterTasks(cfg)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	sessionMiddleware := apimiddleware.NewSessionMiddleware(sess)

	sessionHandler := handler.NewSessionHandler(surfaceUseCase)
	chatHandler := handler.NewChatHandler(surfaceUseCase, engineUseCase, directoryUseCase)
	notificationHandler := handler.NewNotificationHandler(surfaceUseCase, reconcilerUseCase)
	middlemanHandler := handler.NewMiddlemanHandler(middlemanUseCase)
	dashboardHandler := handler.NewDashboardHandler(broadcastUseCase, dashboardUseCase)
	eventsHandler := handler.NewEventsHandler(eventHub)

	router.Setup(e)
	router.SetupSessionRouter(e, sessionHandler)
	router.SetupChatRouter(e, chatHandler, sessionMiddleware)
	router.SetupNotificationRouter(e, notificationHandler, sessionMiddleware)
	router.SetupMiddlemanRouter(e, middlemanHandler, sessionMiddleware)
	router.SetupDashboardRouter(e, dashboardHandler, sessionMiddleware)
	router.SetupEventsRouter(e, eventsHandler)

	log.Printf("Starting sync daemon on port %s (backend: %s)...", cfg.ListenPort, cfg.BackendURL)
	e.Logger.Fatal(e.Start("127.0.0.1:" + cfg.ListenPort))
}
