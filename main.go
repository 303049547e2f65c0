package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pairing-service/internal/db"
	"pairing-service/internal/game"
	"pairing-service/internal/handlers"
	"pairing-service/internal/middleware"
	"pairing-service/internal/observability"
	"pairing-service/internal/rabbitmq"
	"pairing-service/internal/repositories"
	"pairing-service/internal/telemetry"
	"pairing-service/internal/ws"
)

func main() {
	_ = godotenv.Load()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	ctx := context.Background()
	shutdownTracing := observability.InitTracing(ctx, getEnv("OTLP_ENDPOINT", ""), "pairing-service", getEnv("ENVIRONMENT", "development"))
	defer shutdownTracing(ctx)

	amqpURL := getEnv("AMQP_URL", "")
	exchange := getEnv("AMQP_EXCHANGE", "pairing_events")
	publisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	if amqpURL != "" {
		if eventPublisher, err := observability.NewAMQPPublisher(amqpURL, exchange); err != nil {
			log.Printf("ws event publisher disabled: %v", err)
		} else {
			observability.SetPublisher(eventPublisher)
			defer eventPublisher.Close()
		}
	}

	audit := telemetry.NewAuditEmitter(publisher, observability.AuditRoutingKey, "pairing-service", getEnv("ENVIRONMENT", "development"))

	userRepo := repositories.NewUserRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	tokenRepo := repositories.NewTokenRepo(database)

	hub := ws.NewHub()
	gameService := game.NewService(
		game.NewMemoryPool(),
		game.NewMemoryRegistry(),
		hub,
		getEnvInt("GROUP_SIZE", 2),
	)

	stopSweepers := gameService.StartSweepers(
		getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
		getEnvDuration("WAITING_TTL", 5*time.Minute),
		getEnvDuration("SESSION_TTL", 30*time.Minute),
	)
	defer stopSweepers()

	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, audit)
	friendHandler := handlers.NewFriendHandler(friendRepo, userRepo, gameService, audit)
	healthHandler := handlers.NewHealthHandler(gameService, userRepo)
	gameWS := ws.NewGameWebSocketHandler(hub, gameService, tokenRepo)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("pairing-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokenRepo)

	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/logout", authMiddleware, authHandler.Logout)
	router.GET("/api/auth/me", authMiddleware, authHandler.Me)
	router.PUT("/api/users/social-handle", authMiddleware, authHandler.UpdateSocialHandle)

	router.POST("/api/friends/requests", authMiddleware, friendHandler.SendRequest)
	router.POST("/api/friends/requests/:requester_id/accept", authMiddleware, friendHandler.AcceptRequest)
	router.POST("/api/friends/requests/:requester_id/reject", authMiddleware, friendHandler.RejectRequest)
	router.DELETE("/api/friends/:friend_id", authMiddleware, friendHandler.RemoveFriend)
	router.GET("/api/friends", authMiddleware, friendHandler.ListFriends)
	router.GET("/api/friends/requests", authMiddleware, friendHandler.ListIncomingRequests)
	router.GET("/api/friends/requests/sent", authMiddleware, friendHandler.ListOutgoingRequests)

	router.GET("/api/health", healthHandler.Health)
	router.GET("/api/users", healthHandler.WaitingUsers)
	router.GET("/api/stats", authMiddleware, healthHandler.Stats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws", gameWS.Handle)

	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "true")

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		log.Println("shutting down")
		stopSweepers()
		shutdownTracing(context.Background())
		publisher.Close()
		os.Exit(0)
	}()

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
