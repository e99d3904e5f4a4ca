package main

import (
	"fmt"
	"net/http"

	"social-crm/internal/config"
	"social-crm/internal/handler"
	"social-crm/internal/middleware"
	"social-crm/internal/platform/instagram"
	"social-crm/internal/redis"
	"social-crm/internal/repository"
	"social-crm/internal/services"
	"social-crm/pkg/database"
	"social-crm/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(log)
	defer log.Logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Errorf("failed to connect to database: %s", err.Error())
		panic(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Errorf("failed to migrate database: %s", err.Error())
		panic(err)
	}

	store := repository.NewStore(db)
	gateway := instagram.NewClient(cfg, store.Accounts(), log)
	adapter := instagram.NewAdapter(log)

	ingestService := services.NewIngestService(store, gateway, log)
	contactService := services.NewContactService(store)
	messageService := services.NewMessageService(store, gateway, ingestService, log)

	webhookHandler := handler.NewWebhookHandler(cfg.InstagramVerifyToken, adapter, ingestService, log)
	contactHandler := handler.NewContactHandler(contactService)
	messageHandler := handler.NewMessageHandler(messageService)

	if cfg.AppMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(cors.Default())

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	r.GET("/health", func(c *gin.Context) {
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var sendLimiter gin.HandlerFunc
	if cfg.RedisHost != "" {
		limiter := redis.NewRateLimiter(redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		}), redis.DefaultRateLimitConfig())
		sendLimiter = middleware.SendRateLimitMiddleware(limiter)
	}

	api := r.Group("/api")
	{
		api.GET("/webhooks/instagram", webhookHandler.Verify)
		api.POST("/webhooks/instagram", webhookHandler.Receive)

		api.GET("/contacts", contactHandler.List)
		api.GET("/contacts/:id", contactHandler.GetByID)
		api.POST("/contacts", contactHandler.Create)
		api.PUT("/contacts/:id", contactHandler.Update)
		api.DELETE("/contacts/:id", contactHandler.Delete)

		messages := api.Group("/messages")
		messages.GET("/conversations", messageHandler.ListConversations)
		messages.GET("/conversations/:id", messageHandler.GetConversation)
		messages.GET("/conversations/:id/messages", messageHandler.ListMessages)
		messages.POST("/conversations/:id/read", messageHandler.MarkRead)
		if sendLimiter != nil {
			messages.POST("/send", sendLimiter, messageHandler.Send)
		} else {
			messages.POST("/send", messageHandler.Send)
		}
	}

	log.Infof("starting server on port %s", cfg.AppPort)
	if err := r.Run(fmt.Sprintf(":%s", cfg.AppPort)); err != nil {
		log.Errorf("failed to start server: %s", err.Error())
		panic(err)
	}
}
