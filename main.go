package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"trivia-service/internal/config"
	"trivia-service/internal/db"
	"trivia-service/internal/event"
	"trivia-service/internal/handlers"
	"trivia-service/internal/opentdb"
	"trivia-service/internal/repository"
	"trivia-service/internal/service"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db.InitMongo(cfg.MongoURI)
	database := db.Client.Database(cfg.MongoDB)

	// RabbitMQ event publisher
	var publisher *event.Publisher
	if cfg.RabbitURI != "" && cfg.RabbitXchg != "" {
		publisher, err = event.NewPublisher(cfg.RabbitURI, cfg.RabbitXchg)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, lifecycle events will not be published")
	}

	// Redis cache for the daily quiz count
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	} else {
		log.Println("Redis not configured, daily counts are recomputed per request")
	}

	// Question Source
	tdb := opentdb.NewClient(cfg.OpenTDBURL, &http.Client{Timeout: 15 * time.Second})

	// Repositories and services
	sessionRepo := repository.NewSessionRepository(database)
	historyRepo := repository.NewHistoryRepository(database)
	userRepo := repository.NewUserRepository(database)

	historyService := service.NewHistoryService(historyRepo, cache)
	sessionService := service.NewSessionService(sessionRepo, historyService, tdb.FetchQuestions)
	userService := service.NewUserService(userRepo)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	userHandler := handlers.NewUserHandler(userService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-User-ID", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	public := r.Group("/public/trivia")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"service":   "trivia-service",
				"status":    "healthy",
				"timestamp": time.Now(),
			})
		})
		public.GET("/topics", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"topics": opentdb.Topics()})
		})
	}

	setupProtectedRoutes(r, sessionHandler, historyHandler, userHandler, publisher)

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func setupProtectedRoutes(
	r *gin.Engine,
	sessionHandler *handlers.SessionHandler,
	historyHandler *handlers.HistoryHandler,
	userHandler *handlers.UserHandler,
	publisher *event.Publisher,
) {
	protected := r.Group("/protected/trivia")

	// Every protected route needs the opaque user id supplied by the
	// identity layer upstream.
	protected.Use(func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	})

	session := protected.Group("/session")
	{
		session.POST("/:topicId", func(c *gin.Context) {
			sessionHandler.InitializeSession(c)
			if publisher != nil {
				publisher.Publish("trivia.session.created", gin.H{
					"user_id":  c.GetHeader("X-User-ID"),
					"topic_id": c.Param("topicId"),
				})
			}
		})

		session.GET("/:topicId", sessionHandler.GetSession)

		session.POST("/:topicId/answer", func(c *gin.Context) {
			sessionHandler.SubmitAnswer(c)
			if publisher != nil {
				publisher.Publish("trivia.answer.submitted", gin.H{
					"user_id":  c.GetHeader("X-User-ID"),
					"topic_id": c.Param("topicId"),
				})
			}
		})

		session.POST("/:topicId/finalize", func(c *gin.Context) {
			sessionHandler.FinalizeSession(c)
			if publisher != nil {
				publisher.Publish("trivia.session.completed", gin.H{
					"user_id":  c.GetHeader("X-User-ID"),
					"topic_id": c.Param("topicId"),
				})
			}
		})
	}

	history := protected.Group("/history")
	{
		history.GET("/", historyHandler.GetHistory)
		history.GET("/today", historyHandler.GetDailyProgress)
	}

	profile := protected.Group("/profile")
	{
		profile.GET("/stats", historyHandler.GetStats)
		profile.GET("/", userHandler.GetProfile)
		profile.POST("/", func(c *gin.Context) {
			userHandler.RegisterProfile(c)
			if publisher != nil {
				publisher.Publish("trivia.profile.registered", gin.H{
					"user_id": c.GetHeader("X-User-ID"),
				})
			}
		})
		profile.PUT("/", userHandler.UpdateProfile)
		profile.DELETE("/", func(c *gin.Context) {
			userHandler.DeleteProfile(c)
			if publisher != nil {
				publisher.Publish("trivia.profile.deleted", gin.H{
					"user_id": c.GetHeader("X-User-ID"),
				})
			}
		})
	}
}
