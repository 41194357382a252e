package main

import (
	"context" // Context for the Redis connection check
	"log"     // Startup logging

	"user_management/internal/api"        // API handlers
	"user_management/internal/config"     // Configuration
	"user_management/internal/middleware" // Auth gate middleware
	"user_management/internal/store"      // Store adapters

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database. TranslateError turns duplicate-key failures
	// into gorm.ErrDuplicatedKey so the store can report them as conflicts.
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default()
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	r.Use(cors.Default()) // Every route answers cross-origin requests

	users := store.NewUsers(db)  // User store adapter
	atomic := api.GormAtomic(db) // Transactional two-phase writes

	// Login route (open)
	r.POST("/login", api.LoginHandler(users, cfg.JWTSecret))

	// User routes (protected by the bearer-token auth gate)
	userGroup := r.Group("/users")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.GET("", api.GetAllUsersHandler(users, redisClient))         // List users
	userGroup.GET("/search", api.SearchUsersHandler(users))               // Search users by name or email
	userGroup.GET("/:id", api.GetUserByIDHandler(users, redisClient))     // Get user by id
	userGroup.POST("", api.CreateUserHandler(users, atomic, redisClient)) // Create user with its address
	userGroup.PUT("/:id", api.UpdateUserHandler(atomic, redisClient))     // Update user and its address
	userGroup.DELETE("/:id", api.DeleteUserHandler(atomic, redisClient))  // Delete user and its address

	log.Println("Server running on " + cfg.AppPort)
	r.Run(":" + cfg.AppPort) // Start the server on port cfg.AppPort
}
