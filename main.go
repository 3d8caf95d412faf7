package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lpernett/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/handlers"
	"github.com/zzonde-labs/zzonde-go-sdk/utils"
)

// Load environment variables from .env file
func init() {
	err := godotenv.Load()
	if err != nil {
		zap.L().Warn("Error loading .env file")
	}
}

func main() {
	// Set up logging
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	logger.Info("Server Version: ZZonde Companion V1")

	// Set up Redis connection
	redisClient := redis.NewClient(&redis.Options{
		Addr:        os.Getenv("REDIS_HOST"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          0,
		DialTimeout: 20 * time.Second, // initial connection timeout
	})

	redisCtx, cancelRedis := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelRedis()

	_, err = redisClient.Ping(redisCtx).Result()
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	logger.Info("Successfully connected to Redis")

	openaiClient := utils.NewOpenAIClient()

	// Define HTTP routes
	http.HandleFunc("/companion", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleCompanionSession(w, r, redisClient)
	})
	http.HandleFunc("/api/ai-intent", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleIntentAPI(w, r, openaiClient)
	})
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Set up signal handling
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverExit := make(chan struct{})

	// Start HTTP server in a goroutine
	go func() {
		port := ":" + os.Getenv("PORT")
		if port == ":" {
			port = ":8080"
		}
		logger.Info("Starting server on...", zap.String("port", port))
		if err := http.ListenAndServe(port, nil); err != nil {
			logger.Error("Server exited", zap.Error(err))
		}
		close(serverExit)
	}()

	// On termination, close all connections and shut down the server
	select {
	case <-stop:
		logger.Info("Shutting down server...")
	case <-serverExit:
		logger.Info("Server exited unexpectedly...")
	}

	logger.Info("Server shut down gracefully")
}
