package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hallbook/internal/config"
	"hallbook/internal/consumers"
	"hallbook/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	log.Println("Starting consumers service...")

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Dedicated NATS client ID for the consumers service
	cfg.NATS.ClientID = "hallbook-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
