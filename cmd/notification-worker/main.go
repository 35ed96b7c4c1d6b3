package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"roadassist/internal/notification/app"
	"roadassist/internal/notification/repo"
	"roadassist/internal/notification/worker"
	"roadassist/internal/shared/config"
	"roadassist/internal/shared/db"
	"roadassist/internal/shared/mq"
	"roadassist/internal/shared/util"
)

func main() {
	logger := util.NewLogger()
	instance := "NotificationWorker"

	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Config", err)
	}
	logger.OK("Config", "configuration loaded")

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.ConnectToDB(connectCtx, &cfg.Database)
	connectCancel()
	if err != nil {
		logger.Fatal("Database", err)
	}
	defer database.Close()
	logger.OK("Database", "connected")

	rmqConn, rmqCh, err := mq.ConnectToRMQ(&cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("RabbitMQ", err)
	}
	defer rmqConn.Close()
	defer rmqCh.Close()

	if err := mq.DeclareNotificationExchange(rmqCh); err != nil {
		logger.Fatal("RabbitMQ", err)
	}
	logger.OK("RabbitMQ", "connected, exchange declared")

	service := app.NewNotificationService(repo.NewNotificationRepo(database), logger)
	w := worker.NewWorker(mq.NewConsumer(rmqCh), service, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Warn(instance, "shutting down...")
		cancel()
	}()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(instance, err)
		os.Exit(1)
	}
	logger.Info(instance, "shutdown complete")
}
