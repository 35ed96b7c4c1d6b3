package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	breakdownApi "roadassist/internal/breakdown/api"
	breakdownApp "roadassist/internal/breakdown/app"
	breakdownRepo "roadassist/internal/breakdown/repo"
	mechanicApi "roadassist/internal/mechanic/api"
	mechanicApp "roadassist/internal/mechanic/app"
	mechanicRepo "roadassist/internal/mechanic/repo"
	notificationApi "roadassist/internal/notification/api"
	notificationApp "roadassist/internal/notification/app"
	notificationRepo "roadassist/internal/notification/repo"
	"roadassist/internal/notification/dispatcher"
	quoteApi "roadassist/internal/quote/api"
	quoteApp "roadassist/internal/quote/app"
	quoteRepo "roadassist/internal/quote/repo"
	"roadassist/internal/shared/config"
	"roadassist/internal/shared/db"
	"roadassist/internal/shared/health"
	"roadassist/internal/shared/middleware"
	"roadassist/internal/shared/mq"
	"roadassist/internal/shared/util"
)

func main() {
	logger := util.NewLogger()
	instance := "BreakdownService"

	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Config", err)
	}
	logger.OK("Config", "configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.ConnectToDB(ctx, &cfg.Database)
	cancel()
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

	secret := []byte(cfg.JWT.Secret)

	breakdowns := breakdownRepo.NewBreakdownRepo(database)
	garages := breakdownRepo.NewGarageRepo(database)
	mechanics := mechanicRepo.NewMechanicRepo(database)
	quotes := quoteRepo.NewQuoteRepo(database)
	notifications := notificationRepo.NewNotificationRepo(database)

	hub := notificationApi.NewHub(secret, logger)
	notifier := dispatcher.NewDispatcher(mq.NewPublisher(rmqCh), hub, logger)

	lifecycle := breakdownApp.NewLifecycleService(breakdowns, garages, mechanics, notifier, logger)
	resolver := breakdownApp.NewActorResolver(garages, mechanics)

	breakdownHandler := breakdownApi.NewHandler(lifecycle, resolver, logger)
	mechanicHandler := mechanicApi.NewHandler(mechanicApp.NewMechanicService(mechanics, garages, logger), logger)
	quoteHandler := quoteApi.NewHandler(quoteApp.NewQuoteService(quotes, lifecycle, logger), resolver, logger)
	notificationHandler := notificationApi.NewHandler(notificationApp.NewNotificationService(notifications, logger), logger)

	authed := http.NewServeMux()
	breakdownHandler.RegisterRoutes(authed)
	mechanicHandler.RegisterRoutes(authed)
	quoteHandler.RegisterRoutes(authed)
	notificationHandler.RegisterRoutes(authed)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Handler("breakdown-service", database, rmqConn))
	mux.HandleFunc("GET /ws", hub.ServeWS)
	mux.Handle("/", middleware.RequestID(middleware.Auth(secret)(authed)))

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: mux,
	}

	go func() {
		logger.OK("HTTP", "breakdown-service running on :"+cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Warn(instance, "shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP", err)
	} else {
		logger.OK("HTTP", "server stopped gracefully")
	}
	logger.Info(instance, "shutdown complete")
}
