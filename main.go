package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookshelf/backend/internal/config"
	"github.com/bookshelf/backend/internal/db"
	"github.com/bookshelf/backend/internal/handler"
	"github.com/bookshelf/backend/internal/logger"
	"github.com/bookshelf/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Bookshelf API
// @version 1.0
// @description Book catalog with user registration and bearer-token authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.Store.Driver).Fatal("failed to open store")
	}
	log.WithField("driver", cfg.Store.Driver).Info("store connected")

	authService, err := service.NewAuthService(store, cfg.Auth, log)
	if err != nil {
		_ = store.Close(context.Background())
		log.WithError(err).Fatal("failed to configure auth")
	}
	bookService := service.NewBookService(store, log)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:           authService,
		Books:          bookService,
		Log:            log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	timeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var failed bool
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		failed = true
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to close store")
		failed = true
	}
	if failed {
		cancel()
		stop()
		os.Exit(1)
	}
}
