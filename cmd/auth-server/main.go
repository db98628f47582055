package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/authsvc"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log, err := authsvc.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := authsvc.OpenDB(cfg.Storage, cfg.Env)
	if err != nil {
		log.Fatal("failed to open db", zap.Error(err))
	}

	users := authsvc.NewStore(db)
	if err := users.Migrate(); err != nil {
		log.Fatal("failed to migrate users", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.AuthServer.Address,
		Handler:      authsvc.NewServer(log, users, cfg.JWT.Secret, cfg.JWT.TTL).Router(cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("auth server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", zap.Error(err))
	}
	log.Info("auth server stopped")
}
