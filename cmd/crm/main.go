package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/logger"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/notify"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/realtime"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/activity"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/contract"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/export"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/reminder"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/sav"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/scheduling"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/stock"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/wizard"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage/sqlstore"
)

// services is everything the router hands to handlers.
type services struct {
	repos    *crm.Repos
	hub      *realtime.Hub
	schedule *scheduling.Service
	sav      *sav.Service
	stock    *stock.Service
	contract *contract.Service
	export   *export.Service
	activity *activity.Service
	wizards  wizard.Registry
}

func newServices(log *slog.Logger, cfg config.Config, repos *crm.Repos, hub *realtime.Hub) services {
	loc := cfg.Loc()
	stockService := stock.NewService(log, repos)

	return services{
		repos:    repos,
		hub:      hub,
		schedule: scheduling.NewService(log, repos, stockService, loc),
		sav:      sav.NewService(log, repos, loc),
		stock:    stockService,
		contract: contract.NewService(repos, cfg.Company, loc),
		export:   export.NewService(repos, loc),
		activity: activity.NewService(log, repos),
		wizards:  wizard.Default(),
	}
}

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env)
	loc := cfg.Loc()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.New(cfg.Storage)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Error("failed to migrate db", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hub := realtime.NewHub(log, realtime.DefaultBuffer)
	store.SetSink(hub)

	svc := newServices(log, *cfg, crm.NewRepos(store, time.Now), hub)

	if err := svc.sav.Watch(ctx, hub); err != nil {
		// the dashboard falls back to reading the store
		log.Warn("sav live view unavailable", slog.String("error", err.Error()))
	}
	defer svc.sav.Close()

	if cfg.Reminder.Enabled {
		rem := reminder.NewService(log, svc.repos, notify.New(log, cfg.Twilio), loc, cfg.Reminder.LeadDays, cfg.Company.Name)
		c, err := rem.Schedule(cfg.Reminder.Schedule)
		if err != nil {
			log.Error("failed to schedule reminders", slog.String("error", err.Error()))
			os.Exit(1)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
		log.Info("reminders scheduled", slog.String("schedule", cfg.Reminder.Schedule))
	}

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      routes(*cfg, log, svc),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("server started", slog.String("address", cfg.HTTPServer.Address), slog.String("env", cfg.Env))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}
