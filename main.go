package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/api"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/audit"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/auth"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/config"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/database"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/event"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/game"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/ledger"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/logging"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := logging.NewDefault()
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logging.New(cfg.Logging)
	log.Info().Msg("starting casino wagering engine")

	db, err := database.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	auditSvc := audit.New(db.DB)

	rngSvc := rng.New()
	health, err := rngSvc.HealthCheck()
	if err != nil || !health.Healthy {
		log.Fatal().Err(err).Interface("result", health).Msg("RNG health check failed at startup")
	}
	auditSvc.Log(context.Background(), audit.EventRNGHealthCheck, domain.SeverityInfo,
		"startup RNG health check passed", health)

	lgr := ledger.NewSQL(db.DB)
	bus := event.NewBus()

	manager := game.NewManager(game.NewRegistry(), lgr, rngSvc,
		game.WithDB(db.DB),
		game.WithAudit(auditSvc),
		game.WithEvents(bus),
		game.WithManagerLogger(log),
		game.WithLargeWinThreshold(cfg.Game.LargeWinThreshold),
	)

	authSvc := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	handler := api.New(authSvc, lgr, lgr, manager, rngSvc, auditSvc, bus, log)
	router := handler.SetupRouter()
	router.NotFoundHandler = http.HandlerFunc(api.NotFoundHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Resolve outstanding owed payouts in the background.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if paid, err := manager.PayOwed(context.Background()); err != nil {
				log.Error().Err(err).Msg("owed payout sweep failed")
			} else if paid > 0 {
				log.Info().Int("paid", paid).Msg("owed payouts delivered")
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
