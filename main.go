package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"matka/config"
	betcontroller "matka/controllers/bet"
	gametypecontroller "matka/controllers/gametype"
	marketcontroller "matka/controllers/market"
	usercontroller "matka/controllers/user"
	"matka/database"
	"matka/engine"
	"matka/metrics"
	"matka/routes"
	"matka/storage"
	"matka/utils"
)

func main() {
	cfg := config.Load()
	log := utils.InitLogger(cfg.LogLevel)

	var store storage.Store
	if cfg.DBDriver == "memory" {
		store = storage.NewMemory()
		log.Warn("using in-memory store, data will not survive a restart")
	} else {
		db, err := database.Connect(cfg, log)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		store = storage.NewGorm(db)
	}

	ctx := context.Background()
	if cfg.SeedDefaults {
		if err := database.EnsureDefaults(ctx, store, log); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	metricsSrv := metrics.StartServer(cfg.MetricsPort, registry)

	wager := engine.NewWager(store, log, m)
	settlement := engine.NewSettlement(store, log, m)
	lifecycle := engine.NewLifecycle(store, log)
	wallet := engine.NewWallet(store, log, m)

	app := fiber.New()
	routes.Setup(app, store, routes.Controllers{
		Users:     usercontroller.NewController(store, wallet),
		Markets:   marketcontroller.NewController(store, lifecycle, settlement),
		GameTypes: gametypecontroller.NewController(store),
		Bets:      betcontroller.NewController(wager, store),
	})

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Infof("server running at %s", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	_ = metricsSrv.Shutdown(ctx)
	log.Info("server exited cleanly")
}
