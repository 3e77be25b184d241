package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/votaciones-pe/sufragio/cliparse"
	"github.com/votaciones-pe/sufragio/db"
	"github.com/votaciones-pe/sufragio/events"
	"github.com/votaciones-pe/sufragio/ledger"
	"github.com/votaciones-pe/sufragio/models"
	"github.com/votaciones-pe/sufragio/padron"
	"github.com/votaciones-pe/sufragio/pipeline"
	"github.com/votaciones-pe/sufragio/results"
	"github.com/votaciones-pe/sufragio/router"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database (sqlite by default, postgres via config)
	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Wire stores and services
	bus := events.NewBus()
	registry := padron.NewRegistry()

	votes, err := ledger.NewStore(dbConn, bus)
	if err != nil {
		slog.Error("vote store initialization failed", "error", err)
		os.Exit(1)
	}

	pipe, err := pipeline.New(dbConn, votes, bus, cfg.VerifyDelay, cfg.ApplyDelay)
	if err != nil {
		slog.Error("pipeline initialization failed", "error", err)
		os.Exit(1)
	}

	refresher, err := results.NewRefresher(func() models.AggregatedResults {
		return results.Aggregate(votes.Combined(), registry.PartyNames(), registry.Regions())
	}, bus, cfg.RefreshSpec)
	if err != nil {
		slog.Error("refresher initialization failed", "error", err)
		os.Exit(1)
	}
	refresher.Start()
	defer refresher.Stop()

	// Create router
	handler := router.NewRouter(router.Deps{
		Votes:    votes,
		Pipe:     pipe,
		Registry: registry,
		Bus:      bus,
		Cfg:      cfg,
	})

	// Create server
	server := http.Server{
		Handler: handler,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
