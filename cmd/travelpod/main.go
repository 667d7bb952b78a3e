package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boat-builder/travelpod"
	"github.com/boat-builder/travelpod/config"
	"github.com/boat-builder/travelpod/places"
	"github.com/boat-builder/travelpod/prompts"
	"github.com/boat-builder/travelpod/server"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	startCmd := flag.NewFlagSet("start", flag.ExitOnError)

	port := startCmd.Int("port", 0, "Port to run the server on (default from PORT or 8000)")
	postgresURI := startCmd.String("postgres", "", "PostgreSQL connection URI for the conversation log")
	sqlitePath := startCmd.String("sqlite", "", "SQLite file for the conversation log")
	initDB := startCmd.Bool("init", false, "Initialize the PostgreSQL schema")
	debug := startCmd.Bool("debug", false, "Enable debug logging and gin debug mode")
	jsonLogs := startCmd.Bool("json-logs", false, "Write logs as JSON")

	if len(os.Args) < 2 {
		fmt.Println("Expected 'start' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "start":
		startCmd.Parse(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		fmt.Println("Expected 'start' subcommand")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *postgresURI != "" {
		cfg.DatabaseURL = *postgresURI
	}
	if *sqlitePath != "" {
		cfg.SQLitePath = *sqlitePath
	}

	level := cfg.SlogLevel()
	if *debug {
		level = slog.LevelDebug
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := newLogger(*jsonLogs, level)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	storage, err := openStorage(cfg, *initDB, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if storage != nil {
		defer storage.Close()
	}

	pod := newPod(cfg, storage, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.New(pod, logger).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "provider", cfg.LLMProvider, "model", cfg.LLMModel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func newLogger(jsonLogs bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStorage prefers PostgreSQL over SQLite and returns nil when neither is configured.
func openStorage(cfg *config.Config, initDB bool, logger *slog.Logger) (travelpod.Storage, error) {
	switch {
	case cfg.DatabaseURL != "":
		storage, err := travelpod.NewPostgresStorage(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if initDB {
			logger.Info("Initializing database")
			if err := storage.InitDB(); err != nil {
				storage.Close()
				return nil, err
			}
			logger.Info("Database initialized successfully")
		}
		return storage, nil
	case cfg.SQLitePath != "":
		return travelpod.NewSQLiteStorage(cfg.SQLitePath)
	default:
		logger.Info("No conversation storage configured")
		return nil, nil
	}
}

func newPod(cfg *config.Config, storage travelpod.Storage, logger *slog.Logger) *travelpod.Pod {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	foursquare := places.NewFoursquare(cfg.FoursquareAPIKey, cfg.FoursquareBaseURL, httpClient)
	foursquare.SetLogger(logger)
	tavily := places.NewTavily(cfg.TavilyAPIKey, cfg.TavilyBaseURL, httpClient)
	tavily.SetLogger(logger)
	lookup := places.NewLookup(foursquare, tavily, cfg.ResultLimit)
	lookup.SetLogger(logger)

	skill := travelpod.NewPlaceSearchSkill(lookup)
	agent := travelpod.NewAgent(prompts.DefaultTravelAgentPrompt, []travelpod.Skill{*skill})
	agent.SetLogger(logger)
	agent.SetMaxIterations(cfg.MaxIterations)

	llm := travelpod.NewLLM(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.RequestTimeout)
	pod := travelpod.NewPod(llm, agent, storage)
	pod.SetLogger(logger)
	return pod
}
