package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/user/market-mogul/config"
	"github.com/user/market-mogul/internal/game"
	"github.com/user/market-mogul/internal/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	seed := flag.Int64("seed", 0, "Random seed (0 means time-based)")
	flag.Parse()

	// Load .env file for local development. Not fatal if absent, env vars
	// might be set directly.
	_ = godotenv.Load()

	// Set up logger
	logger := setupLogger()
	defer logger.Sync()

	// Initialize telemetry when an OTLP endpoint is configured
	ctx := context.Background()
	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Warn("Telemetry setup failed, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.Error("Failed to shut down telemetry", zap.Error(err))
				}
			}()
		}
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Load the content catalog
	catalog, err := loadCatalog(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load content catalog", zap.Error(err))
	}

	// Initialize the game session
	session := game.NewSession(cfg.Game, catalog, game.NewRandomizer(*seed))
	session.SetLogger(logger)
	if cfg.Game.ResultsDir != "" {
		session.SetResultsStorage(game.NewResultsStorage(cfg.Game.ResultsDir))
	}

	// Set up HTTP server for the presentation layer
	server := setupHTTPServer(cfg, session, logger)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(server, logger)
}

func setupLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

func loadCatalog(cfg config.Config, logger *zap.Logger) (*game.Catalog, error) {
	loader := game.NewCatalogLoader(cfg.Game.DataDir)

	catalog, err := loader.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	logger.Info("Loaded content catalog",
		zap.Int("scenarios", catalog.ScenarioCount()),
		zap.Int("events", len(catalog.Events())))

	return catalog, nil
}

func setupHTTPServer(cfg config.Config, session *game.Session, logger *zap.Logger) *http.Server {
	tracer := telemetry.Tracer("http")

	// Create router
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	writeState := func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(session.State())
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Get("/game/state", func(w http.ResponseWriter, r *http.Request) {
		writeState(w)
	})

	router.Post("/game/start", func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "game.start")
		defer span.End()

		var req struct {
			TeamNames []string `json:"team_names"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if err := session.StartGame(req.TeamNames); err != nil {
			logger.Warn("Rejected game start", zap.Error(err), zap.Int("team_count", len(req.TeamNames)))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeState(w)
	})

	router.Post("/game/choose", func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "game.choose")
		defer span.End()

		var req struct {
			OptionID string `json:"option_id"`
			Auto     bool   `json:"auto"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if req.Auto {
			session.AutoChooseOption()
		} else {
			session.ChooseOption(req.OptionID)
		}

		writeState(w)
	})

	router.Post("/game/next", func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "game.next")
		defer span.End()

		session.AdvanceToNextTeam()
		writeState(w)
	})

	router.Post("/game/event/ack", func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "game.event_ack")
		defer span.End()

		session.AcknowledgeMarketEvent()
		writeState(w)
	})

	router.Post("/game/reset", func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "game.reset")
		defer span.End()

		session.ResetGame()
		writeState(w)
	})

	router.Get("/game/standings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(session.Standings())
	})

	// Create HTTP server
	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Shutting down")
}
