package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/joho/godotenv"
	"github.com/medinsight/medinsight-api/analysis"
	"github.com/medinsight/medinsight-api/config"
	"github.com/medinsight/medinsight-api/data"
	"github.com/medinsight/medinsight-api/handlers"
	"github.com/medinsight/medinsight-api/health"
	"github.com/medinsight/medinsight-api/llm"
	"github.com/medinsight/medinsight-api/logging"
	"github.com/medinsight/medinsight-api/scheduler"
	"github.com/medinsight/medinsight-api/server"
	"github.com/medinsight/medinsight-api/validation"
)

func init() {
	// Read the env variables from the working directory
	err := godotenv.Load()
	if err != nil {
		// If failed, try loading from executable directory
		ex, err := os.Executable()
		if err != nil {
			logging.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		exPath := filepath.Dir(ex)

		err = os.Chdir(exPath)
		if err != nil {
			logging.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	// Keyword table for the confidence fallback, overridable from a file
	table := analysis.DefaultHeuristicTable()
	if cfg.HeuristicsFile != "" {
		loaded, err := analysis.LoadHeuristicTable(cfg.HeuristicsFile)
		if err != nil {
			logging.Warn("Falling back to the built-in heuristic table",
				"path", cfg.HeuristicsFile, "error", err)
		} else {
			table = loaded
		}
	}

	gatewayReady := cfg.GeminiAPIKey != ""
	if !gatewayReady {
		logging.Warn("GEMINI_API_KEY is not set, analysis endpoints will answer 503")
	}

	gateway := llm.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.LLMTimeout)
	analyzer := analysis.NewAnalyzer(gateway, table)
	sessions := data.NewSessionContainer()
	validator := validation.NewInputValidator()
	checker := health.NewHealthChecker(sessions, gatewayReady, cfg.GeminiModel)

	// Idle-session purge and activity monitoring
	sched := scheduler.NewScheduler(sessions, cfg.SessionTTL)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// Hot reload of the heuristic table
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.HeuristicsFile != "" {
		go func() {
			if err := analyzer.WatchHeuristicTable(watchCtx, cfg.HeuristicsFile); err != nil {
				logging.Error("Heuristic table watcher stopped", "error", err)
			}
		}()
	}

	httpHandler := handlers.NewHTTPHandler(analyzer, sessions, validator, checker, gatewayReady, cfg.MaxRequestBody)
	srv := server.NewServer(cfg, httpHandler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	sched.Stop()
	stopWatch()

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
