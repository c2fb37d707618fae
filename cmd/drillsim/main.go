// Package main is the entry point for the drill trainer.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/samdwyer/drillsim/internal/game"
	"github.com/samdwyer/drillsim/internal/telemetry"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The terminal belongs to the renderer, so logs go to a file.
	logger, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Printf("Warning: telemetry setup failed: %v", err)
		logger.Printf("Drill will run without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	g, err := game.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize drill: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		logger.Printf("Drill error: %v", err)
		fmt.Fprintf(os.Stderr, "Drill error: %v\n", err)
		os.Exit(1)
	}
}

// openLog opens the session log. "-" discards it.
func openLog(path string) (*log.Logger, func(), error) {
	if path == "" || path == "-" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "drillsim ", log.LstdFlags|log.Lmicroseconds), func() { f.Close() }, nil
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// The .env file may hold an unexpanded variable reference, so the
	// headers are built here.
	apiKey := os.Getenv("HONEYCOMB_DRILLSIM_API_KEY")
	dataset := os.Getenv("HONEYCOMB_DRILLSIM_DATASET")
	if dataset == "" {
		dataset = "drillsim"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
