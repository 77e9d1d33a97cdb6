package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vsinha/kitchen-mrp/pkg/config"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/logger"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/metrics"
	"github.com/vsinha/kitchen-mrp/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, commands.Usage)
		os.Exit(2)
	}
	name := os.Args[1]
	if name == "-help" || name == "--help" || name == "help" {
		fmt.Print(commands.Usage)
		return
	}

	// Command line flags
	flags := flag.NewFlagSet(name, flag.ExitOnError)
	var (
		scenarioDir = flags.String("scenario", "", "Path to scenario directory containing CSV files")
		outputDir   = flags.String("output", "", "Output directory for results (optional)")
		format      = flags.String("format", "text", "Output format: text, json, csv")
		verbose     = flags.Bool("verbose", false, "Enable verbose output")
		envFile     = flags.String("env", "", "Load settings from this .env file instead of ./.env")
		help        = flags.Bool("help", false, "Show help message")
	)
	_ = flags.Parse(os.Args[2:])

	appConfig := config.Load()
	if *envFile != "" {
		var err error
		if appConfig, err = config.LoadFiles(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	logger.Init(appConfig.Log.Level, appConfig.Log.Pretty)
	log := logger.Component("main")

	cmdConfig := commands.Config{
		ScenarioDir: *scenarioDir,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
		App:         appConfig,
	}

	var cmd command
	switch name {
	case "explode":
		cmd = commands.NewExplodeCommand(cmdConfig)
	case "consume":
		cmd = commands.NewConsumeCommand(cmdConfig)
	case "scan":
		cmd = commands.NewScanCommand(cmdConfig)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n%s", name, commands.Usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appConfig.Metrics.Addr != "" {
		server := &http.Server{
			Addr:              appConfig.Metrics.Addr,
			Handler:           metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", server.Addr).Msg("Serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	if err := cmd.Execute(ctx); err != nil {
		log.Error().Err(err).Str("command", name).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
