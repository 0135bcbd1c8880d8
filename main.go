package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"knights/config"
	"knights/experiments"
	"knights/shell"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.Debug)
	log.Debug().Msgf("loaded config: %+v", *cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	logger.Debug().Msg("debug logging is on")
}

func run(ctx context.Context, cfg *config.Config) error {
	switch cfg.Mode {
	case config.ModeExperiment:
		return runExperiment(ctx, cfg)
	}

	sc, closeShell, err := shell.NewShellController(cfg)
	if err != nil {
		return err
	}
	defer closeShell()

	switch cfg.Mode {
	case config.ModeAIvsAI:
		err = sc.Play(ctx, cfg.Rows, cfg.Cols, false)
	case config.ModeHumanVsAI:
		err = sc.Play(ctx, cfg.Rows, cfg.Cols, true)
	default:
		err = sc.Loop(ctx)
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func runExperiment(ctx context.Context, cfg *config.Config) error {
	var err error
	switch cfg.Experiment {
	case "depth":
		_, err = experiments.RunDepthExperiment(ctx, cfg.ExperimentDir, cfg.Games)
	case "table":
		_, err = experiments.RunTableExperiment(ctx, cfg.ExperimentDir, cfg.Games)
	case "throughput":
		_, err = experiments.RunThroughputExperiment(ctx, cfg.ExperimentDir, cfg.Games)
	}
	return err
}
