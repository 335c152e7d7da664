package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bilal/mgenstat/internal/analyzer"
	"github.com/bilal/mgenstat/internal/config"
	"github.com/bilal/mgenstat/internal/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const usage = "Usage: mgenstat [-config file.yaml] [-log-level level] receiver_host1.log [receiver_host2.log ...] output.csv"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mgenstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Optional YAML config file")
	logLevel := fs.String("log-level", "", "Log level override (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	paths := fs.Args()
	if len(paths) < 2 {
		fmt.Fprintln(stderr, usage)
		return 1
	}
	logPaths, outputPath := paths[:len(paths)-1], paths[len(paths)-1]

	// Load config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	// Init logger
	logger.Init(cfg.Logging, stderr)
	log.Logger = log.With().Str("run_id", uuid.NewString()).Logger()
	log.Debug().Int("inputs", len(logPaths)).Str("output", outputPath).Msg("starting mgenstat")

	if _, err := analyzer.New(cfg, stdout).Run(logPaths, outputPath); err != nil {
		log.Error().Err(err).Msg("analysis failed")
		return 1
	}
	return 0
}
