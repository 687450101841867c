package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"bitbucket.org/sotavant/alexa-skill-server/internal/config"
)

// parseFlags resolves the configuration from command line flags; environment
// variables, when set, take precedence over flags.
func parseFlags(args []string) (config.Config, error) {
	cfg := config.Default()

	fs := flag.NewFlagSet("skill", flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "listen host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	fs.StringVar(&cfg.RootPath, "root", cfg.RootPath, "webhook root path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file, empty for stdout only")
	fs.BoolVar(&cfg.LogRequestBody, "log-body", cfg.LogRequestBody, "log request bodies")
	fs.BoolVar(&cfg.Production, "prod", cfg.Production, "verify that requests come from the platform")
	fs.DurationVar(&cfg.ShutdownGrace, "grace", cfg.ShutdownGrace, "graceful shutdown window")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	if envHost, ok := os.LookupEnv("LISTEN_HOST"); ok {
		cfg.Host = envHost
	}

	if envPort := os.Getenv("LISTEN_PORT"); envPort != "" {
		port, err := strconv.Atoi(envPort)
		if err != nil {
			return config.Config{}, fmt.Errorf("LISTEN_PORT: %w", err)
		}
		cfg.Port = port
	}

	if envRoot := os.Getenv("API_ROOT_PATH"); envRoot != "" {
		cfg.RootPath = envRoot
	}

	if envLogLevel := os.Getenv("LOG_LEVEL"); envLogLevel != "" {
		cfg.LogLevel = envLogLevel
	}

	if envLogFile, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.LogFile = envLogFile
	}

	if envLogBody, ok := os.LookupEnv("LOG_REQUEST_BODY"); ok {
		cfg.LogRequestBody = config.ParseBool(envLogBody)
	}

	if envAppEnv := os.Getenv("APP_ENV"); envAppEnv != "" {
		cfg.Production = envAppEnv == "prod"
	}

	if envGrace := os.Getenv("SHUTDOWN_GRACE"); envGrace != "" {
		grace, err := time.ParseDuration(envGrace)
		if err != nil {
			return config.Config{}, fmt.Errorf("SHUTDOWN_GRACE: %w", err)
		}
		cfg.ShutdownGrace = grace
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
