package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/sotavant/alexa-skill-server/internal/config"
	"bitbucket.org/sotavant/alexa-skill-server/internal/logger"
	"bitbucket.org/sotavant/alexa-skill-server/internal/skill"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		panic(err)
	}

	if err := run(cfg); err != nil {
		if errors.Is(err, skill.ErrForcedShutdown) {
			os.Exit(1)
		}
		panic(err)
	}
}

func run(cfg config.Config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a := newApp(cfg)

	return skill.NewServer(cfg, a.skill).Run(ctx)
}
