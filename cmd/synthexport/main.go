package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal/config"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/export"
)

var Version = "0.0.0"

type cli struct {
	config.Config
	EnvFile []string         `name:"env-file" help:"Extra .env files to load before reading the environment."`
	Version kong.VersionFlag `help:"Print the version and exit."`
}

func main() {
	log := logrus.New()

	// .env has to be loaded before kong resolves env-backed flags
	if err := config.LoadEnv(); err != nil {
		log.WithError(err).Fatal("error loading environment")
	}

	var args cli
	kong.Parse(&args,
		kong.Name("synthexport"),
		kong.Description("Export New Relic synthetic monitors to output/monitor.csv and their scripts to output/scripts."),
		kong.Vars{"version": Version},
	)

	if len(args.EnvFile) > 0 {
		if err := config.LoadEnv(args.EnvFile...); err != nil {
			log.WithError(err).Fatal("error loading environment")
		}
		if args.APIKey == "" {
			args.APIKey = os.Getenv(config.APIKeyEnv)
		}
	}

	level, err := logrus.ParseLevel(args.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	cfg := &args.Config
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	exporter, err := export.NewFromConfig(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("error creating exporter")
	}

	result, err := exporter.Run(context.Background())
	entry := log.WithFields(logrus.Fields{
		"state":    result.State.String(),
		"manifest": result.ManifestPath,
		"monitors": result.Monitors,
		"scripts":  result.Scripts,
	})
	if err != nil {
		entry.WithError(err).Error("export failed")
		os.Exit(1)
	}

	entry.Info("export complete")
}
