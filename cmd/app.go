package cmd

import (
	"fmt"
	"io"

	"github.com/agiulucom42-del/synthetic-scout/internal/checks"
	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/notify"
	"github.com/agiulucom42-del/synthetic-scout/internal/probe"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/observer"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/registry"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/testdef"
	"github.com/sirupsen/logrus"
)

// app holds the objects one invocation works with.
type app struct {
	log *logrus.Logger
	cfg *config.Config
	reg *registry.Registry
}

// loadConfig creates the logger and reads configuration from envFile (or ./.env).
func loadConfig(envFile string, verbose bool, stderr io.Writer) (*logrus.Logger, *config.Config, error) {
	log := newLogger(stderr, verbose)

	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(log, files...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	applyLogLevel(log, cfg.LogLevel, verbose)

	return log, cfg, nil
}

// bootstrap loads configuration and registers the built-in and declarative
// checks. Duplicate names and an unreadable CHECKS_FILE are fatal.
func bootstrap(envFile string, verbose bool, stderr io.Writer) (*app, error) {
	log, cfg, err := loadConfig(envFile, verbose, stderr)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	suite := checks.New(log, cfg, probe.NewClient(cfg, log))

	if err := suite.Register(reg); err != nil {
		return nil, err
	}

	if cfg.ChecksFile != "" {
		defs, err := testdef.NewLoader(log).Load(cfg.ChecksFile)
		if err != nil {
			return nil, fmt.Errorf("loading checks file: %w", err)
		}

		if err := suite.RegisterDefinitions(reg, defs); err != nil {
			return nil, err
		}
	}

	log.WithField("tests", reg.Len()).Debug("registry ready")

	return &app{log: log, cfg: cfg, reg: reg}, nil
}

// observerFactories is the fixed set of observers a run may load.
func observerFactories(stderr io.Writer, verbose bool) []observer.Named {
	return []observer.Named{
		{Name: "console", Factory: observer.ConsoleFactory(stderr, verbose)},
		{Name: "prometheus", Factory: observer.PrometheusFactory},
		{Name: "slack", Factory: notify.SlackFactory},
		{Name: "telegram", Factory: notify.TelegramFactory},
	}
}
