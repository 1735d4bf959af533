// Package observer defines the run lifecycle hooks and the factories that
// build them from configuration.
package observer

import (
	"context"
	"errors"
	"fmt"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/sirupsen/logrus"
)

// ErrDisabled is returned by a Factory whose observer is not configured.
var ErrDisabled = errors.New("observer disabled")

// RunInfo describes a run that is about to start.
type RunInfo struct {
	Env       string `json:"env"`
	BaseURL   string `json:"base_api_url"`
	TestCount int    `json:"test_count"`
}

// Observer receives run lifecycle events. Calls are serialized by the runner.
type Observer interface {
	OnStart(ctx context.Context, info RunInfo)
	OnTestResult(ctx context.Context, result metrics.TestResult)
	OnFinish(ctx context.Context, summary *metrics.Summary)
}

// Factory builds an observer from configuration.
type Factory func(cfg *config.Config, log logrus.FieldLogger) (Observer, error)

// Named pairs a factory with a name used in logs.
type Named struct {
	Name    string
	Factory Factory
}

// Load builds every observer it can. Disabled observers are skipped quietly,
// failing factories are skipped with a warning.
func Load(cfg *config.Config, log logrus.FieldLogger, factories ...Named) []Observer {
	log = log.WithField("component", "observer_loader")
	observers := make([]Observer, 0, len(factories))

	for _, f := range factories {
		obs, err := build(cfg, log, f)

		switch {
		case errors.Is(err, ErrDisabled):
			log.WithField("observer", f.Name).Debug("observer disabled")
		case err != nil:
			log.WithError(err).WithField("observer", f.Name).Warn("failed to load observer, skipping")
		default:
			observers = append(observers, obs)
		}
	}

	log.WithField("count", len(observers)).Info("observers loaded")

	return observers
}

func build(cfg *config.Config, log logrus.FieldLogger, f Named) (obs Observer, err error) {
	defer func() {
		if r := recover(); r != nil {
			obs, err = nil, fmt.Errorf("factory panicked: %v", r) //nolint:err113 // dynamic panic value
		}
	}()

	if f.Factory == nil {
		return nil, fmt.Errorf("factory %q is nil", f.Name) //nolint:err113 // one-off
	}

	obs, err = f.Factory(cfg, log)
	if err == nil && obs == nil {
		return nil, fmt.Errorf("factory %q returned no observer", f.Name) //nolint:err113 // one-off
	}

	return obs, err
}
