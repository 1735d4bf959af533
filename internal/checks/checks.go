// Package checks provides the built-in test bodies and turns declarative
// check definitions into registered test cases.
package checks

import (
	"context"
	"fmt"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/probe"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/registry"
	"github.com/sirupsen/logrus"
)

const defaultTargetWorkers = 4

// Built-in test names.
const (
	NameHealth      = "API Healthcheck"
	NamePerformance = "API Health Performance"
	NameAuthLogin   = "API Auth Login"
	NameContent     = "API Content Keywords"
	NameSSL         = "SSL Certificate Health"
	NameDatabase    = "Database Connectivity"
)

// CertificateChecker inspects a TLS endpoint's certificate.
type CertificateChecker interface {
	Check(ctx context.Context, endpoint string, thresholdDays int) (bool, int, string)
}

// Option configures a Suite.
type Option func(*Suite)

// WithDBPinger replaces the database probe.
func WithDBPinger(p probe.DBPinger) Option {
	return func(s *Suite) {
		s.db = p
	}
}

// WithCertificateChecker replaces the TLS probe.
func WithCertificateChecker(c CertificateChecker) Option {
	return func(s *Suite) {
		s.certs = c
	}
}

// WithTargetWorkers bounds how many targets a multi-target check probes at once.
func WithTargetWorkers(n int) Option {
	return func(s *Suite) {
		if n > 0 {
			s.targetWorkers = n
		}
	}
}

// Suite holds the collaborators shared by every check.
type Suite struct {
	log           logrus.FieldLogger
	cfg           *config.Config
	client        probe.Client
	db            probe.DBPinger
	certs         CertificateChecker
	targetWorkers int
}

// New creates a check suite. The client decides whether checks hit the
// network or the synthetic route table.
func New(log logrus.FieldLogger, cfg *config.Config, client probe.Client, opts ...Option) *Suite {
	s := &Suite{
		log:           log.WithField("component", "checks"),
		cfg:           cfg,
		client:        client,
		targetWorkers: defaultTargetWorkers,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.db == nil {
		s.db = probe.NewDBPinger(log)
	}

	if s.certs == nil {
		s.certs = &probe.CertificateChecker{Timeout: cfg.Timeout}
	}

	return s
}

type builtin struct {
	name string
	tags []string
	fn   assertion.Func
}

func (s *Suite) builtins() []builtin {
	return []builtin{
		{name: NameHealth, tags: []string{"smoke", "api"}, fn: s.health},
		{name: NamePerformance, tags: []string{"perf", "api"}, fn: s.healthPerformance},
		{name: NameAuthLogin, tags: []string{"auth", "api"}, fn: s.authLogin},
		{name: NameContent, tags: []string{"content", "api"}, fn: s.contentKeywords},
		{name: NameSSL, tags: []string{"ssl", "monitoring"}, fn: s.sslCertificates},
		{name: NameDatabase, tags: []string{"db", "infrastructure"}, fn: s.databaseConnectivity},
	}
}

// Register adds every built-in check to reg.
func (s *Suite) Register(reg *registry.Registry) error {
	for _, b := range s.builtins() {
		if err := reg.Register(b.name, b.fn, b.tags...); err != nil {
			return fmt.Errorf("registering built-in check: %w", err)
		}
	}

	s.log.WithField("count", len(s.builtins())).Debug("built-in checks registered")

	return nil
}
