package checks

import (
	"context"
	"fmt"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
)

func (s *Suite) sslCertificates(ctx context.Context) assertion.Outcome {
	if len(s.cfg.SSLEndpoints) == 0 {
		return assertion.Skipped("No SSL endpoints configured")
	}

	threshold := max(s.cfg.SSLExpiryThresholdDays, 0)

	results := fanOut(ctx, s.targetWorkers, s.cfg.SSLEndpoints, func(ctx context.Context, endpoint string) targetResult {
		ok, _, msg := s.certs.Check(ctx, endpoint, threshold)

		result := targetResult{detail: fmt.Sprintf("%s: %s", endpoint, msg)}
		if !ok {
			result.failure = fmt.Sprintf("%s (%s)", endpoint, msg)
		}

		return result
	})

	return summarize(results, "SSL issues detected: ")
}

func (s *Suite) databaseConnectivity(ctx context.Context) assertion.Outcome {
	if len(s.cfg.DBPings) == 0 {
		return assertion.Skipped("No database targets configured")
	}

	results := fanOut(ctx, s.targetWorkers, s.cfg.DBPings, func(ctx context.Context, target config.DBTarget) targetResult {
		ok, msg := s.db.Ping(ctx, target)

		result := targetResult{detail: fmt.Sprintf("%s: %s", target.Name, msg)}
		if !ok {
			result.failure = fmt.Sprintf("%s (%s)", target.Name, msg)
		}

		return result
	})

	return summarize(results, "Database connectivity issues: ")
}
