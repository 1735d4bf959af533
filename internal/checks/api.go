package checks

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/probe"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
)

const healthPath = "/health"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Suite) health(ctx context.Context) assertion.Outcome {
	resp, err := s.client.Get(ctx, healthPath)
	if err != nil {
		return assertion.Errored(err)
	}

	if o, ok := assertion.Check(resp.StatusCode == http.StatusOK, "expected status 200, got %d", resp.StatusCode); !ok {
		return o
	}

	var body map[string]interface{}
	if err := resp.JSON(&body); err != nil {
		return assertion.Failedf("failed to decode JSON response: %v", err)
	}

	if o, ok := assertion.Check(body["status"] == "ok", "expected JSON status 'ok', got %v", body["status"]); !ok {
		return o
	}

	return assertion.Passed()
}

func (s *Suite) healthPerformance(ctx context.Context) assertion.Outcome {
	start := time.Now()
	resp, err := s.client.Get(ctx, healthPath)
	elapsed := metrics.DurationMS(time.Since(start))

	if err != nil {
		return assertion.Errored(err)
	}

	if o, ok := assertion.Check(resp.StatusCode == http.StatusOK, "expected status 200, got %d", resp.StatusCode); !ok {
		return o
	}

	limit := float64(s.cfg.PerfLimitMS)
	if o, ok := assertion.Check(elapsed < limit,
		"health endpoint should respond under %d ms, measured %.2f ms", s.cfg.PerfLimitMS, elapsed); !ok {
		return o
	}

	return assertion.Passed(fmt.Sprintf("responded in %.2f ms", elapsed))
}

func (s *Suite) authLogin(ctx context.Context) assertion.Outcome {
	resp, err := s.client.Post(ctx, "/auth/login", loginRequest{Username: "test_user", Password: "test_pass"})
	if err != nil {
		return assertion.Errored(err)
	}

	if o, ok := assertion.Check(resp.StatusCode == http.StatusOK, "expected status 200, got %d", resp.StatusCode); !ok {
		return o
	}

	var body map[string]interface{}
	if err := resp.JSON(&body); err != nil {
		return assertion.Failedf("failed to decode JSON response: %v", err)
	}

	if _, ok := body["token"]; !ok {
		return assertion.Failedf("response is missing token field. Body: %s", resp.Text())
	}

	return assertion.Passed()
}

func (s *Suite) contentKeywords(ctx context.Context) assertion.Outcome {
	if len(s.cfg.ContentChecks) == 0 {
		return assertion.Skipped("No content checks configured")
	}

	results := fanOut(ctx, s.targetWorkers, s.cfg.ContentChecks, func(ctx context.Context, c config.ContentCheck) targetResult {
		resp, err := s.client.Get(ctx, c.Path)
		if err != nil {
			msg := fmt.Sprintf("request failed: %v", err)

			return targetResult{detail: c.Path + ": " + msg, failure: c.Path + " " + msg}
		}

		if resp.StatusCode != http.StatusOK {
			return targetResult{
				detail:  fmt.Sprintf("%s: unexpected status %d", c.Path, resp.StatusCode),
				failure: fmt.Sprintf("%s returned %d", c.Path, resp.StatusCode),
			}
		}

		found, msg := probe.ContainsKeyword(resp.Text(), c.Keyword)

		result := targetResult{detail: c.Path + ": " + msg}
		if !found {
			result.failure = fmt.Sprintf("%s missing keyword '%s'", c.Path, c.Keyword)
		}

		return result
	})

	return summarize(results, "Content check issues: ")
}
