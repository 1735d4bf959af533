package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/agiulucom42-del/synthetic-scout/internal/probe"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/registry"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/testdef"
)

// RegisterDefinitions registers one test case per declarative check.
func (s *Suite) RegisterDefinitions(reg *registry.Registry, defs []*testdef.CheckDefinition) error {
	for _, def := range defs {
		if err := reg.Register(def.Name, s.definition(def), def.Tags...); err != nil {
			return fmt.Errorf("registering check from definition: %w", err)
		}
	}

	s.log.WithField("count", len(defs)).Info("declarative checks registered")

	return nil
}

func (s *Suite) definition(def *testdef.CheckDefinition) assertion.Func {
	return func(ctx context.Context) assertion.Outcome {
		resp, err := s.client.Do(ctx, def.Method, def.Path, def.Body)
		if err != nil {
			return assertion.Errored(err)
		}

		if o, ok := assertion.Check(resp.StatusCode == def.ExpectStatus,
			"%s %s: expected status %d, got %d", def.Method, def.Path, def.ExpectStatus, resp.StatusCode); !ok {
			return o
		}

		var (
			body    = resp.Text()
			missing = make([]string, 0)
		)

		for _, keyword := range def.Contains {
			if found, _ := probe.ContainsKeyword(body, keyword); !found {
				missing = append(missing, fmt.Sprintf("'%s'", keyword))
			}
		}

		if o, ok := assertion.Check(len(missing) == 0,
			"%s %s: response missing %s", def.Method, def.Path, strings.Join(missing, ", ")); !ok {
			return o
		}

		return assertion.Passed(fmt.Sprintf("%s %s returned %d", def.Method, def.Path, resp.StatusCode))
	}
}
