package integration

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/HartBrook/figstyle/internal/chunk"
	"github.com/HartBrook/figstyle/internal/pipeline"
)

// Asserter provides assertion helpers for a pipeline result.
type Asserter struct {
	t      *testing.T
	result *pipeline.Result
}

// NewAsserter creates an asserter for the given result.
func NewAsserter(t *testing.T, result *pipeline.Result) *Asserter {
	return &Asserter{t: t, result: result}
}

// ContainsText checks if the artifact contains a substring.
func (a *Asserter) ContainsText(text string) bool {
	return strings.Contains(a.result.Artifact, text)
}

// InOrder checks that every text appears, each after the previous one.
func (a *Asserter) InOrder(texts []string) bool {
	rest := a.result.Artifact
	for _, text := range texts {
		i := strings.Index(rest, text)
		if i < 0 {
			return false
		}
		rest = rest[i+len(text):]
	}
	return true
}

// RunAssertions runs all assertions from a fixture definition. requests are
// the prompts the generator received.
func (a *Asserter) RunAssertions(assertions FixtureAssertions, requests []string) {
	a.t.Helper()
	artifact := a.result.Artifact

	if assertions.Chunks > 0 && a.result.Chunks != assertions.Chunks {
		a.t.Errorf("expected %d chunks, got %d", assertions.Chunks, a.result.Chunks)
	}
	if assertions.MinChunks > 0 && a.result.Chunks < assertions.MinChunks {
		a.t.Errorf("expected at least %d chunks, got %d", assertions.MinChunks, a.result.Chunks)
	}
	if assertions.Structured != a.result.Structured {
		a.t.Errorf("expected structured=%v, got %v", assertions.Structured, a.result.Structured)
	}

	if assertions.Prefix != "" && !strings.HasPrefix(artifact, assertions.Prefix) {
		a.t.Errorf("expected artifact to start with %q, got %q", assertions.Prefix, head(artifact))
	}

	for _, text := range assertions.Contains {
		if !a.ContainsText(text) {
			a.t.Errorf("expected content to contain %q, but not found", text)
		}
	}
	for _, text := range assertions.NotContains {
		if a.ContainsText(text) {
			a.t.Errorf("expected content NOT to contain %q, but found", text)
		}
	}
	if len(assertions.Ordered) > 0 && !a.InOrder(assertions.Ordered) {
		a.t.Errorf("expected %q in order", assertions.Ordered)
	}
	for text, want := range assertions.Count {
		if got := strings.Count(artifact, text); got != want {
			a.t.Errorf("expected %q %d times, found %d", text, want, got)
		}
	}

	if assertions.ValidJSON || len(assertions.JSONKeys) > 0 {
		var obj map[string]any
		if err := json.Unmarshal([]byte(artifact), &obj); err != nil {
			a.t.Errorf("expected a JSON object: %v", err)
		}
		for _, key := range assertions.JSONKeys {
			if _, ok := obj[key]; !ok {
				a.t.Errorf("expected JSON key %q", key)
			}
		}
	}

	for _, text := range assertions.PromptContains {
		for i, req := range requests {
			if !strings.Contains(req, text) {
				a.t.Errorf("expected prompt %d to contain %q", i+1, text)
			}
		}
	}

	if assertions.WithinBudget {
		a.checkBudget()
	}
}

// checkBudget verifies that every planned chunk fits the budget.
func (a *Asserter) checkBudget() {
	a.t.Helper()

	plan := a.result.Plan
	for i, c := range plan.Chunks {
		est, err := chunk.Estimate(c)
		if err != nil {
			a.t.Errorf("estimate chunk %d: %v", i+1, err)
			continue
		}
		if plan.MaxTokens > 0 && est > plan.MaxTokens {
			a.t.Errorf("chunk %d is %d tokens, over the %d budget", i+1, est, plan.MaxTokens)
		}
	}
}

func head(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
