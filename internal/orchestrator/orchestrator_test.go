package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/buildnow/buildnow-api/internal/cache"
	"github.com/buildnow/buildnow-api/internal/gateway"
	"github.com/buildnow/buildnow-api/internal/models"
)

// stubCompleter is a scripted gateway for orchestrator tests.
type stubCompleter struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
	lastParams gateway.Params
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, p gateway.Params) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastParams = p
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubCompleter) Provider() string { return "Stub" }

// memCache is an in-process ResponseCache for tests.
type memCache struct {
	entries map[string][]byte
	sets    int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	data, ok := c.entries[key]
	return data, ok
}

func (c *memCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) {
	c.sets++
	c.entries[key] = payload
}

func newTestOrchestrator(stub *stubCompleter, mc *memCache) *Orchestrator {
	var rc cache.ResponseCache
	if mc != nil {
		rc = mc
	}
	return New(stub, NewCostEstimator(nil), rc, DefaultConfig())
}

func validGenerationRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Concept:    "Recursion",
		SkillLevel: models.SkillBeginner,
		Domain:     models.DomainCoding,
	}
}

func TestGenerateProjectsLive(t *testing.T) {
	stub := &stubCompleter{reply: validProjectsJSON}
	orch := newTestOrchestrator(stub, nil)

	result, err := orch.GenerateProjects(context.Background(), validGenerationRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Kind != KindLive {
		t.Errorf("kind = %s, want live", result.Kind)
	}
	if len(result.Projects) != 2 {
		t.Errorf("expected 2 projects, got %d", len(result.Projects))
	}
	if result.Provider != "Stub gpt-4o-mini" {
		t.Errorf("provider = %q", result.Provider)
	}
	if result.Usage.TotalTokens == 0 {
		t.Error("live result should carry a usage estimate")
	}
	if stub.lastParams.MaxTokens != 1500 {
		t.Errorf("max tokens = %d, want 1500", stub.lastParams.MaxTokens)
	}
	if stub.lastParams.Temperature != 0.8 {
		t.Errorf("temperature = %v, want 0.8", stub.lastParams.Temperature)
	}
}

func TestGenerateProjectsValidationSkipsGateway(t *testing.T) {
	stub := &stubCompleter{reply: validProjectsJSON}
	orch := newTestOrchestrator(stub, nil)

	_, err := orch.GenerateProjects(context.Background(), &models.GenerationRequest{Concept: "Recursion"})

	var mfe *models.MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("validation failure must not reach the gateway, saw %d calls", stub.calls)
	}
}

func TestGenerateProjectsGatewayFailureFallsBack(t *testing.T) {
	cause := errors.New("connection refused")
	stub := &stubCompleter{err: cause}
	orch := newTestOrchestrator(stub, nil)

	result, err := orch.GenerateProjects(context.Background(), validGenerationRequest())
	if err != nil {
		t.Fatalf("gateway failure must degrade, not error: %v", err)
	}

	if result.Kind != KindFallback {
		t.Errorf("kind = %s, want fallback", result.Kind)
	}
	if len(result.Projects) != 3 {
		t.Errorf("fallback table has 3 projects, got %d", len(result.Projects))
	}
	if result.Provider != "Fallback" {
		t.Errorf("provider = %q", result.Provider)
	}
	if !errors.Is(result.Cause, cause) {
		t.Errorf("cause not preserved: %v", result.Cause)
	}
}

func TestGenerateProjectsUnparseableFallsBack(t *testing.T) {
	stub := &stubCompleter{reply: "I am sorry, I cannot produce JSON today."}
	orch := newTestOrchestrator(stub, nil)

	result, err := orch.GenerateProjects(context.Background(), validGenerationRequest())
	if err != nil {
		t.Fatalf("parse failure must degrade, not error: %v", err)
	}

	if result.Kind != KindFallback {
		t.Errorf("kind = %s, want fallback", result.Kind)
	}
	var pe *ParseError
	if !errors.As(result.Cause, &pe) {
		t.Errorf("cause should be a ParseError, got %v", result.Cause)
	}
}

func TestGenerateProjectsCaching(t *testing.T) {
	stub := &stubCompleter{reply: validProjectsJSON}
	mc := newMemCache()
	orch := newTestOrchestrator(stub, mc)

	first, err := orch.GenerateProjects(context.Background(), validGenerationRequest())
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Error("first result should not be cached")
	}
	if mc.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", mc.sets)
	}

	second, err := orch.GenerateProjects(context.Background(), validGenerationRequest())
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("second result should come from cache")
	}
	if stub.calls != 1 {
		t.Errorf("cache hit must not reach the gateway, saw %d calls", stub.calls)
	}
	if len(second.Projects) != len(first.Projects) {
		t.Errorf("cached payload differs: %d vs %d projects", len(second.Projects), len(first.Projects))
	}
}

func TestGenerateProjectsFallbackNotCached(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	mc := newMemCache()
	orch := newTestOrchestrator(stub, mc)

	if _, err := orch.GenerateProjects(context.Background(), validGenerationRequest()); err != nil {
		t.Fatal(err)
	}
	if mc.sets != 0 {
		t.Errorf("fallback payloads must not be cached, saw %d writes", mc.sets)
	}
}

func TestMockProjects(t *testing.T) {
	orch := newTestOrchestrator(&stubCompleter{}, nil)

	result := orch.MockProjects()
	if result.Kind != KindFallback {
		t.Errorf("kind = %s", result.Kind)
	}
	if result.Provider != "Mock Data" {
		t.Errorf("provider = %q", result.Provider)
	}
	if len(result.Projects) != 3 {
		t.Errorf("expected 3 projects, got %d", len(result.Projects))
	}
}

func TestFallbackProjectsMatchLiveSchema(t *testing.T) {
	// The fallback table must round-trip through the same parser live output
	// goes through.
	payload, err := json.Marshal(FallbackProjects())
	if err != nil {
		t.Fatal(err)
	}
	projects, err := ParseProjects(string(payload))
	if err != nil {
		t.Fatalf("fallback projects do not satisfy the live schema: %v", err)
	}
	if len(projects) != 3 {
		t.Errorf("expected 3 projects, got %d", len(projects))
	}
}

func TestFallbackPrerequisitesMatchLiveSchema(t *testing.T) {
	payload, err := json.Marshal(FallbackPrerequisites())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParsePrerequisites(string(payload)); err != nil {
		t.Fatalf("fallback prerequisites do not satisfy the live schema: %v", err)
	}
}

func TestGeneratePrerequisitesLive(t *testing.T) {
	reply := `{"prerequisites": [{"category": "Core Concepts", "items": []}],
	  "totalEstimatedTime": "2 hours", "difficultyAssessment": "Moderate",
	  "learningPath": ["a"]}`
	stub := &stubCompleter{reply: reply}
	orch := newTestOrchestrator(stub, nil)

	req := &models.PrerequisiteRequest{ProjectTitle: "T", ProjectDescription: "D"}
	result, err := orch.GeneratePrerequisites(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if result.Kind != KindLive {
		t.Errorf("kind = %s", result.Kind)
	}
	if stub.lastParams.MaxTokens != 1200 {
		t.Errorf("max tokens = %d, want 1200", stub.lastParams.MaxTokens)
	}
	if stub.lastParams.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", stub.lastParams.Temperature)
	}
}

func TestGeneratePrerequisitesFallsBack(t *testing.T) {
	stub := &stubCompleter{err: errors.New("timeout")}
	orch := newTestOrchestrator(stub, nil)

	req := &models.PrerequisiteRequest{ProjectTitle: "T", ProjectDescription: "D"}
	result, err := orch.GeneratePrerequisites(context.Background(), req)
	if err != nil {
		t.Fatalf("gateway failure must degrade, not error: %v", err)
	}
	if result.Kind != KindFallback {
		t.Errorf("kind = %s", result.Kind)
	}
	if result.Set == nil || len(result.Set.Prerequisites) == 0 {
		t.Error("fallback set is empty")
	}
}

func TestStepHelpNoFallback(t *testing.T) {
	stub := &stubCompleter{err: errors.New("unavailable")}
	orch := newTestOrchestrator(stub, nil)

	req := &models.StepHelpRequest{
		Project:          &models.StepHelpProject{Title: "T", Steps: []string{"a"}},
		CurrentStepIndex: 0,
		UserQuestion:     "how?",
	}
	if _, err := orch.StepHelp(context.Background(), req); err == nil {
		t.Fatal("step help has no fallback, gateway failure must error")
	}
}

func TestStepHelpLive(t *testing.T) {
	stub := &stubCompleter{reply: "Break the step into two parts."}
	orch := newTestOrchestrator(stub, nil)

	req := &models.StepHelpRequest{
		Project:          &models.StepHelpProject{Title: "T", Steps: []string{"a", "b"}},
		CurrentStepIndex: 1,
		UserQuestion:     "how?",
	}
	result, err := orch.StepHelp(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer != "Break the step into two parts." {
		t.Errorf("answer = %q", result.Answer)
	}
	if stub.lastParams.MaxTokens != 800 {
		t.Errorf("max tokens = %d, want 800", stub.lastParams.MaxTokens)
	}
}
