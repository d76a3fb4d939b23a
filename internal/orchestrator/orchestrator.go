// Package orchestrator holds the request/response glue between validated
// client input and the external completion API: prompt construction, response
// parsing, fallback substitution, and advisory cost accounting.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/buildnow/buildnow-api/internal/cache"
	"github.com/buildnow/buildnow-api/internal/gateway"
	"github.com/buildnow/buildnow-api/internal/models"
)

// ResultKind tags whether a payload came from the model or the fallback table.
type ResultKind string

const (
	KindLive     ResultKind = "live"
	KindFallback ResultKind = "fallback"
)

// Config holds per-endpoint generation parameters.
type Config struct {
	Model                  string
	GenerateMaxTokens      int
	GenerateTemperature    float64
	PrerequisiteMaxTokens  int
	PrerequisiteTemperature float64
	StepHelpMaxTokens      int
	StepHelpTemperature    float64
	CacheTTL               time.Duration
}

// DefaultConfig returns the production generation parameters. Project
// generation gets moderate temperature with a tight budget, prerequisites a
// slightly larger budget, step help the smallest for short focused answers.
func DefaultConfig() Config {
	return Config{
		Model:                   "gpt-4o-mini",
		GenerateMaxTokens:       1500,
		GenerateTemperature:     0.8,
		PrerequisiteMaxTokens:   1200,
		PrerequisiteTemperature: 0.7,
		StepHelpMaxTokens:       800,
		StepHelpTemperature:     0.8,
		CacheTTL:                15 * time.Minute,
	}
}

// Orchestrator coordinates one completion round trip per request. Stateless
// between requests; all collaborators are injected.
type Orchestrator struct {
	completer gateway.Completer
	costs     *CostEstimator
	cache     cache.ResponseCache // nil disables caching
	cfg       Config
}

// New creates an orchestrator. cache may be nil.
func New(completer gateway.Completer, costs *CostEstimator, rc cache.ResponseCache, cfg Config) *Orchestrator {
	return &Orchestrator{
		completer: completer,
		costs:     costs,
		cache:     rc,
		cfg:       cfg,
	}
}

// Costs exposes the estimator for the cost endpoints.
func (o *Orchestrator) Costs() *CostEstimator { return o.costs }

// Model returns the configured model identifier.
func (o *Orchestrator) Model() string { return o.cfg.Model }

// ProjectsResult is the tagged outcome of project generation.
type ProjectsResult struct {
	Kind     ResultKind
	Projects []models.ProjectIdea
	Provider string
	Usage    models.UsageEstimate
	Cached   bool
	Cause    error // set when Kind is KindFallback
}

// PrerequisitesResult is the tagged outcome of prerequisite generation.
type PrerequisitesResult struct {
	Kind     ResultKind
	Set      *models.PrerequisiteSet
	Provider string
	Usage    models.UsageEstimate
	Cause    error
}

// StepHelpResult is the outcome of a step-help question. No fallback exists
// for this path; failures surface as errors.
type StepHelpResult struct {
	Answer   string
	Provider string
	Usage    models.UsageEstimate
}

// cachedProjects is the envelope stored in the response cache.
type cachedProjects struct {
	Projects []models.ProjectIdea `json:"projects"`
	Usage    models.UsageEstimate `json:"usage"`
	Provider string               `json:"provider"`
}

// GenerateProjects runs the full generation path. The returned error is only
// ever a validation error; gateway and parse failures degrade to the fallback
// payload with the cause attached.
func (o *Orchestrator) GenerateProjects(ctx context.Context, req *models.GenerationRequest) (*ProjectsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := cache.Key("projects", req.Concept, string(req.SkillLevel), string(req.Domain), strconv.Itoa(req.IdeaCount()))
	if o.cache != nil {
		if data, ok := o.cache.Get(ctx, key); ok {
			var c cachedProjects
			if err := json.Unmarshal(data, &c); err == nil {
				slog.Debug("generation cache hit", "concept", req.Concept)
				return &ProjectsResult{Kind: KindLive, Projects: c.Projects, Provider: c.Provider, Usage: c.Usage, Cached: true}, nil
			}
		}
	}

	prompt := ProjectPrompt(req)

	text, err := o.completer.Complete(ctx, prompt, gateway.Params{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.GenerateMaxTokens,
		Temperature: o.cfg.GenerateTemperature,
	})
	if err != nil {
		slog.Error("project generation failed, substituting fallback", "error", err, "concept", req.Concept)
		return o.fallbackProjects(err), nil
	}

	projects, err := ParseProjects(text)
	if err != nil {
		slog.Error("project response unparseable, substituting fallback", "error", err, "concept", req.Concept)
		return o.fallbackProjects(err), nil
	}

	result := &ProjectsResult{
		Kind:     KindLive,
		Projects: projects,
		Provider: o.providerLabel(),
		Usage:    o.costs.EstimateUsage(prompt, text, o.cfg.Model),
	}

	if o.cache != nil {
		if data, err := json.Marshal(cachedProjects{Projects: result.Projects, Usage: result.Usage, Provider: result.Provider}); err == nil {
			o.cache.Set(ctx, key, data, o.cfg.CacheTTL)
		}
	}

	return result, nil
}

func (o *Orchestrator) fallbackProjects(cause error) *ProjectsResult {
	projects := FallbackProjects()
	payload, _ := json.Marshal(projects)
	return &ProjectsResult{
		Kind:     KindFallback,
		Projects: projects,
		Provider: "Fallback",
		Usage:    o.costs.CalculateCost(EstimateTokens(string(payload)), EstimateTokens(string(payload)), o.cfg.Model),
		Cause:    cause,
	}
}

// MockProjects returns the static development payload with its usage
// estimate, mirroring the fallback table.
func (o *Orchestrator) MockProjects() *ProjectsResult {
	r := o.fallbackProjects(nil)
	r.Provider = "Mock Data"
	return r
}

// GeneratePrerequisites runs the prerequisite path with the same degradation
// policy as project generation.
func (o *Orchestrator) GeneratePrerequisites(ctx context.Context, req *models.PrerequisiteRequest) (*PrerequisitesResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := PrerequisitePrompt(req)

	text, err := o.completer.Complete(ctx, prompt, gateway.Params{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.PrerequisiteMaxTokens,
		Temperature: o.cfg.PrerequisiteTemperature,
	})
	if err != nil {
		slog.Error("prerequisite generation failed, substituting fallback", "error", err, "project", req.ProjectTitle)
		return o.fallbackPrerequisites(err), nil
	}

	set, err := ParsePrerequisites(text)
	if err != nil {
		slog.Error("prerequisite response unparseable, substituting fallback", "error", err, "project", req.ProjectTitle)
		return o.fallbackPrerequisites(err), nil
	}

	return &PrerequisitesResult{
		Kind:     KindLive,
		Set:      set,
		Provider: o.providerLabel(),
		Usage:    o.costs.EstimateUsage(prompt, text, o.cfg.Model),
	}, nil
}

func (o *Orchestrator) fallbackPrerequisites(cause error) *PrerequisitesResult {
	set := FallbackPrerequisites()
	payload, _ := json.Marshal(set)
	return &PrerequisitesResult{
		Kind:     KindFallback,
		Set:      set,
		Provider: "Fallback",
		Usage:    o.costs.CalculateCost(EstimateTokens(string(payload)), EstimateTokens(string(payload)), o.cfg.Model),
		Cause:    cause,
	}
}

// StepHelp answers a question about the user's current step. Gateway failure
// is a hard error here: a canned answer to a specific question would be worse
// than an honest failure.
func (o *Orchestrator) StepHelp(ctx context.Context, req *models.StepHelpRequest) (*StepHelpResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := StepHelpPrompt(req)

	text, err := o.completer.Complete(ctx, prompt, gateway.Params{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.StepHelpMaxTokens,
		Temperature: o.cfg.StepHelpTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("step help generation failed: %w", err)
	}

	return &StepHelpResult{
		Answer:   text,
		Provider: o.providerLabel(),
		Usage:    o.costs.EstimateUsage(prompt, text, o.cfg.Model),
	}, nil
}

func (o *Orchestrator) providerLabel() string {
	return fmt.Sprintf("%s %s", o.completer.Provider(), o.cfg.Model)
}
