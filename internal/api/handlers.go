package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/buildnow/buildnow-api/internal/models"
	"github.com/buildnow/buildnow-api/internal/orchestrator"
)

// Response helpers

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// Health handler

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message":   "BuildNow API Server is running!",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Generation handlers

// generationResponse is the flat project-generation payload. Live and
// fallback responses share this exact shape; IsDemoMode is the only
// origin indicator.
type generationResponse struct {
	Success       bool                 `json:"success"`
	Projects      []models.ProjectIdea `json:"projects"`
	GeneratedAt   string               `json:"generatedAt"`
	TotalProjects int                  `json:"totalProjects"`
	Provider      string               `json:"provider"`
	Note          string               `json:"note,omitempty"`
	IsDemoMode    bool                 `json:"isDemoMode,omitempty"`
	Cached        bool                 `json:"cached,omitempty"`
	models.UsageEstimate
}

func (s *Server) handleGenerateProjects(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.orch.GenerateProjects(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := generationResponse{
		Success:       true,
		Projects:      result.Projects,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		TotalProjects: len(result.Projects),
		Provider:      result.Provider,
		Cached:        result.Cached,
		UsageEstimate: result.Usage,
	}

	if result.Kind == orchestrator.KindFallback {
		resp.IsDemoMode = true
		resp.Note = orchestrator.FallbackNote
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMockProjects(w http.ResponseWriter, r *http.Request) {
	result := s.orch.MockProjects()

	respondJSON(w, http.StatusOK, generationResponse{
		Success:       true,
		Projects:      result.Projects,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		TotalProjects: len(result.Projects),
		Provider:      result.Provider,
		Note:          orchestrator.MockNote,
		UsageEstimate: result.Usage,
	})
}

// prerequisiteResponse is the flat prerequisite-generation payload.
type prerequisiteResponse struct {
	Success       bool                    `json:"success"`
	Project       map[string]interface{}  `json:"project"`
	Prerequisites *models.PrerequisiteSet `json:"prerequisites"`
	GeneratedAt   string                  `json:"generatedAt"`
	Provider      string                  `json:"provider"`
	Note          string                  `json:"note,omitempty"`
	IsDemoMode    bool                    `json:"isDemoMode,omitempty"`
	models.UsageEstimate
}

func (s *Server) handleGeneratePrerequisites(w http.ResponseWriter, r *http.Request) {
	var req models.PrerequisiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.orch.GeneratePrerequisites(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := prerequisiteResponse{
		Success: true,
		Project: map[string]interface{}{
			"title":       req.ProjectTitle,
			"description": req.ProjectDescription,
			"domain":      req.Domain,
			"skillLevel":  req.SkillLevel,
		},
		Prerequisites: result.Set,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Provider:      result.Provider,
		UsageEstimate: result.Usage,
	}

	if result.Kind == orchestrator.KindFallback {
		resp.IsDemoMode = true
		resp.Note = orchestrator.FallbackNote
	}

	respondJSON(w, http.StatusOK, resp)
}

// stepHelpResponse is the flat step-help payload.
type stepHelpResponse struct {
	Success     bool   `json:"success"`
	Answer      string `json:"answer"`
	GeneratedAt string `json:"generatedAt"`
	Provider    string `json:"provider"`
	models.UsageEstimate
}

func (s *Server) handleStepHelp(w http.ResponseWriter, r *http.Request) {
	var req models.StepHelpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.orch.StepHelp(r.Context(), &req)
	if err != nil {
		slog.Error("step help failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate AI help. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, stepHelpResponse{
		Success:       true,
		Answer:        result.Answer,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Provider:      result.Provider,
		UsageEstimate: result.Usage,
	})
}

// Cost handlers

type estimateCostRequest struct {
	Concept              string            `json:"concept"`
	SkillLevel           models.SkillLevel `json:"skillLevel"`
	Domain               models.Domain     `json:"domain"`
	IncludePrerequisites bool              `json:"includePrerequisites"`
	IncludeStepHelp      bool              `json:"includeStepHelp"`
}

type costBreakdownEntry struct {
	Service string `json:"service"`
	models.UsageEstimate
}

func (s *Server) handleEstimateCost(w http.ResponseWriter, r *http.Request) {
	var req estimateCostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genReq := models.GenerationRequest{Concept: req.Concept, SkillLevel: req.SkillLevel, Domain: req.Domain}
	if err := genReq.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	costs := s.orch.Costs()
	model := s.orch.Model()

	prompt := orchestrator.ProjectPrompt(&genReq)
	// Typical generation response length, for the output side of the estimate.
	const typicalResponse = 3200

	projectCost := costs.CalculateCost(orchestrator.EstimateTokens(prompt), typicalResponse/4, model)

	total, _ := strconv.ParseFloat(projectCost.TotalCost, 64)
	breakdown := []costBreakdownEntry{
		{Service: "Project Generation", UsageEstimate: projectCost},
	}

	if req.IncludePrerequisites {
		prereqCost := costs.CalculateCost(200, 800, model)
		if c, err := strconv.ParseFloat(prereqCost.TotalCost, 64); err == nil {
			total += c
		}
		breakdown = append(breakdown, costBreakdownEntry{Service: "Prerequisites (per project)", UsageEstimate: prereqCost})
	}

	if req.IncludeStepHelp {
		helpCost := costs.CalculateCost(150, 400, model)
		if c, err := strconv.ParseFloat(helpCost.TotalCost, 64); err == nil {
			total += c
		}
		breakdown = append(breakdown, costBreakdownEntry{Service: "Step Help (per question)", UsageEstimate: helpCost})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"estimatedCost": strconv.FormatFloat(total, 'f', 6, 64),
		"breakdown":     breakdown,
		"note":          "These are rough estimates. Actual costs may vary based on response length.",
		"tips": []string{
			"Use the /mock endpoint for testing without API costs",
			"gpt-4o-mini is 60-80% cheaper than gpt-4o",
			"Shorter prompts = lower costs",
			"Each request costs roughly $0.001-0.003",
		},
	})
}

func (s *Server) handleCostComparison(w http.ResponseWriter, r *http.Request) {
	costs := s.orch.Costs()

	// Usage pattern before prompt optimization, against the larger model.
	original := struct {
		requests, inputTokens, outputTokens int
		model                               string
	}{5, 2500, 4500, "gpt-4o"}

	optimized := struct {
		requests, inputTokens, outputTokens int
		model                               string
	}{5, 1250, 2750, "gpt-4o-mini"}

	originalCost := costs.CalculateCost(original.inputTokens, original.outputTokens, original.model)
	optimizedCost := costs.CalculateCost(optimized.inputTokens, optimized.outputTokens, optimized.model)

	origTotal, _ := strconv.ParseFloat(originalCost.TotalCost, 64)
	optTotal, _ := strconv.ParseFloat(optimizedCost.TotalCost, 64)

	tokensSaved := originalCost.TotalTokens - optimizedCost.TotalTokens
	tokenReduction := float64(tokensSaved) / float64(originalCost.TotalTokens) * 100
	costReduction := (origTotal - optTotal) / origTotal * 100

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"comparison": map[string]interface{}{
			"before": map[string]interface{}{
				"requests": original.requests,
				"model":    original.model,
				"usage":    originalCost,
			},
			"after": map[string]interface{}{
				"requests": optimized.requests,
				"model":    optimized.model,
				"usage":    optimizedCost,
			},
			"savings": map[string]interface{}{
				"tokensSaved":           tokensSaved,
				"tokenReductionPercent": strconv.FormatFloat(tokenReduction, 'f', 1, 64) + "%",
				"costSaved":             strconv.FormatFloat(origTotal-optTotal, 'f', 6, 64),
				"costReductionPercent":  strconv.FormatFloat(costReduction, 'f', 1, 64) + "%",
				"monthlyProjection": map[string]string{
					"originalMonthly":  strconv.FormatFloat(origTotal*30, 'f', 4, 64),
					"optimizedMonthly": strconv.FormatFloat(optTotal*30, 'f', 4, 64),
					"monthlySavings":   strconv.FormatFloat((origTotal-optTotal)*30, 'f', 4, 64),
				},
			},
		},
		"recommendations": []string{
			"Use gpt-4o-mini for 60-80% cost savings",
			"Keep prompts concise and focused",
			"Generate exactly 3 projects (not 10+)",
			"Cache responses to avoid repeated requests",
			"Use mock endpoint during development",
		},
	})
}
