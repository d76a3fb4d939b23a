// Package client is a small Go SDK for the BuildNow API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/buildnow/buildnow-api/internal/models"
)

// Client talks to a BuildNow API server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new BuildNow API client. token may be empty for the
// public generation endpoints.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GenerationResponse is the payload of the project-generation endpoints.
type GenerationResponse struct {
	Success       bool                 `json:"success"`
	Projects      []models.ProjectIdea `json:"projects"`
	GeneratedAt   string               `json:"generatedAt"`
	TotalProjects int                  `json:"totalProjects"`
	Provider      string               `json:"provider"`
	Note          string               `json:"note,omitempty"`
	IsDemoMode    bool                 `json:"isDemoMode,omitempty"`
	models.UsageEstimate
}

// PrerequisiteResponse is the payload of the prerequisite endpoint.
type PrerequisiteResponse struct {
	Success       bool                    `json:"success"`
	Prerequisites *models.PrerequisiteSet `json:"prerequisites"`
	GeneratedAt   string                  `json:"generatedAt"`
	Provider      string                  `json:"provider"`
	IsDemoMode    bool                    `json:"isDemoMode,omitempty"`
	models.UsageEstimate
}

// StepHelpResponse is the payload of the step-help endpoint.
type StepHelpResponse struct {
	Success     bool   `json:"success"`
	Answer      string `json:"answer"`
	GeneratedAt string `json:"generatedAt"`
	Provider    string `json:"provider"`
	models.UsageEstimate
}

// GenerateProjects requests project ideas for a concept.
func (c *Client) GenerateProjects(ctx context.Context, req models.GenerationRequest) (*GenerationResponse, error) {
	var resp GenerationResponse
	if err := c.post(ctx, "/api/generate-projects", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GeneratePrerequisites requests the prerequisite breakdown for a project.
func (c *Client) GeneratePrerequisites(ctx context.Context, req models.PrerequisiteRequest) (*PrerequisiteResponse, error) {
	var resp PrerequisiteResponse
	if err := c.post(ctx, "/api/generate-prerequisites", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StepHelp asks a question about the current project step.
func (c *Client) StepHelp(ctx context.Context, req models.StepHelpRequest) (*StepHelpResponse, error) {
	var resp StepHelpResponse
	if err := c.post(ctx, "/api/ai-step-help", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveProject bookmarks an idea for the authenticated user.
func (c *Client) SaveProject(ctx context.Context, idea models.ProjectIdea, concept string, domain models.Domain) (*models.SavedProject, error) {
	body := map[string]interface{}{"idea": idea, "concept": concept, "domain": domain}
	var saved models.SavedProject
	if err := c.post(ctx, "/api/projects/saved", body, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// StartProject starts step tracking for an idea.
func (c *Client) StartProject(ctx context.Context, idea models.ProjectIdea) (*models.ActiveProject, error) {
	body := map[string]interface{}{"idea": idea}
	var active models.ActiveProject
	if err := c.post(ctx, "/api/projects/active", body, &active); err != nil {
		return nil, err
	}
	return &active, nil
}

// UpdateProgress records step completion for an active project.
func (c *Client) UpdateProgress(ctx context.Context, projectID string, completedSteps []int, currentStep int) (*models.ActiveProject, error) {
	body := map[string]interface{}{"completedSteps": completedSteps, "currentStep": currentStep}
	var active models.ActiveProject
	if err := c.post(ctx, "/api/projects/active/"+projectID+"/progress", body, &active); err != nil {
		return nil, err
	}
	return &active, nil
}

// apiError is the server's error payload.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
