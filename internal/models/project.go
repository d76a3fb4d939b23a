package models

import (
	"fmt"
	"strings"
	"time"
)

// SkillLevel is the self-reported experience level of the learner.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

// Domain is the project category a concept belongs to.
type Domain string

const (
	DomainCoding   Domain = "Coding"
	DomainHardware Domain = "Hardware"
	DomainResearch Domain = "Research"
	DomainDesign   Domain = "Design"
)

// DefaultNumIdeas is how many project ideas a generation request produces
// unless the caller asks for a different count.
const DefaultNumIdeas = 3

// GenerationRequest is the input for project idea generation.
type GenerationRequest struct {
	Concept    string     `json:"concept"`
	SkillLevel SkillLevel `json:"skillLevel"`
	Domain     Domain     `json:"domain"`
	NumIdeas   int        `json:"numIdeas,omitempty"`
}

// IdeaCount returns the requested number of ideas, defaulted when unset.
func (r *GenerationRequest) IdeaCount() int {
	if r.NumIdeas <= 0 {
		return DefaultNumIdeas
	}
	return r.NumIdeas
}

// Validate checks that all required fields are present.
// It reports every missing field, not just the first.
func (r *GenerationRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Concept) == "" {
		missing = append(missing, "concept")
	}
	if strings.TrimSpace(string(r.SkillLevel)) == "" {
		missing = append(missing, "skillLevel")
	}
	if strings.TrimSpace(string(r.Domain)) == "" {
		missing = append(missing, "domain")
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

// MissingFieldError names the required fields absent from a request.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// ProjectIdea is a single generated project suggestion. Live model output and
// the static fallback table produce the identical shape.
type ProjectIdea struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Tools           []string   `json:"tools"`
	TimeEstimate    string     `json:"timeEstimate"`
	Difficulty      Difficulty `json:"difficulty"`
	Steps           []string   `json:"steps"`
	StarterCode     string     `json:"starterCode"`
	MotivationalTip string     `json:"motivationalTip"`
}

// ProjectStatus is the lifecycle state of an active project.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusPaused    ProjectStatus = "paused"
)

// SavedProject is an immutable per-user bookmark of a generated idea.
type SavedProject struct {
	ID      string      `json:"id"`
	UserID  string      `json:"-"`
	Idea    ProjectIdea `json:"idea"`
	Concept string      `json:"concept,omitempty"`
	Domain  Domain      `json:"domain,omitempty"`
	SavedAt time.Time   `json:"savedAt"`
}

// Progress tracks step completion for an active project.
type Progress struct {
	CompletedSteps []int      `json:"completedSteps"`
	CurrentStep    int        `json:"currentStep"`
	StartedAt      time.Time  `json:"startedAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// ActiveProject is a project a user has started, carrying its own copy of the
// idea plus step progress. Independent from any SavedProject bookmark.
type ActiveProject struct {
	ID       string        `json:"id"`
	UserID   string        `json:"-"`
	Idea     ProjectIdea   `json:"idea"`
	Status   ProjectStatus `json:"status"`
	Progress Progress      `json:"progress"`
}

// ApplyProgress records a progress update and recomputes status.
//
// Status becomes completed exactly when every step is checked off; the
// completion timestamp is set once and kept. A project already completed stays
// completed even if the update unchecks steps (re-opening is an explicit
// product action, not a side effect of this rule). Paused projects return to
// active when progress arrives. Applying the same update twice yields the
// same status both times.
func (p *ActiveProject) ApplyProgress(completedSteps []int, currentStep int, now time.Time) {
	p.Progress.CompletedSteps = dedupeSteps(completedSteps)
	p.Progress.CurrentStep = currentStep
	p.Progress.UpdatedAt = now

	if p.Status == StatusCompleted {
		return
	}

	if len(p.Progress.CompletedSteps) == len(p.Idea.Steps) && len(p.Idea.Steps) > 0 {
		p.Status = StatusCompleted
		if p.Progress.CompletedAt == nil {
			t := now
			p.Progress.CompletedAt = &t
		}
		return
	}

	p.Status = StatusActive
}

// dedupeSteps drops duplicate step indexes while preserving order, so a
// client resending [0,0,1] cannot satisfy the completion count spuriously.
func dedupeSteps(steps []int) []int {
	seen := make(map[int]bool, len(steps))
	out := make([]int, 0, len(steps))
	for _, s := range steps {
		if s < 0 || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
