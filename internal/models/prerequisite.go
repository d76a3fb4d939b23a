package models

import "strings"

// Importance ranks how critical a prerequisite is before starting.
type Importance string

const (
	ImportanceEssential Importance = "Essential"
	ImportanceImportant Importance = "Important"
	ImportanceHelpful   Importance = "Helpful"
)

// ResourceType classifies an external learning resource.
type ResourceType string

const (
	ResourceYouTube       ResourceType = "YouTube"
	ResourceWebsite       ResourceType = "Website"
	ResourceDocumentation ResourceType = "Documentation"
	ResourceCourse        ResourceType = "Course"
	ResourceBook          ResourceType = "Book"
)

// Resource is a single external learning resource attached to a prerequisite.
type Resource struct {
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description"`
	Duration    string       `json:"duration"`
}

// PrerequisiteItem is one concept, tool, or skill to learn before a project.
type PrerequisiteItem struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Importance    Importance `json:"importance"`
	EstimatedTime string     `json:"estimatedTime"`
	Resources     []Resource `json:"resources"`
}

// PrerequisiteCategory groups prerequisite items under a heading such as
// "Core Concepts" or "Tools & Technologies".
type PrerequisiteCategory struct {
	Category string             `json:"category"`
	Items    []PrerequisiteItem `json:"items"`
}

// PrerequisiteSet is the full prerequisite breakdown for one project.
type PrerequisiteSet struct {
	Prerequisites        []PrerequisiteCategory `json:"prerequisites"`
	TotalEstimatedTime   string                 `json:"totalEstimatedTime"`
	DifficultyAssessment string                 `json:"difficultyAssessment"`
	LearningPath         []string               `json:"learningPath"`
}

// PrerequisiteRequest is the input for prerequisite generation.
type PrerequisiteRequest struct {
	ProjectTitle       string     `json:"projectTitle"`
	ProjectDescription string     `json:"projectDescription"`
	Tools              []string   `json:"tools"`
	Domain             Domain     `json:"domain"`
	SkillLevel         SkillLevel `json:"skillLevel"`
}

// Validate checks that the fields required before any external call are set.
func (r *PrerequisiteRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.ProjectTitle) == "" {
		missing = append(missing, "projectTitle")
	}
	if strings.TrimSpace(r.ProjectDescription) == "" {
		missing = append(missing, "projectDescription")
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

// StepHelpProject is the slice of project context a step-help question needs.
type StepHelpProject struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Domain      Domain   `json:"domain"`
	Steps       []string `json:"steps"`
}

// StepHelpRequest is the input for the step-help assistant.
type StepHelpRequest struct {
	Project          *StepHelpProject `json:"project"`
	CurrentStepIndex int              `json:"currentStepIndex"`
	PreviousSteps    []string         `json:"previousSteps,omitempty"`
	UserQuestion     string           `json:"userQuestion"`
}

// Validate checks presence of the project context, a usable step index, and a
// non-empty question.
func (r *StepHelpRequest) Validate() error {
	var missing []string
	if r.Project == nil || strings.TrimSpace(r.Project.Title) == "" {
		missing = append(missing, "project")
	}
	if r.CurrentStepIndex < 0 {
		missing = append(missing, "currentStepIndex")
	}
	if strings.TrimSpace(r.UserQuestion) == "" {
		missing = append(missing, "userQuestion")
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	if r.Project != nil && r.CurrentStepIndex >= len(r.Project.Steps) {
		return &MissingFieldError{Fields: []string{"currentStepIndex"}}
	}
	return nil
}
