package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buildnow/buildnow-api/internal/models"
)

// ParseError reports completion output that did not conform to the expected
// JSON shape after fence stripping.
type ParseError struct {
	Shape string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Shape, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StripFence removes a single surrounding markdown code fence (``` with an
// optional language tag) from a completion payload. This is the only text
// transformation applied before JSON parsing. Idempotent: stripping already
// bare text returns it unchanged.
func StripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	rest := trimmed[len("```"):]
	// Drop the optional language tag on the opening line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		rest = strings.TrimPrefix(rest, "json")
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}

// ParseProjects decodes a completion payload into project ideas and validates
// the result at the trust boundary.
func ParseProjects(text string) ([]models.ProjectIdea, error) {
	var projects []models.ProjectIdea
	if err := json.Unmarshal([]byte(StripFence(text)), &projects); err != nil {
		return nil, &ParseError{Shape: "projects", Err: err}
	}

	if len(projects) == 0 {
		return nil, &ParseError{Shape: "projects", Err: fmt.Errorf("empty project array")}
	}

	for i := range projects {
		if strings.TrimSpace(projects[i].Title) == "" {
			return nil, &ParseError{Shape: "projects", Err: fmt.Errorf("project %d has no title", i)}
		}
		if len(projects[i].Steps) == 0 {
			return nil, &ParseError{Shape: "projects", Err: fmt.Errorf("project %d has no steps", i)}
		}
	}

	return projects, nil
}

// ParsePrerequisites decodes a completion payload into a prerequisite set and
// validates it.
func ParsePrerequisites(text string) (*models.PrerequisiteSet, error) {
	var set models.PrerequisiteSet
	if err := json.Unmarshal([]byte(StripFence(text)), &set); err != nil {
		return nil, &ParseError{Shape: "prerequisites", Err: err}
	}

	if len(set.Prerequisites) == 0 {
		return nil, &ParseError{Shape: "prerequisites", Err: fmt.Errorf("empty prerequisites")}
	}

	for i, cat := range set.Prerequisites {
		if strings.TrimSpace(cat.Category) == "" {
			return nil, &ParseError{Shape: "prerequisites", Err: fmt.Errorf("category %d has no name", i)}
		}
	}

	return &set, nil
}
