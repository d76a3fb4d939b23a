package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func twoStepProject() *ActiveProject {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &ActiveProject{
		ID:     "p1",
		UserID: "u1",
		Idea: ProjectIdea{
			Title: "Test Project",
			Steps: []string{"step one", "step two", "step three"},
		},
		Status: StatusActive,
		Progress: Progress{
			CompletedSteps: []int{},
			StartedAt:      now,
			UpdatedAt:      now,
		},
	}
}

func TestApplyProgress_PartialStaysActive(t *testing.T) {
	p := twoStepProject()
	p.ApplyProgress([]int{0, 1}, 2, time.Now())

	if p.Status != StatusActive {
		t.Errorf("expected active, got %s", p.Status)
	}
	if p.Progress.CompletedAt != nil {
		t.Error("completedAt should not be set for partial progress")
	}
}

func TestApplyProgress_AllStepsCompletes(t *testing.T) {
	p := twoStepProject()
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	p.ApplyProgress([]int{0, 1, 2}, 3, now)

	if p.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", p.Status)
	}
	if p.Progress.CompletedAt == nil {
		t.Fatal("completedAt must be set on completion")
	}
	if !p.Progress.CompletedAt.Equal(now) {
		t.Errorf("completedAt = %v, want %v", p.Progress.CompletedAt, now)
	}
}

func TestApplyProgress_Idempotent(t *testing.T) {
	p := twoStepProject()
	first := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	p.ApplyProgress([]int{0, 1, 2}, 3, first)
	status1 := p.Status
	completedAt1 := *p.Progress.CompletedAt

	p.ApplyProgress([]int{0, 1, 2}, 3, second)

	if p.Status != status1 {
		t.Errorf("status changed on repeat update: %s -> %s", status1, p.Status)
	}
	if !p.Progress.CompletedAt.Equal(completedAt1) {
		t.Error("completedAt must not move on repeat update")
	}
}

func TestApplyProgress_CompletedStaysCompleted(t *testing.T) {
	p := twoStepProject()
	p.ApplyProgress([]int{0, 1, 2}, 3, time.Now())

	// Unchecking a step does not re-open the project.
	p.ApplyProgress([]int{0, 1}, 2, time.Now())

	if p.Status != StatusCompleted {
		t.Errorf("expected completed to be sticky, got %s", p.Status)
	}
}

func TestApplyProgress_DuplicateStepsDoNotComplete(t *testing.T) {
	p := twoStepProject()
	p.ApplyProgress([]int{0, 0, 1}, 2, time.Now())

	if p.Status != StatusActive {
		t.Errorf("duplicate indexes must not count as completion, got %s", p.Status)
	}
	if got := len(p.Progress.CompletedSteps); got != 2 {
		t.Errorf("expected 2 deduped steps, got %d", got)
	}
}

func TestApplyProgress_PausedReturnsToActive(t *testing.T) {
	p := twoStepProject()
	p.Status = StatusPaused

	p.ApplyProgress([]int{0}, 1, time.Now())

	if p.Status != StatusActive {
		t.Errorf("progress on a paused project should reactivate it, got %s", p.Status)
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerationRequest
		missing []string
	}{
		{"valid", GenerationRequest{Concept: "Recursion", SkillLevel: SkillBeginner, Domain: DomainCoding}, nil},
		{"missing concept", GenerationRequest{SkillLevel: SkillBeginner, Domain: DomainCoding}, []string{"concept"}},
		{"missing domain", GenerationRequest{Concept: "Recursion", SkillLevel: SkillBeginner}, []string{"domain"}},
		{"whitespace concept", GenerationRequest{Concept: "   ", SkillLevel: SkillBeginner, Domain: DomainCoding}, []string{"concept"}},
		{"all missing", GenerationRequest{}, []string{"concept", "skillLevel", "domain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.missing == nil {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}

			var mfe *MissingFieldError
			if !errors.As(err, &mfe) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if len(mfe.Fields) != len(tt.missing) {
				t.Fatalf("expected fields %v, got %v", tt.missing, mfe.Fields)
			}
			for i, f := range tt.missing {
				if mfe.Fields[i] != f {
					t.Errorf("field %d: expected %s, got %s", i, f, mfe.Fields[i])
				}
			}
		})
	}
}

func TestStepHelpRequestValidate(t *testing.T) {
	project := &StepHelpProject{Title: "T", Steps: []string{"a", "b"}}

	valid := StepHelpRequest{Project: project, CurrentStepIndex: 1, UserQuestion: "how?"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	outOfRange := StepHelpRequest{Project: project, CurrentStepIndex: 2, UserQuestion: "how?"}
	if err := outOfRange.Validate(); err == nil {
		t.Error("expected error for out-of-range step index")
	}

	negative := StepHelpRequest{Project: project, CurrentStepIndex: -1, UserQuestion: "how?"}
	if err := negative.Validate(); err == nil {
		t.Error("expected error for negative step index")
	}

	noQuestion := StepHelpRequest{Project: project, CurrentStepIndex: 0}
	if err := noQuestion.Validate(); err == nil {
		t.Error("expected error for empty question")
	}
}

func TestIdeaCountDefault(t *testing.T) {
	r := GenerationRequest{}
	if r.IdeaCount() != DefaultNumIdeas {
		t.Errorf("expected default %d, got %d", DefaultNumIdeas, r.IdeaCount())
	}

	r.NumIdeas = 5
	if r.IdeaCount() != 5 {
		t.Errorf("expected 5, got %d", r.IdeaCount())
	}
}

func TestDifficultyUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
	}{
		{`3`, 3},
		{`0`, 1},
		{`9`, 5},
		{`"4"`, 4},
		{`"3/5"`, 3},
		{`"Beginner"`, 1},
		{`"Intermediate"`, 3},
		{`"Advanced"`, 5},
		{`"something else"`, 3},
	}

	for _, tt := range tests {
		var d Difficulty
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if d != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.in, d, tt.want)
		}
	}
}

func TestDifficultyMarshalNumeric(t *testing.T) {
	out, err := json.Marshal(Difficulty(4))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "4" {
		t.Errorf("expected 4, got %s", out)
	}
}
