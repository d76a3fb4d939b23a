package orchestrator

import (
	"fmt"
	"strings"

	"github.com/buildnow/buildnow-api/internal/models"
)

// Prompt construction. Each builder is deterministic for identical input (no
// timestamps, no randomness) so cost estimates are reproducible, and each
// prompt carries an explicit item count plus a literal example of the JSON
// shape the model must return.

// ProjectPrompt builds the compact project-generation instruction.
func ProjectPrompt(req *models.GenerationRequest) string {
	return fmt.Sprintf(`Create %d %s projects for %s %s learners. Return JSON only:
[{"title":"Name","description":"1-2 sentences","tools":["%s","tool2"],"timeEstimate":"X hours","difficulty":1-5,"steps":["step1","step2","step3","step4","step5"],"starterCode":"code or empty","motivationalTip":"tip"}]`,
		req.IdeaCount(), req.Concept, req.SkillLevel, req.Domain, req.Concept)
}

const prerequisiteShape = `{
  "prerequisites": [
    {
      "category": "Core Concepts",
      "items": [
        {
          "title": "Concept name",
          "description": "Brief explanation of what this concept is",
          "importance": "Essential|Important|Helpful",
          "estimatedTime": "1-2 hours",
          "resources": [
            {
              "type": "YouTube|Website|Documentation|Course|Book",
              "title": "Resource title",
              "url": "https://actual-url-here.com",
              "description": "Brief description of what this resource covers",
              "duration": "10 min video|Free course|Official docs"
            }
          ]
        }
      ]
    },
    {
      "category": "Tools & Technologies",
      "items": []
    },
    {
      "category": "Skills & Techniques",
      "items": []
    }
  ],
  "totalEstimatedTime": "5-8 hours",
  "difficultyAssessment": "Beginner-friendly|Moderate|Advanced",
  "learningPath": [
    "Start with core concepts",
    "Learn essential tools",
    "Practice basic skills",
    "Begin project implementation"
  ]
}`

// PrerequisitePrompt builds the prerequisite-generation instruction.
func PrerequisitePrompt(req *models.PrerequisiteRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "List 3-5 key prerequisites for project %q (%s, %s level).\n\n",
		req.ProjectTitle, req.Domain, req.SkillLevel)
	fmt.Fprintf(&b, "Tools: %s\n", strings.Join(req.Tools, ", "))
	fmt.Fprintf(&b, "Description: %s\n\n", req.ProjectDescription)
	b.WriteString("JSON format:\n")
	b.WriteString(prerequisiteShape)
	b.WriteString(`

IMPORTANT REQUIREMENTS:
1. Include ONLY FREE resources (YouTube videos, free websites, official documentation, free courses)
2. Provide ACTUAL, WORKING URLs for each resource
3. Focus on high-quality, beginner-friendly content when possible
4. Include popular platforms like: YouTube, freeCodeCamp, MDN Web Docs, W3Schools, Khan Academy, official documentation
5. Prioritize resources that are specifically relevant to the project's domain and tools

Focus on practical, actionable prerequisites that directly relate to completing this specific project.

IMPORTANT: Respond ONLY with valid JSON. No explanatory text before or after the JSON.`)

	return b.String()
}

// StepHelpPrompt builds the step-help assistant instruction.
func StepHelpPrompt(req *models.StepHelpRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert project assistant. The user is working on a project and is currently on the following step:\n\n")
	fmt.Fprintf(&b, "Project Title: %s\n", req.Project.Title)
	fmt.Fprintf(&b, "Project Description: %s\n", req.Project.Description)
	fmt.Fprintf(&b, "Domain: %s\n\n", req.Project.Domain)

	b.WriteString("Previous Steps Completed:\n")
	if len(req.PreviousSteps) == 0 {
		b.WriteString("None\n")
	} else {
		for i, s := range req.PreviousSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}

	fmt.Fprintf(&b, "\nCurrent Step (%d):\n%s\n\n", req.CurrentStepIndex+1, req.Project.Steps[req.CurrentStepIndex])
	fmt.Fprintf(&b, "The user has a question about this step:\n\"\"\"\n%s\n\"\"\"\n\n", req.UserQuestion)
	b.WriteString("Give a clear, actionable, and friendly answer. If the question is about troubleshooting, provide step-by-step help. If the user is confused, break down the step and explain it simply. If the user asks for code, provide a relevant code snippet. Always keep your answer focused on the current step and the project context.")

	return b.String()
}
