package orchestrator

import "github.com/buildnow/buildnow-api/internal/models"

// Static fallback payloads, substituted when the completion call or its
// parsing fails. They satisfy the exact same schema as live model output, so
// clients never branch on origin except via the explicit demo indicator.

// FallbackNote explains a substituted payload to the client.
const FallbackNote = "Generated using fallback mode due to API issues."

// MockNote marks the development mock endpoint's payload.
const MockNote = "This is demo data. Use the main endpoint for AI-generated projects."

var fallbackProjects = []models.ProjectIdea{
	{
		Title:        "Personal Task Tracker",
		Description:  "Build a simple to-do app to manage your daily tasks with local storage.",
		Tools:        []string{"JavaScript", "HTML", "CSS", "localStorage"},
		TimeEstimate: "2-3 hours",
		Difficulty:   2,
		Steps: []string{
			"Set up HTML structure with input and task list",
			"Add CSS styling for modern UI",
			"Create JavaScript functions to add/remove tasks",
			"Implement localStorage to persist tasks",
			"Add task completion toggle functionality",
		},
		StarterCode:     "// HTML: <input id='taskInput'><button onclick='addTask()'>Add</button><ul id='taskList'></ul>",
		MotivationalTip: "Start simple - even professional developers began with basic projects like this!",
	},
	{
		Title:        "Random Quote Generator",
		Description:  "Create a web app that displays inspiring quotes with a refresh button.",
		Tools:        []string{"JavaScript", "Fetch API", "JSON", "CSS"},
		TimeEstimate: "1-2 hours",
		Difficulty:   1,
		Steps: []string{
			"Create HTML layout with quote display area",
			"Style the interface with CSS",
			"Set up array of quotes in JavaScript",
			"Add function to display random quotes",
			"Implement refresh button functionality",
		},
		StarterCode:     "const quotes = [{text: 'Stay curious!', author: 'Anonymous'}]; function showQuote() { /* your code */ }",
		MotivationalTip: "Small projects teach big lessons - focus on completing rather than perfecting!",
	},
	{
		Title:        "Color Palette Generator",
		Description:  "Build a tool that generates random color palettes for design inspiration.",
		Tools:        []string{"JavaScript", "CSS", "Color Theory", "DOM Manipulation"},
		TimeEstimate: "3-4 hours",
		Difficulty:   3,
		Steps: []string{
			"Design HTML structure for color display grid",
			"Create CSS styles for color swatches",
			"Write function to generate random hex colors",
			"Add copy-to-clipboard functionality",
			"Implement palette export feature",
			"Add color accessibility checks",
		},
		StarterCode:     "function generateRandomColor() { return '#' + Math.floor(Math.random()*16777215).toString(16); }",
		MotivationalTip: "Every expert was once a beginner - embrace the learning process!",
	},
}

var fallbackPrerequisites = models.PrerequisiteSet{
	Prerequisites: []models.PrerequisiteCategory{
		{
			Category: "Core Concepts",
			Items: []models.PrerequisiteItem{
				{
					Title:         "Basic understanding of the domain",
					Description:   "Fundamental concepts and principles related to this project",
					Importance:    models.ImportanceEssential,
					EstimatedTime: "2-3 hours",
					Resources: []models.Resource{
						{
							Type:        models.ResourceYouTube,
							Title:       "Introduction to Programming Concepts",
							URL:         "https://www.youtube.com/watch?v=zOjov-2OZ0E",
							Description: "FreeCodeCamp's comprehensive introduction to programming",
							Duration:    "4 hour course",
						},
						{
							Type:        models.ResourceWebsite,
							Title:       "MDN Web Docs - Getting Started",
							URL:         "https://developer.mozilla.org/en-US/docs/Learn",
							Description: "Mozilla's free web development learning resources",
							Duration:    "Free tutorials",
						},
					},
				},
			},
		},
		{
			Category: "Tools & Technologies",
			Items: []models.PrerequisiteItem{
				{
					Title:         "Development environment setup",
					Description:   "Setting up the necessary tools and software",
					Importance:    models.ImportanceEssential,
					EstimatedTime: "30-60 minutes",
					Resources: []models.Resource{
						{
							Type:        models.ResourceYouTube,
							Title:       "How to Set Up Your Development Environment",
							URL:         "https://www.youtube.com/watch?v=0fKg7e37bQE",
							Description: "Step-by-step guide to setting up your coding environment",
							Duration:    "15 min video",
						},
						{
							Type:        models.ResourceWebsite,
							Title:       "VS Code Setup Guide",
							URL:         "https://code.visualstudio.com/learn",
							Description: "Official VS Code documentation and tutorials",
							Duration:    "Free documentation",
						},
					},
				},
			},
		},
	},
	TotalEstimatedTime:   "3-4 hours",
	DifficultyAssessment: "Beginner-friendly",
	LearningPath: []string{
		"Review core concepts",
		"Set up development environment",
		"Practice basic techniques",
		"Start project implementation",
	},
}

// FallbackProjects returns a copy of the static project table.
func FallbackProjects() []models.ProjectIdea {
	out := make([]models.ProjectIdea, len(fallbackProjects))
	copy(out, fallbackProjects)
	return out
}

// FallbackPrerequisites returns a copy of the static prerequisite set.
func FallbackPrerequisites() *models.PrerequisiteSet {
	set := fallbackPrerequisites
	set.Prerequisites = append([]models.PrerequisiteCategory(nil), fallbackPrerequisites.Prerequisites...)
	set.LearningPath = append([]string(nil), fallbackPrerequisites.LearningPath...)
	return &set
}
