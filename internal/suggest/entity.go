package suggest

type TaskSuggestion struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Priority          string `json:"priority"`
	EstimatedDuration int    `json:"estimatedDuration,omitempty"`
}

type TaskGeneration struct {
	Tasks        []TaskSuggestion `json:"tasks"`
	GoalAnalysis string           `json:"goalAnalysis"`
}

type JournalAnalysis struct {
	Summary         string   `json:"summary"`
	Mood            int      `json:"mood"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// Prompt is one system+user exchange with its sampling settings.
type Prompt struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}
