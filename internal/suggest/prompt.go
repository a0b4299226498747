package suggest

import "fmt"

const (
	taskSystemPrompt       = "You are a helpful productivity assistant. Always respond with valid JSON."
	journalSystemPrompt    = "You are a helpful journal analysis assistant. Always respond with valid JSON."
	motivationSystemPrompt = "You are a supportive coach providing brief, encouraging messages."
)

const (
	taskMaxTokens       = 1000
	journalMaxTokens    = 500
	motivationMaxTokens = 100
)

func taskGenerationPrompt(goalTitle, goalDescription string) Prompt {
	user := fmt.Sprintf(`You are a personal productivity assistant helping someone achieve their goals.

Goal: %s
Description: %s

Generate 5 specific, actionable tasks that will help them achieve this goal. Each task should be:
- Concrete and measurable
- Achievable within 1-7 days
- Progressive towards the larger goal
- Include estimated time duration

Also provide a brief analysis of their goal.

Respond in this exact JSON format:
{
  "tasks": [
    {
      "title": "Task title (max 50 chars)",
      "description": "Detailed description with specific steps",
      "priority": "low|medium|high",
      "estimatedDuration": 60
    }
  ],
  "goalAnalysis": "Brief analysis of their goal and approach"
}`, goalTitle, goalDescription)

	return Prompt{System: taskSystemPrompt, User: user, Temperature: 0.7, MaxTokens: taskMaxTokens}
}

func journalAnalysisPrompt(content string) Prompt {
	user := fmt.Sprintf(`Analyze this journal entry and provide insights:

%q

Provide:
1. A brief summary (max 100 words)
2. Mood score (1-5, where 1=very negative, 5=very positive)
3. Key insights about their mental state/progress
4. Actionable recommendations

Respond in this exact JSON format:
{
  "summary": "Brief summary of the entry",
  "mood": 3,
  "insights": ["Insight 1", "Insight 2"],
  "recommendations": ["Recommendation 1", "Recommendation 2"]
}`, content)

	return Prompt{System: journalSystemPrompt, User: user, Temperature: 0.7, MaxTokens: journalMaxTokens}
}

func motivationPrompt(goalTitle, recentProgress string) Prompt {
	user := fmt.Sprintf(`Generate a motivational message for someone working on: %s

Their recent progress: %s

Create an encouraging, personalized message (max 50 words) that acknowledges their effort and motivates them to continue.`, goalTitle, recentProgress)

	return Prompt{System: motivationSystemPrompt, User: user, Temperature: 0.8, MaxTokens: motivationMaxTokens}
}
