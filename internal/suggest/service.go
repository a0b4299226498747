package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/swayami/internal/config"
)

const (
	FallbackMotivation   = "Keep up the great work! Every step forward counts."
	fallbackGoalAnalysis = "This goal requires focused effort and consistent action."
	fallbackDescription  = "Focus on achieving this goal"
	fallbackDuration     = 60
	neutralMood          = 3
)

var errMalformed = errors.New("malformed model response")

// Service never fails: every error from the provider, and every response
// that does not decode into the expected shape, becomes a fixed fallback.
type Service interface {
	GenerateTasksFromGoal(ctx context.Context, goalTitle, goalDescription string) TaskGeneration
	AnalyzeJournal(ctx context.Context, content string) JournalAnalysis
	MotivationalMessage(ctx context.Context, goalTitle, recentProgress string) string
}

type service struct {
	provider Provider
}

func NewService(provider Provider) Service {
	return &service{provider: provider}
}

func FallbackTaskGeneration(goalTitle, goalDescription string) TaskGeneration {
	description := goalDescription
	if description == "" {
		description = fallbackDescription
	}
	return TaskGeneration{
		Tasks: []TaskSuggestion{{
			Title:             "Work on " + goalTitle,
			Description:       description,
			Priority:          "medium",
			EstimatedDuration: fallbackDuration,
		}},
		GoalAnalysis: fallbackGoalAnalysis,
	}
}

func FallbackJournalAnalysis() JournalAnalysis {
	return JournalAnalysis{
		Summary:         "Journal entry recorded successfully.",
		Mood:            neutralMood,
		Insights:        []string{"Reflection is valuable for personal growth"},
		Recommendations: []string{"Continue journaling regularly"},
	}
}

// decodeJSON strips a surrounding markdown code fence before decoding.
func decodeJSON(raw string, out interface{}) error {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "low":
		return "low"
	case "high":
		return "high"
	}
	return "medium"
}

func (s *service) GenerateTasksFromGoal(ctx context.Context, goalTitle, goalDescription string) TaskGeneration {
	log := config.WithContext(ctx).WithField("goal", goalTitle)

	raw, err := s.provider.SendPrompt(ctx, taskGenerationPrompt(goalTitle, goalDescription))
	if err != nil {
		log.WithError(err).Warn("Task generation failed, using fallback")
		return FallbackTaskGeneration(goalTitle, goalDescription)
	}

	var out TaskGeneration
	if err := decodeJSON(raw, &out); err != nil || len(out.Tasks) == 0 {
		log.WithError(err).Warnf("[SUGGEST] Could not decode task generation response:\n%s", raw)
		return FallbackTaskGeneration(goalTitle, goalDescription)
	}

	tasks := out.Tasks[:0]
	for _, t := range out.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		t.Priority = normalizePriority(t.Priority)
		tasks = append(tasks, t)
	}
	if len(tasks) == 0 {
		return FallbackTaskGeneration(goalTitle, goalDescription)
	}
	out.Tasks = tasks

	log.Infof("[SUGGEST] Generated %d task suggestions", len(out.Tasks))
	return out
}

func (s *service) AnalyzeJournal(ctx context.Context, content string) JournalAnalysis {
	log := config.WithContext(ctx)

	raw, err := s.provider.SendPrompt(ctx, journalAnalysisPrompt(content))
	if err != nil {
		log.WithError(err).Warn("Journal analysis failed, using fallback")
		return FallbackJournalAnalysis()
	}

	var out JournalAnalysis
	if err := decodeJSON(raw, &out); err != nil || out.Summary == "" {
		log.WithError(err).Warnf("[SUGGEST] Could not decode journal analysis response:\n%s", raw)
		return FallbackJournalAnalysis()
	}
	if out.Mood < 1 || out.Mood > 5 {
		out.Mood = neutralMood
	}
	if out.Insights == nil {
		out.Insights = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out
}

func (s *service) MotivationalMessage(ctx context.Context, goalTitle, recentProgress string) string {
	raw, err := s.provider.SendPrompt(ctx, motivationPrompt(goalTitle, recentProgress))
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Motivational message failed, using fallback")
		return FallbackMotivation
	}
	msg := strings.TrimSpace(raw)
	if msg == "" {
		return FallbackMotivation
	}
	return msg
}
