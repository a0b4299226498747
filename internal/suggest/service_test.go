package suggest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saulo-duarte/swayami/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	response string
	err      error
	prompts  []suggest.Prompt
}

func (f *fakeProvider) SendPrompt(_ context.Context, p suggest.Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.response, f.err
}

func TestGenerateTasksFromGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("DecodesFencedJSON", func(t *testing.T) {
		provider := &fakeProvider{response: "```json\n{\"tasks\":[{\"title\":\"Run 2k\",\"description\":\"Easy pace\",\"priority\":\"HIGH\",\"estimatedDuration\":20},{\"title\":\"Stretch\",\"priority\":\"someday\"}],\"goalAnalysis\":\"Build up slowly\"}\n```"}
		out := suggest.NewService(provider).GenerateTasksFromGoal(ctx, "Run a 10k", "By summer")

		require.Len(t, out.Tasks, 2)
		assert.Equal(t, "Run 2k", out.Tasks[0].Title)
		assert.Equal(t, "high", out.Tasks[0].Priority)
		assert.Equal(t, "medium", out.Tasks[1].Priority)
		assert.Equal(t, "Build up slowly", out.GoalAnalysis)

		require.Len(t, provider.prompts, 1)
		assert.Contains(t, provider.prompts[0].User, "Goal: Run a 10k")
		assert.Equal(t, 1000, provider.prompts[0].MaxTokens)
		assert.InDelta(t, 0.7, provider.prompts[0].Temperature, 0.001)
	})

	t.Run("MissingCredentialFallsBack", func(t *testing.T) {
		out := suggest.NewService(&fakeProvider{err: suggest.ErrMissingCredential}).GenerateTasksFromGoal(ctx, "Run a 10k", "")

		assert.Equal(t, suggest.FallbackTaskGeneration("Run a 10k", ""), out)
		require.Len(t, out.Tasks, 1)
		assert.Equal(t, "Work on Run a 10k", out.Tasks[0].Title)
		assert.Equal(t, "Focus on achieving this goal", out.Tasks[0].Description)
		assert.Equal(t, "medium", out.Tasks[0].Priority)
		assert.Equal(t, 60, out.Tasks[0].EstimatedDuration)
	})

	t.Run("MalformedFallsBack", func(t *testing.T) {
		out := suggest.NewService(&fakeProvider{response: "Sure! Here are some tasks."}).GenerateTasksFromGoal(ctx, "Read", "Twelve books")
		assert.Equal(t, suggest.FallbackTaskGeneration("Read", "Twelve books"), out)
	})

	t.Run("EmptyTaskListFallsBack", func(t *testing.T) {
		out := suggest.NewService(&fakeProvider{response: `{"tasks":[],"goalAnalysis":"hm"}`}).GenerateTasksFromGoal(ctx, "Read", "")
		assert.Equal(t, "Work on Read", out.Tasks[0].Title)
	})
}

func TestAnalyzeJournal(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes", func(t *testing.T) {
		provider := &fakeProvider{response: `{"summary":"A calm day","mood":4,"insights":["Rested"],"recommendations":["Sleep early"]}`}
		out := suggest.NewService(provider).AnalyzeJournal(ctx, "Slept well, walked in the park.")

		assert.Equal(t, "A calm day", out.Summary)
		assert.Equal(t, 4, out.Mood)
		assert.Equal(t, []string{"Rested"}, out.Insights)
		assert.Equal(t, 500, provider.prompts[0].MaxTokens)
	})

	t.Run("OutOfRangeMoodIsNeutral", func(t *testing.T) {
		out := suggest.NewService(&fakeProvider{response: `{"summary":"x","mood":9}`}).AnalyzeJournal(ctx, "x")
		assert.Equal(t, 3, out.Mood)
		assert.NotNil(t, out.Insights)
	})

	t.Run("ErrorFallsBack", func(t *testing.T) {
		out := suggest.NewService(&fakeProvider{err: errors.New("boom")}).AnalyzeJournal(ctx, "x")
		assert.Equal(t, suggest.FallbackJournalAnalysis(), out)
		assert.Equal(t, "Journal entry recorded successfully.", out.Summary)
		assert.Equal(t, 3, out.Mood)
	})
}

func TestMotivationalMessage(t *testing.T) {
	ctx := context.Background()

	msg := suggest.NewService(&fakeProvider{response: "  You are doing great.  "}).MotivationalMessage(ctx, "Read", "3 of 5 tasks done")
	assert.Equal(t, "You are doing great.", msg)

	provider := &fakeProvider{err: suggest.ErrMissingCredential}
	assert.Equal(t, suggest.FallbackMotivation, suggest.NewService(provider).MotivationalMessage(ctx, "Read", ""))
	assert.InDelta(t, 0.8, provider.prompts[0].Temperature, 0.001)
	assert.Equal(t, 100, provider.prompts[0].MaxTokens)

	assert.Equal(t, suggest.FallbackMotivation, suggest.NewService(&fakeProvider{response: "   "}).MotivationalMessage(ctx, "Read", ""))
}
