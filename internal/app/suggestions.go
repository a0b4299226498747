package app

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/swayami/internal/suggest"
	"github.com/saulo-duarte/swayami/internal/task"
)

func (s *Store) GenerateTaskSuggestions(ctx context.Context, goalID string) (suggest.TaskGeneration, error) {
	if s.CurrentUser() == nil {
		return suggest.TaskGeneration{}, ErrNotAuthenticated
	}
	g, ok := s.findGoal(goalID)
	if !ok {
		return suggest.TaskGeneration{}, ErrGoalNotFound
	}
	return s.deps.Suggestions.GenerateTasksFromGoal(ctx, g.Title, g.Description), nil
}

// AcceptSuggestions turns suggestions into tasks linked to the goal, one at
// a time. It stops at the first failure and returns what was created.
func (s *Store) AcceptSuggestions(ctx context.Context, goalID string, suggestions []suggest.TaskSuggestion) ([]task.Task, error) {
	if s.CurrentUser() == nil {
		return nil, ErrNotAuthenticated
	}
	if _, ok := s.findGoal(goalID); !ok {
		return nil, ErrGoalNotFound
	}

	created := make([]task.Task, 0, len(suggestions))
	for _, sg := range suggestions {
		t, err := s.AddTask(ctx, task.CreateTaskDTO{
			GoalID:      goalID,
			Title:       sg.Title,
			Description: sg.Description,
			Priority:    task.ParsePriority(sg.Priority),
		})
		if err != nil {
			return created, fmt.Errorf("create task %q: %w", sg.Title, err)
		}
		if t != nil {
			created = append(created, *t)
		}
	}
	return created, nil
}

func (s *Store) MotivationalMessage(ctx context.Context, goalID string) (string, error) {
	if s.CurrentUser() == nil {
		return "", ErrNotAuthenticated
	}
	g, ok := s.findGoal(goalID)
	if !ok {
		return "", ErrGoalNotFound
	}

	s.mu.RLock()
	total, done := 0, 0
	for _, t := range s.tasks {
		if t.GoalID != goalID {
			continue
		}
		total++
		if t.Status == task.TaskStatusCompleted {
			done++
		}
	}
	s.mu.RUnlock()

	progress := fmt.Sprintf("%d%% complete, %d of %d tasks done", g.Progress, done, total)
	return s.deps.Suggestions.MotivationalMessage(ctx, g.Title, progress), nil
}
