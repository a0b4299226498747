package task_test

import (
	"testing"
	"time"

	"github.com/saulo-duarte/swayami/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestToggled(t *testing.T) {
	assert.Equal(t, task.TaskStatusCompleted, task.TaskStatusPending.Toggled())
	assert.Equal(t, task.TaskStatusCompleted, task.TaskStatusInProgress.Toggled())
	assert.Equal(t, task.TaskStatusPending, task.TaskStatusCompleted.Toggled())

	for _, s := range task.AllStatuses {
		assert.Equal(t, s.Toggled(), s.Toggled().Toggled().Toggled())
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	stats := task.ComputeStats([]task.Task{
		{Status: task.TaskStatusPending, DueDate: &past},
		{Status: task.TaskStatusInProgress, DueDate: &future},
		{Status: task.TaskStatusCompleted, DueDate: &past},
		{Status: task.TaskStatusPending},
	}, now)

	assert.Equal(t, task.TaskStats{Total: 4, Todo: 2, InProgress: 1, Done: 1, Overdue: 1}, stats)
}

func TestUpdateApply(t *testing.T) {
	title := "New title"
	status := task.TaskStatusInProgress
	tk := task.Task{Title: "Old", Description: "keep", Status: task.TaskStatusPending}

	task.UpdateTaskDTO{Title: &title, Status: &status}.Apply(&tk)

	assert.Equal(t, "New title", tk.Title)
	assert.Equal(t, "keep", tk.Description)
	assert.Equal(t, task.TaskStatusInProgress, tk.Status)
}
