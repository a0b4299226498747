package task

import (
	"time"

	util "github.com/saulo-duarte/swayami/internal/utils"
)

type CreateTaskDTO struct {
	UserID      string              `json:"-"`
	GoalID      string              `json:"goal_id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      TaskStatus          `json:"status"`
	Priority    TaskPriority        `json:"priority"`
	DueDate     *util.LocalDateTime `json:"due_date,omitempty"`
}

type UpdateTaskDTO struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Status      *TaskStatus         `json:"status"`
	Priority    *TaskPriority       `json:"priority"`
	GoalID      *string             `json:"goal_id"`
	DueDate     *util.LocalDateTime `json:"due_date"`
}

// Apply copies the set fields of dto onto t.
func (dto UpdateTaskDTO) Apply(t *Task) {
	if dto.Title != nil {
		t.Title = *dto.Title
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Status != nil {
		t.Status = *dto.Status
	}
	if dto.Priority != nil {
		t.Priority = *dto.Priority
	}
	if dto.GoalID != nil {
		t.GoalID = *dto.GoalID
	}
	if dto.DueDate != nil {
		t.DueDate = util.ToTimePtr(dto.DueDate)
	}
}

type TaskStats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Overdue    int `json:"overdue"`
}

func ComputeStats(tasks []Task, now time.Time) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case TaskStatusCompleted:
			stats.Done++
		case TaskStatusInProgress:
			stats.InProgress++
		default:
			stats.Todo++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}
