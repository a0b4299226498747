package task

import "time"

type Task struct {
	ID              string       `bson:"_id" json:"id"`
	UserID          string       `bson:"user_id" json:"user_id"`
	GoalID          string       `bson:"goal_id,omitempty" json:"goal_id,omitempty"`
	Title           string       `bson:"title" json:"title"`
	Description     string       `bson:"description" json:"description"`
	Status          TaskStatus   `bson:"status" json:"status"`
	Priority        TaskPriority `bson:"priority" json:"priority"`
	DueDate         *time.Time   `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CalendarEventID string       `bson:"calendar_event_id,omitempty" json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `bson:"updated_at" json:"updated_at"`
}

func (t Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusCompleted && t.DueDate != nil && t.DueDate.Before(now)
}
