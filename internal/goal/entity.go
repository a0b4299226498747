package goal

import "time"

const (
	DefaultCategory = "general"
	MinProgress     = 0
	MaxProgress     = 100
)

type Goal struct {
	ID          string     `bson:"_id" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Category    string     `bson:"category" json:"category"`
	Priority    Priority   `bson:"priority" json:"priority"`
	Status      GoalStatus `bson:"status" json:"status"`
	Progress    int        `bson:"progress" json:"progress"`
	TargetDate  *time.Time `bson:"target_date,omitempty" json:"target_date,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// ClampProgress bounds a progress value to 0..100.
func ClampProgress(p int) int {
	if p < MinProgress {
		return MinProgress
	}
	if p > MaxProgress {
		return MaxProgress
	}
	return p
}
