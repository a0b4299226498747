package goal

import "time"

type CreateGoalDTO struct {
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    Priority   `json:"priority"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
}
