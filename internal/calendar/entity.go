package calendar

import "time"

// TaskEvent is the slice of a task mirrored into the calendar.
type TaskEvent struct {
	TaskID      string
	Title       string
	Description string
	DueDate     *time.Time
	EventID     string
}

// EventDuration is how long the mirrored event lasts, ending at the due date.
const EventDuration = time.Hour
