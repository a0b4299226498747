package journal

import "time"

const (
	ListLimit     = 10
	summaryLength = 100
	summarySuffix = "..."
)

// Moods lists the selectable moods. A mood score is the 1-based index into
// this list.
var Moods = []string{
	"Happy",
	"Sad",
	"Frustrated",
	"Anxious",
	"Tired",
	"Thoughtful",
	"Motivated",
	"Calm",
}

type Entry struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Content   string    `bson:"content" json:"content"`
	Summary   string    `bson:"summary" json:"summary"`
	MoodScore int       `bson:"mood_score,omitempty" json:"mood_score,omitempty"`
	MoodLabel string    `bson:"mood_label,omitempty" json:"mood_label,omitempty"`
	Insights  []string  `bson:"insights,omitempty" json:"insights,omitempty"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Summarize keeps the first 100 characters of content, marking the cut with
// an ellipsis.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryLength {
		return content
	}
	return string(runes[:summaryLength]) + summarySuffix
}

// MoodLabel returns the mood name for a 1-based score, or "" when the score
// is out of range.
func MoodLabel(score int) string {
	if score < 1 || score > len(Moods) {
		return ""
	}
	return Moods[score-1]
}
