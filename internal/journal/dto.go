package journal

type CreateEntryDTO struct {
	UserID    string   `json:"-"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary,omitempty"`
	MoodScore int      `json:"mood_score,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Insights  []string `json:"insights,omitempty"`
}

type UpdateEntryDTO struct {
	Content   *string  `json:"content"`
	MoodScore *int     `json:"mood_score"`
	Tags      []string `json:"tags"`
}
