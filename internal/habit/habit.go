// Package habit holds the fixed daily habit list. Habits live in memory
// only and reset with every session.
package habit

type Habit struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Emoji     string `json:"emoji"`
	Completed bool   `json:"completed"`
}

func Defaults() []Habit {
	return []Habit{
		{ID: "1", Label: "Drink 8 glasses of water", Emoji: "💧"},
		{ID: "2", Label: "30-minute morning run", Emoji: "🏃"},
		{ID: "3", Label: "Read for 20 minutes", Emoji: "📚", Completed: true},
		{ID: "4", Label: "Meditate for 10 minutes", Emoji: "🧘"},
		{ID: "5", Label: "Practice gratitude", Emoji: "🌱", Completed: true},
	}
}

// Toggle returns a copy of habits with the completion of id flipped, and
// whether id was found.
func Toggle(habits []Habit, id string) ([]Habit, bool) {
	out := make([]Habit, len(habits))
	copy(out, habits)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = !out[i].Completed
			return out, true
		}
	}
	return out, false
}
