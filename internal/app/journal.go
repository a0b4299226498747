package app

import (
	"context"

	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/habit"
	"github.com/saulo-duarte/swayami/internal/journal"
	"github.com/saulo-duarte/swayami/internal/suggest"
)

func (s *Store) AddJournalEntry(ctx context.Context, dto journal.CreateEntryDTO) (*journal.Entry, error) {
	u := s.CurrentUser()
	if u == nil {
		return nil, nil
	}
	dto.UserID = u.ID

	e, err := s.deps.Journals.Create(ctx, dto)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.user != nil && s.user.ID == u.ID {
		s.entries = append([]journal.Entry{*e}, s.entries...)
	}
	s.mu.Unlock()
	return e, nil
}

// UpdateJournalEntry is not supported by the document store flow yet; the
// request is logged and dropped.
func (s *Store) UpdateJournalEntry(ctx context.Context, id string, _ journal.UpdateEntryDTO) {
	config.WithContext(ctx).WithField("entry_id", id).Info("Journal entry update requested, not supported")
}

func (s *Store) AnalyzeJournal(ctx context.Context, content string) suggest.JournalAnalysis {
	return s.deps.Suggestions.AnalyzeJournal(ctx, content)
}

// ToggleHabit flips a habit locally. It reports false for unknown ids.
func (s *Store) ToggleHabit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	habits, ok := habit.Toggle(s.habits, id)
	s.habits = habits
	return ok
}
