package app

import (
	"context"

	"github.com/saulo-duarte/swayami/internal/calendar"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/task"
	"github.com/sirupsen/logrus"
)

func (s *Store) findTask(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// patchTask applies fn to the in-memory task with id and returns a copy of
// the result, or nil when the task is gone.
func (s *Store) patchTask(id string, fn func(*task.Task)) *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			fn(&s.tasks[i])
			t := s.tasks[i]
			return &t
		}
	}
	return nil
}

// AddTask persists a task for the current user and puts it first in the
// list. Without a user it does nothing.
func (s *Store) AddTask(ctx context.Context, dto task.CreateTaskDTO) (*task.Task, error) {
	u := s.CurrentUser()
	if u == nil {
		return nil, nil
	}
	dto.UserID = u.ID

	t, err := s.deps.Tasks.Create(ctx, dto)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.user != nil && s.user.ID == u.ID {
		s.tasks = append([]task.Task{*t}, s.tasks...)
	}
	s.mu.Unlock()

	if id := s.mirrorTask(ctx, *t); id != "" {
		t.CalendarEventID = id
	}
	return t, nil
}

// mirrorTask creates the calendar event for a dated task. Failures are
// logged only.
func (s *Store) mirrorTask(ctx context.Context, t task.Task) string {
	if s.deps.Calendar == nil || t.DueDate == nil {
		return ""
	}
	sess := s.currentSession()
	if sess == nil || sess.ProviderToken == "" {
		return ""
	}
	log := config.WithContext(ctx).WithField("task_id", t.ID)

	eventID, err := s.deps.Calendar.SyncTask(ctx, sess.ProviderToken, calendar.TaskEvent{
		TaskID:      t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		EventID:     t.CalendarEventID,
	})
	if err != nil || eventID == "" {
		return ""
	}
	if err := s.deps.Tasks.SetCalendarEvent(ctx, t.ID, eventID); err != nil {
		log.WithError(err).Warn("Failed to store calendar event id")
		return ""
	}
	s.patchTask(t.ID, func(tt *task.Task) { tt.CalendarEventID = eventID })
	return eventID
}

// ToggleTask flips a task between pending and completed.
func (s *Store) ToggleTask(ctx context.Context, id string) (*task.Task, error) {
	if s.CurrentUser() == nil {
		return nil, nil
	}
	current, ok := s.findTask(id)
	if !ok {
		return nil, nil
	}

	next := current.Status.Toggled()
	if err := s.deps.Tasks.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.patchTask(id, func(t *task.Task) {
		t.Status = next
		t.UpdatedAt = now
	}), nil
}

// DeleteTask removes a task remotely, then from memory. Unknown ids are
// ignored.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if s.CurrentUser() == nil {
		return nil
	}
	current, ok := s.findTask(id)
	if !ok {
		return nil
	}

	if err := s.deps.Tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if current.CalendarEventID != "" && s.deps.Calendar != nil {
		if sess := s.currentSession(); sess != nil {
			// RemoveTask logs its own failures.
			_ = s.deps.Calendar.RemoveTask(ctx, sess.ProviderToken, current.CalendarEventID)
		}
	}
	return nil
}

// EditTask only persists the status; every other field in upd is applied
// in memory and is lost on the next reload.
func (s *Store) EditTask(ctx context.Context, id string, upd task.UpdateTaskDTO) (*task.Task, error) {
	if s.CurrentUser() == nil {
		return nil, nil
	}
	current, ok := s.findTask(id)
	if !ok {
		return nil, nil
	}

	status := current.Status
	if upd.Status != nil {
		status = *upd.Status
	}
	if err := s.deps.Tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithFields(logrus.Fields{
		"task_id": id,
		"status":  status,
	}).Debug("Task edited, only status persisted")

	now := s.now().UTC()
	return s.patchTask(id, func(t *task.Task) {
		upd.Apply(t)
		t.UpdatedAt = now
	}), nil
}

func (s *Store) TaskStats() task.TaskStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.ComputeStats(s.tasks, s.now())
}
