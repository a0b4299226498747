package calendar

import (
	"context"

	"github.com/saulo-duarte/swayami/internal/config"
)

// Manager decides whether a task change creates, updates or removes its
// calendar event.
type Manager interface {
	SyncTask(ctx context.Context, accessToken string, ev TaskEvent) (eventID string, err error)
	RemoveTask(ctx context.Context, accessToken, eventID string) error
}

type calendarManager struct {
	calendarService CalendarService
}

func NewManager(calendarService CalendarService) Manager {
	return &calendarManager{calendarService: calendarService}
}

func (m *calendarManager) SyncTask(ctx context.Context, accessToken string, ev TaskEvent) (string, error) {
	log := config.WithContext(ctx)

	hasDueDate := ev.DueDate != nil
	hasEventID := ev.EventID != ""

	if hasEventID && !hasDueDate {
		log.Infof("Task %s no longer has a due date, deleting calendar event", ev.TaskID)
		if err := m.calendarService.DeleteEvent(ctx, accessToken, ev.EventID); err != nil {
			log.WithError(err).Warnf("Failed to delete calendar event for task %s", ev.TaskID)
		}
		return "", nil
	}

	if !hasDueDate {
		return "", nil
	}

	if hasEventID {
		if err := m.calendarService.UpdateEvent(ctx, accessToken, ev); err != nil {
			log.WithError(err).Warnf("Failed to update calendar event for task %s", ev.TaskID)
			return ev.EventID, err
		}
		return ev.EventID, nil
	}

	eventID, err := m.calendarService.AddEvent(ctx, accessToken, ev)
	if err != nil {
		log.WithError(err).Warnf("Failed to create calendar event for task %s", ev.TaskID)
		return "", err
	}
	if eventID == "" {
		log.Warnf("Calendar returned empty event id for task %s", ev.TaskID)
		return "", nil
	}

	log.Infof("Created calendar event %s for task %s", eventID, ev.TaskID)
	return eventID, nil
}

func (m *calendarManager) RemoveTask(ctx context.Context, accessToken, eventID string) error {
	if eventID == "" {
		return nil
	}

	if err := m.calendarService.DeleteEvent(ctx, accessToken, eventID); err != nil {
		config.WithContext(ctx).WithError(err).Warnf("Failed to delete calendar event %s", eventID)
		return err
	}
	return nil
}
