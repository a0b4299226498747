// Package calendar mirrors dated tasks into the person's Google Calendar.
package calendar

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/saulo-duarte/swayami/internal/config"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const primaryCalendar = "primary"

var (
	ErrMissingToken = errors.New("session has no google access token")
	ErrMissingEvent = errors.New("cannot update event: missing calendar event id")
)

type CalendarService interface {
	AddEvent(ctx context.Context, accessToken string, ev TaskEvent) (string, error)
	UpdateEvent(ctx context.Context, accessToken string, ev TaskEvent) error
	DeleteEvent(ctx context.Context, accessToken, eventID string) error
}

type calendarService struct {
	opts []option.ClientOption
}

// NewCalendarService builds the Calendar v3 client per call from the
// provider token in the session. Extra options are appended after the
// authenticated HTTP client.
func NewCalendarService(opts ...option.ClientOption) CalendarService {
	return &calendarService{opts: opts}
}

func (s *calendarService) getCalendarClient(ctx context.Context, accessToken string) (*gcal.Service, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, ts)

	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, s.opts...)
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to create Calendar service client")
		return nil, err
	}
	return srv, nil
}

func buildCalendarEvent(ev TaskEvent) *gcal.Event {
	if ev.DueDate == nil {
		return nil
	}
	end := ev.DueDate.UTC()

	return &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Start:       &gcal.EventDateTime{DateTime: end.Add(-EventDuration).Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
		Reminders:   &gcal.EventReminders{UseDefault: true},
	}
}

func (s *calendarService) AddEvent(ctx context.Context, accessToken string, ev TaskEvent) (string, error) {
	log := config.WithContext(ctx)

	event := buildCalendarEvent(ev)
	if event == nil {
		log.Warnf("Task %s has no due date to create a calendar event", ev.TaskID)
		return "", nil
	}

	srv, err := s.getCalendarClient(ctx, accessToken)
	if err != nil {
		return "", err
	}

	created, err := srv.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		log.WithError(err).Error("Failed to insert calendar event")
		return "", err
	}
	return created.Id, nil
}

func (s *calendarService) UpdateEvent(ctx context.Context, accessToken string, ev TaskEvent) error {
	log := config.WithContext(ctx)
	if ev.EventID == "" {
		return ErrMissingEvent
	}

	event := buildCalendarEvent(ev)
	if event == nil {
		log.Warnf("Task %s no longer has a due date, deleting calendar event", ev.TaskID)
		return s.DeleteEvent(ctx, accessToken, ev.EventID)
	}

	srv, err := s.getCalendarClient(ctx, accessToken)
	if err != nil {
		return err
	}

	if _, err := srv.Events.Update(primaryCalendar, ev.EventID, event).Context(ctx).Do(); err != nil {
		log.WithError(err).Error("Failed to update calendar event")
		return err
	}
	return nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, accessToken, eventID string) error {
	log := config.WithContext(ctx)

	srv, err := s.getCalendarClient(ctx, accessToken)
	if err != nil {
		if errors.Is(err, ErrMissingToken) {
			log.Warnf("Skipping calendar deletion for event %s, no google token", eventID)
			return nil
		}
		return err
	}

	err = srv.Events.Delete(primaryCalendar, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			log.Warnf("Calendar event %s not found, considering deleted", eventID)
			return nil
		}
		log.WithError(err).Error("Failed to delete calendar event")
		return err
	}
	return nil
}
