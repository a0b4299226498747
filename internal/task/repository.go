package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/swayami/internal/docstore"
	util "github.com/saulo-duarte/swayami/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
)

type Repository interface {
	Create(ctx context.Context, dto CreateTaskDTO) (*Task, error)
	ListByUser(ctx context.Context, userID string) []Task
	UpdateStatus(ctx context.Context, id string, status TaskStatus) error
	SetCalendarEvent(ctx context.Context, id, eventID string) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db  docstore.Client
	now func() time.Time
}

func NewRepository(db docstore.Client) Repository {
	return &repository{db: db, now: time.Now}
}

func (r *repository) Create(ctx context.Context, dto CreateTaskDTO) (*Task, error) {
	now := r.now().UTC()
	t := &Task{
		ID:          uuid.NewString(),
		UserID:      dto.UserID,
		GoalID:      dto.GoalID,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      dto.Status,
		Priority:    ParsePriority(string(dto.Priority)),
		DueDate:     util.ToTimePtr(dto.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !t.Status.IsValid() {
		t.Status = TaskStatusPending
	}

	return docstore.Mutate(ctx, "tasks.create", (*Task)(nil), func(ctx context.Context) (*Task, error) {
		if err := r.db.InsertOne(ctx, docstore.CollectionTasks, t); err != nil {
			return nil, err
		}
		return t, nil
	})
}

func (r *repository) ListByUser(ctx context.Context, userID string) []Task {
	return docstore.Read(ctx, "tasks.listByUser", []Task{}, func(ctx context.Context) ([]Task, error) {
		tasks := []Task{}
		err := r.db.Find(ctx, docstore.CollectionTasks,
			docstore.Filter{"user_id": userID},
			docstore.FindOptions{Sort: docstore.SortNewestFirst},
			&tasks)
		return tasks, err
	})
}

func (r *repository) update(ctx context.Context, op, id string, set bson.M) error {
	set["updated_at"] = r.now().UTC()
	_, err := docstore.Mutate(ctx, op, false, func(ctx context.Context) (bool, error) {
		matched, err := r.db.UpdateOne(ctx, docstore.CollectionTasks, docstore.Filter{"_id": id}, set)
		if err != nil {
			return false, err
		}
		if matched == 0 {
			return false, ErrTaskNotFound
		}
		return true, nil
	})
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status TaskStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	return r.update(ctx, "tasks.updateStatus", id, bson.M{"status": status})
}

func (r *repository) SetCalendarEvent(ctx context.Context, id, eventID string) error {
	return r.update(ctx, "tasks.setCalendarEvent", id, bson.M{"calendar_event_id": eventID})
}

// Delete removes a task. Deleting an id that no longer exists is not an
// error.
func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := docstore.Mutate(ctx, "tasks.delete", int64(0), func(ctx context.Context) (int64, error) {
		return r.db.DeleteOne(ctx, docstore.CollectionTasks, docstore.Filter{"_id": id})
	})
	return err
}
