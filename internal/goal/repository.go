package goal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/swayami/internal/docstore"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repository interface {
	Create(ctx context.Context, dto CreateGoalDTO) (*Goal, error)
	ListByUser(ctx context.Context, userID string) []Goal
	UpdateProgress(ctx context.Context, id string, progress int) error
}

type repository struct {
	db  docstore.Client
	now func() time.Time
}

func NewRepository(db docstore.Client) Repository {
	return &repository{db: db, now: time.Now}
}

// Create stores a new active goal at zero progress. Category and priority
// default to general and medium.
func (r *repository) Create(ctx context.Context, dto CreateGoalDTO) (*Goal, error) {
	now := r.now().UTC()
	g := &Goal{
		ID:          uuid.NewString(),
		UserID:      dto.UserID,
		Title:       dto.Title,
		Description: dto.Description,
		Category:    dto.Category,
		Priority:    dto.Priority,
		Status:      GoalStatusActive,
		Progress:    0,
		TargetDate:  dto.TargetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if g.Category == "" {
		g.Category = DefaultCategory
	}
	if !g.Priority.IsValid() {
		g.Priority = PriorityMedium
	}

	return docstore.Mutate(ctx, "goals.create", (*Goal)(nil), func(ctx context.Context) (*Goal, error) {
		if err := r.db.InsertOne(ctx, docstore.CollectionGoals, g); err != nil {
			return nil, err
		}
		return g, nil
	})
}

func (r *repository) ListByUser(ctx context.Context, userID string) []Goal {
	return docstore.Read(ctx, "goals.listByUser", []Goal{}, func(ctx context.Context) ([]Goal, error) {
		goals := []Goal{}
		err := r.db.Find(ctx, docstore.CollectionGoals,
			docstore.Filter{"user_id": userID},
			docstore.FindOptions{Sort: docstore.SortNewestFirst},
			&goals)
		return goals, err
	})
}

func (r *repository) UpdateProgress(ctx context.Context, id string, progress int) error {
	_, err := docstore.Mutate(ctx, "goals.updateProgress", false, func(ctx context.Context) (bool, error) {
		matched, err := r.db.UpdateOne(ctx, docstore.CollectionGoals, docstore.Filter{"_id": id}, bson.M{
			"progress":   ClampProgress(progress),
			"updated_at": r.now().UTC(),
		})
		if err != nil {
			return false, err
		}
		if matched == 0 {
			return false, ErrGoalNotFound
		}
		return true, nil
	})
	return err
}
