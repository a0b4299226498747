package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/swayami/internal/docstore"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	FindByEmail(ctx context.Context, email string) *User
	FindByID(ctx context.Context, id string) *User
	Create(ctx context.Context, dto CreateUserDTO) (*User, error)
	UpdateOnboarding(ctx context.Context, id string, completed bool) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}

type repository struct {
	db  docstore.Client
	now func() time.Time
}

func NewRepository(db docstore.Client) Repository {
	return &repository{db: db, now: time.Now}
}

func (r *repository) findOne(ctx context.Context, op string, filter docstore.Filter) *User {
	return docstore.Read(ctx, op, (*User)(nil), func(ctx context.Context) (*User, error) {
		var u User
		found, err := r.db.FindOne(ctx, docstore.CollectionUsers, filter, &u)
		if err != nil || !found {
			return nil, err
		}
		return &u, nil
	})
}

func (r *repository) FindByEmail(ctx context.Context, email string) *User {
	return r.findOne(ctx, "users.findByEmail", docstore.Filter{"email": email})
}

func (r *repository) FindByID(ctx context.Context, id string) *User {
	return r.findOne(ctx, "users.findByID", docstore.Filter{"_id": id})
}

// Create inserts a new user with the default level and streak. If the insert
// fails, an existing user with the same email is returned instead.
func (r *repository) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	now := r.now().UTC()
	u := &User{
		ID:        uuid.NewString(),
		GoogleID:  dto.GoogleID,
		Email:     dto.Email,
		FullName:  dto.FullName,
		AvatarURL: dto.AvatarURL,
		Streak:    0,
		Level:     DefaultLevel,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := docstore.Mutate(ctx, "users.create", (*User)(nil), func(ctx context.Context) (*User, error) {
		return u, r.db.InsertOne(ctx, docstore.CollectionUsers, u)
	})
	if err != nil {
		if existing := r.FindByEmail(ctx, dto.Email); existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) update(ctx context.Context, op, id string, set bson.M) error {
	set["updated_at"] = r.now().UTC()
	_, err := docstore.Mutate(ctx, op, false, func(ctx context.Context) (bool, error) {
		matched, err := r.db.UpdateOne(ctx, docstore.CollectionUsers, docstore.Filter{"_id": id}, set)
		if err != nil {
			return false, err
		}
		if matched == 0 {
			return false, ErrUserNotFound
		}
		return true, nil
	})
	return err
}

func (r *repository) UpdateOnboarding(ctx context.Context, id string, completed bool) error {
	return r.update(ctx, "users.updateOnboarding", id, bson.M{"has_completed_onboarding": completed})
}

func (r *repository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.update(ctx, "users.updateAvatar", id, bson.M{"avatar_url": avatarURL})
}
