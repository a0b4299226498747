package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/swayami/internal/docstore"
)

var ErrInvalidMood = errors.New("mood score out of range")

type Repository interface {
	Create(ctx context.Context, dto CreateEntryDTO) (*Entry, error)
	ListByUser(ctx context.Context, userID string) []Entry
}

type repository struct {
	db  docstore.Client
	now func() time.Time
}

func NewRepository(db docstore.Client) Repository {
	return &repository{db: db, now: time.Now}
}

func (r *repository) Create(ctx context.Context, dto CreateEntryDTO) (*Entry, error) {
	if dto.MoodScore != 0 && MoodLabel(dto.MoodScore) == "" {
		return nil, ErrInvalidMood
	}

	summary := dto.Summary
	if summary == "" {
		summary = Summarize(dto.Content)
	}

	now := r.now().UTC()
	e := &Entry{
		ID:        uuid.NewString(),
		UserID:    dto.UserID,
		Content:   dto.Content,
		Summary:   summary,
		MoodScore: dto.MoodScore,
		MoodLabel: MoodLabel(dto.MoodScore),
		Insights:  dto.Insights,
		Tags:      dto.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return docstore.Mutate(ctx, "journal.create", (*Entry)(nil), func(ctx context.Context) (*Entry, error) {
		if err := r.db.InsertOne(ctx, docstore.CollectionJournalEntries, e); err != nil {
			return nil, err
		}
		return e, nil
	})
}

// ListByUser returns the ten most recent entries.
func (r *repository) ListByUser(ctx context.Context, userID string) []Entry {
	return docstore.Read(ctx, "journal.listByUser", []Entry{}, func(ctx context.Context) ([]Entry, error) {
		entries := []Entry{}
		err := r.db.Find(ctx, docstore.CollectionJournalEntries,
			docstore.Filter{"user_id": userID},
			docstore.FindOptions{Sort: docstore.SortNewestFirst, Limit: ListLimit},
			&entries)
		return entries, err
	})
}
