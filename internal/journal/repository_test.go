package journal_test

import (
	"context"
	"strings"
	"testing"

	"github.com/saulo-duarte/swayami/internal/docstore"
	"github.com/saulo-duarte/swayami/internal/docstore/docstoretest"
	"github.com/saulo-duarte/swayami/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	short := "A quiet morning."
	assert.Equal(t, short, journal.Summarize(short))

	exact := strings.Repeat("a", 100)
	assert.Equal(t, exact, journal.Summarize(exact))

	long := strings.Repeat("b", 150)
	summary := journal.Summarize(long)
	assert.Equal(t, strings.Repeat("b", 100)+"...", summary)

	multibyte := strings.Repeat("é", 120)
	assert.Equal(t, strings.Repeat("é", 100)+"...", journal.Summarize(multibyte))
}

func TestMoodLabel(t *testing.T) {
	assert.Equal(t, "Happy", journal.MoodLabel(1))
	assert.Equal(t, "Calm", journal.MoodLabel(len(journal.Moods)))
	assert.Equal(t, "", journal.MoodLabel(0))
	assert.Equal(t, "", journal.MoodLabel(9))
}

func TestCreateAndListLimit(t *testing.T) {
	ctx := context.Background()
	repo := journal.NewRepository(docstore.NewLocal(t.TempDir()))

	for i := 0; i < 12; i++ {
		_, err := repo.Create(ctx, journal.CreateEntryDTO{UserID: "u1", Content: "entry", MoodScore: 7})
		require.NoError(t, err)
	}

	entries := repo.ListByUser(ctx, "u1")
	assert.Len(t, entries, journal.ListLimit)
	assert.Equal(t, "Motivated", entries[0].MoodLabel)
}

func TestCreateRejectsBadMood(t *testing.T) {
	repo := journal.NewRepository(docstore.NewLocal(t.TempDir()))
	_, err := repo.Create(context.Background(), journal.CreateEntryDTO{UserID: "u1", Content: "x", MoodScore: 12})
	assert.ErrorIs(t, err, journal.ErrInvalidMood)
}

func TestListFallsBackToEmpty(t *testing.T) {
	entries := journal.NewRepository(docstoretest.Unavailable{}).ListByUser(context.Background(), "u1")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
