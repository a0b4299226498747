package goal_test

import (
	"context"
	"testing"

	"github.com/saulo-duarte/swayami/internal/docstore"
	"github.com/saulo-duarte/swayami/internal/docstore/docstoretest"
	"github.com/saulo-duarte/swayami/internal/goal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	repo := goal.NewRepository(docstore.NewLocal(t.TempDir()))

	g, err := repo.Create(ctx, goal.CreateGoalDTO{UserID: "u1", Title: "Health"})
	require.NoError(t, err)
	assert.Equal(t, goal.DefaultCategory, g.Category)
	assert.Equal(t, goal.PriorityMedium, g.Priority)
	assert.Equal(t, goal.GoalStatusActive, g.Status)
	assert.Equal(t, 0, g.Progress)
}

func TestListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := goal.NewRepository(docstore.NewLocal(t.TempDir()))

	first, err := repo.Create(ctx, goal.CreateGoalDTO{UserID: "u1", Title: "first"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, goal.CreateGoalDTO{UserID: "u1", Title: "second"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, goal.CreateGoalDTO{UserID: "u2", Title: "other"})
	require.NoError(t, err)

	goals := repo.ListByUser(ctx, "u1")
	require.Len(t, goals, 2)
	if first.CreatedAt.Equal(second.CreatedAt) {
		t.Skip("goals created within the same millisecond")
	}
	assert.Equal(t, "second", goals[0].Title)
}

func TestUpdateProgressClamps(t *testing.T) {
	ctx := context.Background()
	repo := goal.NewRepository(docstore.NewLocal(t.TempDir()))
	g, err := repo.Create(ctx, goal.CreateGoalDTO{UserID: "u1", Title: "Read"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateProgress(ctx, g.ID, 140))
	goals := repo.ListByUser(ctx, "u1")
	require.Len(t, goals, 1)
	assert.Equal(t, 100, goals[0].Progress)

	assert.ErrorIs(t, repo.UpdateProgress(ctx, "missing", 10), goal.ErrGoalNotFound)
}

func TestListFallsBackToEmpty(t *testing.T) {
	goals := goal.NewRepository(docstoretest.Unavailable{}).ListByUser(context.Background(), "u1")
	assert.NotNil(t, goals)
	assert.Empty(t, goals)
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, goal.ClampProgress(-5))
	assert.Equal(t, 42, goal.ClampProgress(42))
	assert.Equal(t, 100, goal.ClampProgress(101))
}
