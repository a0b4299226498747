package docstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/swayami/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func openTestPostgres(t *testing.T) *docstore.Postgres {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	dsn := os.Getenv("SWAYAMI_TEST_DSN")
	if dsn == "" {
		t.Skip("SWAYAMI_TEST_DSN not set")
	}
	pg, err := docstore.OpenPostgres(dsn)
	require.NoError(t, err)
	return pg
}

func TestPostgresRoundTrip(t *testing.T) {
	pg := openTestPostgres(t)
	ctx := context.Background()
	collection := "notes_" + uuid.NewString()[:8]
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, pg.InsertOne(ctx, collection, note{ID: "a", UserID: "u1", Title: "old", CreatedAt: base}))
	require.NoError(t, pg.InsertOne(ctx, collection, note{ID: "b", UserID: "u1", Title: "new", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, pg.InsertOne(ctx, collection, note{ID: "c", UserID: "u2", Title: "other", CreatedAt: base}))

	var got []note
	require.NoError(t, pg.Find(ctx, collection, docstore.Filter{"user_id": "u1"}, docstore.FindOptions{Sort: docstore.SortNewestFirst}, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)

	matched, err := pg.UpdateOne(ctx, collection, docstore.Filter{"_id": "a"}, bson.M{"done": true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, matched)

	var n note
	found, err := pg.FindOne(ctx, collection, docstore.Filter{"_id": "a"}, &n)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, n.Done)

	deleted, err := pg.DeleteOne(ctx, collection, docstore.Filter{"_id": "c"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}
