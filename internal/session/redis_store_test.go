package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/swayami/internal/auth/authtest"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, cipher *config.Cipher) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewRedisStoreWithClient(client, cipher)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	cipher, err := config.NewCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	store, mr := newRedisStore(t, cipher)
	ctx := context.Background()

	s := authtest.NewSession("ana@example.com", map[string]interface{}{"picture": "https://img/ana.png"})
	require.NoError(t, store.Save(ctx, s))

	raw, err := mr.Get("swayami:session")
	require.NoError(t, err)
	assert.NotContains(t, raw, s.AccessToken)
	assert.NotContains(t, raw, s.ProviderToken)
	assert.Contains(t, raw, "ana@example.com")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s.AccessToken, loaded.AccessToken)
	assert.Equal(t, s.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, s.ProviderToken, loaded.ProviderToken)
	assert.Equal(t, "https://img/ana.png", loaded.User.UserMetadata["picture"])
}

func TestRedisStoreLoadEmpty(t *testing.T) {
	store, _ := newRedisStore(t, nil)

	s, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestRedisStoreClearAndExpiry(t *testing.T) {
	store, mr := newRedisStore(t, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, authtest.NewSession("ana@example.com", nil)))
	require.NoError(t, store.Clear(ctx))
	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, store.Save(ctx, authtest.NewSession("ana@example.com", nil)))
	mr.FastForward(31 * 24 * time.Hour)
	s, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestRedisStoreRejectsTamperedTokens(t *testing.T) {
	cipher, err := config.NewCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	store, mr := newRedisStore(t, cipher)

	require.NoError(t, mr.Set("swayami:session", `{"access_token":"not-sealed","user":{"email":"ana@example.com"}}`))

	_, err = store.Load(context.Background())
	assert.Error(t, err)
}
