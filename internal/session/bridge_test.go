package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/saulo-duarte/swayami/internal/auth"
	"github.com/saulo-duarte/swayami/internal/auth/authtest"
	"github.com/saulo-duarte/swayami/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu       sync.Mutex
	calls    []string
	loading  []bool
	signedIn []string
	updated  []string
	failWith error
}

func (r *recorder) OnSignedIn(_ context.Context, s *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "signed_in")
	r.signedIn = append(r.signedIn, s.User.Email)
	return r.failWith
}

func (r *recorder) OnSignedOut(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "signed_out")
}

func (r *recorder) OnSessionUpdated(s *auth.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "updated")
	r.updated = append(r.updated, s.AccessToken)
}

func (r *recorder) SetLoading(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = append(r.loading, loading)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestClassify(t *testing.T) {
	s := authtest.NewSession("ana@example.com", nil)

	tests := []struct {
		event   auth.ChangeEvent
		session *auth.Session
		want    session.Kind
	}{
		{auth.EventSignedIn, s, session.KindSignedIn},
		{auth.EventSignedIn, nil, session.KindIgnored},
		{auth.EventSignedOut, nil, session.KindSignedOut},
		{auth.EventTokenRefreshed, s, session.KindTokenRefreshed},
		{auth.EventTokenRefreshed, nil, session.KindIgnored},
		{auth.EventUserUpdated, s, session.KindTokenRefreshed},
		{auth.EventInitialSession, s, session.KindIgnored},
		{auth.ChangeEvent("PASSWORD_RECOVERY"), s, session.KindIgnored},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			assert.Equal(t, tt.want, session.Classify(tt.event, tt.session))
		})
	}
}

func TestBridgeStartWithExistingSession(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := authtest.New(authtest.NewSession("ana@example.com", nil))
	rec := &recorder{}

	b := session.NewBridge(provider, rec)
	b.Start(context.Background())
	defer b.Close()

	assert.Equal(t, []string{"signed_in"}, rec.snapshot())
	assert.Equal(t, []bool{true, false}, rec.loading)
	assert.Equal(t, 1, provider.Subscribers())
	require.NotNil(t, b.Session())
	assert.Equal(t, "ana@example.com", b.Session().User.Email)
}

func TestBridgeStartTreatsFetchErrorAsSignedOut(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := authtest.New(nil)
	provider.GetSessionErr = errors.New("network down")
	rec := &recorder{}

	b := session.NewBridge(provider, rec)
	b.Start(context.Background())
	defer b.Close()

	assert.Empty(t, rec.snapshot())
	assert.Equal(t, []bool{true, false}, rec.loading)
	assert.Nil(t, b.Session())
}

func TestBridgeStartIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := authtest.New(nil)
	b := session.NewBridge(provider, &recorder{})

	b.Start(context.Background())
	b.Start(context.Background())
	defer b.Close()

	assert.Equal(t, 1, provider.GetSessionCalls)
	assert.Equal(t, 1, provider.Subscribers())
}

func TestBridgeDeliversEventsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	provider := authtest.New(nil)
	rec := &recorder{}

	b := session.NewBridge(provider, rec)
	b.Start(ctx)
	defer b.Close()

	signedIn := authtest.NewSession("ana@example.com", nil)
	refreshed := *signedIn
	refreshed.AccessToken = "access-2"

	provider.Emit(auth.EventSignedIn, signedIn)
	provider.Emit(auth.EventInitialSession, signedIn)
	provider.Emit(auth.EventTokenRefreshed, &refreshed)
	require.NoError(t, b.Sync(ctx))

	assert.Equal(t, []string{"signed_in", "updated"}, rec.snapshot())
	assert.Equal(t, []string{"access-2"}, rec.updated)
	assert.Equal(t, "access-2", b.Session().AccessToken)

	provider.Emit(auth.EventSignedOut, nil)
	require.NoError(t, b.Sync(ctx))

	assert.Equal(t, []string{"signed_in", "updated", "signed_out"}, rec.snapshot())
	assert.Nil(t, b.Session())
}

func TestBridgeSignInFailureKeepsRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	provider := authtest.New(nil)
	rec := &recorder{failWith: errors.New("store down")}

	b := session.NewBridge(provider, rec)
	b.Start(ctx)
	defer b.Close()

	provider.Emit(auth.EventSignedIn, authtest.NewSession("ana@example.com", nil))
	provider.Emit(auth.EventSignedOut, nil)
	require.NoError(t, b.Sync(ctx))

	assert.Equal(t, []string{"signed_in", "signed_out"}, rec.snapshot())
}

func TestBridgeCloseUnsubscribes(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := authtest.New(nil)
	b := session.NewBridge(provider, &recorder{})
	b.Start(context.Background())

	b.Close()
	b.Close()

	assert.Equal(t, 0, provider.Subscribers())
	assert.NoError(t, b.Sync(context.Background()))
}

func TestAwaitSession(t *testing.T) {
	t.Run("returns once the session appears", func(t *testing.T) {
		provider := authtest.New(nil)
		b := session.NewBridge(provider, &recorder{})

		go func() {
			time.Sleep(5 * time.Millisecond)
			provider.SetCurrent(authtest.NewSession("ana@example.com", nil))
		}()

		s, err := b.AwaitSession(context.Background(), 50, 2*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", s.User.Email)
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		provider := authtest.New(nil)
		b := session.NewBridge(provider, &recorder{})

		_, err := b.AwaitSession(context.Background(), session.AwaitAttempts, time.Millisecond)
		assert.ErrorIs(t, err, auth.ErrNoSession)
		assert.Equal(t, session.AwaitAttempts, provider.GetSessionCalls)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		provider := authtest.New(nil)
		b := session.NewBridge(provider, &recorder{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := b.AwaitSession(ctx, 3, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
