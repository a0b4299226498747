package session

import (
	"context"
	"sync"
	"time"

	"github.com/saulo-duarte/swayami/internal/auth"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	// AwaitAttempts and AwaitDelay bound the post-callback wait for a
	// session to appear.
	AwaitAttempts = 3
	AwaitDelay    = time.Second

	queueSize = 16
)

// Listener receives classified session changes. OnSignedIn is expected to
// load the user and their data.
type Listener interface {
	OnSignedIn(ctx context.Context, s *auth.Session) error
	OnSignedOut(ctx context.Context)
	OnSessionUpdated(s *auth.Session)
	SetLoading(loading bool)
}

type Kind int

const (
	KindIgnored Kind = iota
	KindSignedIn
	KindSignedOut
	KindTokenRefreshed
	kindBarrier
)

func (k Kind) String() string {
	switch k {
	case KindSignedIn:
		return "signed_in"
	case KindSignedOut:
		return "signed_out"
	case KindTokenRefreshed:
		return "token_refreshed"
	case kindBarrier:
		return "barrier"
	}
	return "ignored"
}

// Classify maps a provider event to the action the bridge takes. Sign-in
// and refresh events without a session carry nothing to act on. The initial
// session is read by Start, so INITIAL_SESSION is ignored here.
func Classify(event auth.ChangeEvent, s *auth.Session) Kind {
	switch event {
	case auth.EventSignedIn:
		if s == nil {
			return KindIgnored
		}
		return KindSignedIn
	case auth.EventSignedOut:
		return KindSignedOut
	case auth.EventTokenRefreshed, auth.EventUserUpdated:
		if s == nil {
			return KindIgnored
		}
		return KindTokenRefreshed
	}
	return KindIgnored
}

type queued struct {
	kind    Kind
	session *auth.Session
	done    chan struct{}
}

// Bridge serialises identity events onto a single goroutine, so the
// listener never sees two session changes at once.
type Bridge struct {
	provider auth.Provider
	listener Listener

	ctx       context.Context
	events    chan queued
	stop      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
	sub       auth.Subscription

	mu      sync.RWMutex
	session *auth.Session
}

func NewBridge(provider auth.Provider, listener Listener) *Bridge {
	return &Bridge{
		provider: provider,
		listener: listener,
		events:   make(chan queued, queueSize),
		stop:     make(chan struct{}),
	}
}

// Start loads any existing session, hands it to the listener, then begins
// delivering provider events. The loading flag is set for the duration of
// the initial fetch.
func (b *Bridge) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		b.ctx = context.WithoutCancel(ctx)
		log := config.WithContext(ctx)

		b.listener.SetLoading(true)
		s, err := b.provider.GetSession(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to read initial session, continuing signed out")
			s = nil
		}
		if s != nil {
			b.setSession(s)
			if err := b.listener.OnSignedIn(ctx, s); err != nil {
				log.WithError(err).Error("Failed to initialize user from existing session")
			}
		}
		b.listener.SetLoading(false)

		b.sub = b.provider.OnAuthStateChange(b.enqueue)
		b.wg.Add(1)
		go b.run()
	})
}

func (b *Bridge) enqueue(event auth.ChangeEvent, s *auth.Session) {
	kind := Classify(event, s)
	if kind == KindIgnored {
		config.WithContext(b.ctx).WithField("event", event).Debug("Ignoring identity event")
		return
	}
	select {
	case b.events <- queued{kind: kind, session: s}:
	case <-b.stop:
	}
}

func (b *Bridge) run() {
	defer b.wg.Done()
	for {
		select {
		case q := <-b.events:
			b.handle(q)
			if q.done != nil {
				close(q.done)
			}
		case <-b.stop:
			return
		}
	}
}

func (b *Bridge) handle(q queued) {
	log := config.WithContext(b.ctx).WithFields(logrus.Fields{"kind": q.kind.String()})

	switch q.kind {
	case KindSignedIn:
		b.setSession(q.session)
		b.listener.SetLoading(true)
		if err := b.listener.OnSignedIn(b.ctx, q.session); err != nil {
			log.WithError(err).Error("Failed to initialize user after sign-in")
		}
		b.listener.SetLoading(false)
	case KindSignedOut:
		b.setSession(nil)
		b.listener.OnSignedOut(b.ctx)
		b.listener.SetLoading(false)
	case KindTokenRefreshed:
		b.setSession(q.session)
		b.listener.OnSessionUpdated(q.session)
	}
	log.Debug("Identity event handled")
}

// Sync blocks until every event queued before the call has been handled.
func (b *Bridge) Sync(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case b.events <- queued{kind: kindBarrier, done: done}:
	case <-b.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-b.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitSession polls the provider until a session appears, up to attempts
// tries spaced by delay.
func (b *Bridge) AwaitSession(ctx context.Context, attempts int, delay time.Duration) (*auth.Session, error) {
	log := config.WithContext(ctx)
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		s, err := b.provider.GetSession(ctx)
		if err == nil && s != nil {
			return s, nil
		}
		if err != nil {
			log.WithError(err).WithField("attempt", i+1).Warn("Session not available yet")
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
	return nil, auth.ErrNoSession
}

func (b *Bridge) Session() *auth.Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session
}

func (b *Bridge) setSession(s *auth.Session) {
	b.mu.Lock()
	b.session = s
	b.mu.Unlock()
}

// Close unsubscribes from the provider and stops the event goroutine.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		if b.sub != nil {
			b.sub.Unsubscribe()
		}
		close(b.stop)
		b.wg.Wait()
	})
}
