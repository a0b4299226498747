package auth

import (
	"context"
	"errors"
	"sync"
)

type ChangeEvent string

const (
	EventInitialSession ChangeEvent = "INITIAL_SESSION"
	EventSignedIn       ChangeEvent = "SIGNED_IN"
	EventSignedOut      ChangeEvent = "SIGNED_OUT"
	EventTokenRefreshed ChangeEvent = "TOKEN_REFRESHED"
	EventUserUpdated    ChangeEvent = "USER_UPDATED"
)

var (
	ErrNoSession       = errors.New("no active session")
	ErrMissingVerifier = errors.New("no pending sign-in to complete")
)

type ChangeHandler func(event ChangeEvent, session *Session)

type Subscription interface {
	Unsubscribe()
}

type OAuthOptions struct {
	Provider    string
	RedirectTo  string
	Scopes      string
	QueryParams map[string]string
}

// Provider is the external identity service the app signs in against.
type Provider interface {
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(handler ChangeHandler) Subscription
	SignInWithOAuth(ctx context.Context, opts OAuthOptions) (string, error)
	ExchangeCodeForSession(ctx context.Context, code string) (*Session, error)
	SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	SignOut(ctx context.Context) error
}

// emitter delivers change events to subscribers in registration order.
type emitter struct {
	mu       sync.Mutex
	next     int
	handlers map[int]ChangeHandler
	order    []int
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

func (e *emitter) subscribe(h ChangeHandler) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[int]ChangeHandler)
	}
	id := e.next
	e.next++
	e.handlers[id] = h
	e.order = append(e.order, id)

	return &subscription{cancel: func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}}
}

func (e *emitter) emit(event ChangeEvent, s *Session) {
	e.mu.Lock()
	handlers := make([]ChangeHandler, 0, len(e.order))
	for _, id := range e.order {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(event, s)
	}
}
