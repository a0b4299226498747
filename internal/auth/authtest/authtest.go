// Package authtest provides an in-memory identity provider for tests.
package authtest

import (
	"context"
	"net/url"
	"sync"

	"github.com/saulo-duarte/swayami/internal/auth"
)

// Provider is a scriptable auth.Provider. Fields ending in Err are returned
// by the matching call when set.
type Provider struct {
	mu       sync.Mutex
	session  *auth.Session
	handlers map[int]auth.ChangeHandler
	next     int

	GetSessionErr error
	SignOutErr    error
	ExchangeErr   error

	// Exchanged is the session ExchangeCodeForSession and SetSession install.
	Exchanged *auth.Session

	GetSessionCalls int
	SignOutCalls    int
	LastOAuth       auth.OAuthOptions
}

var _ auth.Provider = (*Provider)(nil)

func New(s *auth.Session) *Provider {
	return &Provider{session: s, handlers: make(map[int]auth.ChangeHandler)}
}

// NewSession builds a session for the given identity.
func NewSession(email string, metadata map[string]interface{}) *auth.Session {
	return &auth.Session{
		AccessToken:   "access-" + email,
		RefreshToken:  "refresh-" + email,
		TokenType:     "bearer",
		ProviderToken: "google-" + email,
		User: auth.Identity{
			ID:           "id-" + email,
			Email:        email,
			UserMetadata: metadata,
		},
	}
}

func (p *Provider) GetSession(context.Context) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.GetSessionCalls++
	if p.GetSessionErr != nil {
		return nil, p.GetSessionErr
	}
	return p.session, nil
}

func (p *Provider) SetCurrent(s *auth.Session) {
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
}

func (p *Provider) OnAuthStateChange(h auth.ChangeHandler) auth.Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.handlers[id] = h
	return unsubscriber(func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	})
}

// Subscribers reports how many handlers are registered.
func (p *Provider) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

// Emit delivers an event to every subscriber, updating the current session
// first.
func (p *Provider) Emit(event auth.ChangeEvent, s *auth.Session) {
	p.mu.Lock()
	switch event {
	case auth.EventSignedOut:
		p.session = nil
	default:
		if s != nil {
			p.session = s
		}
	}
	handlers := make([]auth.ChangeHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(event, s)
	}
}

func (p *Provider) SignInWithOAuth(_ context.Context, opts auth.OAuthOptions) (string, error) {
	p.mu.Lock()
	p.LastOAuth = opts
	p.mu.Unlock()

	q := url.Values{}
	q.Set("provider", opts.Provider)
	q.Set("redirect_to", opts.RedirectTo)
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	return "https://identity.test/authorize?" + q.Encode(), nil
}

func (p *Provider) ExchangeCodeForSession(_ context.Context, code string) (*auth.Session, error) {
	if p.ExchangeErr != nil {
		return nil, p.ExchangeErr
	}
	if p.Exchanged == nil {
		return nil, auth.ErrMissingVerifier
	}
	p.Emit(auth.EventSignedIn, p.Exchanged)
	return p.Exchanged, nil
}

func (p *Provider) SetSession(_ context.Context, accessToken, refreshToken string) (*auth.Session, error) {
	if p.ExchangeErr != nil {
		return nil, p.ExchangeErr
	}
	s := p.Exchanged
	if s == nil {
		s = &auth.Session{AccessToken: accessToken, RefreshToken: refreshToken}
	}
	p.Emit(auth.EventSignedIn, s)
	return s, nil
}

func (p *Provider) SignOut(context.Context) error {
	p.mu.Lock()
	p.SignOutCalls++
	err := p.SignOutErr
	p.mu.Unlock()

	p.Emit(auth.EventSignedOut, nil)
	return err
}

type unsubscriber func()

func (u unsubscriber) Unsubscribe() { u() }
