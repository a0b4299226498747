package app

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/saulo-duarte/swayami/internal/auth"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/guard"
)

const (
	DashboardPath = "/dashboard"
	callbackWait  = 3
)

// SessionWaiter is the part of the session bridge the sign-in callback
// needs.
type SessionWaiter interface {
	AwaitSession(ctx context.Context, attempts int, delay time.Duration) (*auth.Session, error)
	Sync(ctx context.Context) error
}

type OAuthSettings struct {
	Provider    string
	RedirectURL string
	Scopes      string
	AwaitDelay  time.Duration
}

func loginError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, guard.LoginPath+"?error="+url.QueryEscape(msg), http.StatusFound)
}

// Login sends the browser to the identity provider. Offline access and the
// consent prompt make Google hand back a refresh token every time.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	target, err := h.store.deps.Identity.SignInWithOAuth(r.Context(), auth.OAuthOptions{
		Provider:   h.oauth.Provider,
		RedirectTo: h.oauth.RedirectURL,
		Scopes:     h.oauth.Scopes,
		QueryParams: map[string]string{
			"access_type": "offline",
			"prompt":      "consent",
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to start sign-in")
		loginError(w, r, "Could not start sign-in. Please try again.")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback completes the OAuth redirect, waits for the session to become
// visible and for the user to load, then routes by onboarding state.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := config.WithContext(ctx)
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		msg := q.Get("error_description")
		if msg == "" {
			msg = e
		}
		log.WithField("error", e).Warn("Identity provider returned an error")
		loginError(w, r, msg)
		return
	}

	identity := h.store.deps.Identity
	var err error
	switch {
	case q.Get("code") != "":
		_, err = identity.ExchangeCodeForSession(ctx, q.Get("code"))
	case q.Get("access_token") != "":
		_, err = identity.SetSession(ctx, q.Get("access_token"), q.Get("refresh_token"))
	}
	if err != nil {
		log.WithError(err).Error("Failed to complete sign-in")
		loginError(w, r, "Sign-in failed. Please try again.")
		return
	}

	delay := h.oauth.AwaitDelay
	if delay <= 0 {
		delay = time.Second
	}
	if _, err := h.sessions.AwaitSession(ctx, callbackWait, delay); err != nil {
		log.WithError(err).Warn("No session after sign-in callback")
		loginError(w, r, "No session found. Please sign in again.")
		return
	}
	if err := h.sessions.Sync(ctx); err != nil {
		log.WithError(err).Warn("Callback cancelled while loading user")
		return
	}

	switch h.store.AuthState() {
	case Onboarded:
		http.Redirect(w, r, DashboardPath, http.StatusFound)
	case NotOnboarded:
		http.Redirect(w, r, guard.OnboardingPath, http.StatusFound)
	default:
		loginError(w, r, "Could not load your profile. Please try again.")
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Logout(r.Context()); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Signed out locally, provider sign-out failed")
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}
