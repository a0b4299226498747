// Package guard decides whether a page may render for the current user.
package guard

import (
	"net/http"

	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/user"
	"github.com/sirupsen/logrus"
)

const (
	LoginPath      = "/login"
	OnboardingPath = "/onboarding"
)

type Action int

const (
	Allow Action = iota
	Wait
	Redirect
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	}
	return "allow"
}

type Input struct {
	User      *user.User
	GoalCount int
	Loading   bool
}

type Decision struct {
	Action Action
	Target string
}

// Onboarded reports whether the user counts as onboarded: the stored flag
// or at least one goal is enough.
func (in Input) Onboarded() bool {
	return in.User != nil && (in.User.HasCompletedOnboarding || in.GoalCount > 0)
}

func Evaluate(in Input, requireOnboarding bool) Decision {
	if in.Loading {
		return Decision{Action: Wait}
	}
	if in.User == nil {
		return Decision{Action: Redirect, Target: LoginPath}
	}
	if requireOnboarding && !in.Onboarded() {
		return Decision{Action: Redirect, Target: OnboardingPath}
	}
	return Decision{Action: Allow}
}

// Source exposes the state the guard reads on every request.
type Source interface {
	GuardInput() Input
}

// Middleware gates next behind Evaluate. Waiting answers 202 with a loading
// body so the client can poll.
func Middleware(src Source, requireOnboarding bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Evaluate(src.GuardInput(), requireOnboarding)

			switch d.Action {
			case Wait:
				config.JSON(w, http.StatusAccepted, map[string]string{"status": "loading"})
			case Redirect:
				config.WithContext(r.Context()).WithFields(logrus.Fields{
					"path":   r.URL.Path,
					"target": d.Target,
				}).Debug("Redirecting guarded page")
				http.Redirect(w, r, d.Target, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
