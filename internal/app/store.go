// Package app holds the signed-in person's state and every operation the UI
// performs on it.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/saulo-duarte/swayami/internal/auth"
	"github.com/saulo-duarte/swayami/internal/calendar"
	"github.com/saulo-duarte/swayami/internal/goal"
	"github.com/saulo-duarte/swayami/internal/guard"
	"github.com/saulo-duarte/swayami/internal/habit"
	"github.com/saulo-duarte/swayami/internal/journal"
	"github.com/saulo-duarte/swayami/internal/session"
	"github.com/saulo-duarte/swayami/internal/suggest"
	"github.com/saulo-duarte/swayami/internal/task"
	"github.com/saulo-duarte/swayami/internal/user"
)

var (
	ErrNotAuthenticated = errors.New("no authenticated user")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrMissingEmail     = errors.New("identity has no email")
)

type AuthState string

const (
	Unauthenticated AuthState = "unauthenticated"
	NotOnboarded    AuthState = "not_onboarded"
	Onboarded       AuthState = "onboarded"
)

// Dependencies are the collaborators a Store talks to. Calendar is
// optional; a nil manager disables mirroring.
type Dependencies struct {
	Users       user.Repository
	Goals       goal.Repository
	Tasks       task.Repository
	Journals    journal.Repository
	Suggestions suggest.Service
	Identity    auth.Provider
	Calendar    calendar.Manager
}

// State is a point-in-time copy of the store, safe to hand to the UI.
type State struct {
	User           *user.User      `json:"user"`
	Goals          []goal.Goal     `json:"goals"`
	Tasks          []task.Task     `json:"tasks"`
	JournalEntries []journal.Entry `json:"journal_entries"`
	Habits         []habit.Habit   `json:"habits"`
	Loading        bool            `json:"loading"`
	AuthState      AuthState       `json:"auth_state"`
}

// Store is the single owner of the in-memory collections. Remote calls are
// made without holding mu; when two mutations race, the last one to finish
// wins.
type Store struct {
	deps Dependencies
	now  func() time.Time

	mu      sync.RWMutex
	session *auth.Session
	user    *user.User
	goals   []goal.Goal
	tasks   []task.Task
	entries []journal.Entry
	habits  []habit.Habit
	loading bool
}

var (
	_ session.Listener = (*Store)(nil)
	_ guard.Source     = (*Store)(nil)
)

func NewStore(deps Dependencies) *Store {
	return &Store{
		deps:    deps,
		now:     time.Now,
		goals:   []goal.Goal{},
		tasks:   []task.Task{},
		entries: []journal.Entry{},
		habits:  habit.Defaults(),
	}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Goals:          append([]goal.Goal{}, s.goals...),
		Tasks:          append([]task.Task{}, s.tasks...),
		JournalEntries: append([]journal.Entry{}, s.entries...),
		Habits:         append([]habit.Habit{}, s.habits...),
		Loading:        s.loading,
		AuthState:      s.authStateLocked(),
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

func (s *Store) AuthState() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authStateLocked()
}

func (s *Store) authStateLocked() AuthState {
	in := guard.Input{User: s.user, GoalCount: len(s.goals)}
	switch {
	case in.User == nil:
		return Unauthenticated
	case in.Onboarded():
		return Onboarded
	}
	return NotOnboarded
}

func (s *Store) GuardInput() guard.Input {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in := guard.Input{GoalCount: len(s.goals), Loading: s.loading}
	if s.user != nil {
		u := *s.user
		in.User = &u
	}
	return in
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) currentSession() *auth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Store) OnSignedIn(ctx context.Context, sess *auth.Session) error {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return s.InitializeUser(ctx, sess.User)
}

func (s *Store) OnSignedOut(context.Context) {
	s.clear()
}

// OnSessionUpdated keeps the refreshed tokens without reloading anything.
func (s *Store) OnSessionUpdated(sess *auth.Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.user = nil
	s.goals = []goal.Goal{}
	s.tasks = []task.Task{}
	s.entries = []journal.Entry{}
	s.habits = habit.Defaults()
}

// ResetAllData drops goals, tasks and journal entries from memory. Nothing
// is deleted remotely.
func (s *Store) ResetAllData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = []goal.Goal{}
	s.tasks = []task.Task{}
	s.entries = []journal.Entry{}
}
