package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/saulo-duarte/swayami/internal/auth"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/goal"
	"github.com/saulo-duarte/swayami/internal/journal"
	"github.com/saulo-duarte/swayami/internal/task"
	"github.com/saulo-duarte/swayami/internal/user"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// InitializeUser finds or creates the stored user for an identity, then
// loads their data. The avatar is backfilled when the stored user has none.
func (s *Store) InitializeUser(ctx context.Context, id auth.Identity) error {
	log := config.WithContext(ctx).WithField("email", id.Email)
	if id.Email == "" {
		log.Error("Identity has no email, cannot initialize user")
		return ErrMissingEmail
	}

	avatar := auth.AvatarURL(id)

	u := s.deps.Users.FindByEmail(ctx, id.Email)
	if u == nil {
		created, err := s.deps.Users.Create(ctx, user.CreateUserDTO{
			GoogleID:  id.ID,
			Email:     id.Email,
			FullName:  auth.DisplayName(id),
			AvatarURL: avatar,
		})
		if err != nil {
			log.WithError(err).Error("Failed to create user")
			return fmt.Errorf("create user: %w", err)
		}
		log.WithField("user_id", created.ID).Info("Created user")
		u = created
	} else if u.AvatarURL == "" && avatar != "" {
		if err := s.deps.Users.UpdateAvatar(ctx, u.ID, avatar); err != nil {
			log.WithError(err).Warn("Failed to backfill avatar")
		} else {
			u.AvatarURL = avatar
		}
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	return s.LoadUserData(ctx)
}

// LoadUserData reads goals, tasks and journal entries concurrently and
// replaces the in-memory collections with the results.
func (s *Store) LoadUserData(ctx context.Context) error {
	u := s.CurrentUser()
	if u == nil {
		return nil
	}

	var (
		goals   []goal.Goal
		tasks   []task.Task
		entries []journal.Entry
		g       errgroup.Group
	)
	g.Go(func() error {
		goals = s.deps.Goals.ListByUser(ctx, u.ID)
		return nil
	})
	g.Go(func() error {
		tasks = s.deps.Tasks.ListByUser(ctx, u.ID)
		return nil
	})
	g.Go(func() error {
		entries = s.deps.Journals.ListByUser(ctx, u.ID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.ID != u.ID {
		return nil
	}
	s.goals = goals
	s.tasks = tasks
	s.entries = entries

	config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id": u.ID,
		"goals":   len(goals),
		"tasks":   len(tasks),
		"entries": len(entries),
	}).Info("Loaded user data")
	return nil
}

type OnboardingGoal struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// OnboardingCategory lower-cases t and drops everything outside a-z and 0-9.
func OnboardingCategory(t string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(t) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CompleteOnboarding creates one goal per selection, in order, then marks
// the user onboarded. Goals created before a failure stay persisted.
func (s *Store) CompleteOnboarding(ctx context.Context, selections []OnboardingGoal) ([]goal.Goal, error) {
	u := s.CurrentUser()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	log := config.WithContext(ctx).WithField("user_id", u.ID)

	created := make([]goal.Goal, 0, len(selections))
	for _, sel := range selections {
		g, err := s.deps.Goals.Create(ctx, goal.CreateGoalDTO{
			UserID:      u.ID,
			Title:       sel.Type,
			Description: sel.Description,
			Category:    OnboardingCategory(sel.Type),
			Priority:    goal.PriorityMedium,
		})
		if err != nil {
			log.WithError(err).WithField("type", sel.Type).Error("Failed to create onboarding goal")
			return nil, fmt.Errorf("create goal %q: %w", sel.Type, err)
		}
		created = append(created, *g)
	}

	flagErr := s.deps.Users.UpdateOnboarding(ctx, u.ID, true)
	if flagErr != nil {
		log.WithError(flagErr).Error("Failed to mark onboarding complete")
	}

	s.mu.Lock()
	if s.user != nil && s.user.ID == u.ID {
		s.goals = append([]goal.Goal{}, created...)
		if flagErr == nil {
			s.user.HasCompletedOnboarding = true
		}
	}
	s.mu.Unlock()

	if flagErr != nil {
		return created, fmt.Errorf("mark onboarding complete: %w", flagErr)
	}
	log.WithField("goals", len(created)).Info("Onboarding completed")
	return created, nil
}

func (s *Store) findGoal(id string) (goal.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return goal.Goal{}, false
}

// UpdateGoalProgress stores progress clamped to 0..100.
func (s *Store) UpdateGoalProgress(ctx context.Context, goalID string, progress int) (*goal.Goal, error) {
	if s.CurrentUser() == nil {
		return nil, nil
	}
	if _, ok := s.findGoal(goalID); !ok {
		return nil, ErrGoalNotFound
	}

	p := goal.ClampProgress(progress)
	if err := s.deps.Goals.UpdateProgress(ctx, goalID, p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == goalID {
			s.goals[i].Progress = p
			s.goals[i].UpdatedAt = s.now().UTC()
			g := s.goals[i]
			return &g, nil
		}
	}
	return nil, nil
}

// Logout signs out of the identity provider and clears local state even
// when the provider call fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.deps.Identity.SignOut(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Identity provider sign-out failed, clearing local state anyway")
	}
	s.clear()
	return err
}

type ProfileResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// RefreshProfile re-reads the avatar from the current identity session and
// stores it when it changed.
func (s *Store) RefreshProfile(ctx context.Context) ProfileResult {
	log := config.WithContext(ctx)

	u := s.CurrentUser()
	if u == nil {
		return ProfileResult{Message: "You need to sign in first."}
	}

	sess, err := s.deps.Identity.GetSession(ctx)
	if err != nil || sess == nil {
		log.WithError(err).Warn("No identity session to refresh profile from")
		return ProfileResult{Message: "Could not read your account session."}
	}

	avatar := auth.AvatarURL(sess.User)
	if avatar == "" {
		return ProfileResult{Message: "No profile picture found on your account."}
	}
	if avatar == u.AvatarURL {
		return ProfileResult{Success: true, Message: "Profile is already up to date.", AvatarURL: avatar}
	}

	if err := s.deps.Users.UpdateAvatar(ctx, u.ID, avatar); err != nil {
		log.WithError(err).Error("Failed to store refreshed avatar")
		return ProfileResult{Message: "Failed to update your profile picture."}
	}

	s.mu.Lock()
	if s.user != nil && s.user.ID == u.ID {
		s.user.AvatarURL = avatar
	}
	s.mu.Unlock()

	return ProfileResult{Success: true, Message: "Profile picture updated.", AvatarURL: avatar}
}
