package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/saulo-duarte/swayami/internal/app"
	"github.com/saulo-duarte/swayami/internal/auth"
	"github.com/saulo-duarte/swayami/internal/calendar"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/docstore"
	"github.com/saulo-duarte/swayami/internal/goal"
	"github.com/saulo-duarte/swayami/internal/journal"
	"github.com/saulo-duarte/swayami/internal/router"
	"github.com/saulo-duarte/swayami/internal/session"
	"github.com/saulo-duarte/swayami/internal/suggest"
	"github.com/saulo-duarte/swayami/internal/task"
	"github.com/saulo-duarte/swayami/internal/user"
	gcal "google.golang.org/api/calendar/v3"
)

const googleScopes = "email profile " + gcal.CalendarEventsScope

type Container struct {
	Config   config.Config
	DocStore docstore.Client
	Backend  docstore.Backend
	Identity *auth.Client
	Store    *app.Store
	Bridge   *session.Bridge
	Handler  *app.Handler

	closers []func() error
}

func New(ctx context.Context, cfg config.Config) (*Container, error) {
	log := config.WithContext(ctx)
	c := &Container{Config: cfg}

	db, backend, err := docstore.Open(ctx, cfg.DocStore)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	c.DocStore, c.Backend = db, backend

	sessions, err := c.sessionStore(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	c.Identity = auth.NewClient(auth.Config{
		URL:        cfg.Identity.URL,
		AnonKey:    cfg.Identity.AnonKey,
		JWTSecret:  cfg.Identity.JWTSecret,
		HTTPClient: httpClient,
		Store:      sessions,
	})

	var cal calendar.Manager
	if cfg.Calendar.Enabled {
		cal = calendar.NewManager(calendar.NewCalendarService())
		log.Info("Calendar mirroring enabled")
	}

	c.Store = app.NewStore(app.Dependencies{
		Users:       user.NewRepository(db),
		Goals:       goal.NewRepository(db),
		Tasks:       task.NewRepository(db),
		Journals:    journal.NewRepository(db),
		Suggestions: suggest.NewService(suggest.NewProvider(ctx, cfg.AI, httpClient)),
		Identity:    c.Identity,
		Calendar:    cal,
	})
	c.Bridge = session.NewBridge(c.Identity, c.Store)

	scopes := "email profile"
	if cfg.Calendar.Enabled {
		scopes = googleScopes
	}
	c.Handler = app.NewHandler(c.Store, c.Bridge, app.OAuthSettings{
		Provider:    cfg.Identity.Provider,
		RedirectURL: cfg.RedirectURL(),
		Scopes:      scopes,
		AwaitDelay:  session.AwaitDelay,
	})

	log.WithField("backend", backend).Info("Container ready")
	return c, nil
}

// sessionStore keeps sessions in Redis when configured, in memory
// otherwise.
func (c *Container) sessionStore(ctx context.Context) (auth.SessionStore, error) {
	cfg := c.Config.Session
	if cfg.RedisURL == "" {
		return auth.NewMemoryStore(), nil
	}

	var cipher *config.Cipher
	if cfg.CryptoKey != "" {
		var err error
		cipher, err = config.NewCipher(cfg.CryptoKey)
		if err != nil {
			return nil, fmt.Errorf("session crypto key: %w", err)
		}
	} else {
		config.WithContext(ctx).Warn("Session crypto key not set, tokens are stored in clear text")
	}

	store, err := session.NewRedisStore(cfg.RedisURL, cipher)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, store.Close)
	return store, nil
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		AppHandler:    c.Handler,
		Guard:         c.Store,
		StaticDir:     c.Config.StaticDir,
		AllowedOrigin: c.Config.PublicURL,
	})
}

// Start restores any saved session and begins following identity events.
func (c *Container) Start(ctx context.Context) {
	c.Bridge.Start(ctx)
}

func (c *Container) Close() error {
	c.Bridge.Close()

	var errs []error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
