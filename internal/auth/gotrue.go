package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type Config struct {
	URL        string
	AnonKey    string
	JWTSecret  string
	HTTPClient *http.Client
	Store      SessionStore
}

// APIError is an error answer from the identity service.
type APIError struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Message     string `json:"msg"`
}

func (e *APIError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = e.Code
	}
	return fmt.Sprintf("identity provider: status %d: %s", e.Status, msg)
}

// Client is a PKCE OAuth client for a GoTrue-compatible identity service.
// It keeps the current session in a SessionStore and notifies subscribers
// of sign-in, sign-out and refresh.
type Client struct {
	baseURL    string
	anonKey    string
	jwtSecret  []byte
	httpClient *http.Client
	store      SessionStore
	events     emitter
	now        func() time.Time

	mu       sync.Mutex
	verifier string
}

var _ Provider = (*Client)(nil)

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
		store:      store,
		now:        time.Now,
	}
	if cfg.JWTSecret != "" {
		c.jwtSecret = []byte(cfg.JWTSecret)
	}
	return c
}

func (c *Client) OnAuthStateChange(handler ChangeHandler) Subscription {
	return c.events.subscribe(handler)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		if apiErr.Code == "" && apiErr.Description == "" && apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// SignInWithOAuth starts a PKCE flow and returns the URL the browser must
// visit. The verifier is kept until ExchangeCodeForSession consumes it.
func (c *Client) SignInWithOAuth(ctx context.Context, opts OAuthOptions) (string, error) {
	if opts.Provider == "" {
		return "", fmt.Errorf("oauth provider is required")
	}

	verifier := oauth2.GenerateVerifier()
	c.mu.Lock()
	c.verifier = verifier
	c.mu.Unlock()

	q := url.Values{}
	q.Set("provider", opts.Provider)
	if opts.RedirectTo != "" {
		q.Set("redirect_to", opts.RedirectTo)
	}
	if opts.Scopes != "" {
		q.Set("scopes", opts.Scopes)
	}
	q.Set("code_challenge", oauth2.S256ChallengeFromVerifier(verifier))
	q.Set("code_challenge_method", "s256")
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}

	config.WithContext(ctx).WithField("provider", opts.Provider).Info("Starting OAuth sign-in")
	return c.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}

func (c *Client) ExchangeCodeForSession(ctx context.Context, code string) (*Session, error) {
	c.mu.Lock()
	verifier := c.verifier
	c.verifier = ""
	c.mu.Unlock()

	if verifier == "" {
		return nil, ErrMissingVerifier
	}

	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=pkce", "", map[string]string{
		"auth_code":     code,
		"code_verifier": verifier,
	}, &s)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, &s, EventSignedIn)
}

// SetSession adopts tokens delivered in the callback URL fragment.
func (c *Client) SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	var claims *AccessClaims
	var err error
	if c.jwtSecret != nil {
		claims, err = ParseAccessToken(c.jwtSecret, accessToken)
	} else {
		claims, err = PeekAccessToken(accessToken)
	}
	if err != nil {
		return nil, err
	}

	s := &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         claims.Identity(),
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Unix()
	}

	if c.jwtSecret == nil {
		user, err := c.GetUser(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		s.User = *user
	}
	return c.establish(ctx, s, EventSignedIn)
}

func (c *Client) establish(ctx context.Context, s *Session, event ChangeEvent) (*Session, error) {
	s.normalize(c.now())
	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	config.WithContext(ctx).WithFields(logrus.Fields{
		"event": event,
		"email": s.User.Email,
	}).Info("Identity session established")
	c.events.emit(event, s)
	return s, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// GetSession returns the stored session, refreshing it first when the
// access token has expired. No session is (nil, nil).
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	s, err := c.store.Load(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if !s.Expired() {
		return s, nil
	}
	if s.RefreshToken == "" {
		return nil, ErrNoSession
	}
	return c.refresh(ctx, s.RefreshToken)
}

// RefreshSession forces a token refresh of the stored session.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	s, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil || s.RefreshToken == "" {
		return nil, ErrNoSession
	}
	return c.refresh(ctx, s.RefreshToken)
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": refreshToken,
	}, &s)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Session refresh failed")
		return nil, err
	}
	return c.establish(ctx, &s, EventTokenRefreshed)
}

// SignOut revokes the session remotely and always clears it locally. The
// remote error, if any, is returned after the local state is gone.
func (c *Client) SignOut(ctx context.Context) error {
	log := config.WithContext(ctx)

	s, err := c.store.Load(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to load session for sign-out")
	}

	var remoteErr error
	if s != nil && s.AccessToken != "" {
		remoteErr = c.do(ctx, http.MethodPost, "/auth/v1/logout", s.AccessToken, nil, nil)
		if remoteErr != nil {
			log.WithError(remoteErr).Warn("Remote sign-out failed")
		}
	}

	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.events.emit(EventSignedOut, nil)
	return remoteErr
}
