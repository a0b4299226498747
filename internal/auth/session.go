package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// LinkedIdentity is one upstream account (e.g. Google) attached to an
// identity-provider user.
type LinkedIdentity struct {
	Provider     string                 `json:"provider"`
	IdentityData map[string]interface{} `json:"identity_data"`
}

// Identity is the identity-provider user embedded in a session.
type Identity struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	Identities   []LinkedIdentity       `json:"identities"`
}

type Session struct {
	AccessToken          string   `json:"access_token"`
	RefreshToken         string   `json:"refresh_token"`
	TokenType            string   `json:"token_type"`
	ExpiresIn            int64    `json:"expires_in"`
	ExpiresAt            int64    `json:"expires_at"`
	ProviderToken        string   `json:"provider_token,omitempty"`
	ProviderRefreshToken string   `json:"provider_refresh_token,omitempty"`
	User                 Identity `json:"user"`
}

// normalize fills ExpiresAt from ExpiresIn when the server only sent the
// relative value.
func (s *Session) normalize(now time.Time) {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
	if s.TokenType == "" {
		s.TokenType = "bearer"
	}
}

func (s *Session) Token() *oauth2.Token {
	t := &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
	}
	if s.ExpiresAt > 0 {
		t.Expiry = time.Unix(s.ExpiresAt, 0)
	}
	return t
}

// Expired reports whether the access token is at or near its expiry.
func (s *Session) Expired() bool {
	return !s.Token().Valid()
}
