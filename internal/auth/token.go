package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// AccessClaims are the claims the identity provider puts in its access
// tokens.
type AccessClaims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// ParseAccessToken verifies an HS256 access token against secret. Expired
// tokens return an error wrapping jwt.ErrTokenExpired.
func ParseAccessToken(secret []byte, tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PeekAccessToken decodes claims without checking the signature. It is only
// used to read expiry and subject when no secret is configured.
func PeekAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (c *AccessClaims) Identity() Identity {
	id := Identity{
		ID:           c.Subject,
		Email:        c.Email,
		UserMetadata: c.UserMetadata,
		AppMetadata:  c.AppMetadata,
	}
	if p, ok := c.AppMetadata["provider"].(string); ok && p != "" {
		id.Identities = []LinkedIdentity{{Provider: p, IdentityData: c.UserMetadata}}
	}
	return id
}
