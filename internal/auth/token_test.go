package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saulo-duarte/swayami/internal/auth"
)

const testSecret = "a-long-and-secure-secret-for-tests"
const testUserID = "user-123"

func signToken(t *testing.T, secret string, claims auth.AccessClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func claimsFor(expiresIn time.Duration) auth.AccessClaims {
	return auth.AccessClaims{
		Email:        "ana@example.com",
		Role:         "authenticated",
		UserMetadata: map[string]interface{}{"full_name": "Ana Lima", "avatar_url": "https://img.example.com/ana.png"},
		AppMetadata:  map[string]interface{}{"provider": "google"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testUserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func TestParseAccessToken(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		tokenStr := signToken(t, testSecret, claimsFor(5*time.Minute))

		claims, err := auth.ParseAccessToken([]byte(testSecret), tokenStr)
		if err != nil {
			t.Fatalf("ParseAccessToken failed unexpectedly: %v", err)
		}
		if claims.Subject != testUserID {
			t.Errorf("wrong subject. Expected: %s, Got: %s", testUserID, claims.Subject)
		}

		id := claims.Identity()
		if id.Email != "ana@example.com" {
			t.Errorf("wrong email: %s", id.Email)
		}
		if len(id.Identities) != 1 || id.Identities[0].Provider != "google" {
			t.Errorf("expected one google identity, got %+v", id.Identities)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr := signToken(t, testSecret, claimsFor(-time.Minute))

		_, err := auth.ParseAccessToken([]byte(testSecret), tokenStr)
		if err == nil {
			t.Fatal("ParseAccessToken should have failed with an expired token")
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("wrong error for expired token. Expected: %v, Got: %v", jwt.ErrTokenExpired, err)
		}
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		tokenStr := signToken(t, testSecret, claimsFor(time.Minute))

		_, err := auth.ParseAccessToken([]byte("a-different-fake-secret"), tokenStr)
		if err == nil {
			t.Fatal("ParseAccessToken should have failed with an invalid signature")
		}
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			t.Errorf("wrong error for invalid signature: %v", err)
		}
	})

	t.Run("PeekWithoutSecret", func(t *testing.T) {
		tokenStr := signToken(t, testSecret, claimsFor(time.Minute))

		claims, err := auth.PeekAccessToken(tokenStr)
		if err != nil {
			t.Fatalf("PeekAccessToken failed: %v", err)
		}
		if claims.Subject != testUserID {
			t.Errorf("wrong subject: %s", claims.Subject)
		}

		if _, err := auth.PeekAccessToken("not-a-jwt"); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
