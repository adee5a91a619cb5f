package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "habit-tracker")
	userID, sessionID := uuid.New(), uuid.New()

	token, expiresAt, err := tm.GenerateAccessToken(userID, sessionID)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expiresAt = %v, want in the future", expiresAt)
	}

	claims, err := tm.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != userID || claims.SessionID != sessionID {
		t.Errorf("claims = (%v, %v), want (%v, %v)", claims.UserID, claims.SessionID, userID, sessionID)
	}
}

func TestValidateAccessTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "habit-tracker")
	userID, sessionID := uuid.New(), uuid.New()

	otherSecret, _, _ := NewTokenManager("other", time.Hour, "habit-tracker").GenerateAccessToken(userID, sessionID)
	otherIssuer, _, _ := NewTokenManager("secret", time.Hour, "someone-else").GenerateAccessToken(userID, sessionID)
	expired, _, _ := NewTokenManager("secret", -time.Minute, "habit-tracker").GenerateAccessToken(userID, sessionID)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"expired":      expired,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.ValidateAccessToken(token); err == nil {
				t.Error("ValidateAccessToken() error = nil, want error")
			}
		})
	}
}
