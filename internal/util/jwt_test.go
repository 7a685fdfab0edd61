package util

import (
	"quizdeck_backend/internal/model"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 7},
		Login:     "Superallyman",
		Email:     "super@example.com",
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT returned error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Login != "Superallyman" {
		t.Errorf("Login = %q, want Superallyman", claims.Login)
	}
	if claims.Email != "super@example.com" {
		t.Errorf("Email = %q, want super@example.com", claims.Email)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Login: "someone"}
	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Error("ParseJWT should reject a token signed with another secret")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Login: "someone"}
	token, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Error("ParseJWT should reject an expired token")
	}
}
