package security_test

import (
	"testing"
	"time"

	"github.com/Rrens/coworking-reservation/internal/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	userID := primitive.NewObjectID()

	token, expiresAt, err := manager.GenerateToken(userID, "admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("token is empty")
	}

	if until := time.Until(expiresAt); until <= 14*time.Minute || until > 15*time.Minute {
		t.Errorf("unexpected expiry %v from now", until)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	gotID, err := claims.UserID()
	if err != nil {
		t.Fatalf("failed to read user ID: %v", err)
	}
	if gotID != userID {
		t.Errorf("user ID mismatch: got %v, want %v", gotID, userID)
	}

	if claims.Role != "admin" {
		t.Errorf("role mismatch: got %v, want admin", claims.Role)
	}

	if claims.ID == "" {
		t.Error("expected token ID to be set")
	}
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", time.Hour)
	userID := primitive.NewObjectID()

	first, _, err := manager.GenerateToken(userID, "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	second, _, err := manager.GenerateToken(userID, "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	c1, _ := manager.ValidateToken(first)
	c2, _ := manager.ValidateToken(second)
	if c1.ID == c2.ID {
		t.Error("expected distinct token IDs")
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	// Invalid token format
	_, err := manager.ValidateToken("invalid-token")
	if err == nil {
		t.Error("expected error for invalid token, got nil")
	}

	// Empty token
	_, err = manager.ValidateToken("")
	if err == nil {
		t.Error("expected error for empty token, got nil")
	}

	// Token signed with different secret
	otherManager := security.NewJWTManager("different-secret-key-32-chars!!", 15*time.Minute)
	token, _, _ := otherManager.GenerateToken(primitive.NewObjectID(), "user")

	_, err = manager.ValidateToken(token)
	if err == nil {
		t.Error("expected error for token signed with different secret, got nil")
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", -time.Minute)

	token, _, err := manager.GenerateToken(primitive.NewObjectID(), "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestJWTManager_TokenTTL(t *testing.T) {
	ttl := 30 * time.Minute
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", ttl)

	if manager.TokenTTL() != ttl {
		t.Errorf("token TTL mismatch: got %v, want %v", manager.TokenTTL(), ttl)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := security.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if hash == "s3cret-pass" {
		t.Error("hash must not equal plaintext")
	}
	if !security.CheckPassword(hash, "s3cret-pass") {
		t.Error("expected password to match")
	}
	if security.CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to be rejected")
	}
}
