package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rizzource/rizzource-backend/pkg/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndVerifyToken(t *testing.T) {
	maker := NewJWTMaker(testSecret)
	uid := uuid.New()

	signed, claims, err := maker.GenerateToken(uid, "admin@law.edu", model.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if claims.Role != model.RoleAdmin {
		t.Fatalf("expected role claim admin, got %s", claims.Role)
	}

	parsed, err := maker.VerifyToken(signed)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if parsed.UserID != uid || parsed.Email != "admin@law.edu" || parsed.Role != model.RoleAdmin {
		t.Fatalf("claims do not round-trip: %+v", parsed)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	maker := NewJWTMaker(testSecret)

	signed, _, err := maker.GenerateToken(uuid.New(), "m@law.edu", model.RoleMentee, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := maker.VerifyToken(signed); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, _, err := NewJWTMaker(testSecret).GenerateToken(uuid.New(), "m@law.edu", model.RoleMentor, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewJWTMaker("ffffffffffffffffffffffffffffffff").VerifyToken(signed); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}
