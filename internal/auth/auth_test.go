package auth

import (
	"testing"

	"crm-backend/internal/config"
	"crm-backend/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "crm-backend"
	return cfg
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager(testConfig())

	user := &models.User{ID: 7, Email: "staff@example.com", Role: "staff", IsActive: true}
	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "staff@example.com" || claims.Role != "staff" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := NewJWTManager(testConfig())
	token, err := m.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "staff"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := testConfig()
	other.JWT.Secret = "different-secret"
	if _, err := NewJWTManager(other).ValidateToken(token); err == nil {
		t.Error("token signed with another secret validated")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	m := NewJWTManager(testConfig())
	if _, err := m.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}
