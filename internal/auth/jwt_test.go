package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "super-secret-test-key"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("admin", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("Subject: got %q, want %q", claims.Subject, "admin")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("lifetime: got %v, want 1h", got)
	}
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	token, err := GenerateToken("admin", testSecret, 0)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != DefaultTokenTTL {
		t.Errorf("lifetime: got %v, want %v", got, DefaultTokenTTL)
	}
}

func TestParseToken_InvalidSecret(t *testing.T) {
	token, err := GenerateToken("admin", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(token, "wrong-secret"); err == nil {
		t.Fatal("expected error for invalid secret, got nil")
	}
}

func TestParseToken_Malformed(t *testing.T) {
	if _, err := ParseToken("not.a.real.token", testSecret); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}

func TestParseToken_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token, err := sign(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
	}}, testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestParseToken_MissingSubject(t *testing.T) {
	token, err := sign(Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}, testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("expected error for token without subject, got nil")
	}
}

func TestParseToken_AlgNone(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}

func TestAdminVerifier(t *testing.T) {
	v, err := NewAdminVerifier("admin", "s3cret", "")
	if err != nil {
		t.Fatalf("NewAdminVerifier: %v", err)
	}
	if err := v.Verify("admin", "s3cret"); err != nil {
		t.Errorf("Verify correct credentials: %v", err)
	}
	if err := v.Verify("admin", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: got %v", err)
	}
	if err := v.Verify("root", "s3cret"); err != ErrInvalidCredentials {
		t.Errorf("wrong username: got %v", err)
	}
	if !v.IsAdmin("admin") || v.IsAdmin("someone") {
		t.Error("IsAdmin mismatch")
	}
}

func TestAdminVerifier_Hash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	v, err := NewAdminVerifier("admin", "ignored", string(hash))
	if err != nil {
		t.Fatalf("NewAdminVerifier: %v", err)
	}
	if err := v.Verify("admin", "hunter2"); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := v.Verify("admin", "ignored"); err == nil {
		t.Error("hash takes precedence over plaintext password")
	}

	if _, err := NewAdminVerifier("admin", "", "not-a-bcrypt-hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
	if _, err := NewAdminVerifier("admin", "", ""); err == nil {
		t.Error("expected error for empty password")
	}
	if _, err := NewAdminVerifier("", "pw", ""); err == nil {
		t.Error("expected error for empty username")
	}
}
