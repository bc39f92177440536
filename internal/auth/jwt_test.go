package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testKeyPair holds the paths to test keys
type testKeyPair struct {
	privateKeyPath string
	publicKeyPath  string
	cleanup        func()
}

// generateTestKeys creates temporary RSA key files for testing
func generateTestKeys(t *testing.T) *testKeyPair {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "jwt_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	privateKeyPath := filepath.Join(tmpDir, "private.pem")
	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	if writeErr := os.WriteFile(privateKeyPath, privatePEM, 0o600); writeErr != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to write private key: %v", writeErr)
	}

	publicKeyPath := filepath.Join(tmpDir, "public.pem")
	publicKeyBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to marshal public key: %v", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicKeyBytes,
	})
	if writeErr := os.WriteFile(publicKeyPath, publicPEM, 0o600); writeErr != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to write public key: %v", writeErr)
	}

	return &testKeyPair{
		privateKeyPath: privateKeyPath,
		publicKeyPath:  publicKeyPath,
		cleanup:        func() { os.RemoveAll(tmpDir) },
	}
}

func newTestService(t *testing.T, accessExpiry time.Duration) JWTService {
	t.Helper()

	keys := generateTestKeys(t)
	t.Cleanup(keys.cleanup)

	svc, err := NewJWTService(JWTConfig{
		PrivateKeyPath:     keys.privateKeyPath,
		PublicKeyPath:      keys.publicKeyPath,
		AccessTokenExpiry:  accessExpiry,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "feedback-backend-test",
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return svc
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "dept-1", "staff-1", "HOD")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expected expiry in the future")
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.DepartmentID != "dept-1" {
		t.Errorf("DepartmentID = %q, want %q", claims.DepartmentID, "dept-1")
	}
	if claims.StaffID != "staff-1" {
		t.Errorf("StaffID = %q, want %q", claims.StaffID, "staff-1")
	}
	if claims.Role != "HOD" {
		t.Errorf("Role = %q, want %q", claims.Role, "HOD")
	}
}

func TestJWTService_StudentClaimsOmitStaff(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, _, err := svc.GenerateAccessToken("student-1", "dept-1", "", "STUDENT")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.StaffID != "" {
		t.Errorf("StaffID = %q, want empty", claims.StaffID)
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	token, _, err := svc.GenerateAccessToken("user-1", "dept-1", "", "STUDENT")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	_, err = svc.ValidateAccessToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"tampered", "eyJhbGciOiJSUzUxMiJ9.tampered.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateAccessToken(tt.token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	pair, err := svc.GenerateTokenPair("user-1", "dept-1", "staff-1", "FACULTY")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}

	// An access token must not validate as a refresh token
	if _, err := svc.ValidateRefreshToken(pair.AccessToken); err == nil {
		t.Error("expected access token to fail refresh validation")
	}
}

func TestNewJWTService_MissingKeys(t *testing.T) {
	_, err := NewJWTService(JWTConfig{
		PrivateKeyPath: "/nonexistent/private.pem",
		PublicKeyPath:  "/nonexistent/public.pem",
	})
	if err == nil {
		t.Fatal("expected error for missing key files")
	}
}
