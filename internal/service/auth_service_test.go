package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/mbpt/peertutor-backend/internal/model"
)

type stubAdminRepo struct {
	byEmail map[string]*model.Admin
	byID    map[int]*model.Admin
}

func (r *stubAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	if a, ok := r.byEmail[email]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAdminRepo) GetByID(_ context.Context, id int) (*model.Admin, error) {
	if a, ok := r.byID[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

type stubIdentityRepo struct {
	student *model.Student
}

func (r *stubIdentityRepo) GetByClerkID(_ context.Context, clerkID string) (*model.Student, error) {
	if r.student != nil && r.student.ClerkStudentID == clerkID {
		return r.student, nil
	}
	return nil, pgx.ErrNoRows
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
}

func TestAuthServiceAdminLoginRoundTrip(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), &stubAdminRepo{}, &stubIdentityRepo{})

	hash, err := svc.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	admin := &model.Admin{ID: 9, Email: "root@example.com", PasswordHash: hash, Role: model.RoleAdmin}
	svc.adminRepo = &stubAdminRepo{byEmail: map[string]*model.Admin{"root@example.com": admin}}

	token, got, err := svc.AdminLogin(context.Background(), "root@example.com", "hunter22")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("wrong admin: %+v", got)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeAdmin || claims.UserID != 9 || claims.Role != model.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthServiceAdminLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), &stubAdminRepo{}, &stubIdentityRepo{})

	hash, _ := svc.HashPassword("correct")
	admin := &model.Admin{ID: 1, Email: "root@example.com", PasswordHash: hash}
	svc.adminRepo = &stubAdminRepo{byEmail: map[string]*model.Admin{"root@example.com": admin}}

	_, _, err := svc.AdminLogin(context.Background(), "root@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceAdminLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), &stubAdminRepo{}, &stubIdentityRepo{})

	_, _, err := svc.AdminLogin(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceStudentLoginChecksEmailPair(t *testing.T) {
	student := &model.Student{ID: 4, ClerkStudentID: "clerk-4", Email: "sam@example.com"}
	svc := NewAuthService(testAuthConfig(), &stubAdminRepo{}, &stubIdentityRepo{student: student})

	token, got, err := svc.StudentLogin(context.Background(), "clerk-4", "sam@example.com")
	if err != nil {
		t.Fatalf("StudentLogin: %v", err)
	}
	if got.ID != 4 {
		t.Fatalf("wrong student: %+v", got)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeStudent || claims.ClerkID != "clerk-4" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	_, _, err = svc.StudentLogin(context.Background(), "clerk-4", "other@example.com")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on email mismatch, got %v", err)
	}
}

func TestAuthServiceValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewAuthService(testAuthConfig(), &stubAdminRepo{}, &stubIdentityRepo{})
	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "some-other-secret"
	verifier := NewAuthService(otherCfg, &stubAdminRepo{}, &stubIdentityRepo{})

	hash, _ := issuer.HashPassword("hunter22")
	admin := &model.Admin{ID: 1, Email: "root@example.com", PasswordHash: hash}
	issuer.adminRepo = &stubAdminRepo{byEmail: map[string]*model.Admin{"root@example.com": admin}}

	token, _, err := issuer.AdminLogin(context.Background(), "root@example.com", "hunter22")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret must not validate")
	}
}
