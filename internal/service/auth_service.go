package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/mbpt/peertutor-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login attempt fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenType distinguishes student vs admin tokens.
type TokenType string

const (
	TokenTypeStudent TokenType = "student"
	TokenTypeAdmin   TokenType = "admin"
)

// Claims extends JWT standard claims with app-specific fields. ClerkID ties a
// student token back to the identity-provider principal; Role is set on admin
// tokens only.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType       `json:"token_type"`
	UserID    int             `json:"user_id"`
	ClerkID   string          `json:"clerk_id,omitempty"`
	Role      model.AdminRole `json:"role,omitempty"`
}

type adminCredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id int) (*model.Admin, error)
}

type studentIdentityStore interface {
	GetByClerkID(ctx context.Context, clerkID string) (*model.Student, error)
}

// AuthService handles authentication and JWT issuing/validation. Student
// identity originates from the external clerk provider; the locally signed
// token only carries that identity between requests.
type AuthService struct {
	cfg         *config.Config
	adminRepo   adminCredentialStore
	studentRepo studentIdentityStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, adminRepo adminCredentialStore, studentRepo studentIdentityStore) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo, studentRepo: studentRepo}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// AdminLogin verifies an email/password pair and returns a signed admin token.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *model.Admin, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load admin: %w", err)
	}
	if err := s.CheckPassword(admin.PasswordHash, password); err != nil {
		return "", nil, err
	}

	token, err := s.signToken(Claims{
		RegisteredClaims: s.registeredClaims(strconv.Itoa(admin.ID)),
		TokenType:        TokenTypeAdmin,
		UserID:           admin.ID,
		Role:             admin.Role,
	})
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// StudentLogin verifies that the clerk ID and email pair matches a stored
// student and returns a signed student token.
func (s *AuthService) StudentLogin(ctx context.Context, clerkID, email string) (string, *model.Student, error) {
	student, err := s.studentRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load student: %w", err)
	}
	if student.Email != email {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.signToken(Claims{
		RegisteredClaims: s.registeredClaims(strconv.Itoa(student.ID)),
		TokenType:        TokenTypeStudent,
		UserID:           student.ID,
		ClerkID:          student.ClerkStudentID,
	})
	if err != nil {
		return "", nil, err
	}
	return token, student, nil
}

// GetAdmin loads the admin behind a validated token.
func (s *AuthService) GetAdmin(ctx context.Context, id int) (*model.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Admin", id)
		}
		return nil, err
	}
	return admin, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) registeredClaims(subject string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
	}
}

func (s *AuthService) signToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
