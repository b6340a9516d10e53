package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tour_catalog/internal/domain"
)

const (
	TokenTTL = 24 * time.Hour
	HashCost = bcrypt.DefaultCost
)

// Claims is the payload of an admin session token.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	admins domain.AdminRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(r domain.AdminRepository, secret string) *AuthService {
	return &AuthService{admins: r, secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks the credentials and returns a signed session token. Unknown
// users and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if err := validateStruct(loginInput{Username: username, Password: password}); err != nil {
		return "", err
	}
	admin, err := s.admins.FindAdminByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		burnCompare(password)
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("find admin: %w", err)
	}
	if admin.PasswordHash == "" {
		burnCompare(password)
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.issue(admin)
}

func (s *AuthService) issue(a domain.Admin) (string, error) {
	now := s.now()
	claims := Claims{
		ID:       a.ID.Hex(),
		Username: a.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

// Verify parses a session token and returns its claims.
func (s *AuthService) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return &claims, nil
}

// CreateAdmin stores a new admin with a bcrypt hash of password.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (string, error) {
	if err := validateStruct(loginInput{Username: username, Password: password}); err != nil {
		return "", err
	}
	if _, err := s.admins.FindAdminByUsername(ctx, username); err == nil {
		return "", fmt.Errorf("%w: username %q already exists", domain.ErrValidation, username)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	id, err := s.admins.InsertAdmin(ctx, domain.Admin{Username: username, PasswordHash: hash})
	if err != nil {
		return "", fmt.Errorf("insert admin: %w", err)
	}
	return id.Hex(), nil
}

// RehashLegacy replaces the plaintext password of a legacy admin record
// with its bcrypt hash.
func (s *AuthService) RehashLegacy(ctx context.Context, a domain.Admin) error {
	if a.LegacyPassword == "" {
		return nil
	}
	hash, err := HashPassword(a.LegacyPassword)
	if err != nil {
		return err
	}
	return s.admins.SetPasswordHash(ctx, a.ID, hash)
}

// LegacyAdmins lists admin records still holding a plaintext password.
func (s *AuthService) LegacyAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.admins.ListLegacyAdmins(ctx)
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// burnCompare spends one bcrypt comparison so unknown usernames cost the
// same as wrong passwords.
func burnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), HashCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
