package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/port"
)

// AuthService issues and verifies the short-lived bearer credentials
// that gate every request. Tokens are HS256-signed and carry the
// account id as subject plus an expiry; there is no refresh flow.
type AuthService struct {
	accounts port.AccountRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(accounts port.AccountRepository, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		accounts: accounts,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register creates an account and returns the principal with a fresh
// token. Fails with domain.ErrDuplicateEmail when the email is taken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Principal, string, error) {
	if name == "" {
		return nil, "", domain.NewValidationError("name", "required")
	}
	if email == "" {
		return nil, "", domain.NewValidationError("email", "required")
	}
	if password == "" {
		return nil, "", domain.NewValidationError("password", "required")
	}

	existing, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return nil, "", domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, "", domain.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	return s.issue(account)
}

// Login verifies the password against the stored adaptive hash. A
// malformed stored hash is treated as a failed match, never surfaced as
// a server fault.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Principal, string, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		return nil, "", domain.ErrUnauthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrUnauthenticated
	}
	return s.issue(account)
}

// Verify parses and validates a bearer token and resolves the acting
// principal. Any token fault, including an account that no longer
// exists, fails with domain.ErrUnauthenticated.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Principal{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
	}, nil
}

func (s *AuthService) issue(account *domain.Account) (*domain.Principal, string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(account.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	principal := &domain.Principal{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
	}
	return principal, token, nil
}
