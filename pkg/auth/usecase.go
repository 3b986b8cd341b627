package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor for stored passwords.
const HashCost = 10

// maxPasswordBytes is the longest input bcrypt reads. Longer passwords
// are cut to this length before hashing and comparing.
const maxPasswordBytes = 72

// dummyHash is compared against when the email is unknown so that both
// failing login paths spend the same bcrypt time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), HashCost)
	return h
})

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, username, email, password string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Profile(ctx context.Context, userID string) (User, error)
}

type AuthResult struct {
	User  User
	Token string
}

type authService struct {
	repo   UserRepository
	tokens TokenGenerator
	now    func() time.Time
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, tokens TokenGenerator) AuthUseCase {
	return &authService{repo: repo, tokens: tokens, now: time.Now}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return AuthResult{}, ErrValidation
	}

	// Fast path only: the store's unique index is what actually decides.
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, ErrUserAlreadyExists
	case !errors.Is(err, ErrNotFound):
		return AuthResult{}, storeError(err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword(passwordBytes(password), HashCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return AuthResult{}, ErrUserAlreadyExists
		}
		return AuthResult{}, storeError(err)
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		// a failed registration leaves no account behind
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			return AuthResult{}, fmt.Errorf("issue token: %w", errors.Join(err, storeError(delErr)))
		}
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), passwordBytes(password))
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, storeError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, storeError(err)
	}
	return user, nil
}

func storeError(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
