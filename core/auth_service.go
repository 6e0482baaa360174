package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenTypeBearer tags issued credentials with their presentation scheme.
const TokenTypeBearer = "bearer"

type LoginResult struct {
	User      *User
	Token     string
	TokenType string
}

type AuthService struct {
	repo     Repository
	config   *Config
	provider IdentityProvider
}

func NewAuthService(repo Repository, config *Config, provider IdentityProvider) *AuthService {
	return &AuthService{
		repo:     repo,
		config:   config,
		provider: provider,
	}
}

// AuthorizationURL builds the provider authorization URL for the given CSRF
// state token.
func (s *AuthService) AuthorizationURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// Login runs the callback pipeline: exchange the authorization code for the
// provider profile, resolve the local account, mint a bearer token.
func (s *AuthService) Login(ctx context.Context, code string) (*LoginResult, error) {
	// 1. Exchange authorization code for the end-user's profile
	profile, err := s.provider.Authenticate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with provider: %w", err)
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("%w: email", ErrProfileIncomplete)
	}

	// 2. Find or create the local account
	user, err := s.resolveAccount(ctx, profile)
	if err != nil {
		return nil, err
	}

	// 3. Generate JWT access token
	token, err := GenerateAccessToken(user, s.config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		TokenType: TokenTypeBearer,
	}, nil
}

// resolveAccount looks up the profile's email and lazily provisions an account
// the first time it is seen. Existing accounts are reused as-is; a fresher
// provider name never overwrites the stored one.
func (s *AuthService) resolveAccount(ctx context.Context, profile *Profile) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if err != ErrNotFound {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	placeholder, err := GeneratePlaceholderCredential()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user = &User{
		ID:           uuid.New(),
		Name:         profile.Name,
		Email:        profile.Email,
		PasswordHash: placeholder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if err == ErrAlreadyExists {
			// Lost a creation race for this email; the winning row is the account.
			return s.repo.FindByEmail(ctx, profile.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
