package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
)

// revokedTokenTTL keeps blacklisted tokens in Redis at least as long as the
// longest-lived token (the 7-day refresh token) stays valid.
const revokedTokenTTL = 7 * 24 * time.Hour

// TokenPair is the issued access + refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService registers accounts and issues, refreshes, and revokes tokens.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a user account with a bcrypt-hashed password.
func (s *AuthService) Register(name, email, password string) (models.User, TokenPair, error) {
	taken, err := s.users.ExistsByEmail(email)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: check email: %w", err)
	}
	if taken {
		return models.User{}, TokenPair{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: models.RoleUser}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: create user: %w", err)
	}

	pair, err := s.issueTokens(user)
	return user, pair, err
}

// Login verifies credentials and issues a fresh token pair.
func (s *AuthService) Login(email, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	return user, pair, err
}

// Me loads the authenticated user's profile.
func (s *AuthService) Me(userID uint) (models.User, error) {
	return s.users.FindByID(userID)
}

// Refresh validates a refresh token and issues a new pair. The old refresh
// token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	var revoked bool
	if cache.Get("auth:revoked:"+refreshToken, &revoked) && revoked {
		return TokenPair{}, ErrInvalidCredentials
	}

	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	s.revoke(refreshToken)
	return s.issueTokens(user)
}

// Logout blacklists the presented token until it would have expired anyway.
func (s *AuthService) Logout(token string) {
	s.revoke(token)
}

func (s *AuthService) revoke(token string) {
	cache.Set("auth:revoked:"+token, true, revokedTokenTTL)
}

func (s *AuthService) issueTokens(user models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: access token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}, nil
}
