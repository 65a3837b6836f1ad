package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"tinhnguyen/internal/model/auth"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/id"
	"tinhnguyen/internal/pkg/jwt"
	"tinhnguyen/internal/pkg/password"
	authRepo "tinhnguyen/internal/repository/auth"
	userRepo "tinhnguyen/internal/repository/user"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
)

// AuthService is the identity provider of the system: it owns credentials,
// issues tokens, and creates the implicit pending user record on first
// registration. Role changes are not its business; those belong to the
// registration and roster services.
type AuthService struct {
	users            *userRepo.Repo
	refreshTokenRepo *authRepo.RefreshTokenRepo
	jwt              *jwt.JWT
	refreshExpiry    time.Duration
}

// NewAuthService creates the auth service.
func NewAuthService(
	users *userRepo.Repo,
	refreshTokenRepo *authRepo.RefreshTokenRepo,
	jwtSecret string,
	accessTokenExpiry time.Duration,
	refreshTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		users:            users,
		refreshTokenRepo: refreshTokenRepo,
		jwt:              jwt.NewJWT(jwtSecret, accessTokenExpiry),
		refreshExpiry:    refreshTokenExpiry,
	}
}

// RegisterResult is returned on successful sign-up.
type RegisterResult struct {
	UserID      string
	Email       string
	Role        string
	Destination Destination
}

// Register creates credentials and the implicit user record. New accounts
// always start as pending; membership is gained through the registration
// approval workflow, never at sign-up.
func (s *AuthService) Register(ctx context.Context, email, pwd string) (*RegisterResult, error) {
	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hashedPassword, err := password.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, errors.New("failed to hash password")
	}

	u := &user.User{
		ID:       id.New(),
		Email:    email,
		Password: hashedPassword,
		Role:     user.RolePending,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, ErrEmailTaken
		}
		log.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	dest, _ := Route(u) // pending always routes

	return &RegisterResult{
		UserID:      u.ID,
		Email:       u.Email,
		Role:        u.Role.String(),
		Destination: dest,
	}, nil
}

// LoginResult is returned on successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
	User         *user.User
	Destination  Destination
}

// Login verifies credentials and issues the token pair. The routing
// destination rides along so the frontend lands the user on the right
// surface immediately.
func (s *AuthService) Login(ctx context.Context, email, pwd string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !password.Verify(pwd, u.Password) {
		return nil, ErrInvalidPassword
	}

	dest, err := Route(u)
	if err != nil {
		// Corrupt role value: refuse the login rather than guess a surface.
		return nil, err
	}

	accessToken, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role.String())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, errors.New("failed to generate token")
	}

	refreshTokenValue := jwt.GenerateRefreshToken()
	refreshToken := &auth.RefreshToken{
		ID:        id.New(),
		UserID:    u.ID,
		Token:     refreshTokenValue,
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		log.Error().Err(err).Msg("failed to create refresh token")
		return nil, errors.New("failed to create refresh token")
	}

	if err := s.users.UpdateLastLoginAt(ctx, u.ID); err != nil {
		log.Warn().Err(err).Msg("failed to update last login time")
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenValue,
		ExpiresIn:    int(s.jwt.GetExpiration().Seconds()),
		TokenType:    "Bearer",
		User:         u,
		Destination:  dest,
	}, nil
}

// RefreshTokenResult is returned when an access token is renewed.
type RefreshTokenResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenValue string) (*RefreshTokenResult, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenValue)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if refreshToken.IsExpired() {
		_ = s.refreshTokenRepo.DeleteByToken(ctx, refreshTokenValue)
		return nil, ErrExpiredToken
	}

	u, err := s.users.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	accessToken, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role.String())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, errors.New("failed to generate token")
	}

	return &RefreshTokenResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwt.GetExpiration().Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// Logout revokes a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshTokenValue string) error {
	return s.refreshTokenRepo.DeleteByToken(ctx, refreshTokenValue)
}

// GetUserByID loads a user.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ValidateToken verifies an access token and loads the current user record.
// The stored record wins over the token claims: a user promoted or deleted
// after the token was issued is seen with their current state.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*user.User, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return u, nil
}
