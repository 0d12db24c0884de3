package service

import (
	"context"
	"fmt"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/token"
	"github.com/recipehub/recipe-service/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair carries a freshly issued credential set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a new user with a hashed password and issues tokens.
func (s *Service) Register(ctx context.Context, in *validation.UserRegistrationInput) (*models.User, *TokenPair, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		FullName:     in.FullName,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}

	if s.mailer != nil {
		// Welcome mail is best effort; registration already succeeded.
		if err := s.mailer.SendWelcome(user.Email, user.Username); err != nil {
			s.log.Warnf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, pair, nil
}

// Login authenticates a user by email or username plus password and issues
// tokens.
func (s *Service) Login(ctx context.Context, in *validation.UserLoginInput) (*models.User, *TokenPair, error) {
	invalid := apperrors.New(apperrors.KindInvalidCredentials, "invalid credentials")

	var user *models.User
	var err error
	if in.Email != "" {
		user, err = s.store.GetUserByEmail(ctx, in.Email)
	} else {
		user, err = s.store.GetUserByUsername(ctx, in.Username)
	}
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, nil, invalid
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, invalid
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Infof("User logged in: %s", user.Email)
	return user, pair, nil
}

// Refresh verifies a refresh token and issues a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, terr := s.tokens.Parse(refreshToken, token.TypeRefresh)
	if terr != nil {
		return "", terr
	}
	// The account must still exist for the refresh to be honored.
	if _, err := s.requireUser(ctx, claims.UserID); err != nil {
		return "", err
	}
	access, err := s.tokens.IssueAccess(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return access, nil
}

// Profile returns the caller's own account.
func (s *Service) Profile(ctx context.Context, callerID int64) (*models.User, error) {
	return s.requireUser(ctx, callerID)
}

// UpdateProfile applies a partial profile update to the caller's account.
func (s *Service) UpdateProfile(ctx context.Context, callerID int64, in *validation.UserUpdateInput) (*models.User, error) {
	user, err := s.requireUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = in.FullName
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}
	if in.ProfileImage != nil {
		user.ProfileImage = in.ProfileImage
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Infof("Profile updated for user %d", user.ID)
	return user, nil
}

func (s *Service) issueTokens(userID int64) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
