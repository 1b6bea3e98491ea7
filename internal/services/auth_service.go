// Package services – AuthService
//
// This file implements account signup, login, email verification, and the
// password-reset flow. Password hashing and token mechanics are delegated
// to internal/security; email delivery to internal/mail. The service owns
// the business rules: email uniqueness, verified-only login, token TTLs per
// purpose, and company-id generation for company accounts.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/morseverse/backend/internal/config"
	"github.com/morseverse/backend/internal/domain"
	"github.com/morseverse/backend/internal/mail"
	"github.com/morseverse/backend/internal/repo"
	"github.com/morseverse/backend/internal/security"
)

// UserStore defines the persistence contract required by AuthService.
type UserStore interface {
	InsertUser(ctx context.Context, u *domain.User) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	MarkUserVerified(ctx context.Context, id primitive.ObjectID) error
	UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Email     string
	Password  string
	FullName  string
	IsCompany bool
	Promo     bool
}

// AuthService implements the account lifecycle.
type AuthService struct {
	Store  UserStore
	Mail   mail.Sender
	Tokens *security.TokenIssuer
	Cfg    config.AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(store UserStore, sender mail.Sender, tokens *security.TokenIssuer, cfg config.AuthConfig) *AuthService {
	return &AuthService{Store: store, Mail: sender, Tokens: tokens, Cfg: cfg}
}

// Signup registers a new account and sends the verification email. The email
// must not already be registered. Company accounts get a generated company
// identifier. A failure to deliver the verification email fails the whole
// operation: an account nobody can verify is not a successful signup.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if _, err := s.Store.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	var hash string
	if in.Password != "" {
		h, err := security.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var companyID string
	if in.IsCompany {
		companyID = primitive.NewObjectID().Hex()
	}

	user := &domain.User{
		Email:          in.Email,
		HashedPassword: hash,
		FullName:       in.FullName,
		IsActive:       true,
		IsCompany:      in.IsCompany,
		CompanyID:      companyID,
		Promo:          in.Promo,
		DateJoined:     time.Now().UTC(),
	}
	user, err := s.Store.InsertUser(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID.Hex(), security.PurposeVerify, s.Cfg.VerifyTokenTTL)
	if err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s/verify-email?token=%s", s.Cfg.Domain, token)
	body, err := mail.VerificationBody(link)
	if err != nil {
		return nil, err
	}
	if err := s.Mail.Send([]string{user.Email}, "Email Verification", body); err != nil {
		return nil, fmt.Errorf("send verification email: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns an access token. Unknown email,
// wrong password, and password-less accounts all map to
// ErrInvalidCredentials; unverified accounts to ErrNotVerified.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Store.FindUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if user.HashedPassword == "" || !security.VerifyPassword(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}
	if !user.IsVerified {
		return "", ErrNotVerified
	}
	return s.Tokens.Issue(user.ID.Hex(), security.PurposeAccess, s.Cfg.AccessTokenTTL)
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	id, err := s.userIDFromToken(token, security.PurposeVerify)
	if err != nil {
		return err
	}
	if err := s.Store.MarkUserVerified(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// ForgotPassword emails a reset link to a registered address.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.Store.FindUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrEmailNotFound
	}
	if err != nil {
		return err
	}

	token, err := s.Tokens.Issue(user.ID.Hex(), security.PurposeReset, s.Cfg.ResetTokenTTL)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.Cfg.Domain, token)
	body, err := mail.ResetBody(link)
	if err != nil {
		return err
	}
	return s.Mail.Send([]string{user.Email}, "Password Reset", body)
}

// ResetPassword consumes a reset token and replaces the stored password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	id, err := s.userIDFromToken(token, security.PurposeReset)
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateUserPassword(ctx, id, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// userIDFromToken parses a token of the expected purpose and decodes its
// user_id claim as an ObjectId.
func (s *AuthService) userIDFromToken(token string, purpose security.TokenPurpose) (primitive.ObjectID, error) {
	uid, err := s.Tokens.Parse(token, purpose)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return primitive.NilObjectID, security.ErrInvalidToken
	}
	return id, nil
}
