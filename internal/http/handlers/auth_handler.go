// Account lifecycle HTTP handlers.
//
// This file exposes the authentication endpoints:
//   - POST /auth/signup           (register, triggers verification email)
//   - POST /auth/login            (exchange credentials for a bearer token)
//   - GET  /auth/verify-email     (confirm the emailed verification token)
//   - POST /auth/forgot-password  (send a password reset email)
//   - POST /auth/reset-password   (set a new password with a reset token)
//
// Handlers validate payload shape only; credential checks, token issuance,
// and email delivery live in services.AuthService.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/morseverse/backend/internal/domain"
	"github.com/morseverse/backend/internal/security"
	"github.com/morseverse/backend/internal/services"
)

//
// DTOs
//

// SignupRequest is the JSON payload for account registration.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@example.com"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" example:"Ada Lovelace"`
	// IsCompany requests a company account; a company identifier is generated.
	IsCompany bool `json:"is_company"`
	// Promo records the marketing opt-in checkbox.
	Promo bool `json:"promo"`
}

// SignupResponse wraps the newly created account.
type SignupResponse struct {
	User *domain.User `json:"user"`
}

// LoginRequest is the JSON payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// ForgotPasswordRequest is the JSON payload requesting a reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the JSON payload completing a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

//
// Handlers
//

// Signup godoc
// @ID          signup
// @Summary     Register a new account
// @Description Creates the account and sends a verification email. The account cannot log in until the email is verified.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.SignupRequest true "Registration payload"
// @Success     201 {object} handlers.SignupResponse
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     409 {object} handlers.ErrorResponse "Email already registered"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "valid email and password (min 8 chars) required")
		return
	}

	u, err := h.deps.Auth.Signup(c.Request.Context(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		IsCompany: req.IsCompany,
		Promo:     req.Promo,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSignupFailed, err.Error())
		return
	}

	ok(c, http.StatusCreated, SignupResponse{User: u})
}

// Login godoc
// @ID          login
// @Summary     Exchange credentials for an access token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.LoginRequest true "Credentials"
// @Success     200 {object} handlers.LoginResponse
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     401 {object} handlers.ErrorResponse "Incorrect email or password"
// @Failure     403 {object} handlers.ErrorResponse "Email not verified"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}

	token, err := h.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "incorrect email or password")
		case errors.Is(err, services.ErrNotVerified):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "email not verified")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, LoginResponse{AccessToken: token, TokenType: "bearer"})
}

// VerifyEmail godoc
// @ID          verifyEmail
// @Summary     Confirm an email verification token
// @Description Marks the account verified. The token arrives via the emailed link.
// @Tags        Auth
// @Produce     json
// @Param       token query string true "Verification token"
// @Success     204 "Verified"
// @Failure     400 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router      /auth/verify-email [get]
func (h *Handlers) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "token required")
		return
	}

	if err := h.deps.Auth.VerifyEmail(c.Request.Context(), token); err != nil {
		failAuthToken(c, err)
		return
	}
	noContent(c)
}

// ForgotPassword godoc
// @ID          forgotPassword
// @Summary     Request a password reset email
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.ForgotPasswordRequest true "Account email"
// @Success     204 "Reset email sent"
// @Failure     404 {object} handlers.ErrorResponse "Email not found"
// @Router      /auth/forgot-password [post]
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "valid email required")
		return
	}

	if err := h.deps.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "email not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ResetPassword godoc
// @ID          resetPassword
// @Summary     Set a new password using a reset token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.ResetPasswordRequest true "Reset payload"
// @Success     204 "Password updated"
// @Failure     400 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router      /auth/reset-password [post]
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "token and new_password (min 8 chars) required")
		return
	}

	if err := h.deps.Auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		failAuthToken(c, err)
		return
	}
	noContent(c)
}

// failAuthToken maps token-bearing auth flows onto the error envelope.
func failAuthToken(c *gin.Context, err error) {
	switch {
	case errors.Is(err, security.ErrInvalidToken):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid or expired token")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid or expired token")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
