// Package security wraps the password-hashing and token primitives the auth
// flows depend on: bcrypt for credentials and HS256 JWTs for access,
// email-verification, and password-reset tokens. The primitives themselves
// are delegated to golang.org/x/crypto and github.com/golang-jwt/jwt; this
// package only fixes the claim shape and signing configuration.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned when a token fails signature or expiry checks,
// or does not carry the expected user claim.
var ErrInvalidToken = errors.New("invalid or expired token")

// HashPassword hashes a plain-text password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// TokenPurpose discriminates the application's token classes. An emailed
// verification or reset token must never double as a bearer access token,
// so every token carries its purpose as a claim and Parse enforces it.
type TokenPurpose string

// The three token classes the auth flows issue.
const (
	PurposeAccess TokenPurpose = "access"
	PurposeVerify TokenPurpose = "verify"
	PurposeReset  TokenPurpose = "reset"
)

// TokenIssuer creates and parses the application's JWTs. All tokens carry a
// "user_id" claim, a "purpose" claim, and an expiry.
type TokenIssuer struct {
	Secret []byte
}

// NewTokenIssuer constructs a TokenIssuer for the given HS256 signing key.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{Secret: []byte(secret)}
}

// Issue creates a signed token for userID bound to purpose that expires
// after ttl.
func (t *TokenIssuer) Issue(userID string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": string(purpose),
		"exp":     jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.Secret)
}

// Parse validates a token against the expected purpose and returns the
// user_id claim. Expired tokens, bad signatures, unexpected signing methods,
// missing user_id, and purpose mismatches all yield ErrInvalidToken.
func (t *TokenIssuer) Parse(token string, purpose TokenPurpose) (string, error) {
	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if p, _ := claims["purpose"].(string); p != string(purpose) {
		return "", ErrInvalidToken
	}
	uid, _ := claims["user_id"].(string)
	if uid == "" {
		return "", ErrInvalidToken
	}
	return uid, nil
}
