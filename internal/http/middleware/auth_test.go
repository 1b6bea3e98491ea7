package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/morseverse/backend/internal/security"
)

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/me", func(c *gin.Context) {
		uid, _ := c.Get("userID")
		s, _ := uid.(string)
		c.String(http.StatusOK, s)
	})
	return r
}

func issueToken(t *testing.T, issuer *security.TokenIssuer, userID string) string {
	t.Helper()
	tok, err := issuer.Issue(userID, security.PurposeAccess, time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func TestRequireAuth(t *testing.T) {
	issuer := security.NewTokenIssuer("mw-test-secret")
	r := authTestRouter(RequireAuth(issuer))

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got == "" {
			t.Fatalf("missing WWW-Authenticate header")
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body["code"] != "unauthorized" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("malformed scheme", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := security.NewTokenIssuer("other-secret")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, other, "u1"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("verification token rejected", func(t *testing.T) {
		// An emailed verification link token must not work as a bearer
		// credential, even though it is signed with the same key.
		tok, err := issuer.Issue("u1", security.PurposeVerify, 24*time.Hour)
		if err != nil {
			t.Fatalf("issue verify token: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("reset token rejected", func(t *testing.T) {
		tok, err := issuer.Issue("u1", security.PurposeReset, time.Hour)
		if err != nil {
			t.Fatalf("issue reset token: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("valid token sets userID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, issuer, "u42"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if w.Body.String() != "u42" {
			t.Fatalf("userID = %q, want u42", w.Body.String())
		}
	})

	t.Run("case-insensitive scheme", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "bearer "+issueToken(t, issuer, "u42"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	issuer := security.NewTokenIssuer("mw-test-secret")
	r := authTestRouter(OptionalAuth(issuer))

	t.Run("anonymous passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if w.Body.String() != "" {
			t.Fatalf("expected no userID for anonymous request, got %q", w.Body.String())
		}
	})

	t.Run("bad token ignored", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.String() != "" {
			t.Fatalf("bad token must be ignored: %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("valid token resolved", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, issuer, "u7"))
		r.ServeHTTP(w, req)
		if w.Body.String() != "u7" {
			t.Fatalf("userID = %q, want u7", w.Body.String())
		}
	})
}
