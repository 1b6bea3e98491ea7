package security

import (
	"errors"
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret!" || hash == "" {
		t.Fatalf("hash = %q", hash)
	}
	if !VerifyPassword("s3cret!", hash) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("s3cret!", "not-a-bcrypt-hash") {
		t.Fatal("garbage hash accepted")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	iss := NewTokenIssuer("k1")
	tok, err := iss.Issue("66b2a7f4c0ffee0001abcdef", PurposeAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	uid, err := iss.Parse(tok, PurposeAccess)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if uid != "66b2a7f4c0ffee0001abcdef" {
		t.Fatalf("uid = %q", uid)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	iss := NewTokenIssuer("k1")
	tok, err := iss.Issue("u1", PurposeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := iss.Parse(tok, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	tok, err := NewTokenIssuer("k1").Issue("u1", PurposeAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenIssuer("k2").Parse(tok, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_PurposeMismatch(t *testing.T) {
	iss := NewTokenIssuer("k1")
	for _, tc := range []struct {
		issued, expected TokenPurpose
	}{
		{PurposeVerify, PurposeAccess},
		{PurposeReset, PurposeAccess},
		{PurposeAccess, PurposeReset},
		{PurposeAccess, PurposeVerify},
		{PurposeVerify, PurposeReset},
	} {
		tok, err := iss.Issue("u1", tc.issued, time.Hour)
		if err != nil {
			t.Fatalf("Issue(%s): %v", tc.issued, err)
		}
		if _, err := iss.Parse(tok, tc.expected); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s token accepted as %s token: %v", tc.issued, tc.expected, err)
		}
		// Same token still works for its own purpose.
		if uid, err := iss.Parse(tok, tc.issued); err != nil || uid != "u1" {
			t.Fatalf("Parse(%s as %s) = %q, %v", tc.issued, tc.issued, uid, err)
		}
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	iss := NewTokenIssuer("k1")
	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := iss.Parse(tok, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Parse(%q) = %v", tok, err)
		}
	}
}
