package mail

import (
	"strings"
	"testing"

	"github.com/morseverse/backend/internal/config"
	"github.com/morseverse/backend/internal/domain"
)

func TestNew_FromHeader(t *testing.T) {
	m := New(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "no-reply@example.com",
	})
	if m.from != "no-reply@example.com" {
		t.Fatalf("from = %q", m.from)
	}

	m = New(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "no-reply@example.com",
		FromName: "MorseVerse",
	})
	if m.from != "MorseVerse <no-reply@example.com>" {
		t.Fatalf("from with name = %q", m.from)
	}
}

func TestVerificationBody_ContainsLink(t *testing.T) {
	body, err := VerificationBody("https://example.com/verify?token=abc123")
	if err != nil {
		t.Fatalf("VerificationBody: %v", err)
	}
	if !strings.Contains(body, `href="https://example.com/verify?token=abc123"`) {
		t.Fatalf("body missing link: %s", body)
	}
	if !strings.Contains(body, "Verify Email") {
		t.Fatalf("body missing call to action: %s", body)
	}
}

func TestResetBody_ContainsLink(t *testing.T) {
	body, err := ResetBody("https://example.com/reset?token=tok")
	if err != nil {
		t.Fatalf("ResetBody: %v", err)
	}
	if !strings.Contains(body, `href="https://example.com/reset?token=tok"`) {
		t.Fatalf("body missing link: %s", body)
	}
	if !strings.Contains(body, "Reset my password") {
		t.Fatalf("body missing call to action: %s", body)
	}
}

func TestDemoBody_RendersFieldsAndEscapes(t *testing.T) {
	d := &domain.DemoRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Website:        "https://ada.example",
		Country:        "UK",
		CommunityScale: "100-500",
		Message:        "<script>alert(1)</script>",
		Goals:          "evaluate tours",
	}
	body, err := DemoBody(d)
	if err != nil {
		t.Fatalf("DemoBody: %v", err)
	}
	for _, want := range []string{
		"Ada Lovelace",
		"ada@example.com",
		"https://ada.example",
		"UK",
		"100-500",
		"evaluate tours",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}
	// html/template must escape user input.
	if strings.Contains(body, "<script>") {
		t.Fatalf("unescaped markup in body: %s", body)
	}
}
