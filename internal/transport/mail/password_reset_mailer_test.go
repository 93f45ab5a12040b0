package mail

import (
	"context"
	"strings"
	"testing"
)

func TestRenderResetBodyContainsLink(t *testing.T) {
	link := "https://app.example.com/resetpassword/abc123"
	body, err := renderResetBody(link)
	if err != nil {
		t.Fatalf("renderResetBody returned error: %v", err)
	}
	if !strings.Contains(body, link) {
		t.Fatalf("expected body to contain the reset link")
	}
	if !strings.Contains(body, "Reset Password") {
		t.Fatalf("expected body to contain the button label")
	}
}

func TestRenderResetBodyEscapesHTML(t *testing.T) {
	body, err := renderResetBody(`https://app.example.com/resetpassword/"><script>`)
	if err != nil {
		t.Fatalf("renderResetBody returned error: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected link to be escaped, got %q", body)
	}
}

func TestSendPasswordResetMissingConfiguration(t *testing.T) {
	mailer := NewPasswordResetMailer("", "", "", "", "")
	if err := mailer.SendPasswordReset(context.Background(), "a@example.com", "https://x/resetpassword/s"); err == nil {
		t.Fatalf("expected error for unconfigured mailer")
	}
}

func TestSendPasswordResetHonorsCancelledContext(t *testing.T) {
	mailer := NewPasswordResetMailer("smtp.example.com", "587", "user", "pass", "noreply@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := mailer.SendPasswordReset(ctx, "a@example.com", "https://x/resetpassword/s"); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
