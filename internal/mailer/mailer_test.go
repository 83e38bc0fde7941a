package mailer

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"testing"

	"github.com/aulalink/lms-service/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.Default())
}

func TestVerificationMessage(t *testing.T) {
	to := mail.Address{Name: "Ana Torres", Address: "ana@example.com"}
	msg := VerificationMessage(to, "Ana", "https://app.example.com/confirm?token=abc")

	if msg.To != to {
		t.Errorf("unexpected recipient: %+v", msg.To)
	}
	if !strings.Contains(msg.TextContent, "https://app.example.com/confirm?token=abc") {
		t.Error("text content missing confirmation link")
	}
	if !strings.Contains(msg.HTMLContent, `href="https://app.example.com/confirm?token=abc"`) {
		t.Error("html content missing confirmation link")
	}
}

func TestRecoveryMessage(t *testing.T) {
	to := mail.Address{Address: "b@example.com"}
	msg := RecoveryMessage(to, "B", "https://app.example.com/reset?token=xyz")

	if !strings.Contains(msg.Subject, "contraseña") {
		t.Errorf("unexpected subject: %s", msg.Subject)
	}
	if !strings.Contains(msg.TextContent, "https://app.example.com/reset?token=xyz") {
		t.Error("text content missing reset link")
	}
}

func TestConsoleEmailServiceRecordsSends(t *testing.T) {
	svc := NewConsoleEmailService(testLogger())

	msg := VerificationMessage(mail.Address{Address: "c@example.com"}, "C", "https://app.example.com/confirm")
	if err := svc.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := svc.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 sent message, got %d", len(sent))
	}
	if sent[0].To.Address != "c@example.com" {
		t.Errorf("unexpected recipient: %s", sent[0].To.Address)
	}
}
