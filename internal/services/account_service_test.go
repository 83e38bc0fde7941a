package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/mailer"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/validator"
)

type recordingMailer struct {
	sent    []*mailer.Message
	sendErr error
}

func (m *recordingMailer) Send(ctx context.Context, msg *mailer.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func accountFixture(repo *mockRepository, email *recordingMailer) AccountService {
	return NewAccountService(repo, testLogger(), validator.New(), events.NewMockEventPublisher(testLogger()), email, "https://aulalink.dev")
}

func TestRegisterCreatesStudentProfile(t *testing.T) {
	repo := newMockRepository()
	email := &recordingMailer{}
	svc := accountFixture(repo, email)

	result, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "Ana.Garcia@Example.com",
		Password:  "segura-123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if result.Role != models.RoleStudent {
		t.Errorf("expected new accounts to default to student, got %s", result.Role)
	}
	if result.Email != "ana.garcia@example.com" {
		t.Errorf("expected normalized email, got %s", result.Email)
	}

	profile, err := repo.profile.GetByID(context.Background(), result.UserID)
	if err != nil {
		t.Fatalf("profile row missing after registration: %v", err)
	}
	if profile.FullName != "Ana García" {
		t.Errorf("unexpected full name %q", profile.FullName)
	}

	if len(email.sent) != 1 {
		t.Fatalf("expected 1 verification email, got %d", len(email.sent))
	}
	if !strings.Contains(email.sent[0].TextContent, "https://aulalink.dev/confirmar-correo") {
		t.Errorf("verification email missing confirmation link: %q", email.sent[0].TextContent)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	repo.profile.profiles["u1"] = &models.Profile{ID: "u1", Email: "ana@example.com", Role: models.RoleStudent}
	svc := accountFixture(repo, &recordingMailer{})

	_, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Password:  "segura-123",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if len(repo.identity.createdEmails) != 0 {
		t.Errorf("no identity should be created for a duplicate email")
	}
}

func TestRegisterSurvivesEmailFailure(t *testing.T) {
	repo := newMockRepository()
	email := &recordingMailer{sendErr: errors.New("smtp down")}
	svc := accountFixture(repo, email)

	result, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Password:  "segura-123",
	})
	if err != nil {
		t.Fatalf("registration must stand when the email fails: %v", err)
	}
	if _, err := repo.profile.GetByID(context.Background(), result.UserID); err != nil {
		t.Errorf("profile row missing: %v", err)
	}
}

func TestRecoveryHidesUnknownEmail(t *testing.T) {
	repo := newMockRepository()
	email := &recordingMailer{}
	svc := accountFixture(repo, email)

	// Unknown addresses succeed silently so callers cannot probe which
	// emails are registered.
	err := svc.RequestPasswordRecovery(context.Background(), &RecoverRequest{Email: "nadie@example.com"})
	if err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}
	if len(email.sent) != 0 {
		t.Errorf("no email should be sent for an unknown address")
	}
}

func TestRecoverySendsResetLink(t *testing.T) {
	repo := newMockRepository()
	repo.profile.profiles["u1"] = &models.Profile{
		ID:        "u1",
		FirstName: "Ana",
		FullName:  "Ana García",
		Email:     "ana@example.com",
		Role:      models.RoleStudent,
	}
	email := &recordingMailer{}
	svc := accountFixture(repo, email)

	if err := svc.RequestPasswordRecovery(context.Background(), &RecoverRequest{Email: "Ana@Example.com"}); err != nil {
		t.Fatalf("recovery failed: %v", err)
	}

	if len(email.sent) != 1 {
		t.Fatalf("expected 1 recovery email, got %d", len(email.sent))
	}
	if !strings.Contains(email.sent[0].TextContent, "https://aulalink.dev/restablecer-contrasena?user=u1") {
		t.Errorf("recovery email missing reset link: %q", email.sent[0].TextContent)
	}
}

func TestResetPasswordDelegatesToProvider(t *testing.T) {
	repo := newMockRepository()
	svc := accountFixture(repo, &recordingMailer{})

	err := svc.ResetPassword(context.Background(), &ResetPasswordRequest{
		UserID:      "u1",
		NewPassword: "nueva-clave-9",
	})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if repo.identity.passwordSets["u1"] != "nueva-clave-9" {
		t.Errorf("password not applied at the provider")
	}
}

func TestResetPasswordValidatesLength(t *testing.T) {
	repo := newMockRepository()
	svc := accountFixture(repo, &recordingMailer{})

	err := svc.ResetPassword(context.Background(), &ResetPasswordRequest{
		UserID:      "u1",
		NewPassword: "corta",
	})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}
