package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/mailer"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/validator"
)

type accountService struct {
	repo            repositories.Repository
	logger          *slog.Logger
	validator       *validator.Validator
	publisher       events.EventPublisher
	email           mailer.EmailService
	frontendBaseURL string
}

func NewAccountService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	email mailer.EmailService,
	frontendBaseURL string,
) AccountService {
	return &accountService{
		repo:            repo,
		logger:          logger,
		validator:       validator,
		publisher:       publisher,
		email:           email,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

// Register creates the identity at the auth provider, mirrors it into a
// profile row, and sends the email confirmation link. New accounts
// always start as students; only an admin can promote them later.
func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.Profile().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	}

	displayName := strings.TrimSpace(req.FirstName + " " + req.LastName)
	role := models.RoleStudent

	userID, err := s.repo.Identity().Create(ctx, email, req.Password, displayName, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	profile := &models.Profile{
		ID:        userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		FullName:  displayName,
		Email:     email,
		Role:      role,
	}
	if err := s.repo.Profile().Upsert(ctx, profile); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", userID, "email", email)

	confirmURL := fmt.Sprintf("%s/confirmar-correo?user=%s", s.frontendBaseURL, userID)
	msg := mailer.VerificationMessage(mail.Address{Name: displayName, Address: email}, req.FirstName, confirmURL)
	if err := s.email.Send(ctx, msg); err != nil {
		// Registration stands; the user can request the email again.
		s.logger.WarnContext(ctx, "failed to send verification email", "user_id", userID, "error", err)
	}

	event := events.NewEvent(events.EventUserRegistered, map[string]string{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish registration event", "error", err)
	}

	return &RegisterResult{
		UserID:  userID,
		Email:   email,
		Role:    role,
		Profile: profile,
	}, nil
}

// RequestPasswordRecovery sends the reset link when the address is
// known. Unknown addresses are not an error, so callers cannot probe
// which emails are registered.
func (s *accountService) RequestPasswordRecovery(ctx context.Context, req *RecoverRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	profile, err := s.repo.Profile().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(mapRepoError(err), ErrNotFound) {
			s.logger.InfoContext(ctx, "recovery requested for unknown email")
			return nil
		}
		return mapRepoError(err)
	}

	resetURL := fmt.Sprintf("%s/restablecer-contrasena?user=%s", s.frontendBaseURL, profile.ID)
	msg := mailer.RecoveryMessage(mail.Address{Name: profile.FullName, Address: profile.Email}, profile.FirstName, resetURL)
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send recovery email: %w", err)
	}

	s.logger.InfoContext(ctx, "recovery email sent", "user_id", profile.ID)
	return nil
}

// ResetPassword applies the new password at the auth provider.
func (s *accountService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	if err := s.repo.Identity().SetPassword(ctx, req.UserID, req.NewPassword); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset applied", "user_id", req.UserID)
	return nil
}

func (s *accountService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return profile, nil
}
