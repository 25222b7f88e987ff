// Package account implements the user-initiated account flows: password
// reset and accepting the terms of service.
package account

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/logging"
)

// MinPasswordLength is the shortest password the reset form accepts.
const MinPasswordLength = 6

// Service defines the account actions exposed to the CLI.
//
// Input problems are returned as *common.ValidationError so the caller can
// show them next to the offending field. Backend failures are returned
// wrapped and are never swallowed.
type Service interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password, confirmation string) error
	AcceptTerms(ctx context.Context, userID string) error
}

type service struct {
	auth     backend.Authenticator
	profiles backend.ProfileDirectory
	log      logging.Logger
}

func NewService(auth backend.Authenticator, profiles backend.ProfileDirectory, log logging.Logger) Service {
	return &service{auth: auth, profiles: profiles, log: log}
}

// ValidateEmail reports whether email is a bare address like a@b.c.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return common.Invalid("email", "must not be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return common.Invalid("email", "is not a valid address")
	}
	return nil
}

// ValidateNewPassword checks the reset form fields.
func ValidateNewPassword(password, confirmation string) error {
	if password == "" {
		return common.Invalid("password", "must not be empty")
	}
	if password != confirmation {
		return common.Invalid("confirmation", "passwords do not match")
	}
	if len([]rune(password)) < MinPasswordLength {
		return common.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := s.auth.RequestPasswordReset(ctx, strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	s.log.Info(ctx, "password reset requested")
	return nil
}

func (s *service) ResetPassword(ctx context.Context, password, confirmation string) error {
	if err := ValidateNewPassword(password, confirmation); err != nil {
		return err
	}
	if err := s.auth.UpdatePassword(ctx, password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.log.Info(ctx, "password updated")
	return nil
}

func (s *service) AcceptTerms(ctx context.Context, userID string) error {
	if userID == "" {
		return common.ErrNoSession
	}
	if err := s.profiles.AcceptTerms(ctx, userID); err != nil {
		return fmt.Errorf("accept terms: %w", err)
	}
	s.log.Info(ctx, "terms accepted", "user_id", userID)
	return nil
}
