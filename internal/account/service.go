package account

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/sirupsen/logrus"
)

var (
	ErrFieldsRequired   = errors.New("all fields are required")
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")
)

type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

type AccountAPI interface {
	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error
	GetDashboard(ctx context.Context) (*domain.Overview, error)
	UploadImage(ctx context.Context, filename string, file io.Reader) (string, error)
}

// UserUpdater receives profile changes accepted by the server.
type UserUpdater interface {
	UpdateUser(updated domain.User)
}

type ProfileUpdate struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Picture *string `json:"picture"`
}

type PasswordChange struct {
	Old     string `json:"old_password"`
	New     string `json:"new_password"`
	Confirm string `json:"confirm_password"`
}

func (c PasswordChange) Validate() error {
	if c.Old == "" || c.New == "" || c.Confirm == "" {
		return &ValidationError{Err: ErrFieldsRequired}
	}
	if c.New != c.Confirm {
		return &ValidationError{Err: ErrPasswordMismatch}
	}
	return nil
}

type Service struct {
	api   AccountAPI
	users UserUpdater
	log   logrus.FieldLogger
}

func NewService(api AccountAPI, users UserUpdater, log logrus.FieldLogger) *Service {
	return &Service{api: api, users: users, log: log.WithField("component", "account")}
}

func (s *Service) Profile(ctx context.Context) (*domain.User, error) {
	return s.api.GetProfile(ctx)
}

// Dashboard degrades to zero counters when the server cannot be read.
func (s *Service) Dashboard(ctx context.Context) domain.Overview {
	overview, err := s.api.GetDashboard(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load dashboard")
		return domain.Overview{}
	}
	return *overview
}

// UpdateProfile sends the change and, once accepted, merges the submitted
// fields into the signed-in user.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	returned, err := s.api.UpdateProfile(ctx, api.UpdateProfileRequest{
		Name:    update.Name,
		Email:   update.Email,
		Picture: update.Picture,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	merged := domain.User{Name: update.Name, Email: update.Email, Picture: update.Picture}
	if returned != nil {
		merged.UpdatedAt = returned.UpdatedAt
	}
	s.users.UpdateUser(merged)
	return returned, nil
}

func (s *Service) ChangePassword(ctx context.Context, change PasswordChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	if err := s.api.ChangePassword(ctx, api.ChangePasswordRequest{
		OldPassword: change.Old,
		NewPassword: change.New,
	}); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	s.log.Info("password changed")
	return nil
}

// UploadImage stores a picture and returns its public URL. The profile is
// not changed until UpdateProfile is called with that URL.
func (s *Service) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	url, err := s.api.UploadImage(ctx, filename, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}
