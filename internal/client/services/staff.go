package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aircontrol/internal/client/gateway"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
)

// StaffService registers technicians and user accounts. These calls never
// fall back to local storage.
type StaffService interface {
	RegisterTechnician(ctx context.Context, form models.TechnicianForm) error
	// RegisterUser is restricted to administrators.
	RegisterUser(ctx context.Context, form models.UserForm) error
}

type staffService struct {
	api  gateway.API
	auth AuthService
}

func NewStaffService(api gateway.API, auth AuthService) StaffService {
	return &staffService{api: api, auth: auth}
}

func normalizeStaffRole(role string) (string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return models.RoleTechnician, nil
	}
	for _, r := range models.Roles {
		if strings.EqualFold(r, role) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
}

func (s *staffService) RegisterTechnician(ctx context.Context, form models.TechnicianForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	if form.Name == "" || form.Email == "" {
		return fmt.Errorf("%w: name and email are required", models.ErrValidation)
	}
	role, err := normalizeStaffRole(form.Role)
	if err != nil {
		return err
	}
	form.Role = role

	if err := s.api.CreateTechnician(ctx, form); err != nil {
		if gateway.IsConflict(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("save technician: %w", err)
	}
	return nil
}

func (s *staffService) RegisterUser(ctx context.Context, form models.UserForm) error {
	if _, err := s.auth.RequireRole(ctx, models.RoleAdmin); err != nil {
		return err
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	if form.Name == "" || form.Email == "" || form.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", models.ErrValidation)
	}
	role, err := normalizeStaffRole(form.Role)
	if err != nil {
		return err
	}
	form.Role = role

	if err := s.api.RegisterUser(ctx, form); err != nil {
		if gateway.IsConflict(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}
