package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/validation"
)

// CreateUser registers a user and issues an API token
func (s *Service) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if errs := validation.User(in); errs.HasErrors() {
		return models.User{}, errs
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		APIToken:  newToken(),
		CreatedAt: s.now(),
	}
	if err := s.store.AddUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate resolves the user owning an API token
func (s *Service) Authenticate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUnauthorized
	}
	user, err := s.store.GetUserByToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, ErrUnauthorized
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to authenticate: %w", err)
	}
	return user, nil
}

// ResolveUser finds a user by id or, when ref looks like an address, by email
func (s *Service) ResolveUser(ctx context.Context, ref string) (models.User, error) {
	var (
		user models.User
		err  error
	)
	if strings.Contains(ref, "@") {
		user, err = s.store.GetUserByEmail(ctx, ref)
	} else {
		user, err = s.store.GetUser(ctx, ref)
	}
	if err != nil {
		return models.User{}, notFound(err, "user "+ref)
	}
	return user, nil
}

// ListUsers returns every registered user
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.GetAllUsers(ctx)
}

// RotateToken replaces a user's API token and returns the new one
func (s *Service) RotateToken(ctx context.Context, userID string) (string, error) {
	token := newToken()
	if err := s.store.UpdateUserToken(ctx, userID, token); err != nil {
		return "", notFound(err, "user")
	}
	return token, nil
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
