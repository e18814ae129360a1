package service

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/carelog/internal/models"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	if user.APIToken == "" || len(user.APIToken) != 64 {
		t.Errorf("unexpected token %q", user.APIToken)
	}

	_, err := svc.CreateUser(ctx, models.UserInput{Name: "Again", Email: user.Email})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate email error = %v, want ErrDuplicateUser", err)
	}

	_, err = svc.CreateUser(ctx, models.UserInput{Name: "", Email: "not-an-email"})
	assertValidation(t, err, "name")
	assertValidation(t, err, "email")
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	got, err := svc.Authenticate(ctx, user.APIToken)
	if err != nil || got.ID != user.ID {
		t.Errorf("Authenticate() = %+v, %v", got, err)
	}

	for _, token := range []string{"", "wrong"} {
		if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Authenticate(%q) error = %v, want ErrUnauthorized", token, err)
		}
	}

	rotated, err := svc.RotateToken(ctx, user.ID)
	if err != nil {
		t.Fatalf("RotateToken failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, user.APIToken); !errors.Is(err, ErrUnauthorized) {
		t.Error("old token still authenticates")
	}
	if _, err := svc.Authenticate(ctx, rotated); err != nil {
		t.Errorf("rotated token rejected: %v", err)
	}
}

func TestResolveUser(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	tests := []struct {
		ref     string
		wantErr bool
	}{
		{user.ID, false},
		{user.Email, false},
		{"missing@example.com", true},
		{"missing-id", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := svc.ResolveUser(ctx, tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("ResolveUser(%q) error = %v, want ErrNotFound", tt.ref, err)
				}
				return
			}
			if err != nil || got.ID != user.ID {
				t.Errorf("ResolveUser(%q) = %+v, %v", tt.ref, got, err)
			}
		})
	}
}
