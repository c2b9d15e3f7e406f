package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
)

func TestUserServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(repository.NewUserRepository(newTestDB(t)))

	user, err := svc.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != model.UserRoleUser || !user.IsActive {
		t.Fatalf("unexpected defaults: role=%s active=%v", user.Role, user.IsActive)
	}
	if user.PasswordHash == "password1" || !auth.CheckPassword(user.PasswordHash, "password1") {
		t.Fatal("password not hashed")
	}

	if _, err := svc.Create(ctx, CreateUserInput{Name: "Other", Email: "ana@example.com", Password: "password2"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}

	role := model.UserRoleAdmin
	inactive := false
	password := "new-password"
	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{Role: &role, IsActive: &inactive, Password: &password})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != model.UserRoleAdmin || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}

	reloaded, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.IsActive || !auth.CheckPassword(reloaded.PasswordHash, "new-password") {
		t.Fatalf("update not persisted: %+v", reloaded)
	}

	bad := model.UserRole("ROOT")
	if _, err := svc.Update(ctx, user.ID, UpdateUserInput{Role: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad role, got %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), UpdateUserInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}
