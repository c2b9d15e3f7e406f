package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/model"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
	IsActive *bool
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *model.UserRole
	IsActive *bool
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, translateStoreError(err, "list users")
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "get user")
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	role := input.Role
	if role == "" {
		role = model.UserRoleUser
	}
	if !role.Valid() {
		return nil, invalidField("role", "must be one of USER ADMIN MANAGER")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateStoreError(err, "create user")
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "get user")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, invalidField("role", "must be one of USER ADMIN MANAGER")
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateStoreError(err, "update user")
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return translateStoreError(s.users.Delete(ctx, id), "delete user")
}
