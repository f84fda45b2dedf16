// Package user implements user commands with the case-insensitive
// duplicate-email guard. Passwords are opaque values stored as-is; hashing
// belongs to the caller.
package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase/rules"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{users: users, logger: logger}
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "email is required")
	}
	if err := uc.checkDuplicateEmail(ctx, email, ""); err != nil {
		return nil, err
	}

	created, err := uc.users.Create(ctx, &domain.User{
		Name:     input.Name,
		Email:    email,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user created", zap.String("user_id", created.ID))
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil && !strings.EqualFold(*input.Email, user.Email) {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "email is required")
		}
		if err := uc.checkDuplicateEmail(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Password != nil {
		user.Password = *input.Password
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.users.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.users.Delete(ctx, id)
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *UseCase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.users.GetByEmail(ctx, email)
}

func (uc *UseCase) List(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

func (uc *UseCase) checkDuplicateEmail(ctx context.Context, email, excludeID string) error {
	existing, err := uc.users.List(ctx)
	if err != nil {
		return err
	}
	named := make([]rules.Named, len(existing))
	for i, u := range existing {
		named[i] = rules.Named{ID: u.ID, Value: u.Email}
	}
	if rules.IsDuplicate(email, excludeID, named) {
		return domain.NewDuplicate("user", "email", email)
	}
	return nil
}
