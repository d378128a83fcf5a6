package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace/internal/validation"
)

type GetUserUseCase struct {
	userRepo repository.UserRepository
}

func NewGetUserUseCase(userRepo repository.UserRepository) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return uc.userRepo.FindByID(ctx, userID)
}

type ListUsersUseCase struct {
	userRepo repository.UserRepository
}

func NewListUsersUseCase(userRepo repository.UserRepository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx)
}

type UpdateProfileUseCase struct {
	userRepo repository.UserRepository
}

func NewUpdateProfileUseCase(userRepo repository.UserRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: userRepo}
}

// Execute обновляет профиль. Изменять можно только свой профиль.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, actor policy.Actor, userID uuid.UUID, patch entity.ProfilePatch) (*entity.User, error) {
	if actor.ID != userID {
		return nil, apperror.ErrForbidden
	}

	if err := validatePatch(patch); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Apply(patch); err != nil {
		return nil, err
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validatePatch(patch entity.ProfilePatch) error {
	if patch.Name != "" {
		if err := validation.ValidateName(patch.Name); err != nil {
			return err
		}
	}
	if patch.Email != "" {
		if err := validation.ValidateEmail(patch.Email); err != nil {
			return err
		}
	}
	if err := validation.ValidateProfileText(patch.Bio, patch.CompanyName, patch.Location); err != nil {
		return err
	}
	return validation.ValidateAvatarURL(patch.Avatar)
}
