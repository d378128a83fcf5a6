package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/user"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	u := entity.NewUser("Денис", "denis@example.com", "hash", valueobject.RoleFreelancer)
	require.NoError(t, store.Users().Create(ctx, u))
	other := entity.NewUser("Вера", "vera@example.com", "hash", valueobject.RoleClient)
	require.NoError(t, store.Users().Create(ctx, other))

	uc := user.NewUpdateProfileUseCase(store.Users())
	self := policy.Actor{ID: u.ID, Role: u.Role}

	updated, err := uc.Execute(ctx, self, u.ID, entity.ProfilePatch{Bio: "Backend на Go", Skills: []string{"Go", "Redis"}})
	require.NoError(t, err)
	assert.Equal(t, "Backend на Go", updated.Profile.Bio)
	assert.Equal(t, []string{"Go", "Redis"}, updated.Profile.Skills)

	stored, err := user.NewGetUserUseCase(store.Users()).Execute(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", stored.PasswordHash)
	assert.Equal(t, []string{"Go", "Redis"}, stored.Profile.Skills)

	_, err = uc.Execute(ctx, policy.Actor{ID: other.ID, Role: other.Role}, u.ID, entity.ProfilePatch{Bio: "чужой"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = uc.Execute(ctx, self, u.ID, entity.ProfilePatch{Email: "vera@example.com"})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)

	_, err = uc.Execute(ctx, self, u.ID, entity.ProfilePatch{Email: "broken"})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, policy.Actor{ID: uuid.Nil}, uuid.Nil, entity.ProfilePatch{})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(ctx, entity.NewUser("Один", "one@example.com", "hash", valueobject.RoleClient)))
	require.NoError(t, store.Users().Create(ctx, entity.NewUser("Два", "two@example.com", "hash", valueobject.RoleFreelancer)))

	users, err := user.NewListUsersUseCase(store.Users()).Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
